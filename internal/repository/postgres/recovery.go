package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/recoveryd/internal/model"
)

var _ model.RecoveryStore = (*RecoveryRepository)(nil)

const recoveryColumns = `id, account, new_authority, memo, requested_at, execute_at, status, resolved_at, vetoed_with, transaction_id`

type RecoveryRepository struct {
	db *Connection
}

func NewRecoveryRepository(db *Connection) *RecoveryRepository {
	return &RecoveryRepository{db: db}
}

func (r *RecoveryRepository) Create(ctx context.Context, request model.RecoveryRequest) error {
	const query = `
        INSERT INTO recovery_requests (` + recoveryColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `

	authority, err := json.Marshal(request.NewAuthority)
	if err != nil {
		return fmt.Errorf("failed to marshal new authority: %w", err)
	}

	_, err = r.db.querier(ctx).Exec(ctx, query,
		request.ID, request.Account, authority, request.Memo, request.RequestedAt, request.ExecuteAt,
		request.Status, request.ResolvedAt, request.VetoedWith, request.TransactionID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "recovery_requests_one_pending":
				return fmt.Errorf("%w: %s", model.ErrRecoveryAlreadyPending, request.Account)
			case "recovery_requests_transaction":
				return fmt.Errorf("%w: %s", model.ErrDuplicateTransaction, request.TransactionID)
			}
		}
		return fmt.Errorf("failed to create recovery request: %w", err)
	}
	return nil
}

func (r *RecoveryRepository) GetByID(ctx context.Context, id uuid.UUID) (model.RecoveryRequest, error) {
	const query = `SELECT ` + recoveryColumns + ` FROM recovery_requests WHERE id = $1`

	request, err := scanRecovery(r.db.querier(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RecoveryRequest{}, model.ErrNotFound
		}
		return model.RecoveryRequest{}, fmt.Errorf("failed to get recovery request by id: %w", err)
	}
	return request, nil
}

func (r *RecoveryRepository) GetPending(ctx context.Context, account model.AccountName) (model.RecoveryRequest, error) {
	const query = `SELECT ` + recoveryColumns + ` FROM recovery_requests
        WHERE account = $1 AND status = 'pending'`

	request, err := scanRecovery(r.db.querier(ctx).QueryRow(ctx, query, account))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RecoveryRequest{}, model.ErrNotFound
		}
		return model.RecoveryRequest{}, fmt.Errorf("failed to get pending recovery: %w", err)
	}
	return request, nil
}

func (r *RecoveryRepository) ListPending(ctx context.Context) ([]model.RecoveryRequest, error) {
	const query = `SELECT ` + recoveryColumns + ` FROM recovery_requests
        WHERE status = 'pending' ORDER BY requested_at, id`

	return r.list(ctx, query)
}

func (r *RecoveryRepository) ListByAccount(ctx context.Context, account model.AccountName) ([]model.RecoveryRequest, error) {
	const query = `SELECT ` + recoveryColumns + ` FROM recovery_requests
        WHERE account = $1 ORDER BY requested_at, id`

	return r.list(ctx, query, account)
}

func (r *RecoveryRepository) Resolve(ctx context.Context, id uuid.UUID, status model.RecoveryStatus, vetoedWith model.PermissionName, at time.Time) error {
	const query = `
        UPDATE recovery_requests SET status = $2, vetoed_with = $3, resolved_at = $4
        WHERE id = $1 AND status = 'pending'
    `

	tag, err := r.db.querier(ctx).Exec(ctx, query, id, status, vetoedWith, at)
	if err != nil {
		return fmt.Errorf("failed to resolve recovery request: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s is %s", model.ErrRecoveryNotPending, id, current.Status)
}

func (r *RecoveryRepository) list(ctx context.Context, query string, args ...any) ([]model.RecoveryRequest, error) {
	rows, err := r.db.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recovery requests: %w", err)
	}
	defer rows.Close()

	var out []model.RecoveryRequest
	for rows.Next() {
		request, err := scanRecovery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recovery request: %w", err)
		}
		out = append(out, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recovery requests: %w", err)
	}
	return out, nil
}

func scanRecovery(row pgx.Row) (model.RecoveryRequest, error) {
	var (
		request   model.RecoveryRequest
		authority []byte
	)
	err := row.Scan(
		&request.ID, &request.Account, &authority, &request.Memo, &request.RequestedAt, &request.ExecuteAt,
		&request.Status, &request.ResolvedAt, &request.VetoedWith, &request.TransactionID,
	)
	if err != nil {
		return model.RecoveryRequest{}, err
	}
	if err := json.Unmarshal(authority, &request.NewAuthority); err != nil {
		return model.RecoveryRequest{}, fmt.Errorf("failed to unmarshal new authority: %w", err)
	}
	return request, nil
}
