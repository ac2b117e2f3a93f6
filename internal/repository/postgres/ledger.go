package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/recoveryd/internal/model"
)

var _ model.LedgerStore = (*LedgerRepository)(nil)

type LedgerRepository struct {
	db *Connection
}

func NewLedgerRepository(db *Connection) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) RecordTransaction(ctx context.Context, id string, blockNum uint32, expiration time.Time) error {
	const query = `INSERT INTO transactions (id, block_num, expiration) VALUES ($1, $2, $3)`

	if _, err := r.db.querier(ctx).Exec(ctx, query, id, int64(blockNum), expiration); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", model.ErrDuplicateTransaction, id)
		}
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (r *LedgerRepository) HasTransaction(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1)`

	var exists bool
	if err := r.db.querier(ctx).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to look up transaction: %w", err)
	}
	return exists, nil
}

func (r *LedgerRepository) PruneTransactions(ctx context.Context, t time.Time) (int, error) {
	const query = `DELETE FROM transactions WHERE expiration <= $1`

	tag, err := r.db.querier(ctx).Exec(ctx, query, t)
	if err != nil {
		return 0, fmt.Errorf("failed to prune transactions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *LedgerRepository) SaveHead(ctx context.Context, head model.Block) error {
	const query = `
        INSERT INTO ledger_head (singleton, num, time) VALUES (TRUE, $1, $2)
        ON CONFLICT (singleton) DO UPDATE SET num = EXCLUDED.num, time = EXCLUDED.time
    `

	if _, err := r.db.querier(ctx).Exec(ctx, query, int64(head.Num), head.Time); err != nil {
		return fmt.Errorf("failed to save head block: %w", err)
	}
	return nil
}

func (r *LedgerRepository) LoadHead(ctx context.Context) (model.Block, error) {
	const query = `SELECT num, time FROM ledger_head WHERE singleton`

	var (
		num  int64
		head model.Block
	)
	if err := r.db.querier(ctx).QueryRow(ctx, query).Scan(&num, &head.Time); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Block{}, model.ErrNotFound
		}
		return model.Block{}, fmt.Errorf("failed to load head block: %w", err)
	}
	head.Num = uint32(num)
	head.Time = head.Time.UTC()
	return head, nil
}
