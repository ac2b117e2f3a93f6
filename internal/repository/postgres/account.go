package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/recoveryd/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

const uniqueViolation = "23505"

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) error {
	const insertAccount = `
        INSERT INTO accounts (name, creator, created_at, updated_at)
        VALUES ($1, $2, $3, $3)
    `
	const insertPermission = `
        INSERT INTO permissions (account, name, parent, authority)
        VALUES ($1, $2, $3, $4)
    `

	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		q := r.db.querier(ctx)

		if _, err := q.Exec(ctx, insertAccount, account.Name, account.Creator, account.CreatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", model.ErrAccountExists, account.Name)
			}
			return fmt.Errorf("failed to create account: %w", err)
		}

		for _, perm := range account.Permissions {
			authority, err := json.Marshal(perm.Authority)
			if err != nil {
				return fmt.Errorf("failed to marshal %s authority: %w", perm.Name, err)
			}
			if _, err := q.Exec(ctx, insertPermission, account.Name, perm.Name, perm.Parent, authority); err != nil {
				return fmt.Errorf("failed to create permission %s: %w", perm.Name, err)
			}
		}
		return nil
	})
}

func (r *AccountRepository) GetByName(ctx context.Context, name model.AccountName) (model.Account, error) {
	const selectAccount = `
        SELECT name, creator, created_at, updated_at
        FROM accounts WHERE name = $1
    `
	const selectPermissions = `
        SELECT name, parent, authority
        FROM permissions WHERE account = $1
    `

	q := r.db.querier(ctx)

	var account model.Account
	err := q.QueryRow(ctx, selectAccount, name).Scan(
		&account.Name, &account.Creator, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, fmt.Errorf("%w: %s", model.ErrAccountNotFound, name)
		}
		return model.Account{}, fmt.Errorf("failed to get account by name: %w", err)
	}

	rows, err := q.Query(ctx, selectPermissions, name)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get permissions: %w", err)
	}
	defer rows.Close()

	account.Permissions = make(map[model.PermissionName]model.Permission)
	for rows.Next() {
		var (
			perm      model.Permission
			authority []byte
		)
		if err := rows.Scan(&perm.Name, &perm.Parent, &authority); err != nil {
			return model.Account{}, fmt.Errorf("failed to scan permission: %w", err)
		}
		if err := json.Unmarshal(authority, &perm.Authority); err != nil {
			return model.Account{}, fmt.Errorf("failed to unmarshal %s authority: %w", perm.Name, err)
		}
		account.Permissions[perm.Name] = perm
	}
	if err := rows.Err(); err != nil {
		return model.Account{}, fmt.Errorf("failed to iterate permissions: %w", err)
	}

	return account, nil
}

// ReplaceOwner overwrites the owner permission row and touches the account in
// one statement.
func (r *AccountRepository) ReplaceOwner(ctx context.Context, name model.AccountName, authority model.Authority, at time.Time) error {
	const query = `
        WITH replaced AS (
            UPDATE permissions SET authority = $2
            WHERE account = $1 AND name = 'owner'
            RETURNING account
        )
        UPDATE accounts SET updated_at = $3
        WHERE name IN (SELECT account FROM replaced)
    `

	raw, err := json.Marshal(authority)
	if err != nil {
		return fmt.Errorf("failed to marshal owner authority: %w", err)
	}

	tag, err := r.db.querier(ctx).Exec(ctx, query, name, raw, at)
	if err != nil {
		return fmt.Errorf("failed to replace owner authority: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrAccountNotFound, name)
	}
	return nil
}
