package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/recoveryd/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(_ context.Context, account model.Account) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.accounts[account.Name]; ok {
		return fmt.Errorf("%w: %s", model.ErrAccountExists, account.Name)
	}
	r.db.accounts[account.Name] = account.Clone()
	return nil
}

func (r *AccountRepository) GetByName(_ context.Context, name model.AccountName) (model.Account, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	account, ok := r.db.accounts[name]
	if !ok {
		return model.Account{}, fmt.Errorf("%w: %s", model.ErrAccountNotFound, name)
	}
	return account.Clone(), nil
}

// ReplaceOwner swaps the owner authority under the write lock, so concurrent
// readers see either the old or the new authority.
func (r *AccountRepository) ReplaceOwner(_ context.Context, name model.AccountName, authority model.Authority, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	account, ok := r.db.accounts[name]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrAccountNotFound, name)
	}
	account = account.Clone()

	owner, ok := account.Permissions[model.OwnerPermission]
	if !ok {
		return fmt.Errorf("%w: %s@%s", model.ErrPermissionNotFound, name, model.OwnerPermission)
	}
	owner.Authority = authority.Clone()
	account.Permissions[model.OwnerPermission] = owner
	account.UpdatedAt = at

	r.db.accounts[name] = account
	return nil
}
