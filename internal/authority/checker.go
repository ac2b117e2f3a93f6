package authority

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/recoveryd/internal/keys"
	"github.com/dtroode/recoveryd/internal/model"
)

// Checker verifies that a set of signing keys satisfies a permission level as
// currently recorded in the account store.
type Checker struct {
	accounts model.AccountStore
	maxDepth int
}

// NewChecker creates a Checker reading permissions from accounts.
func NewChecker(accounts model.AccountStore, maxDepth int) *Checker {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Checker{accounts: accounts, maxDepth: maxDepth}
}

// Check returns nil if signedBy satisfies level, or an error wrapping
// model.ErrUnauthorized otherwise. A permission is also satisfied by any of
// its ancestors.
func (c *Checker) Check(ctx context.Context, level model.PermissionLevel, signedBy []keys.PublicKey) error {
	ok, err := c.satisfies(ctx, level, NewKeySet(signedBy...), c.maxDepth)
	if errors.Is(err, model.ErrAccountNotFound) || errors.Is(err, model.ErrPermissionNotFound) {
		return fmt.Errorf("%w: %s: %v", model.ErrUnauthorized, level, err)
	}
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", level, err)
	}
	if !ok {
		return fmt.Errorf("%w: signatures do not satisfy %s", model.ErrUnauthorized, level)
	}
	return nil
}

func (c *Checker) satisfies(ctx context.Context, level model.PermissionLevel, signed KeySet, depth int) (bool, error) {
	account, err := c.accounts.GetByName(ctx, level.Actor)
	if err != nil {
		return false, err
	}

	perm, ok := account.Permission(level.Permission)
	if !ok {
		return false, fmt.Errorf("%w: %s", model.ErrPermissionNotFound, level)
	}

	next := func(ctx context.Context, ref model.PermissionLevel, depth int) (bool, error) {
		ok, err := c.satisfies(ctx, ref, signed, depth)
		if errors.Is(err, model.ErrAccountNotFound) || errors.Is(err, model.ErrPermissionNotFound) {
			return false, nil
		}
		return ok, err
	}

	// walk up to owner; each hop is bounded by the account's own permission set
	for visited := 0; visited <= len(account.Permissions); visited++ {
		ok, err := Satisfied(ctx, perm.Authority, signed, next, depth)
		if err != nil || ok {
			return ok, err
		}
		if perm.Parent == "" {
			return false, nil
		}
		perm, ok = account.Permission(perm.Parent)
		if !ok {
			return false, nil
		}
	}
	return false, nil
}
