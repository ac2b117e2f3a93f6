package service

import (
	"context"
	"fmt"

	"github.com/dtroode/recoveryd/internal/keys"
	"github.com/dtroode/recoveryd/internal/model"
)

// Authorizer checks signatures against a permission as currently recorded.
type Authorizer interface {
	Check(ctx context.Context, level model.PermissionLevel, signedBy []keys.PublicKey) error
}

// Policy decides which permission must authorize recovery operations. It
// always consults the permission set of the account under recovery; a
// matching permission name declared by any other account never counts.
type Policy struct {
	authorizer Authorizer
}

func NewPolicy(authorizer Authorizer) *Policy {
	return &Policy{authorizer: authorizer}
}

// AuthorizeInitiate requires the account's own active permission.
func (p *Policy) AuthorizeInitiate(ctx context.Context, account model.AccountName, declared []model.PermissionLevel, signedBy []keys.PublicKey) error {
	required := model.PermissionLevel{Actor: account, Permission: model.ActivePermission}
	if !declares(declared, required) {
		return fmt.Errorf("%w: recovery of %s must be authorized by %s", model.ErrUnauthorized, account, required)
	}
	return p.authorizer.Check(ctx, required, signedBy)
}

// AuthorizeVeto requires the account's own active or owner permission and
// returns the permission that authorized the veto.
func (p *Policy) AuthorizeVeto(ctx context.Context, account model.AccountName, declared []model.PermissionLevel, signedBy []keys.PublicKey) (model.PermissionName, error) {
	var lastErr error
	for _, level := range declared {
		if level.Actor != account {
			continue
		}
		if level.Permission != model.ActivePermission && level.Permission != model.OwnerPermission {
			continue
		}

		required := model.PermissionLevel{Actor: account, Permission: level.Permission}
		if err := p.authorizer.Check(ctx, required, signedBy); err != nil {
			lastErr = err
			continue
		}
		return level.Permission, nil
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("%w: veto of %s must be authorized by %s@%s or %s@%s", model.ErrUnauthorized,
		account, account, model.ActivePermission, account, model.OwnerPermission)
}

func declares(declared []model.PermissionLevel, want model.PermissionLevel) bool {
	for _, level := range declared {
		if level == want {
			return true
		}
	}
	return false
}
