package testutil

import (
	"crypto/sha256"
	"time"

	"github.com/dtroode/recoveryd/internal/keys"
	"github.com/dtroode/recoveryd/internal/model"
)

// PrivateKey derives a deterministic key for an account role such as
// "owner", "active" or "owner.recov".
func PrivateKey(account, role string) keys.PrivateKey {
	seed := sha256.Sum256([]byte(account + "@" + role))
	k, err := keys.FromSeed(seed[:])
	if err != nil {
		panic(err)
	}
	return k
}

// PublicKey is shorthand for PrivateKey(account, role).Public().
func PublicKey(account, role string) keys.PublicKey {
	return PrivateKey(account, role).Public()
}

// Account builds an account whose owner and active permissions are each held
// by a single deterministic key of the account.
func Account(name, creator string, at time.Time) model.Account {
	return model.Account{
		Name:    model.AccountName(name),
		Creator: model.AccountName(creator),
		Permissions: map[model.PermissionName]model.Permission{
			model.OwnerPermission: {
				Name:      model.OwnerPermission,
				Authority: model.SingleKeyAuthority(PublicKey(name, "owner")),
			},
			model.ActivePermission: {
				Name:      model.ActivePermission,
				Parent:    model.OwnerPermission,
				Authority: model.SingleKeyAuthority(PublicKey(name, "active")),
			},
		},
		CreatedAt: at,
		UpdatedAt: at,
	}
}
