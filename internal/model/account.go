package model

import (
	"context"
	"time"
)

// AccountName identifies an account on the ledger.
type AccountName string

// PermissionName names a permission of an account.
type PermissionName string

const (
	// OwnerPermission is the root permission of every account.
	OwnerPermission PermissionName = "owner"
	// ActivePermission is the day-to-day permission, child of owner.
	ActivePermission PermissionName = "active"
)

// PermissionLevel references a named permission of a named account.
type PermissionLevel struct {
	Actor      AccountName    `json:"actor"`
	Permission PermissionName `json:"permission"`
}

func (l PermissionLevel) String() string {
	return string(l.Actor) + "@" + string(l.Permission)
}

// Permission is one named entry of an account's permission set.
// Parent is empty only for owner.
type Permission struct {
	Name      PermissionName `json:"name"`
	Parent    PermissionName `json:"parent,omitempty"`
	Authority Authority      `json:"authority"`
}

// Account holds the permission set of a ledger account.
type Account struct {
	Name        AccountName                   `json:"name"`
	Creator     AccountName                   `json:"creator,omitempty"`
	Permissions map[PermissionName]Permission `json:"permissions"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// Permission looks up a permission by name.
func (a Account) Permission(name PermissionName) (Permission, bool) {
	p, ok := a.Permissions[name]
	return p, ok
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	out := a
	out.Permissions = make(map[PermissionName]Permission, len(a.Permissions))
	for name, p := range a.Permissions {
		p.Authority = p.Authority.Clone()
		out.Permissions[name] = p
	}
	return out
}

// CreateAccountParams contains parameters to create an account.
type CreateAccountParams struct {
	Name    AccountName
	Creator AccountName
	Owner   Authority
	Active  Authority
}

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	Create(ctx context.Context, account Account) error
	GetByName(ctx context.Context, name AccountName) (Account, error)
	// ReplaceOwner overwrites the owner authority as a single atomic write.
	ReplaceOwner(ctx context.Context, name AccountName, authority Authority, at time.Time) error
}
