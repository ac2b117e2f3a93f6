package model

import "github.com/dtroode/recoveryd/internal/keys"

// KeyWeight is a leaf of an authority: a key contributing Weight when it signs.
type KeyWeight struct {
	Key    keys.PublicKey `json:"key"`
	Weight uint16         `json:"weight"`
}

// PermissionLevelWeight is a node of an authority: another account's permission
// contributing Weight when it is itself satisfied.
type PermissionLevelWeight struct {
	Permission PermissionLevel `json:"permission"`
	Weight     uint16          `json:"weight"`
}

// Authority is a weighted set of keys and account permissions reaching Threshold.
type Authority struct {
	Threshold uint32                  `json:"threshold"`
	Keys      []KeyWeight             `json:"keys,omitempty"`
	Accounts  []PermissionLevelWeight `json:"accounts,omitempty"`
}

// SingleKeyAuthority is the common authority satisfied by one key.
func SingleKeyAuthority(key keys.PublicKey) Authority {
	return Authority{
		Threshold: 1,
		Keys:      []KeyWeight{{Key: key, Weight: 1}},
	}
}

// Clone returns a deep copy of the authority.
func (a Authority) Clone() Authority {
	out := Authority{Threshold: a.Threshold}
	if a.Keys != nil {
		out.Keys = append([]KeyWeight(nil), a.Keys...)
	}
	if a.Accounts != nil {
		out.Accounts = append([]PermissionLevelWeight(nil), a.Accounts...)
	}
	return out
}
