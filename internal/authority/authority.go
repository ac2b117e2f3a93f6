// Package authority evaluates weighted key/account authorities against the set
// of keys that signed a transaction.
package authority

import (
	"context"
	"fmt"

	"github.com/dtroode/recoveryd/internal/keys"
	"github.com/dtroode/recoveryd/internal/model"
)

// DefaultMaxDepth bounds how many account references are followed while
// evaluating an authority.
const DefaultMaxDepth = 2

// KeySet is the set of keys that provably signed a transaction.
type KeySet map[keys.PublicKey]struct{}

// NewKeySet builds a KeySet.
func NewKeySet(pubs ...keys.PublicKey) KeySet {
	set := make(KeySet, len(pubs))
	for _, pub := range pubs {
		set[pub] = struct{}{}
	}
	return set
}

// Has reports whether pub signed.
func (s KeySet) Has(pub keys.PublicKey) bool {
	_, ok := s[pub]
	return ok
}

// LevelSatisfier decides whether a referenced permission level is satisfied
// with the remaining recursion depth.
type LevelSatisfier func(ctx context.Context, level model.PermissionLevel, depth int) (bool, error)

// Satisfied reports whether the weights contributed by signed keys and by
// satisfied account references reach the threshold of a. References are only
// followed while depth > 0.
func Satisfied(ctx context.Context, a model.Authority, signed KeySet, satisfyLevel LevelSatisfier, depth int) (bool, error) {
	var total uint32
	for _, kw := range a.Keys {
		if signed.Has(kw.Key) {
			total += uint32(kw.Weight)
			if total >= a.Threshold {
				return true, nil
			}
		}
	}

	if depth <= 0 || satisfyLevel == nil {
		return false, nil
	}

	for _, pw := range a.Accounts {
		ok, err := satisfyLevel(ctx, pw.Permission, depth-1)
		if err != nil {
			return false, err
		}
		if ok {
			total += uint32(pw.Weight)
			if total >= a.Threshold {
				return true, nil
			}
		}
	}

	return false, nil
}

// Validate checks that a is well formed and can be satisfied at all.
func Validate(a model.Authority) error {
	if a.Threshold == 0 {
		return fmt.Errorf("%w: threshold must be positive", model.ErrInvalidAuthority)
	}

	var total uint64
	seenKeys := make(map[keys.PublicKey]struct{}, len(a.Keys))
	for _, kw := range a.Keys {
		if kw.Key.IsZero() {
			return fmt.Errorf("%w: empty key", model.ErrInvalidAuthority)
		}
		if kw.Weight == 0 {
			return fmt.Errorf("%w: key %s has zero weight", model.ErrInvalidAuthority, kw.Key)
		}
		if _, dup := seenKeys[kw.Key]; dup {
			return fmt.Errorf("%w: duplicate key %s", model.ErrInvalidAuthority, kw.Key)
		}
		seenKeys[kw.Key] = struct{}{}
		total += uint64(kw.Weight)
	}

	seenLevels := make(map[model.PermissionLevel]struct{}, len(a.Accounts))
	for _, pw := range a.Accounts {
		if pw.Permission.Actor == "" || pw.Permission.Permission == "" {
			return fmt.Errorf("%w: empty permission reference", model.ErrInvalidAuthority)
		}
		if pw.Weight == 0 {
			return fmt.Errorf("%w: %s has zero weight", model.ErrInvalidAuthority, pw.Permission)
		}
		if _, dup := seenLevels[pw.Permission]; dup {
			return fmt.Errorf("%w: duplicate reference %s", model.ErrInvalidAuthority, pw.Permission)
		}
		seenLevels[pw.Permission] = struct{}{}
		total += uint64(pw.Weight)
	}

	if total < uint64(a.Threshold) {
		return fmt.Errorf("%w: weights sum to %d, below threshold %d", model.ErrInvalidAuthority, total, a.Threshold)
	}
	return nil
}
