package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/recoveryd/internal/authority"
	"github.com/dtroode/recoveryd/internal/logger"
	"github.com/dtroode/recoveryd/internal/model"
)

// Executor is the only writer of owner authorities during recovery.
type Executor struct {
	accounts model.AccountStore
	logger   *logger.Logger
}

func NewExecutor(accounts model.AccountStore, logger *logger.Logger) *Executor {
	return &Executor{accounts: accounts, logger: logger}
}

// CheckAuthority validates newAuthority and makes sure every account
// permission it references exists, so the owner it proposes can be satisfied.
func (e *Executor) CheckAuthority(ctx context.Context, newAuthority model.Authority) error {
	if err := authority.Validate(newAuthority); err != nil {
		return err
	}

	for _, ref := range newAuthority.Accounts {
		level := ref.Permission
		account, err := e.accounts.GetByName(ctx, level.Actor)
		if errors.Is(err, model.ErrAccountNotFound) {
			return fmt.Errorf("%w: references unknown account %s", model.ErrInvalidAuthority, level.Actor)
		}
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", level, err)
		}
		if _, ok := account.Permission(level.Permission); !ok {
			return fmt.Errorf("%w: references unknown permission %s", model.ErrInvalidAuthority, level)
		}
	}
	return nil
}

// ReplaceOwner overwrites the owner authority of account in a single store write.
func (e *Executor) ReplaceOwner(ctx context.Context, account model.AccountName, newAuthority model.Authority, at time.Time) error {
	if err := authority.Validate(newAuthority); err != nil {
		return err
	}

	if err := e.accounts.ReplaceOwner(ctx, account, newAuthority, at); err != nil {
		e.logger.Error("Recovery executor: failed to replace owner authority",
			"account", account,
			"error", err.Error())
		return fmt.Errorf("failed to replace owner of %s: %w", account, err)
	}

	e.logger.Info("Recovery executor: owner authority replaced",
		"account", account,
		"threshold", newAuthority.Threshold,
		"keys", len(newAuthority.Keys),
		"accounts", len(newAuthority.Accounts))
	return nil
}
