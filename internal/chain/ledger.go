// Package chain is the single-producer ledger the recovery protocol runs on.
// It orders transactions into blocks, verifies their signatures and declared
// authorizations, and drains deferred work as blocks are sealed.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/recoveryd/internal/authority"
	"github.com/dtroode/recoveryd/internal/deferred"
	"github.com/dtroode/recoveryd/internal/keys"
	"github.com/dtroode/recoveryd/internal/logger"
	"github.com/dtroode/recoveryd/internal/model"
	"github.com/dtroode/recoveryd/internal/service"
)

// DefaultMaxTransactionLifetime bounds how far in the future a transaction may expire.
const DefaultMaxTransactionLifetime = time.Hour

// Config holds ledger parameters.
type Config struct {
	ChainID                string
	BlockInterval          time.Duration
	GenesisTime            time.Time
	MaxTransactionLifetime time.Duration
}

// RecoveryService is the recovery protocol as driven by the ledger.
type RecoveryService interface {
	Initiate(ctx context.Context, params model.InitiateRecoveryParams) (model.RecoveryRequest, error)
	Veto(ctx context.Context, params model.VetoRecoveryParams) (model.RecoveryRequest, error)
	OnDeadline(ctx context.Context, id uuid.UUID, now time.Time) (model.RecoveryRequest, error)
}

// Ledger sequences transactions and deferred work under one lock. Once
// deferred work breaks an invariant the ledger halts: every later call
// returns the violation.
type Ledger struct {
	mu sync.Mutex

	cfg      Config
	store    model.LedgerStore
	tx       model.Transactor
	accounts model.AccountStore
	checker  *authority.Checker
	recovery RecoveryService
	queue    *deferred.Queue[uuid.UUID]
	logger   *logger.Logger

	head    model.Block
	pending model.Block
	halted  error
}

// New creates a ledger whose first pending block is stamped at the genesis
// time. Open resumes from a previously sealed head instead.
func New(
	cfg Config,
	store model.LedgerStore,
	tx model.Transactor,
	accounts model.AccountStore,
	checker *authority.Checker,
	recovery RecoveryService,
	queue *deferred.Queue[uuid.UUID],
	logger *logger.Logger,
) *Ledger {
	if cfg.MaxTransactionLifetime <= 0 {
		cfg.MaxTransactionLifetime = DefaultMaxTransactionLifetime
	}
	if cfg.GenesisTime.IsZero() {
		cfg.GenesisTime = time.Now().UTC().Truncate(time.Millisecond)
	}

	return &Ledger{
		cfg:      cfg,
		store:    store,
		tx:       tx,
		accounts: accounts,
		checker:  checker,
		recovery: recovery,
		queue:    queue,
		logger:   logger,
		head:     model.Block{Num: 0, Time: cfg.GenesisTime},
		pending:  model.Block{Num: 1, Time: cfg.GenesisTime},
	}
}

// Open loads the last sealed block from the store so the ledger clock
// continues where it stopped. A store without a head keeps the genesis block.
func (l *Ledger) Open(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	head, err := l.store.LoadHead(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load head block: %w", err)
	}

	l.head = head
	l.pending = model.Block{Num: head.Num + 1, Time: head.Time.Add(l.cfg.BlockInterval)}

	l.logger.Info("Ledger: resumed from stored head",
		"block_num", head.Num,
		"block_time", head.Time)
	return nil
}

// Halted returns the invariant violation that stopped the ledger, if any.
func (l *Ledger) Halted() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.halted
}

func (l *Ledger) haltedErr() error {
	return fmt.Errorf("ledger halted: %w", l.halted)
}

// ChainID returns the id signatures are bound to.
func (l *Ledger) ChainID() string {
	return l.cfg.ChainID
}

// Now returns the time transactions are currently executed at.
func (l *Ledger) Now() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending.Time
}

// HeadBlock returns the last sealed block.
func (l *Ledger) HeadBlock() model.Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head
}

// HasTransaction reports whether a transaction with id was accepted and has
// not expired yet.
func (l *Ledger) HasTransaction(ctx context.Context, id string) (bool, error) {
	return l.store.HasTransaction(ctx, id)
}

func (l *Ledger) Account(ctx context.Context, name model.AccountName) (model.Account, error) {
	return l.accounts.GetByName(ctx, name)
}

// CreateAccount bootstraps an account with owner and active permissions. It
// is not a transaction: accounts are created at genesis.
func (l *Ledger) CreateAccount(ctx context.Context, params model.CreateAccountParams) (model.Account, error) {
	if params.Name == "" {
		return model.Account{}, fmt.Errorf("%w: empty account name", model.ErrInvalidTransaction)
	}
	if err := authority.Validate(params.Owner); err != nil {
		return model.Account{}, fmt.Errorf("owner of %s: %w", params.Name, err)
	}
	if err := authority.Validate(params.Active); err != nil {
		return model.Account{}, fmt.Errorf("active of %s: %w", params.Name, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if params.Creator != "" {
		if _, err := l.accounts.GetByName(ctx, params.Creator); err != nil {
			return model.Account{}, fmt.Errorf("creator of %s: %w", params.Name, err)
		}
	}

	now := l.pending.Time
	account := model.Account{
		Name:    params.Name,
		Creator: params.Creator,
		Permissions: map[model.PermissionName]model.Permission{
			model.OwnerPermission: {
				Name:      model.OwnerPermission,
				Authority: params.Owner.Clone(),
			},
			model.ActivePermission: {
				Name:      model.ActivePermission,
				Parent:    model.OwnerPermission,
				Authority: params.Active.Clone(),
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.accounts.Create(ctx, account); err != nil {
		return model.Account{}, err
	}

	l.logger.Info("Ledger: account created",
		"account", account.Name,
		"creator", account.Creator)
	return account, nil
}

// PushTransaction validates trx and applies it to the pending block. A
// rejected transaction has no effect.
func (l *Ledger) PushTransaction(ctx context.Context, trx model.SignedTransaction) (model.Trace, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.halted != nil {
		return model.Trace{}, l.haltedErr()
	}

	now := l.pending.Time

	if len(trx.Actions) == 0 {
		return model.Trace{}, fmt.Errorf("%w: no actions", model.ErrInvalidTransaction)
	}
	if !trx.Expiration.After(now) {
		return model.Trace{}, fmt.Errorf("%w: expired at %s, now %s", model.ErrTransactionExpired,
			trx.Expiration.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	if trx.Expiration.After(now.Add(l.cfg.MaxTransactionLifetime)) {
		return model.Trace{}, fmt.Errorf("%w: expiration too far in the future", model.ErrInvalidTransaction)
	}

	id, err := TransactionID(trx.Transaction)
	if err != nil {
		return model.Trace{}, err
	}
	seen, err := l.store.HasTransaction(ctx, id)
	if err != nil {
		return model.Trace{}, err
	}
	if seen {
		return model.Trace{}, fmt.Errorf("%w: %s", model.ErrDuplicateTransaction, id)
	}

	signers, err := signingKeys(l.cfg.ChainID, id, trx.Signatures)
	if err != nil {
		return model.Trace{}, err
	}

	decoded, err := l.decodeAndAuthorize(ctx, trx.Actions, signers)
	if err != nil {
		l.logger.Debug("Ledger: transaction rejected",
			"transaction_id", id,
			"error", err.Error())
		return model.Trace{}, err
	}

	trace := model.Trace{ID: id, BlockNum: l.pending.Num}
	var (
		applied  decodedAction
		resolved model.RecoveryRequest
	)
	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := l.store.RecordTransaction(ctx, id, l.pending.Num, trx.Expiration); err != nil {
			return err
		}
		for _, d := range decoded {
			request, err := l.apply(ctx, d, id, signers, now)
			if err != nil {
				l.logger.Debug("Ledger: transaction rejected",
					"transaction_id", id,
					"action", d.action.Name,
					"error", err.Error())
				return err
			}
			if request.ID != uuid.Nil {
				applied, resolved = d, request
			}
			if request.ID != uuid.Nil && request.Status == model.RecoveryPending {
				trace.Deferred = append(trace.Deferred, request.ID.String())
			}
		}
		return nil
	})
	if err != nil {
		l.revertDeferred(applied, resolved)
		return model.Trace{}, err
	}

	l.pending.Transactions = append(l.pending.Transactions, id)

	l.logger.Debug("Ledger: transaction accepted",
		"transaction_id", id,
		"block_num", l.pending.Num,
		"actions", len(decoded))
	return trace, nil
}

// revertDeferred undoes the queue change of a recovery action whose store
// writes were rolled back after the action itself succeeded.
func (l *Ledger) revertDeferred(d decodedAction, request model.RecoveryRequest) {
	if request.ID == uuid.Nil {
		return
	}
	key := service.RecoveryKey(request.Account)
	switch {
	case d.initiate != nil:
		l.queue.Cancel(key)
	case d.veto != nil:
		if err := l.queue.Schedule(key, request.ExecuteAt, request.ID); err != nil {
			l.logger.Error("Ledger: failed to reschedule recovery after rollback",
				"key", key.String(),
				"error", err.Error())
		}
	}
}

// decodeAndAuthorize decodes every action and checks each declared
// authorization before anything is applied.
func (l *Ledger) decodeAndAuthorize(ctx context.Context, actions []model.Action, signers []keys.PublicKey) ([]decodedAction, error) {
	decoded := make([]decodedAction, 0, len(actions))
	recoveryActions := 0

	for _, action := range actions {
		if len(action.Authorization) == 0 {
			return nil, fmt.Errorf("%w: %s declares no authorization", model.ErrInvalidTransaction, action.Name)
		}

		d, err := decodeAction(action)
		if err != nil {
			return nil, err
		}
		if d.recovery() {
			recoveryActions++
			if recoveryActions > 1 {
				return nil, model.ErrTooManyRecoveryActions
			}
		}

		for _, level := range action.Authorization {
			if err := l.checker.Check(ctx, level, signers); err != nil {
				return nil, err
			}
		}
		decoded = append(decoded, d)
	}
	return decoded, nil
}

func (l *Ledger) apply(ctx context.Context, d decodedAction, id string, signers []keys.PublicKey, now time.Time) (model.RecoveryRequest, error) {
	switch {
	case d.initiate != nil:
		return l.recovery.Initiate(ctx, model.InitiateRecoveryParams{
			Request:       *d.initiate,
			Authorization: d.action.Authorization,
			SignedBy:      signers,
			TransactionID: id,
			Now:           now,
		})
	case d.veto != nil:
		return l.recovery.Veto(ctx, model.VetoRecoveryParams{
			Request:       *d.veto,
			Authorization: d.action.Authorization,
			SignedBy:      signers,
			Now:           now,
		})
	default:
		return model.RecoveryRequest{}, nil
	}
}

// ProduceBlock seals the pending block, drains the deferred work due at its
// time and opens the next block interval+skip later. Deferred work therefore
// runs after every transaction of the sealed block.
func (l *Ledger) ProduceBlock(ctx context.Context, skip time.Duration) (model.Block, error) {
	if skip < 0 {
		return model.Block{}, fmt.Errorf("negative skip %s", skip)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.halted != nil {
		return model.Block{}, l.haltedErr()
	}

	executed, err := l.flush(ctx, l.pending.Time)
	if err != nil {
		return model.Block{}, err
	}

	if err := l.store.SaveHead(ctx, l.pending); err != nil {
		return model.Block{}, err
	}
	l.head = l.pending
	l.pending = model.Block{
		Num:  l.head.Num + 1,
		Time: l.head.Time.Add(l.cfg.BlockInterval + skip),
	}

	if pruned, err := l.store.PruneTransactions(ctx, l.head.Time); err != nil {
		l.logger.Warn("Ledger: failed to prune expired transactions",
			"error", err.Error())
	} else if pruned > 0 {
		l.logger.Debug("Ledger: pruned expired transactions",
			"count", pruned)
	}

	l.logger.Debug("Ledger: block produced",
		"block_num", l.head.Num,
		"block_time", l.head.Time,
		"transactions", len(l.head.Transactions),
		"deferred_executed", executed)
	return l.head, nil
}

// FlushDeferred drains the deferred work due now without sealing a block.
func (l *Ledger) FlushDeferred(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.halted != nil {
		return 0, l.haltedErr()
	}
	return l.flush(ctx, l.pending.Time)
}

// flush runs due entries in deadline order. A failing entry stays queued
// and stops the flush. An invariant violation halts the ledger.
func (l *Ledger) flush(ctx context.Context, now time.Time) (int, error) {
	executed := 0
	for {
		entry, ok := l.queue.Pop(now)
		if !ok {
			return executed, nil
		}

		err := l.runDeferred(ctx, entry, now)
		if err == nil {
			executed++
			continue
		}
		if !errors.Is(err, model.ErrInvariantViolation) {
			serr := l.queue.Schedule(entry.Key, entry.ExecuteAfter, entry.Payload)
			if serr == nil {
				return executed, fmt.Errorf("deferred %s: %w", entry.Key, err)
			}
			err = fmt.Errorf("%w: failed to requeue %s: %v", model.ErrInvariantViolation, entry.Key, serr)
		}

		l.halted = err
		l.logger.Error("Ledger: deferred work broke an invariant, halting",
			"key", entry.Key.String(),
			"error", err.Error())
		return executed, err
	}
}

func (l *Ledger) runDeferred(ctx context.Context, entry deferred.Entry[uuid.UUID], now time.Time) error {
	switch entry.Key.Scope {
	case service.RecoveryScope:
		_, err := l.recovery.OnDeadline(ctx, entry.Payload, now)
		return err
	default:
		return fmt.Errorf("%w: unknown deferred scope %q", model.ErrInvariantViolation, entry.Key.Scope)
	}
}
