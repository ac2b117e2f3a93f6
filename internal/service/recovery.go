package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/recoveryd/internal/deferred"
	"github.com/dtroode/recoveryd/internal/logger"
	"github.com/dtroode/recoveryd/internal/model"
)

// RecoveryScope is the deferred queue scope of recovery entries.
const RecoveryScope = "recovery"

// RecoveryKey is the deferred queue key of account's recovery slot.
func RecoveryKey(account model.AccountName) deferred.Key {
	return deferred.Key{Account: string(account), Scope: RecoveryScope}
}

// Recovery owns the per-account pending recovery slot: it accepts initiations,
// accepts vetoes and resolves requests whose deadline passed.
type Recovery struct {
	recoveries model.RecoveryStore
	tx         model.Transactor
	queue      *deferred.Queue[uuid.UUID]
	policy     *Policy
	executor   *Executor
	archive    model.Storage
	delay      time.Duration
	logger     *logger.Logger
}

// NewRecovery creates the recovery service. archive may be nil.
func NewRecovery(
	recoveries model.RecoveryStore,
	tx model.Transactor,
	queue *deferred.Queue[uuid.UUID],
	policy *Policy,
	executor *Executor,
	archive model.Storage,
	delay time.Duration,
	logger *logger.Logger,
) *Recovery {
	return &Recovery{
		recoveries: recoveries,
		tx:         tx,
		queue:      queue,
		policy:     policy,
		executor:   executor,
		archive:    archive,
		delay:      delay,
		logger:     logger,
	}
}

// Delay returns the configured recovery delay.
func (s *Recovery) Delay() time.Duration {
	return s.delay
}

// Initiate registers a pending owner replacement for the account and schedules
// it to execute after the recovery delay. A second initiation while one is
// pending is rejected with model.ErrRecoveryAlreadyPending.
func (s *Recovery) Initiate(ctx context.Context, params model.InitiateRecoveryParams) (model.RecoveryRequest, error) {
	account := params.Request.Account

	s.logger.Debug("Recovery service: initiating recovery",
		"account", account,
		"transaction_id", params.TransactionID)

	if err := s.policy.AuthorizeInitiate(ctx, account, params.Authorization, params.SignedBy); err != nil {
		s.logger.Info("Recovery service: initiation rejected",
			"account", account,
			"error", err.Error())
		return model.RecoveryRequest{}, err
	}

	if err := s.executor.CheckAuthority(ctx, params.Request.NewAuthority); err != nil {
		s.logger.Info("Recovery service: proposed owner rejected",
			"account", account,
			"error", err.Error())
		return model.RecoveryRequest{}, err
	}

	request := model.RecoveryRequest{
		ID:            uuid.New(),
		Account:       account,
		NewAuthority:  params.Request.NewAuthority.Clone(),
		Memo:          params.Request.Memo,
		RequestedAt:   params.Now,
		ExecuteAt:     params.Now.Add(s.delay),
		Status:        model.RecoveryPending,
		TransactionID: params.TransactionID,
	}
	key := RecoveryKey(account)

	scheduled := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.recoveries.GetPending(ctx, account)
		if err == nil {
			return fmt.Errorf("%w: %s", model.ErrRecoveryAlreadyPending, account)
		}
		if !errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("failed to get pending recovery: %w", err)
		}

		if err := s.recoveries.Create(ctx, request); err != nil {
			return err
		}

		if err := s.queue.Schedule(key, request.ExecuteAt, request.ID); err != nil {
			return fmt.Errorf("%w: failed to schedule recovery: %v", model.ErrInvariantViolation, err)
		}
		scheduled = true
		return nil
	})
	if err != nil {
		if scheduled {
			s.queue.Cancel(key)
		}
		if errors.Is(err, model.ErrRecoveryAlreadyPending) {
			s.logger.Info("Recovery service: recovery already pending",
				"account", account)
			return model.RecoveryRequest{}, err
		}
		s.logger.Error("Recovery service: failed to register recovery",
			"account", account,
			"error", err.Error())
		return model.RecoveryRequest{}, fmt.Errorf("failed to register recovery: %w", err)
	}

	s.logger.Info("Recovery service: recovery scheduled",
		"account", account,
		"recovery_id", request.ID,
		"execute_at", request.ExecuteAt)

	return request, nil
}

// Veto cancels the pending recovery of the account. The signatures must
// satisfy the account's own active or owner permission as of now.
func (s *Recovery) Veto(ctx context.Context, params model.VetoRecoveryParams) (model.RecoveryRequest, error) {
	account := params.Request.Account

	s.logger.Debug("Recovery service: processing veto",
		"account", account)

	pending, err := s.recoveries.GetPending(ctx, account)
	if errors.Is(err, model.ErrNotFound) {
		return model.RecoveryRequest{}, fmt.Errorf("%w: %s", model.ErrNoPendingRecovery, account)
	}
	if err != nil {
		return model.RecoveryRequest{}, fmt.Errorf("failed to get pending recovery: %w", err)
	}

	permission, err := s.policy.AuthorizeVeto(ctx, account, params.Authorization, params.SignedBy)
	if err != nil {
		s.logger.Info("Recovery service: veto rejected",
			"account", account,
			"recovery_id", pending.ID,
			"error", err.Error())
		return model.RecoveryRequest{}, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.recoveries.Resolve(ctx, pending.ID, model.RecoveryVetoed, permission, params.Now)
	})
	if errors.Is(err, model.ErrRecoveryNotPending) {
		return model.RecoveryRequest{}, fmt.Errorf("%w: %s", model.ErrNoPendingRecovery, account)
	}
	if err != nil {
		return model.RecoveryRequest{}, fmt.Errorf("failed to veto recovery: %w", err)
	}

	if !s.queue.Cancel(RecoveryKey(account)) {
		s.logger.Warn("Recovery service: vetoed recovery had no deferred entry",
			"account", account,
			"recovery_id", pending.ID)
	}

	now := params.Now
	pending.Status = model.RecoveryVetoed
	pending.VetoedWith = permission
	pending.ResolvedAt = &now

	s.logger.Info("Recovery service: recovery vetoed",
		"account", account,
		"recovery_id", pending.ID,
		"permission", permission)

	s.archiveRequest(ctx, pending)
	return pending, nil
}

// OnDeadline executes a recovery whose deferred entry came due. The entry is
// removed from the queue when a veto is accepted, so a request that is not
// pending anymore means the scheduler contract was broken.
func (s *Recovery) OnDeadline(ctx context.Context, id uuid.UUID, now time.Time) (model.RecoveryRequest, error) {
	request, err := s.recoveries.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.RecoveryRequest{}, fmt.Errorf("%w: deadline fired for unknown recovery %s", model.ErrInvariantViolation, id)
	}
	if err != nil {
		return model.RecoveryRequest{}, fmt.Errorf("failed to get recovery request: %w", err)
	}
	if request.Status != model.RecoveryPending {
		return model.RecoveryRequest{}, fmt.Errorf("%w: deadline fired for %s recovery %s", model.ErrInvariantViolation, request.Status, id)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.executor.ReplaceOwner(ctx, request.Account, request.NewAuthority, now); err != nil {
			return err
		}
		return s.recoveries.Resolve(ctx, request.ID, model.RecoveryExecuted, "", now)
	})
	if errors.Is(err, model.ErrRecoveryNotPending) {
		return model.RecoveryRequest{}, fmt.Errorf("%w: %v", model.ErrInvariantViolation, err)
	}
	if err != nil {
		s.logger.Error("Recovery service: failed to execute recovery",
			"account", request.Account,
			"recovery_id", request.ID,
			"error", err.Error())
		return model.RecoveryRequest{}, fmt.Errorf("failed to execute recovery: %w", err)
	}

	request.Status = model.RecoveryExecuted
	request.ResolvedAt = &now

	s.logger.Info("Recovery service: recovery executed",
		"account", request.Account,
		"recovery_id", request.ID,
		"execute_at", request.ExecuteAt)

	s.archiveRequest(ctx, request)
	return request, nil
}

// Restore schedules every durable pending request that is missing from the
// deferred queue, e.g. after a restart.
func (s *Recovery) Restore(ctx context.Context) (int, error) {
	pending, err := s.recoveries.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending recoveries: %w", err)
	}

	restored := 0
	for _, request := range pending {
		err := s.queue.Schedule(RecoveryKey(request.Account), request.ExecuteAt, request.ID)
		if errors.Is(err, deferred.ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return restored, fmt.Errorf("failed to restore recovery %s: %w", request.ID, err)
		}
		restored++
	}

	s.logger.Info("Recovery service: pending recoveries restored",
		"count", restored)
	return restored, nil
}

func (s *Recovery) Get(ctx context.Context, id uuid.UUID) (model.RecoveryRequest, error) {
	return s.recoveries.GetByID(ctx, id)
}

func (s *Recovery) Pending(ctx context.Context, account model.AccountName) (model.RecoveryRequest, error) {
	request, err := s.recoveries.GetPending(ctx, account)
	if errors.Is(err, model.ErrNotFound) {
		return model.RecoveryRequest{}, fmt.Errorf("%w: %s", model.ErrNoPendingRecovery, account)
	}
	return request, err
}

func (s *Recovery) History(ctx context.Context, account model.AccountName) ([]model.RecoveryRequest, error) {
	return s.recoveries.ListByAccount(ctx, account)
}

// archiveRequest stores a resolved request in the archive. Failures are logged
// only: the ledger state is already committed.
func (s *Recovery) archiveRequest(ctx context.Context, request model.RecoveryRequest) {
	if s.archive == nil {
		return
	}

	data, err := json.Marshal(request)
	if err != nil {
		s.logger.Error("Recovery service: failed to marshal archived recovery",
			"recovery_id", request.ID,
			"error", err.Error())
		return
	}

	key := ArchiveKey(request)
	if err := s.archive.Upload(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		s.logger.Warn("Recovery service: failed to archive recovery",
			"recovery_id", request.ID,
			"key", key,
			"error", err.Error())
	}
}

// ArchiveKey is the object key of an archived request.
func ArchiveKey(request model.RecoveryRequest) string {
	return fmt.Sprintf("recoveries/%s/%s.json", request.Account, request.ID)
}
