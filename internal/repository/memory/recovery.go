package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/recoveryd/internal/model"
)

var _ model.RecoveryStore = (*RecoveryRepository)(nil)

type RecoveryRepository struct {
	db *DB
}

func NewRecoveryRepository(db *DB) *RecoveryRepository {
	return &RecoveryRepository{db: db}
}

func (r *RecoveryRepository) Create(_ context.Context, request model.RecoveryRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.recoveries[request.ID]; ok {
		return fmt.Errorf("recovery request %s already exists", request.ID)
	}
	for _, existing := range r.db.recoveries {
		if existing.Account == request.Account && existing.Status == model.RecoveryPending {
			return fmt.Errorf("%w: %s", model.ErrRecoveryAlreadyPending, request.Account)
		}
		if request.TransactionID != "" && existing.TransactionID == request.TransactionID {
			return fmt.Errorf("%w: %s", model.ErrDuplicateTransaction, request.TransactionID)
		}
	}
	r.db.recoveries[request.ID] = cloneRecovery(request)
	return nil
}

func (r *RecoveryRepository) GetByID(_ context.Context, id uuid.UUID) (model.RecoveryRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	request, ok := r.db.recoveries[id]
	if !ok {
		return model.RecoveryRequest{}, model.ErrNotFound
	}
	return cloneRecovery(request), nil
}

func (r *RecoveryRepository) GetPending(_ context.Context, account model.AccountName) (model.RecoveryRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, request := range r.db.recoveries {
		if request.Account == account && request.Status == model.RecoveryPending {
			return cloneRecovery(request), nil
		}
	}
	return model.RecoveryRequest{}, model.ErrNotFound
}

func (r *RecoveryRepository) ListPending(_ context.Context) ([]model.RecoveryRequest, error) {
	return r.list(func(request model.RecoveryRequest) bool {
		return request.Status == model.RecoveryPending
	}), nil
}

func (r *RecoveryRepository) ListByAccount(_ context.Context, account model.AccountName) ([]model.RecoveryRequest, error) {
	return r.list(func(request model.RecoveryRequest) bool {
		return request.Account == account
	}), nil
}

func (r *RecoveryRepository) Resolve(_ context.Context, id uuid.UUID, status model.RecoveryStatus, vetoedWith model.PermissionName, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	request, ok := r.db.recoveries[id]
	if !ok {
		return model.ErrNotFound
	}
	if request.Status != model.RecoveryPending {
		return fmt.Errorf("%w: %s is %s", model.ErrRecoveryNotPending, id, request.Status)
	}

	request.Status = status
	request.VetoedWith = vetoedWith
	request.ResolvedAt = &at
	r.db.recoveries[id] = request
	return nil
}

// list returns matching requests ordered by request time.
func (r *RecoveryRepository) list(match func(model.RecoveryRequest) bool) []model.RecoveryRequest {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []model.RecoveryRequest
	for _, request := range r.db.recoveries {
		if match(request) {
			out = append(out, cloneRecovery(request))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].RequestedAt.Before(out[j].RequestedAt)
	})
	return out
}
