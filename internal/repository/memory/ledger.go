package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/recoveryd/internal/model"
)

var _ model.LedgerStore = (*LedgerRepository)(nil)

type LedgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) RecordTransaction(_ context.Context, id string, blockNum uint32, expiration time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.transactions[id]; ok {
		return fmt.Errorf("%w: %s", model.ErrDuplicateTransaction, id)
	}
	r.db.transactions[id] = transactionRecord{blockNum: blockNum, expiration: expiration}
	return nil
}

func (r *LedgerRepository) HasTransaction(_ context.Context, id string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.transactions[id]
	return ok, nil
}

func (r *LedgerRepository) PruneTransactions(_ context.Context, t time.Time) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	pruned := 0
	for id, record := range r.db.transactions {
		if !record.expiration.After(t) {
			delete(r.db.transactions, id)
			pruned++
		}
	}
	return pruned, nil
}

func (r *LedgerRepository) SaveHead(_ context.Context, head model.Block) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	saved := cloneBlock(head)
	r.db.head = &saved
	return nil
}

func (r *LedgerRepository) LoadHead(_ context.Context) (model.Block, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if r.db.head == nil {
		return model.Block{}, model.ErrNotFound
	}
	return cloneBlock(*r.db.head), nil
}
