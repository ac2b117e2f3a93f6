// Package memory keeps accounts, recovery requests and ledger state in
// process memory. It backs tests and single-node deployments without a
// database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/recoveryd/internal/model"
)

var _ model.Transactor = (*DB)(nil)

type transactionRecord struct {
	blockNum   uint32
	expiration time.Time
}

type state struct {
	accounts     map[model.AccountName]model.Account
	recoveries   map[uuid.UUID]model.RecoveryRequest
	transactions map[string]transactionRecord
	head         *model.Block
}

// DB is the shared state of the memory repositories.
type DB struct {
	// txMu serializes transactions; mu guards the maps for single reads and writes.
	txMu sync.Mutex
	mu   sync.RWMutex

	state
}

// NewDB creates an empty DB.
func NewDB() *DB {
	return &DB{
		state: state{
			accounts:     make(map[model.AccountName]model.Account),
			recoveries:   make(map[uuid.UUID]model.RecoveryRequest),
			transactions: make(map[string]transactionRecord),
		},
	}
}

type txKey struct{}

// WithinTx runs fn and restores the previous state if fn fails.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	saved := db.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		db.mu.Lock()
		db.state = saved
		db.mu.Unlock()
		return err
	}
	return nil
}

func (db *DB) snapshot() state {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := state{
		accounts:     make(map[model.AccountName]model.Account, len(db.accounts)),
		recoveries:   make(map[uuid.UUID]model.RecoveryRequest, len(db.recoveries)),
		transactions: make(map[string]transactionRecord, len(db.transactions)),
	}
	for name, a := range db.accounts {
		out.accounts[name] = a.Clone()
	}
	for id, r := range db.recoveries {
		out.recoveries[id] = cloneRecovery(r)
	}
	for id, t := range db.transactions {
		out.transactions[id] = t
	}
	if db.head != nil {
		head := cloneBlock(*db.head)
		out.head = &head
	}
	return out
}

func cloneRecovery(r model.RecoveryRequest) model.RecoveryRequest {
	out := r
	out.NewAuthority = r.NewAuthority.Clone()
	if r.ResolvedAt != nil {
		at := *r.ResolvedAt
		out.ResolvedAt = &at
	}
	return out
}

func cloneBlock(b model.Block) model.Block {
	out := b
	out.Transactions = append([]string(nil), b.Transactions...)
	return out
}
