package model

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dtroode/recoveryd/internal/keys"
)

// ActionName names a ledger action.
type ActionName string

const (
	ActionPostRecovery ActionName = "postrecovery"
	ActionVetoRecovery ActionName = "vetorecovery"
	ActionNonce        ActionName = "nonce"
)

// Action is one operation of a transaction with the permissions it claims.
type Action struct {
	Name          ActionName        `json:"name"`
	Authorization []PermissionLevel `json:"authorization"`
	Data          json.RawMessage   `json:"data"`
}

// Transaction is the signed body of a ledger transaction.
type Transaction struct {
	Expiration time.Time `json:"expiration"`
	Actions    []Action  `json:"actions"`
}

// Signature is an ed25519 signature together with the key that produced it.
type Signature struct {
	Key keys.PublicKey `json:"key"`
	Sig []byte         `json:"sig"`
}

// SignedTransaction is a transaction with its signatures.
type SignedTransaction struct {
	Transaction
	Signatures []Signature `json:"signatures"`
}

// Nonce is the payload of the nonce action. It has no effect besides proving
// which keys were able to satisfy the claimed permissions when it was included.
type Nonce struct {
	Value uint64 `json:"value"`
}

// Trace reports the outcome of an accepted transaction.
type Trace struct {
	ID       string   `json:"id"`
	BlockNum uint32   `json:"block_num"`
	Deferred []string `json:"deferred,omitempty"`
}

// Block is a produced (or pending) block of the ledger.
type Block struct {
	Num          uint32    `json:"num"`
	Time         time.Time `json:"time"`
	Transactions []string  `json:"transactions,omitempty"`
}

// LedgerStore keeps the ledger state that has to outlive the process: the
// last sealed block and the ids of accepted transactions until they expire.
type LedgerStore interface {
	// RecordTransaction returns ErrDuplicateTransaction if id is already recorded.
	RecordTransaction(ctx context.Context, id string, blockNum uint32, expiration time.Time) error
	HasTransaction(ctx context.Context, id string) (bool, error)
	// PruneTransactions forgets transactions that expired at or before t.
	PruneTransactions(ctx context.Context, t time.Time) (int, error)
	SaveHead(ctx context.Context, head Block) error
	// LoadHead returns ErrNotFound until the first block is sealed.
	LoadHead(ctx context.Context) (Block, error)
}
