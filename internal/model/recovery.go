package model

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/recoveryd/internal/keys"
)

// DefaultRecoveryDelay is the safety window between a recovery request and its execution.
const DefaultRecoveryDelay = 30 * 24 * time.Hour

// RecoveryStatus enumerates recovery request states.
type RecoveryStatus string

const (
	RecoveryPending  RecoveryStatus = "pending"
	RecoveryExecuted RecoveryStatus = "executed"
	RecoveryVetoed   RecoveryStatus = "vetoed"
)

// Terminal reports whether no further transition is possible from s.
func (s RecoveryStatus) Terminal() bool {
	return s == RecoveryExecuted || s == RecoveryVetoed
}

// RecoveryRequest is a pending or resolved owner replacement.
type RecoveryRequest struct {
	ID            uuid.UUID      `json:"id"`
	Account       AccountName    `json:"account"`
	NewAuthority  Authority      `json:"new_authority"`
	Memo          string         `json:"memo"`
	RequestedAt   time.Time      `json:"requested_at"`
	ExecuteAt     time.Time      `json:"execute_at"`
	Status        RecoveryStatus `json:"status"`
	ResolvedAt    *time.Time     `json:"resolved_at,omitempty"`
	VetoedWith    PermissionName `json:"vetoed_with,omitempty"`
	TransactionID string         `json:"transaction_id,omitempty"`
}

// RecoveryStore persists recovery requests. At most one pending request may
// exist per account; Create returns ErrRecoveryAlreadyPending otherwise.
type RecoveryStore interface {
	Create(ctx context.Context, request RecoveryRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (RecoveryRequest, error)
	GetPending(ctx context.Context, account AccountName) (RecoveryRequest, error)
	ListPending(ctx context.Context) ([]RecoveryRequest, error)
	ListByAccount(ctx context.Context, account AccountName) ([]RecoveryRequest, error)
	// Resolve moves a pending request to a terminal status. It returns
	// ErrRecoveryNotPending if the request is not pending anymore.
	Resolve(ctx context.Context, id uuid.UUID, status RecoveryStatus, vetoedWith PermissionName, at time.Time) error
}

// InitiateRecovery is the payload of a recovery initiation.
type InitiateRecovery struct {
	Account      AccountName `json:"account"`
	NewAuthority Authority   `json:"data"`
	Memo         string      `json:"memo"`
}

// VetoRecovery is the payload of a recovery veto.
type VetoRecovery struct {
	Account AccountName `json:"account"`
}

// InitiateRecoveryParams carries an initiation together with how it was authorized.
type InitiateRecoveryParams struct {
	Request       InitiateRecovery
	Authorization []PermissionLevel
	SignedBy      []keys.PublicKey
	TransactionID string
	Now           time.Time
}

// VetoRecoveryParams carries a veto together with how it was authorized.
type VetoRecoveryParams struct {
	Request       VetoRecovery
	Authorization []PermissionLevel
	SignedBy      []keys.PublicKey
	Now           time.Time
}
