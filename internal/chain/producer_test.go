package chain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/recoveryd/internal/authority"
	"github.com/dtroode/recoveryd/internal/deferred"
	"github.com/dtroode/recoveryd/internal/model"
	"github.com/dtroode/recoveryd/internal/repository/memory"
	"github.com/dtroode/recoveryd/internal/service"
	"github.com/dtroode/recoveryd/internal/testutil"
)

func fastLedger(recovery RecoveryService, queue *deferred.Queue[uuid.UUID]) *Ledger {
	db := memory.NewDB()
	accounts := memory.NewAccountRepository(db)
	return New(Config{ChainID: testChainID, BlockInterval: 5 * time.Millisecond, GenesisTime: genesisTime},
		memory.NewLedgerRepository(db), db, accounts, authority.NewChecker(accounts, authority.DefaultMaxDepth), recovery, queue, testutil.MakeNoopLogger())
}

func TestLedger_Run_ProducesUntilCancelled(t *testing.T) {
	l := fastLedger(&stubRecovery{}, deferred.NewQueue[uuid.UUID]())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return l.HeadBlock().Num >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLedger_Run_StopsOnInvariantViolation(t *testing.T) {
	queue := deferred.NewQueue[uuid.UUID]()
	stub := &stubRecovery{onDeadline: func(uuid.UUID) error { return model.ErrInvariantViolation }}
	l := fastLedger(stub, queue)
	require.NoError(t, queue.Schedule(service.RecoveryKey("alice"), genesisTime, uuid.New()))

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, model.ErrInvariantViolation)
	case <-time.After(time.Second):
		t.Fatal("Run kept producing after an invariant violation")
	}
	assert.Equal(t, 1, stub.calls)
}
