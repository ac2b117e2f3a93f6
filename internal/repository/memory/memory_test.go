package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/recoveryd/internal/model"
	"github.com/dtroode/recoveryd/internal/testutil"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func aliceAccount() model.Account {
	return model.Account{
		Name: "alice",
		Permissions: map[model.PermissionName]model.Permission{
			model.OwnerPermission: {
				Name:      model.OwnerPermission,
				Authority: model.SingleKeyAuthority(testutil.PublicKey("alice", "owner")),
			},
			model.ActivePermission: {
				Name:      model.ActivePermission,
				Parent:    model.OwnerPermission,
				Authority: model.SingleKeyAuthority(testutil.PublicKey("alice", "active")),
			},
		},
		CreatedAt: t0,
	}
}

func pendingRequest(account model.AccountName) model.RecoveryRequest {
	return model.RecoveryRequest{
		ID:           uuid.New(),
		Account:      account,
		NewAuthority: model.SingleKeyAuthority(testutil.PublicKey(string(account), "owner.recov")),
		RequestedAt:  t0,
		ExecuteAt:    t0.Add(model.DefaultRecoveryDelay),
		Status:       model.RecoveryPending,
	}
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(NewDB())

	require.NoError(t, repo.Create(ctx, aliceAccount()))
	assert.ErrorIs(t, repo.Create(ctx, aliceAccount()), model.ErrAccountExists)

	_, err := repo.GetByName(ctx, "bob")
	assert.ErrorIs(t, err, model.ErrAccountNotFound)

	newOwner := model.SingleKeyAuthority(testutil.PublicKey("alice", "owner.recov"))
	require.NoError(t, repo.ReplaceOwner(ctx, "alice", newOwner, t0.Add(time.Hour)))

	got, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, newOwner, got.Permissions[model.OwnerPermission].Authority)
	assert.Equal(t, aliceAccount().Permissions[model.ActivePermission], got.Permissions[model.ActivePermission])
	assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)

	assert.ErrorIs(t, repo.ReplaceOwner(ctx, "bob", newOwner, t0), model.ErrAccountNotFound)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(NewDB())
	require.NoError(t, repo.Create(ctx, aliceAccount()))

	got, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	got.Permissions[model.OwnerPermission] = model.Permission{}

	again, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, aliceAccount().Permissions[model.OwnerPermission], again.Permissions[model.OwnerPermission])
}

func TestRecoveryRepository_SinglePendingPerAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewRecoveryRepository(NewDB())

	first := pendingRequest("alice")
	require.NoError(t, repo.Create(ctx, first))
	assert.ErrorIs(t, repo.Create(ctx, pendingRequest("alice")), model.ErrRecoveryAlreadyPending)
	require.NoError(t, repo.Create(ctx, pendingRequest("bob")))

	pending, err := repo.GetPending(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, pending.ID)

	require.NoError(t, repo.Resolve(ctx, first.ID, model.RecoveryVetoed, model.ActivePermission, t0.Add(time.Hour)))
	_, err = repo.GetPending(ctx, "alice")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// the slot is free once resolved
	require.NoError(t, repo.Create(ctx, pendingRequest("alice")))

	history, err := repo.ListByAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	all, err := repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecoveryRepository_ResolveOnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewRecoveryRepository(NewDB())

	req := pendingRequest("alice")
	require.NoError(t, repo.Create(ctx, req))
	require.NoError(t, repo.Resolve(ctx, req.ID, model.RecoveryExecuted, "", t0))

	err := repo.Resolve(ctx, req.ID, model.RecoveryVetoed, model.OwnerPermission, t0)
	assert.ErrorIs(t, err, model.ErrRecoveryNotPending)

	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RecoveryExecuted, got.Status)
	require.NotNil(t, got.ResolvedAt)

	assert.ErrorIs(t, repo.Resolve(ctx, uuid.New(), model.RecoveryExecuted, "", t0), model.ErrNotFound)
}

func TestDB_WithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	accounts := NewAccountRepository(db)
	recoveries := NewRecoveryRepository(db)
	require.NoError(t, accounts.Create(ctx, aliceAccount()))

	req := pendingRequest("alice")
	boom := errors.New("boom")
	err := db.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, recoveries.Create(ctx, req))
		require.NoError(t, accounts.ReplaceOwner(ctx, "alice", req.NewAuthority, t0))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = recoveries.GetByID(ctx, req.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	got, err := accounts.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, aliceAccount().Permissions[model.OwnerPermission].Authority, got.Permissions[model.OwnerPermission].Authority)

	err = db.WithinTx(ctx, func(ctx context.Context) error {
		return recoveries.Create(ctx, req)
	})
	require.NoError(t, err)
	_, err = recoveries.GetByID(ctx, req.ID)
	assert.NoError(t, err)
}

func TestRecoveryRepository_OneRequestPerTransaction(t *testing.T) {
	ctx := context.Background()
	repo := NewRecoveryRepository(NewDB())

	first := pendingRequest("alice")
	first.TransactionID = "186efb3c"
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Resolve(ctx, first.ID, model.RecoveryVetoed, model.ActivePermission, t0.Add(time.Hour)))

	replay := pendingRequest("alice")
	replay.TransactionID = "186efb3c"
	assert.ErrorIs(t, repo.Create(ctx, replay), model.ErrDuplicateTransaction)

	history, err := repo.ListByAccount(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.RecoveryVetoed, history[0].Status)
}

func TestLedgerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository(NewDB())

	_, err := repo.LoadHead(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	head := model.Block{Num: 7, Time: t0, Transactions: []string{"a"}}
	require.NoError(t, repo.SaveHead(ctx, head))
	head.Transactions[0] = "mutated"
	got, err := repo.LoadHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Block{Num: 7, Time: t0, Transactions: []string{"a"}}, got)

	require.NoError(t, repo.RecordTransaction(ctx, "a", 7, t0.Add(time.Minute)))
	require.NoError(t, repo.RecordTransaction(ctx, "b", 7, t0.Add(time.Hour)))
	assert.ErrorIs(t, repo.RecordTransaction(ctx, "a", 8, t0.Add(time.Hour)), model.ErrDuplicateTransaction)

	pruned, err := repo.PruneTransactions(ctx, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	seen, err := repo.HasTransaction(ctx, "a")
	require.NoError(t, err)
	assert.False(t, seen)
	seen, err = repo.HasTransaction(ctx, "b")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestDB_WithinTxRollsBackLedgerState(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	ledger := NewLedgerRepository(db)
	require.NoError(t, ledger.SaveHead(ctx, model.Block{Num: 1, Time: t0}))

	err := db.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, ledger.RecordTransaction(ctx, "a", 2, t0.Add(time.Minute)))
		require.NoError(t, ledger.SaveHead(ctx, model.Block{Num: 2, Time: t0.Add(time.Second)}))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	seen, err := ledger.HasTransaction(ctx, "a")
	require.NoError(t, err)
	assert.False(t, seen)
	head, err := ledger.LoadHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), head.Num)
}
