package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAccountRepository(t *testing.T) {
	db := &Connection{}
	repo := NewAccountRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewRecoveryRepository(t *testing.T) {
	db := &Connection{}
	repo := NewRecoveryRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestConnection_PingWithoutPool(t *testing.T) {
	db := &Connection{}

	err := db.Ping(t.Context())
	assert.Error(t, err)
	assert.NoError(t, db.Close())
}

func TestNewLedgerRepository(t *testing.T) {
	db := &Connection{}
	repo := NewLedgerRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
