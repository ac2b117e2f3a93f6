package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/recoveryd/internal/mocks"
	"github.com/dtroode/recoveryd/internal/testutil"
)

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	operatorID := uuid.New()

	manager := mocks.NewTokenManager(t)
	manager.On("GenerateAccessToken", operatorID).Return("access", nil).Once()

	svc := NewTokenService(manager, testutil.MakeNoopLogger())

	id, access, err := svc.Issue(ctx, operatorID)
	require.NoError(t, err)
	assert.Equal(t, operatorID, id)
	assert.Equal(t, "access", access)
}

func TestTokenService_Issue_NewOperator(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	manager.On("GenerateAccessToken", mock.AnythingOfType("uuid.UUID")).Return("access", nil).Once()

	svc := NewTokenService(manager, testutil.MakeNoopLogger())

	id, _, err := svc.Issue(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	operatorID := uuid.New()

	manager := mocks.NewTokenManager(t)
	manager.On("GenerateAccessToken", operatorID).Return("", assert.AnError).Once()

	svc := NewTokenService(manager, testutil.MakeNoopLogger())

	_, _, err := svc.Issue(context.Background(), operatorID)
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_GetOperatorID(t *testing.T) {
	manager := mocks.NewTokenManager(t)

	u := uuid.New()
	manager.On("ParseAccessToken", "access").Return(u, nil).Once()

	svc := NewTokenService(manager, testutil.MakeNoopLogger())

	got, err := svc.GetOperatorID(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}
