package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/recoveryd/internal/logger"
	"github.com/dtroode/recoveryd/internal/model"
)

// TokenService issues and resolves operator access tokens. Operators drive
// block production through the Producer API.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

// Issue creates an access token for operatorID. A nil operatorID gets a fresh one.
func (s *TokenService) Issue(_ context.Context, operatorID uuid.UUID) (uuid.UUID, string, error) {
	if operatorID == uuid.Nil {
		operatorID = uuid.New()
	}

	access, err := s.manager.GenerateAccessToken(operatorID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("issue access: %w", err)
	}

	s.logger.Info("Token service: operator token issued",
		"operator_id", operatorID)

	return operatorID, access, nil
}

func (s *TokenService) GetOperatorID(_ context.Context, token string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(token)
}
