package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/recoveryd/internal/logger"
	"github.com/dtroode/recoveryd/internal/model"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid authorization token")
)

// TokenService resolves operator ID from bearer tokens.
type TokenService interface {
	GetOperatorID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects operator ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the bearer token, validates it and returns a context with the operator ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	tokenString, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		tokenString = ""
	}

	operatorID, authErr := m.authenticateOperator(ctx, tokenString)
	if authErr != nil {
		m.logger.Debug("Authenticate middleware: rejected request",
			"error", authErr.Error())
		return nil, status.Error(codes.Unauthenticated, authErr.Error())
	}

	return m.contextManager.SetOperatorIDToContext(ctx, operatorID), nil
}

func (m *Authenticate) authenticateOperator(ctx context.Context, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, errMissingToken
	}

	operatorID, err := m.tokenService.GetOperatorID(ctx, tokenString)
	if err != nil {
		return uuid.Nil, errInvalidToken
	}

	if operatorID == uuid.Nil {
		return uuid.Nil, errInvalidToken
	}

	return operatorID, nil
}
