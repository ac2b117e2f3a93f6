package model

import "github.com/google/uuid"

// TokenManager generates and validates operator access tokens.
type TokenManager interface {
	GenerateAccessToken(operatorID uuid.UUID) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
}
