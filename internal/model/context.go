package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager stores the authenticated operator in request contexts.
type ContextManager interface {
	SetOperatorIDToContext(ctx context.Context, operatorID uuid.UUID) context.Context
	GetOperatorIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
