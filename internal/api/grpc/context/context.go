package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// operatorIDKey is the metadata key the authenticated operator is stored under.
const (
	operatorIDKey string = "operator_id"
)

// Manager stores the authenticated operator ID in incoming gRPC metadata.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetOperatorIDToContext returns ctx with the operator ID added to its incoming metadata.
func (m *Manager) SetOperatorIDToContext(ctx context.Context, operatorID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(map[string]string{operatorIDKey: operatorID.String()})
	} else {
		md = md.Copy()
		md.Set(operatorIDKey, operatorID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetOperatorIDFromContext reads the operator ID set by SetOperatorIDToContext.
func (m *Manager) GetOperatorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	operatorIDs := md.Get(operatorIDKey)
	if len(operatorIDs) == 0 {
		return uuid.Nil, false
	}

	operatorID, err := uuid.Parse(operatorIDs[0])
	if err != nil {
		return uuid.Nil, false
	}

	return operatorID, true
}
