package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestManager_SetAndGetOperatorID(t *testing.T) {
	m := NewManager()
	id := uuid.New()
	ctx := m.SetOperatorIDToContext(stdctx.Background(), id)

	got, ok := m.GetOperatorIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestManager_GetOperatorID_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetOperatorIDFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_SetOperatorID_WithExistingMetadata(t *testing.T) {
	m := NewManager()
	id := uuid.New()
	baseMD := metadata.New(map[string]string{"x-trace-id": "t"})
	ctxWithMD := metadata.NewIncomingContext(stdctx.Background(), baseMD)

	ctx := m.SetOperatorIDToContext(ctxWithMD, id)
	got, ok := m.GetOperatorIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	md, _ := metadata.FromIncomingContext(ctx)
	assert.Equal(t, []string{"t"}, md.Get("x-trace-id"))
	assert.Empty(t, baseMD.Get(operatorIDKey), "caller metadata must not be modified")
}

func TestManager_GetOperatorID_InvalidUUID(t *testing.T) {
	m := NewManager()
	md := metadata.New(map[string]string{operatorIDKey: "not-a-uuid"})
	ctx := metadata.NewIncomingContext(stdctx.Background(), md)
	_, ok := m.GetOperatorIDFromContext(ctx)
	assert.False(t, ok)
}
