package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dtroode/recoveryd/internal/logger"
)

func TestLogging_HandleGRPC(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
		wantCode  string
	}{
		{
			name:      "completed call logs info",
			wantLevel: "INFO",
			wantMsg:   "gRPC request completed",
			wantCode:  "OK",
		},
		{
			name:      "rejected call logs warn",
			err:       status.Error(codes.FailedPrecondition, "no pending recovery"),
			wantLevel: "WARN",
			wantMsg:   "gRPC request rejected",
			wantCode:  "FailedPrecondition",
		},
		{
			name:      "plain error counts as internal",
			err:       errors.New("boom"),
			wantLevel: "ERROR",
			wantMsg:   "gRPC request failed",
			wantCode:  "Internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lg := NewLogging(logger.NewWithFormat(&buf, 0, "json"))

			ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 4242}})
			info := &grpc.UnaryServerInfo{FullMethod: "/recovery.Chain/PushTransaction"}
			handler := func(context.Context, any) (any, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return "ok", nil
			}

			resp, err := lg.HandleGRPC(ctx, struct{}{}, info, handler)
			assert.Equal(t, tt.err, err)
			if tt.err == nil {
				assert.Equal(t, "ok", resp)
			}

			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, tt.wantLevel, record["level"])
			assert.Equal(t, tt.wantMsg, record["msg"])
			assert.Equal(t, tt.wantCode, record["status"])
			assert.Equal(t, "/recovery.Chain/PushTransaction", record["method"])
			assert.Equal(t, "10.0.0.7:4242", record["peer"])
		})
	}
}
