package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dtroode/recoveryd/internal/logger"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method, caller, duration and status of each unary request.
// Rejected requests are logged at warn level, server failures at error level.
func (l *Logging) HandleGRPC(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	reqLogger := l.logger.With("method", info.FullMethod)
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		reqLogger = reqLogger.With("peer", p.Addr.String())
	}

	reqLogger.Debug("gRPC request started")

	resp, err := handler(ctx, req)

	statusCode := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			statusCode = st.Code()
		} else {
			statusCode = codes.Internal
		}
	}

	args := []any{
		"duration_ms", time.Since(start).Milliseconds(),
		"status", statusCode.String(),
	}
	switch statusCode {
	case codes.OK:
		reqLogger.Info("gRPC request completed", args...)
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		reqLogger.Error("gRPC request failed", append(args, "error", err.Error())...)
	default:
		reqLogger.Warn("gRPC request rejected", append(args, "error", err.Error())...)
	}

	return resp, err
}
