package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/recoveryd/internal/api/grpc/handler"
	"github.com/dtroode/recoveryd/internal/api/grpc/middleware"
	"github.com/dtroode/recoveryd/internal/api/grpc/recoverypb"
	"github.com/dtroode/recoveryd/internal/logger"
	"github.com/dtroode/recoveryd/internal/model"
)

// Router registers the recovery gRPC services and their middleware.
type Router struct {
	ledger         handler.Ledger
	producer       handler.BlockProducer
	recoveries     handler.RecoveryReader
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	ledger handler.Ledger,
	producer handler.BlockProducer,
	recoveries handler.RecoveryReader,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		ledger:         ledger,
		producer:       producer,
		recoveries:     recoveries,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// operatorOnly matches the methods that require an operator token.
func operatorOnly(_ context.Context, c interceptors.CallMeta) bool {
	return strings.HasPrefix(c.FullMethod(), "/"+recoverypb.ProducerServiceName+"/")
}

// Register builds the gRPC server with logging, panic recovery and
// operator authentication for the Producer service.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	panics := middleware.NewRecovery(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(panics.HandlePanic)),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(operatorOnly),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recovery.WithRecoveryHandler(panics.HandlePanic)),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(operatorOnly),
			),
		),
	)
	r.registerChainRoutes(s)
	r.registerProducerRoutes(s)

	return s
}

func (r *Router) registerChainRoutes(server *grpc.Server) {
	chainHandler := handler.NewChain(r.ledger, r.recoveries, r.logger)
	recoverypb.RegisterChainServer(server, chainHandler)
}

func (r *Router) registerProducerRoutes(server *grpc.Server) {
	producerHandler := handler.NewProducer(r.producer, r.contextManager, r.logger)
	recoverypb.RegisterProducerServer(server, producerHandler)
}
