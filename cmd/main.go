package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/recoveryd/internal/api/grpc/context"
	"github.com/dtroode/recoveryd/internal/api/grpc/router"
	grpcServer "github.com/dtroode/recoveryd/internal/api/grpc/server"
	"github.com/dtroode/recoveryd/internal/authority"
	"github.com/dtroode/recoveryd/internal/chain"
	"github.com/dtroode/recoveryd/internal/config"
	"github.com/dtroode/recoveryd/internal/deferred"
	"github.com/dtroode/recoveryd/internal/logger"
	"github.com/dtroode/recoveryd/internal/model"
	"github.com/dtroode/recoveryd/internal/repository/memory"
	"github.com/dtroode/recoveryd/internal/repository/postgres"
	"github.com/dtroode/recoveryd/internal/server"
	"github.com/dtroode/recoveryd/internal/service"
	storage "github.com/dtroode/recoveryd/internal/storage/minio"
	"github.com/dtroode/recoveryd/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// stores groups the repositories and the transactor they share.
type stores struct {
	accounts   model.AccountStore
	recoveries model.RecoveryStore
	ledger     model.LedgerStore
	tx         model.Transactor
	close      func() error
}

func main() {
	issueToken := flag.Bool("issue-operator-token", false, "print a new operator token and exit")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFormat(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger)
	if *issueToken {
		operatorID, tok, err := tokenService.Issue(context.Background(), uuid.Nil)
		if err != nil {
			logger.Fatal("failed to issue operator token", "error", err)
		}
		fmt.Fprintf(os.Stderr, "operator %s\n", operatorID)
		fmt.Println(tok)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	st, err := openStores(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer st.close()

	archive, err := openArchive(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize archive", "error", err)
	}

	genesis := chain.Genesis{ChainID: cfg.Chain.ID, InitialTimestamp: cfg.Chain.GenesisTime}
	if cfg.Chain.GenesisFile != "" {
		genesis, err = chain.LoadGenesis(cfg.Chain.GenesisFile)
		if err != nil {
			logger.Fatal("failed to load genesis", "error", err)
		}
		if genesis.InitialTimestamp.IsZero() {
			genesis.InitialTimestamp = cfg.Chain.GenesisTime
		}
	}

	queue := deferred.NewQueue[uuid.UUID]()
	checker := authority.NewChecker(st.accounts, cfg.Chain.MaxAuthDepth)
	recoveryService := service.NewRecovery(
		st.recoveries,
		st.tx,
		queue,
		service.NewPolicy(checker),
		service.NewExecutor(st.accounts, logger),
		archive,
		cfg.Recovery.Delay,
		logger,
	)

	ledger := chain.New(chain.Config{
		ChainID:       cfg.Chain.ID,
		BlockInterval: cfg.Chain.BlockInterval,
		GenesisTime:   genesis.InitialTimestamp,
	}, st.ledger, st.tx, st.accounts, checker, recoveryService, queue, logger)

	if err := ledger.Open(ctx); err != nil {
		logger.Fatal("failed to open ledger", "error", err)
	}
	created, err := ledger.ApplyGenesis(ctx, genesis)
	if err != nil {
		logger.Fatal("failed to apply genesis", "error", err)
	}
	restored, err := recoveryService.Restore(ctx)
	if err != nil {
		logger.Fatal("failed to restore pending recoveries", "error", err)
	}
	logger.Info("ledger initialized",
		"chain_id", ledger.ChainID(),
		"genesis_accounts", created,
		"pending_recoveries", restored)

	r := router.New(ledger, ledger, recoveryService, tokenService, grpcctx.NewManager(), logger)
	gs := r.Register()
	reflection.Register(gs)
	srv := grpcServer.NewGRPCServer(gs, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := ledger.Run(ctx); err != nil {
			logger.Fatal("block production halted", "error", err)
		}
	}()
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(server.NewSecurityLayer(cfg.GRPC)); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg config.Database) (stores, error) {
	if cfg.DSN == "" {
		db := memory.NewDB()
		return stores{
			accounts:   memory.NewAccountRepository(db),
			recoveries: memory.NewRecoveryRepository(db),
			ledger:     memory.NewLedgerRepository(db),
			tx:         db,
			close:      func() error { return nil },
		}, nil
	}

	conn, err := postgres.NewConection(ctx, cfg.DSN)
	if err != nil {
		return stores{}, err
	}
	return stores{
		accounts:   postgres.NewAccountRepository(conn),
		recoveries: postgres.NewRecoveryRepository(conn),
		ledger:     postgres.NewLedgerRepository(conn),
		tx:         conn,
		close:      conn.Close,
	}, nil
}

// openArchive returns a nil Storage when no endpoint is configured.
func openArchive(ctx context.Context, cfg config.Storage) (model.Storage, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	client, err := storage.New(ctx, storage.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
