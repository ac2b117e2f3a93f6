package router

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	grpcctx "github.com/dtroode/recoveryd/internal/api/grpc/context"
	"github.com/dtroode/recoveryd/internal/api/grpc/recoverypb"
	"github.com/dtroode/recoveryd/internal/mocks"
	"github.com/dtroode/recoveryd/internal/model"
	"github.com/dtroode/recoveryd/internal/testutil"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	ctxMgr := mocks.NewContextManager(t)
	lg := testutil.MakeNoopLogger()

	r := New(nil, nil, nil, nil, ctxMgr, lg)
	s := r.Register()
	if s == nil {
		t.Fatalf("expected non-nil grpc server")
	}

	info := s.GetServiceInfo()
	assert.Contains(t, info, recoverypb.ChainServiceName)
	assert.Contains(t, info, recoverypb.ProducerServiceName)
}

func dial(t *testing.T, s *grpc.Server) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRouter_ProducerRequiresOperatorToken(t *testing.T) {
	t.Parallel()

	ledger := mocks.NewLedger(t)
	producer := mocks.NewBlockProducer(t)
	tokens := mocks.NewTokenService(t)
	operatorID := uuid.New()

	ledger.On("Account", mock.Anything, model.AccountName("alice")).
		Return(testutil.Account("alice", "", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), nil).Once()
	tokens.On("GetOperatorID", mock.Anything, "good").Return(operatorID, nil).Once()
	producer.On("HeadBlock").Return(model.Block{Num: 9}).Once()

	r := New(ledger, producer, mocks.NewRecoveryReader(t), tokens, grpcctx.NewManager(), testutil.MakeNoopLogger())
	conn := dial(t, r.Register())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// chain methods are public
	account, err := recoverypb.NewChainClient(conn).GetAccount(ctx, wrapperspb.String("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", account.GetFields()["name"].GetStringValue())

	producerClient := recoverypb.NewProducerClient(conn)

	_, err = producerClient.HeadBlock(ctx, &emptypb.Empty{})
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Unauthenticated, st.Code())

	authCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer good")
	head, err := producerClient.HeadBlock(authCtx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, float64(9), head.GetFields()["num"].GetNumberValue())
}
