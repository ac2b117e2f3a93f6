package handler

import (
	"context"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/recoveryd/internal/logger"
	"github.com/dtroode/recoveryd/internal/model"
)

// maxSkipMillis is the largest skip that still fits a time.Duration.
const maxSkipMillis = math.MaxInt64 / int64(time.Millisecond)

// BlockProducer advances the ledger.
type BlockProducer interface {
	ProduceBlock(ctx context.Context, skip time.Duration) (model.Block, error)
	FlushDeferred(ctx context.Context) (int, error)
	HeadBlock() model.Block
}

// Producer handles the operator endpoints. Every call is authenticated.
type Producer struct {
	producer       BlockProducer
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewProducer creates a new Producer handler.
func NewProducer(producer BlockProducer, contextManager model.ContextManager, logger *logger.Logger) *Producer {
	return &Producer{
		producer:       producer,
		contextManager: contextManager,
		logger:         logger,
	}
}

// ProduceBlock seals the pending block, skipping req milliseconds on top of
// the block interval.
func (h *Producer) ProduceBlock(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	operatorID, _ := h.contextManager.GetOperatorIDFromContext(ctx)
	if req.GetValue() < 0 {
		return nil, handleError(NewErrInvalidArgument("skip must not be negative"))
	}
	if req.GetValue() > maxSkipMillis {
		return nil, handleError(NewErrInvalidArgument("skip is too large"))
	}

	block, err := h.producer.ProduceBlock(ctx, time.Duration(req.GetValue())*time.Millisecond)
	if err != nil {
		h.logger.Error("Producer handler: failed to produce block",
			"operator_id", operatorID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Producer handler: block produced",
		"operator_id", operatorID,
		"block_num", block.Num)

	return blockStruct(block)
}

func (h *Producer) FlushDeferred(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	operatorID, _ := h.contextManager.GetOperatorIDFromContext(ctx)

	executed, err := h.producer.FlushDeferred(ctx)
	if err != nil {
		h.logger.Error("Producer handler: failed to flush deferred work",
			"operator_id", operatorID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Producer handler: deferred work flushed",
		"operator_id", operatorID,
		"executed", executed)

	return structpb.NewStruct(map[string]any{"executed": executed})
}

func (h *Producer) HeadBlock(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return blockStruct(h.producer.HeadBlock())
}

func blockStruct(block model.Block) (*structpb.Struct, error) {
	out, err := toStruct(block)
	if err != nil {
		return nil, handleError(err)
	}
	return out, nil
}
