package handler

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/recoveryd/internal/logger"
	"github.com/dtroode/recoveryd/internal/model"
)

// Ledger accepts transactions and serves account state.
type Ledger interface {
	PushTransaction(ctx context.Context, trx model.SignedTransaction) (model.Trace, error)
	Account(ctx context.Context, name model.AccountName) (model.Account, error)
}

// RecoveryReader serves recovery requests.
type RecoveryReader interface {
	Get(ctx context.Context, id uuid.UUID) (model.RecoveryRequest, error)
	History(ctx context.Context, account model.AccountName) ([]model.RecoveryRequest, error)
}

// Chain handles the public ledger endpoints.
type Chain struct {
	ledger     Ledger
	recoveries RecoveryReader
	logger     *logger.Logger
}

// NewChain creates a new Chain handler.
func NewChain(ledger Ledger, recoveries RecoveryReader, logger *logger.Logger) *Chain {
	return &Chain{
		ledger:     ledger,
		recoveries: recoveries,
		logger:     logger,
	}
}

// PushTransaction decodes a JSON signed transaction and submits it.
func (h *Chain) PushTransaction(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	h.logger.Debug("Chain handler: processing push transaction request",
		"size", len(req.GetValue()))

	var trx model.SignedTransaction
	if err := json.Unmarshal(req.GetValue(), &trx); err != nil {
		return nil, handleError(NewErrInvalidArgument("malformed transaction: " + err.Error()))
	}

	trace, err := h.ledger.PushTransaction(ctx, trx)
	if err != nil {
		h.logger.Info("Chain handler: transaction rejected",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Chain handler: transaction accepted",
		"transaction_id", trace.ID,
		"block_num", trace.BlockNum)

	return h.respond(trace)
}

func (h *Chain) GetAccount(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, handleError(NewErrInvalidArgument("account name is required"))
	}

	account, err := h.ledger.Account(ctx, model.AccountName(req.GetValue()))
	if err != nil {
		return nil, handleError(err)
	}
	return h.respond(account)
}

func (h *Chain) GetRecovery(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := uuid.Parse(req.GetValue())
	if err != nil {
		return nil, handleError(NewErrInvalidArgument("invalid recovery id"))
	}

	request, err := h.recoveries.Get(ctx, id)
	if err != nil {
		return nil, handleError(err)
	}
	return h.respond(request)
}

// ListRecoveries returns every recovery request of an account, oldest first.
func (h *Chain) ListRecoveries(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, handleError(NewErrInvalidArgument("account name is required"))
	}

	items, err := h.recoveries.History(ctx, model.AccountName(req.GetValue()))
	if err != nil {
		h.logger.Error("Chain handler: failed to list recoveries",
			"account", req.GetValue(),
			"error", err.Error())
		return nil, handleError(err)
	}
	if items == nil {
		items = []model.RecoveryRequest{}
	}

	return h.respond(map[string]any{"items": items})
}

func (h *Chain) respond(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		h.logger.Error("Chain handler: failed to build response",
			"error", err.Error())
		return nil, handleError(err)
	}
	return out, nil
}
