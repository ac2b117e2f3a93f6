package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/recoveryd/internal/model"
)

// APIError is an error with the gRPC status it is reported with.
type APIError struct {
	GRPCCode codes.Code
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewErrInvalidArgument(message string) *APIError {
	return &APIError{GRPCCode: codes.InvalidArgument, Message: message}
}

func handleError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return status.Error(apiErr.GRPCCode, apiErr.Message)
	}

	switch {
	case errors.Is(err, model.ErrInvariantViolation):
		return status.Error(codes.Internal, "internal server error")
	case errors.Is(err, model.ErrUnauthorized), errors.Is(err, model.ErrInvalidSignature):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, model.ErrRecoveryAlreadyPending), errors.Is(err, model.ErrNoPendingRecovery):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, model.ErrDuplicateTransaction), errors.Is(err, model.ErrAccountExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrInvalidTransaction),
		errors.Is(err, model.ErrTransactionExpired),
		errors.Is(err, model.ErrUnknownAction),
		errors.Is(err, model.ErrTooManyRecoveryActions),
		errors.Is(err, model.ErrInvalidAuthority):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
