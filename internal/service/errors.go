package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/naveen-gthb/khatabook/internal/auth"
	"github.com/naveen-gthb/khatabook/internal/ledger"
	"github.com/naveen-gthb/khatabook/internal/middleware"
)

// requireUser returns the authenticated user ID from the context.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// connectCode maps ledger errors onto Connect codes.
func connectCode(err error) connect.Code {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ledger.ErrValidation):
		return connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrFailedPrecondition):
		return connect.CodeFailedPrecondition
	case errors.Is(err, ledger.ErrConflict):
		return connect.CodeAborted
	case errors.Is(err, ledger.ErrPermissionDenied):
		return connect.CodePermissionDenied
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	default:
		return connect.CodeInternal
	}
}

// fail logs a failed operation and converts err to a Connect error.
// Internal details are not sent to the client.
func fail(op string, err error, attrs ...any) error {
	code := connectCode(err)
	attrs = append(attrs, "code", code, "error", err)

	switch code {
	case connect.CodeInternal:
		slog.Error(op+" failed", attrs...)
		return connect.NewError(code, fmt.Errorf("%s failed", op))
	case connect.CodeAborted:
		slog.Warn(op+" failed", attrs...)
		return connect.NewError(code, ledger.ErrConflict)
	default:
		slog.Warn(op+" failed", attrs...)
		return connect.NewError(code, err)
	}
}
