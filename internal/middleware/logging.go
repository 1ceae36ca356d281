package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/naveen-gthb/khatabook/internal/metrics"
)

// ObservabilityInterceptor logs every RPC and records it in m. m may be nil.
// It logs the procedure name, user ID, duration, and any error codes/messages.
// It must run inside the auth interceptor so the user ID is known.
type ObservabilityInterceptor struct {
	metrics *metrics.Metrics
}

var _ connect.Interceptor = (*ObservabilityInterceptor)(nil)

// LoggingInterceptor returns an interceptor that logs and measures RPCs.
func LoggingInterceptor(m *metrics.Metrics) *ObservabilityInterceptor {
	return &ObservabilityInterceptor{metrics: m}
}

func (i *ObservabilityInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		start := time.Now()
		resp, err := next(ctx, req)
		i.observe(ctx, req.Spec().Procedure, start, err)
		return resp, err
	}
}

func (i *ObservabilityInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *ObservabilityInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		procedure := conn.Spec().Procedure
		slog.Info("RPC stream opened", "procedure", procedure, "user_id", GetUserID(ctx))
		i.metrics.StreamOpened()
		defer i.metrics.StreamClosed()

		start := time.Now()
		err := next(ctx, conn)
		i.observe(ctx, procedure, start, err)
		return err
	}
}

func (i *ObservabilityInterceptor) observe(ctx context.Context, procedure string, start time.Time, err error) {
	userID := GetUserID(ctx) // empty for public procedures
	elapsed := time.Since(start)
	duration := elapsed.Milliseconds()

	code := "ok"
	if err != nil {
		code = connect.CodeOf(err).String()
		var connectErr *connect.Error
		if errors.As(err, &connectErr) {
			slog.Warn("RPC error",
				"procedure", procedure,
				"code", connectErr.Code(),
				"error", connectErr.Message(),
				"user_id", userID,
				"duration_ms", duration,
			)
		} else {
			slog.Error("RPC error",
				"procedure", procedure,
				"error", err,
				"user_id", userID,
				"duration_ms", duration,
			)
		}
	} else {
		slog.Info("RPC ok",
			"procedure", procedure,
			"user_id", userID,
			"duration_ms", duration,
		)
	}

	i.metrics.ObserveRPC(procedure, code, elapsed.Seconds())
}
