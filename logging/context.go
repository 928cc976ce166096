package logging

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const operationKey ctxKey = "operation"

// ContextWithOperation tags ctx with the running operation name
// (composite, pad).
func ContextWithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey, op)
}

// GetOperation extracts the operation name from ctx.
func GetOperation(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(operationKey).(string); ok {
		return s
	}
	return ""
}

// FromContext returns logger, or a no-op logger when it is nil, tagged with
// the operation name carried by ctx.
func FromContext(ctx context.Context, logger Logger) Logger {
	if logger == nil {
		logger = Nop()
	}
	if op := GetOperation(ctx); op != "" {
		return logger.With(zap.String("operation", op))
	}
	return logger
}
