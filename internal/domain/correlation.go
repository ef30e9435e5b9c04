package domain

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// CorrelationIDPrefix marks quote operation correlation IDs in logs and payloads.
const CorrelationIDPrefix = "qt_"

// CorrelationIDPattern matches every ID produced by NewCorrelationID.
var CorrelationIDPattern = regexp.MustCompile(`^qt_[0-9a-f]{32}$`)

// NewCorrelationID returns a unique, grep-able operation token such as
// qt_4f1c2a9e0b7d4e55a1c3f0d2b6e8a9c1.
func NewCorrelationID() string {
	return CorrelationIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

type correlationKey struct{}

// ContextWithCorrelationID stores id in ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(correlationKey{}).(string)

	return id
}
