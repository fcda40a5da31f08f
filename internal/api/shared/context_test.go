package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/taskly-api/internal/service/auth"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	withTrace := SetTraceID(ctx)
	traceID := GetTraceID(withTrace)
	assert.Len(t, traceID, 32)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	assert.Empty(t, GetTraceID(ctx), "original context must remain unchanged")
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestGenerateTraceIDUnique(t *testing.T) {
	t.Parallel()

	const iterations = 1000
	seen := make(map[string]struct{}, iterations)
	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate trace ID %s", id)
		seen[id] = struct{}{}
	}
}

func TestClaimsContext(t *testing.T) {
	t.Parallel()

	_, ok := GetClaims(context.Background())
	assert.False(t, ok)

	claims := &auth.Claims{Username: "alice", UserID: 1}
	got, ok := GetClaims(WithClaims(context.Background(), claims))
	require.True(t, ok)
	assert.Same(t, claims, got)

	_, ok = GetClaims(WithClaims(context.Background(), nil))
	assert.False(t, ok)

	_, ok = GetClaims(context.WithValue(context.Background(), ClaimsContextKey, "alice"))
	assert.False(t, ok)
}
