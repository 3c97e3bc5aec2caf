// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/tierboard/internal/config"
	"github.com/carterperez-dev/tierboard/internal/session"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func spanStatus(t *testing.T, rec *tracetest.SpanRecorder, name string) codes.Code {
	t.Helper()

	ended := rec.Ended()
	for i := len(ended) - 1; i >= 0; i-- {
		if ended[i].Name() == name {
			return ended[i].Status().Code
		}
	}
	t.Fatalf("no span named %s", name)
	return codes.Unset
}

func TestFailedAuthMarksSpan(t *testing.T) {
	spans := recordSpans(t)
	ctx := context.Background()

	manager, err := session.NewManager(session.NewMemoryStore(), config.SessionConfig{
		Secret: "auth-test-secret-0123456789abcdefghij",
		TTL:    time.Hour,
		Issuer: "tierboard-test",
	})
	require.NoError(t, err)
	svc := NewService(newMemUsers(), manager)

	creds := CredentialsRequest{Username: "alice", Password: "secret1"}
	_, err = svc.Register(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, codes.Unset, spanStatus(t, spans, "auth.Register"))

	_, err = svc.Register(ctx, creds)
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.Equal(t, codes.Error, spanStatus(t, spans, "auth.Register"))

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, codes.Error, spanStatus(t, spans, "auth.Login"))

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, codes.Error, spanStatus(t, spans, "auth.Login"))

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, codes.Unset, spanStatus(t, spans, "auth.Login"))
}
