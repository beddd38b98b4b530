package telemetry

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	eventbus "github.com/hanpama/gqlcompose/internal/eventbus"
	events "github.com/hanpama/gqlcompose/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"info":  zapcore.InfoLevel,
		"DEBUG": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"Error": zapcore.ErrorLevel,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}
	_, err := ParseLevel("verbose")
	require.EqualError(t, err, `unknown log level "verbose"`)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger("loud")
	require.Error(t, err)
}

func TestMetrics_FedFromEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	b := eventbus.New()
	unsubscribe := m.Subscribe(b)
	ctx := context.Background()

	eventbus.Emit(ctx, b, events.HTTPFinish{Request: httptest.NewRequest("POST", "/graphql", nil), Status: 200, Duration: time.Millisecond})
	eventbus.Emit(ctx, b, events.GraphQLFinish{OperationType: "query", Duration: time.Millisecond})
	eventbus.Emit(ctx, b, events.GraphQLFinish{OperationType: "mutation", Errors: []error{errors.New("boom")}})
	eventbus.Emit(ctx, b, events.ResolverFinish{ObjectType: "Query", Field: "boom", Err: errors.New("boom")})
	eventbus.Emit(ctx, b, events.ResolverFinish{ObjectType: "User", Field: "avatar", Async: true})
	eventbus.Emit(ctx, b, events.SchemaAssembled{Modules: 3, Duration: 2 * time.Second})

	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("query", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("mutation", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ResolverErrors.WithLabelValues("Query.boom")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.ResolverErrors.WithLabelValues("User.avatar")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.SchemaAssembleTime))
	require.Equal(t, 2, testutil.CollectAndCount(m.ResolverDuration))

	unsubscribe()
	require.Zero(t, eventbus.Len[events.ResolverFinish](b))
}
