package otel

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	eventbus "github.com/hanpama/gqlcompose/internal/eventbus"
	events "github.com/hanpama/gqlcompose/internal/events"
	reqid "github.com/hanpama/gqlcompose/internal/reqid"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSubscribe_NestsOperationUnderRequest(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	b := eventbus.New()
	unsubscribe := Subscribe(b, tp.Tracer("test"))
	defer unsubscribe()

	ctx, _ := reqid.NewContext(context.Background())
	r := httptest.NewRequest("POST", "/graphql", nil)
	eventbus.Emit(ctx, b, events.HTTPStart{Request: r})
	eventbus.Emit(ctx, b, events.GraphQLStart{OperationName: "Q", OperationType: "query"})
	eventbus.Emit(ctx, b, events.ResolverFinish{ObjectType: "Query", Field: "boom", Err: errors.New("boom")})
	eventbus.Emit(ctx, b, events.GraphQLFinish{OperationType: "query", Errors: []error{errors.New("boom")}})
	eventbus.Emit(ctx, b, events.HTTPFinish{Request: r, Status: 200})

	spans := rec.Ended()
	require.Len(t, spans, 2)
	op, req := spans[0], spans[1]
	require.Equal(t, "graphql.operation", op.Name())
	require.Equal(t, "http.request", req.Name())
	require.Equal(t, req.SpanContext().SpanID(), op.Parent().SpanID())
	require.Len(t, op.Events(), 1)
	require.Equal(t, "exception", op.Events()[0].Name)
}

func TestSubscribe_IgnoresEventsWithoutRequestID(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	b := eventbus.New()
	defer Subscribe(b, tp.Tracer("test"))()

	eventbus.Emit(context.Background(), b, events.GraphQLStart{OperationType: "query"})
	eventbus.Emit(context.Background(), b, events.GraphQLFinish{OperationType: "query"})

	require.Empty(t, rec.Ended())
	require.Empty(t, rec.Started())
}

func TestSetup(t *testing.T) {
	shutdown, err := Setup(context.Background(), eventbus.New(), "", "grpc", "svc")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, err = Setup(context.Background(), eventbus.New(), "localhost:4317", "udp", "svc")
	require.EqualError(t, err, `unsupported OTLP protocol "udp"`)
}
