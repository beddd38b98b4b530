// Package otel exports traces for HTTP requests, GraphQL operations and
// resolver errors, driven by event bus subscriptions.
package otel

import (
	"context"
	"fmt"
	"sync"

	eventbus "github.com/hanpama/gqlcompose/internal/eventbus"
	events "github.com/hanpama/gqlcompose/internal/events"
	reqid "github.com/hanpama/gqlcompose/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures an OTLP exporter over protocol ("grpc" or "http") and
// subscribes the tracer to b. If endpoint is empty, no telemetry is
// configured.
func Setup(ctx context.Context, b *eventbus.Bus, endpoint, protocol, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := newExporter(ctx, endpoint, protocol)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unsubscribe := Subscribe(b, tp.Tracer("gqlcompose"))
	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

func newExporter(ctx context.Context, endpoint, protocol string) (sdktrace.SpanExporter, error) {
	switch protocol {
	case "", "grpc":
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	case "http":
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure())
	}
	return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
}

type subscriber struct {
	tracer    trace.Tracer
	httpSpans sync.Map // rid -> trace.Span
	gqlSpans  sync.Map // rid -> trace.Span
}

// Subscribe starts spans on b's events using tracer. Spans are correlated by
// request id, so HTTP and operation events must carry one in their context.
func Subscribe(b *eventbus.Bus, tracer trace.Tracer) (unsubscribe func()) {
	s := &subscriber{tracer: tracer}
	subs := []func(){
		eventbus.On(b, s.httpStart),
		eventbus.On(b, s.httpFinish),
		eventbus.On(b, s.operationStart),
		eventbus.On(b, s.operationFinish),
		eventbus.On(b, s.resolverFinish),
	}
	return func() {
		for _, unsubscribe := range subs {
			unsubscribe()
		}
	}
}

func (s *subscriber) httpStart(ctx context.Context, e events.HTTPStart) {
	rid, ok := reqid.FromContext(ctx)
	if !ok {
		return
	}
	_, span := s.tracer.Start(ctx, "http.request")
	span.SetAttributes(
		semconv.HTTPMethodKey.String(e.Request.Method),
		attribute.String("http.target", e.Request.URL.Path),
		attribute.String("request.id", rid),
	)
	s.httpSpans.Store(rid, span)
}

func (s *subscriber) httpFinish(ctx context.Context, e events.HTTPFinish) {
	rid, _ := reqid.FromContext(ctx)
	v, ok := s.httpSpans.LoadAndDelete(rid)
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.SetAttributes(semconv.HTTPStatusCodeKey.Int(e.Status))
	if e.Status >= 500 {
		span.SetStatus(codes.Error, "server error")
	}
	span.End()
}

func (s *subscriber) operationStart(ctx context.Context, e events.GraphQLStart) {
	rid, ok := reqid.FromContext(ctx)
	if !ok {
		return
	}
	parent := ctx
	if v, ok := s.httpSpans.Load(rid); ok {
		parent = trace.ContextWithSpan(ctx, v.(trace.Span))
	}
	_, span := s.tracer.Start(parent, "graphql.operation")
	span.SetAttributes(
		attribute.String("graphql.operation.name", e.OperationName),
		attribute.String("graphql.operation.type", e.OperationType),
	)
	s.gqlSpans.Store(rid, span)
}

func (s *subscriber) operationFinish(ctx context.Context, e events.GraphQLFinish) {
	rid, _ := reqid.FromContext(ctx)
	v, ok := s.gqlSpans.LoadAndDelete(rid)
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.SetAttributes(attribute.Int("graphql.error_count", len(e.Errors)))
	if len(e.Errors) > 0 {
		span.SetStatus(codes.Error, e.Errors[0].Error())
	}
	span.End()
}

// resolverFinish records failed resolvers as events on the operation span.
func (s *subscriber) resolverFinish(ctx context.Context, e events.ResolverFinish) {
	if e.Err == nil {
		return
	}
	rid, _ := reqid.FromContext(ctx)
	v, ok := s.gqlSpans.Load(rid)
	if !ok {
		return
	}
	v.(trace.Span).RecordError(e.Err, trace.WithAttributes(
		attribute.String("graphql.field", e.ObjectType+"."+e.Field),
		attribute.Bool("graphql.async", e.Async),
	))
}
