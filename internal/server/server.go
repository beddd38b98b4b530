// Package server serves a dynamic schema over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	eventbus "github.com/hanpama/gqlcompose/internal/eventbus"
	events "github.com/hanpama/gqlcompose/internal/events"
	executor "github.com/hanpama/gqlcompose/internal/executor"
	language "github.com/hanpama/gqlcompose/internal/language"
	reqid "github.com/hanpama/gqlcompose/internal/reqid"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"google.golang.org/grpc/metadata"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler is an http.Handler that serves a GraphQL endpoint.
// It parses requests, runs the schema, and writes responses in the GraphQL
// response shape.
type Handler struct {
	schema *dynamic.Schema
	opt    Options
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS configuration. If AllowedOrigins is empty, CORS is disabled.
	CORS CORSOptions

	// MetadataHeaders lists HTTP headers forwarded to resolvers as incoming
	// metadata. Header names are case-insensitive. Default is none.
	MetadataHeaders []string

	// Root returns the root value for one operation. Default is null.
	Root func() dynamic.FieldValue

	Logger *otelzap.Logger
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty(pretty bool) Option      { return func(o *Options) { o.Pretty = pretty } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}
func WithMetadataHeaders(headers ...string) Option {
	return func(o *Options) { o.MetadataHeaders = headers }
}
func WithRoot(root func() dynamic.FieldValue) Option {
	return func(o *Options) { o.Root = root }
}
func WithLogger(logger *otelzap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

// New creates a GraphQL HTTP handler for s.
func New(s *dynamic.Schema, opts ...Option) *Handler {
	op := Options{Timeout: 10 * time.Second}
	for _, f := range opts {
		f(&op)
	}
	if op.Logger == nil {
		op.Logger = otelzap.New(zap.NewNop())
	}
	if op.Root == nil {
		op.Root = func() dynamic.FieldValue { return dynamic.Null }
	}
	return &Handler{schema: s, opt: op}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	var rid string
	if supplied := r.Header.Get(reqid.Header); supplied != "" {
		ctx, rid = reqid.WithID(ctx, supplied)
	} else {
		ctx, rid = reqid.NewContext(ctx)
	}
	w.Header().Set(reqid.Header, rid)

	status := http.StatusOK
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r})
	defer func() {
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, Status: status, Duration: time.Since(start)})
	}()

	if len(h.opt.CORS.AllowedOrigins) > 0 {
		setCORSHeaders(w, r, h.opt.CORS)
	}

	if r.Method == http.MethodOptions {
		status = http.StatusNoContent
		w.WriteHeader(status)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		status = http.StatusMethodNotAllowed
		h.writeJSON(ctx, w, status, requestError("method not allowed"))
		return
	}

	ctx = metadata.NewIncomingContext(ctx, h.forwardedMetadata(r, rid))

	req, batch, err := parseRequest(r, h.opt.MaxBodyBytes)
	if err != nil {
		status = http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.opt.Logger.Ctx(ctx).Warn("rejected GraphQL request", zap.String("request_id", rid), zap.Error(err))
		h.writeJSON(ctx, w, status, requestError(err.Error()))
		return
	}

	if batch != nil {
		out := make([]*executor.ExecutionResult, len(batch))
		for i := range batch {
			out[i] = h.executeOne(ctx, batch[i], true)
		}
		h.writeJSON(ctx, w, status, out)
		return
	}

	h.writeJSON(ctx, w, status, h.executeOne(ctx, req, r.Method == http.MethodPost))
}

// forwardedMetadata copies the allowed headers, keyed by lower-case name, and
// adds the request id.
func (h *Handler) forwardedMetadata(r *http.Request, rid string) metadata.MD {
	md := metadata.MD{}
	for _, hdr := range h.opt.MetadataHeaders {
		if v := r.Header.Values(hdr); len(v) > 0 {
			md[strings.ToLower(hdr)] = v
		}
	}
	md[reqid.Header] = []string{rid}
	return md
}

// executeOne runs a single request. Mutations are refused unless
// allowMutation is set.
func (h *Handler) executeOne(ctx context.Context, req GraphQLRequest, allowMutation bool) *executor.ExecutionResult {
	doc, err := language.ParseQuery(req.Query)
	if err != nil {
		return &executor.ExecutionResult{Errors: []executor.GraphQLError{dynamic.ParseError(err)}}
	}

	opDef := doc.Operations.ForName(req.OperationName)
	if opDef == nil && req.OperationName == "" && len(doc.Operations) == 1 {
		opDef = doc.Operations[0]
	}
	opType := ""
	if opDef != nil {
		opType = string(opDef.Operation)
	}
	if opType == "mutation" && !allowMutation {
		return requestError("mutations are only allowed over POST")
	}

	start := time.Now()
	eventbus.Publish(ctx, events.GraphQLStart{Query: req.Query, OperationName: req.OperationName, OperationType: opType})
	result := h.schema.ExecuteDocument(ctx, doc, req.OperationName, req.Variables, h.opt.Root())
	errs := make([]error, len(result.Errors))
	for i := range result.Errors {
		errs[i] = result.Errors[i]
	}
	eventbus.Publish(ctx, events.GraphQLFinish{
		Query:         req.Query,
		OperationName: req.OperationName,
		OperationType: opType,
		Errors:        errs,
		Duration:      time.Since(start),
	})
	return result
}

// ------------------ Request parsing ------------------

type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

var (
	errBodyTooLarge = errors.New("body too large")
	errMissingQuery = errors.New("missing 'query'")
)

func parseRequest(r *http.Request, maxBody int64) (GraphQLRequest, []GraphQLRequest, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query().Get("query")
		if q == "" {
			return GraphQLRequest{}, nil, errMissingQuery
		}
		vars := map[string]any{}
		if v := r.URL.Query().Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &vars); err != nil {
				return GraphQLRequest{}, nil, errors.New("invalid 'variables' JSON")
			}
		}
		op := r.URL.Query().Get("operationName")
		return GraphQLRequest{Query: q, Variables: vars, OperationName: op}, nil, nil
	}

	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && !strings.HasPrefix(ct, "application/json;") {
		return GraphQLRequest{}, nil, errors.New("unsupported Content-Type")
	}
	defer r.Body.Close()
	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return GraphQLRequest{}, nil, errors.New("failed to read body")
	}
	if maxBody > 0 && int64(len(body)) > maxBody {
		return GraphQLRequest{}, nil, errBodyTooLarge
	}

	if len(body) > 0 && body[0] == '[' {
		var arr []GraphQLRequest
		if err := json.Unmarshal(body, &arr); err != nil {
			return GraphQLRequest{}, nil, errors.New("invalid JSON")
		}
		if len(arr) == 0 {
			return GraphQLRequest{}, nil, errors.New("empty batch")
		}
		for _, req := range arr {
			if req.Query == "" {
				return GraphQLRequest{}, nil, errMissingQuery
			}
		}
		return GraphQLRequest{}, arr, nil
	}
	var req GraphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return GraphQLRequest{}, nil, errors.New("invalid JSON")
	}
	if req.Query == "" {
		return GraphQLRequest{}, nil, errMissingQuery
	}
	if req.Variables == nil {
		req.Variables = map[string]any{}
	}
	return req, nil, nil
}

// ------------------ Response formatting ------------------

func requestError(message string) *executor.ExecutionResult {
	return &executor.ExecutionResult{Errors: []executor.GraphQLError{{Message: message}}}
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if h.opt.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		h.opt.Logger.Ctx(ctx).Error("writing GraphQL response", zap.Error(err))
	}
}

func setCORSHeaders(w http.ResponseWriter, r *http.Request, opts CORSOptions) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	wildcard := contains(opts.AllowedOrigins, "*")
	if !wildcard && !contains(opts.AllowedOrigins, origin) {
		return
	}
	if wildcard {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Expose-Headers", reqid.Header)
	if r.Method == http.MethodOptions {
		if hdr := r.Header.Get("Access-Control-Request-Headers"); hdr != "" {
			w.Header().Set("Access-Control-Allow-Headers", hdr)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ------------------ Process server ------------------

// NewMux routes /graphql to h, /health to a liveness probe and /metrics to
// the metrics in gatherer.
func NewMux(h http.Handler, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/graphql", h)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *otelzap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
