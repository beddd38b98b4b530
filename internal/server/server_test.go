package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	eventbus "github.com/hanpama/gqlcompose/internal/eventbus"
	events "github.com/hanpama/gqlcompose/internal/events"
	reqid "github.com/hanpama/gqlcompose/internal/reqid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

type probe struct {
	md    metadata.MD
	rid   string
	bumps atomic.Int32
}

func newTestSchema(t *testing.T, p *probe) *dynamic.Schema {
	t.Helper()
	str := func(v string) dynamic.ResolverFunc {
		return func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) { return dynamic.Value(v), nil }
	}
	query := dynamic.NewObject("Query").
		Field(dynamic.NewField("hello", dynamic.Named("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			p.md = rc.Metadata()
			p.rid, _ = reqid.FromContext(rc.Context())
			return dynamic.Value("world"), nil
		})).
		Field(dynamic.NewField("greeting", dynamic.NamedNN("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			g, err := dynamic.ParentAs[string](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return dynamic.Value(*g), nil
		})).
		Field(dynamic.NewField("other", dynamic.Named("String"), str("other")))
	mutation := dynamic.NewObject("Mutation").
		Field(dynamic.NewField("bump", dynamic.NamedNN("Int"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			return dynamic.Value(int(p.bumps.Add(1))), nil
		}))
	s, err := dynamic.NewSchemaBuilder("Query", "Mutation", "").Register(query).Register(mutation).Finish()
	require.NoError(t, err)
	return s
}

func newTestHandler(t *testing.T, opts ...Option) (*Handler, *probe) {
	t.Helper()
	p := &probe{}
	return New(newTestSchema(t, p), opts...), p
}

func post(h http.Handler, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/graphql", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) any {
	t.Helper()
	var out any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPost(t *testing.T) {
	h, _ := newTestHandler(t)
	w := post(h, `{"query":"{ hello other }"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	if diff := cmp.Diff(map[string]any{"data": map[string]any{"hello": "world", "other": "other"}}, decode(t, w)); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestGet(t *testing.T) {
	h, p := newTestHandler(t)
	q := url.Values{"query": {"query Q { hello }"}, "operationName": {"Q"}}
	req := httptest.NewRequest("GET", "/graphql?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"data":{"hello":"world"}}`, w.Body.String())

	q = url.Values{"query": {"mutation { bump }"}}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/graphql?"+q.Encode(), nil))
	require.JSONEq(t, `{"data":null,"errors":[{"message":"mutations are only allowed over POST"}]}`, w.Body.String())
	require.Zero(t, p.bumps.Load())
}

func TestBatch(t *testing.T) {
	h, p := newTestHandler(t)
	w := post(h, `[{"query":"{ hello }"},{"query":"mutation { bump }"},{"query":"mutation { bump }"}]`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[{"data":{"hello":"world"}},{"data":{"bump":1}},{"data":{"bump":2}}]`, w.Body.String())
	require.Equal(t, int32(2), p.bumps.Load())
}

func TestRoot(t *testing.T) {
	greeting := "hi"
	h, _ := newTestHandler(t, WithRoot(func() dynamic.FieldValue { return dynamic.Borrowed(&greeting, "") }))
	w := post(h, `{"query":"{ greeting }"}`)
	require.JSONEq(t, `{"data":{"greeting":"hi"}}`, w.Body.String())

	h, _ = newTestHandler(t)
	w = post(h, `{"query":"{ greeting }"}`)
	out := decode(t, w).(map[string]any)
	require.Nil(t, out["data"], "a non-null root field that fails nulls the data")
	require.Len(t, out["errors"], 1)
}

func TestRequestErrors(t *testing.T) {
	h, _ := newTestHandler(t)
	for _, tc := range []struct {
		name    string
		method  string
		body    string
		ctype   string
		status  int
		message string
	}{
		{"invalid json", "POST", `{`, "application/json", http.StatusBadRequest, "invalid JSON"},
		{"missing query", "POST", `{"variables":{}}`, "application/json", http.StatusBadRequest, "missing 'query'"},
		{"empty batch", "POST", `[]`, "application/json", http.StatusBadRequest, "empty batch"},
		{"content type", "POST", `query`, "text/plain", http.StatusBadRequest, "unsupported Content-Type"},
		{"method", "PUT", ``, "", http.StatusMethodNotAllowed, "method not allowed"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/graphql", strings.NewReader(tc.body))
			if tc.ctype != "" {
				req.Header.Set("Content-Type", tc.ctype)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code)
			require.JSONEq(t, `{"data":null,"errors":[{"message":"`+tc.message+`"}]}`, w.Body.String())
		})
	}
}

func TestParseErrorHasLocations(t *testing.T) {
	h, _ := newTestHandler(t)
	w := post(h, `{"query":"{ hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w).(map[string]any)
	errs := out["errors"].([]any)
	require.Len(t, errs, 1)
	assert.NotEmpty(t, errs[0].(map[string]any)["locations"])
}

func TestForwardedHeaders(t *testing.T) {
	h, p := newTestHandler(t, WithMetadataHeaders("X-Test"))
	w := post(h, `{"query":"{ hello }"}`, "X-Test", "abc", "X-Other", "nope")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"abc"}, p.md.Get("x-test"))
	require.Empty(t, p.md.Get("x-other"))
}

func TestForwardedHeadersDefaultEmpty(t *testing.T) {
	h, p := newTestHandler(t)
	post(h, `{"query":"{ hello }"}`, "X-Test", "abc")
	require.Empty(t, p.md.Get("x-test"), "header should not be forwarded by default")
}

func TestCORSAndPreflight(t *testing.T) {
	h, _ := newTestHandler(t, WithCORS("*"))

	w := post(h, `{"query":"{ hello }"}`, "Origin", "http://example.com")
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	pre := httptest.NewRequest("OPTIONS", "/graphql", nil)
	pre.Header.Set("Origin", "http://example.com")
	pre.Header.Set("Access-Control-Request-Headers", "X-Test")
	pw := httptest.NewRecorder()
	h.ServeHTTP(pw, pre)
	require.Equal(t, http.StatusNoContent, pw.Code)
	require.Equal(t, "*", pw.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "X-Test", pw.Header().Get("Access-Control-Allow-Headers"))

	h, _ = newTestHandler(t, WithCORS("http://a.example"))
	w = post(h, `{"query":"{ hello }"}`, "Origin", "http://b.example")
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	w = post(h, `{"query":"{ hello }"}`, "Origin", "http://a.example")
	require.Equal(t, "http://a.example", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestMaxBodyBytes(t *testing.T) {
	h, _ := newTestHandler(t, WithMaxBodyBytes(10))
	w := post(h, `{"query":"1234567890"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestID(t *testing.T) {
	h, p := newTestHandler(t)
	w := post(h, `{"query":"{ hello }"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, p.rid, "missing request id in context")
	require.Equal(t, p.rid, w.Header().Get(reqid.Header))
	require.Equal(t, []string{p.rid}, p.md.Get(reqid.Header))

	supplied := "6f1c1f0a-2b8e-4a57-9d47-0f4b2b0f9c11"
	post(h, `{"query":"{ hello }"}`, reqid.Header, supplied)
	require.Equal(t, supplied, p.rid)
}

func TestPublishesEvents(t *testing.T) {
	b := eventbus.New()
	eventbus.Use(b)
	t.Cleanup(func() { eventbus.Use(nil) })
	var finished []events.GraphQLFinish
	var statuses []int
	eventbus.On(b, func(_ context.Context, e events.GraphQLFinish) { finished = append(finished, e) })
	eventbus.On(b, func(_ context.Context, e events.HTTPFinish) { statuses = append(statuses, e.Status) })

	h, _ := newTestHandler(t)
	post(h, `{"query":"mutation M { bump }","operationName":"M"}`)
	post(h, `{`)

	require.Len(t, finished, 1)
	require.Equal(t, "M", finished[0].OperationName)
	require.Equal(t, "mutation", finished[0].OperationType)
	require.Empty(t, finished[0].Errors)
	require.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, statuses)
}

func TestMux(t *testing.T) {
	h, _ := newTestHandler(t)
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"}))
	mux := NewMux(h, reg)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "probe_total 0")

	w = post(mux, `{"query":"{ hello }"}`)
	require.JSONEq(t, `{"data":{"hello":"world"}}`, w.Body.String())
}
