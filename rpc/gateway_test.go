package rpc_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/rpc"
)

type captured struct {
	method string
	params map[string]string
	query  url.Values
	body   string
	header http.Header
}

// serveGateway registers one route on a grpc-gateway ServeMux and records
// what the gateway extracted from each request it routed.
func serveGateway(t *testing.T, method, pattern string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	mux := gwruntime.NewServeMux()
	err := mux.HandlePath(method, pattern, func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		body, _ := io.ReadAll(r.Body)
		*got = captured{
			method: r.Method,
			params: params,
			query:  r.URL.Query(),
			body:   string(body),
			header: r.Header.Clone(),
		}
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, err)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, got
}

func send(t *testing.T, srv *httptest.Server, d *rpc.Descriptor, cfg rpc.RequestConfig, params map[string]any) {
	t.Helper()
	tree, err := rpc.TreeFrom(params)
	require.NoError(t, err)
	wr, err := rpc.Build(d, cfg, tree)
	require.NoError(t, err)
	req, err := wr.HTTPRequest(context.Background())
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode, "gateway did not route %s %s", req.Method, req.URL)
}

func TestGatewayRouting_PatternPlaceholders(t *testing.T) {
	const pattern = "/v1/{name=projects/*/documents/*}/{message_id}"
	srv, got := serveGateway(t, http.MethodGet, pattern)

	send(t, srv, rpc.MustDescriptor(http.MethodGet, pattern, ""), rpc.RequestConfig{BasePath: srv.URL},
		map[string]any{"name": "projects/a/documents/b", "message_id": "XYZ", "view": "FULL"})

	assert.Equal(t, map[string]string{"name": "projects/a/documents/b", "message_id": "XYZ"}, got.params)
	assert.Equal(t, url.Values{"view": {"FULL"}}, got.query)
	assert.Empty(t, got.body)
}

func TestGatewayRouting_BodySelector(t *testing.T) {
	const pattern = "/v1/{flip.name}"
	srv, got := serveGateway(t, http.MethodPatch, pattern)

	send(t, srv, rpc.MustDescriptor(http.MethodPatch, pattern, "flip"),
		rpc.RequestConfig{BasePath: srv.URL, BearerToken: rpc.StaticToken("s3cret")},
		map[string]any{"flip": map[string]any{"name": "flap", "flop": "flup"}, "updateMask": "flop.flup"})

	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, map[string]string{"flip.name": "flap"}, got.params)
	assert.Equal(t, url.Values{"updateMask": {"flop.flup"}}, got.query)
	assert.JSONEq(t, `{"name":"flap","flop":"flup"}`, got.body)
	assert.Equal(t, "application/json; charset=utf-8", got.header.Get("Content-Type"))
	assert.Equal(t, "Bearer s3cret", got.header.Get("Authorization"))
}

func TestGatewayRouting_RepeatedQuery(t *testing.T) {
	const pattern = "/v1/{name}"
	srv, got := serveGateway(t, http.MethodDelete, pattern)

	send(t, srv, rpc.MustDescriptor(http.MethodDelete, pattern, ""), rpc.RequestConfig{BasePath: srv.URL},
		map[string]any{"name": "flap", "flop": []string{"flup", "flep"}})

	assert.Equal(t, map[string]string{"name": "flap"}, got.params)
	assert.Equal(t, []string{"flup", "flep"}, got.query["flop"])
	assert.Empty(t, got.body)
}

func TestGatewayRouting_BasePathPrefix(t *testing.T) {
	const pattern = "/api/v1/flip"
	srv, got := serveGateway(t, http.MethodPost, pattern)

	send(t, srv, rpc.MustDescriptor(http.MethodPost, "/v1/flip", "*"), rpc.RequestConfig{BasePath: srv.URL + "/api"},
		map[string]any{"flop": "flup"})

	assert.Equal(t, http.MethodPost, got.method)
	assert.JSONEq(t, `{"flop":"flup"}`, got.body)
}
