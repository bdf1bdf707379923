package rpc

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

// TokenSource yields the bearer token sent with a request. It is consulted
// on every Build; an empty token means no Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed bearer token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// RequestConfig holds the per-call settings of Build.
type RequestConfig struct {
	// BasePath is the absolute URL request paths are resolved against, e.g.
	// "https://example.test/api". Its own path is preserved.
	BasePath string
	// BearerToken, when set, produces the Authorization header.
	BearerToken TokenSource
	// Logger receives warnings about dropped parameters. Defaults to the
	// global zerolog logger.
	Logger *zerolog.Logger
}

func (c RequestConfig) logger() *zerolog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return &log.Logger
}

// WireRequest is a fully resolved HTTP request. Build never sends it.
type WireRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	// Body is nil when the request carries no body.
	Body []byte
	// Warnings lists parameters that were dropped from the query string.
	Warnings []Warning
}

// HTTPRequest returns an *http.Request carrying ctx, ready for any
// http.Client.
func (r *WireRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "creating http request")
	}
	req.Header = r.Header.Clone()
	return req, nil
}

// Build resolves d against params and cfg. params is never modified; a nil
// tree stands for a request without parameters.
func Build(d *Descriptor, cfg RequestConfig, params *Tree) (*WireRequest, error) {
	path, consumed, err := ResolvePath(d.Template, params)
	if err != nil {
		return nil, err
	}
	parts, err := Partition(params, consumed, d.Method, d.Body)
	if err != nil {
		return nil, err
	}
	u, err := resolveURL(cfg.BasePath, path)
	if err != nil {
		return nil, err
	}
	appendQuery(u, parts.Query)

	header := make(http.Header)
	if parts.Body != nil {
		header.Set("Content-Type", contentTypeJSON)
	}
	if cfg.BearerToken != nil {
		if token := cfg.BearerToken.Token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	if len(parts.Warnings) > 0 {
		logger := cfg.logger()
		for _, w := range parts.Warnings {
			logger.Warn().
				Str("rpc", d.String()).
				Str("param", w.Key).
				Stringer("kind", w.Kind).
				Msg("dropping query parameter: " + w.Reason)
		}
	}

	return &WireRequest{
		Method:   string(d.Method),
		URL:      u,
		Header:   header,
		Body:     parts.Body,
		Warnings: parts.Warnings,
	}, nil
}

// resolveURL joins path onto base. The leading slashes of path are removed
// and base gets a trailing slash, otherwise reference resolution would drop
// the last segment of base. Existing escapes in path are kept; "?" and "#"
// are encoded as %3F and %23.
func resolveURL(base, path string) (*url.URL, error) {
	if base == "" {
		return nil, errors.Wrapf(ErrNoBaseContext, "resolving %q", path)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	b, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base path %q", base)
	}
	if !b.IsAbs() {
		return nil, errors.Wrapf(ErrNoBaseContext, "base path %q is not an absolute URL", base)
	}
	rel := strings.TrimLeft(path, "/")
	ref := &url.URL{Path: rel}
	if unescaped, err := url.PathUnescape(rel); err == nil {
		ref.Path = unescaped
		ref.RawPath = rel
	}
	return b.ResolveReference(ref), nil
}

func appendQuery(u *url.URL, entries []QueryEntry) {
	if len(entries) == 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString(u.RawQuery)
	for _, e := range entries {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(e.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(e.Value))
	}
	u.RawQuery = sb.String()
}

// RPC is a typed Descriptor: Req is the request message type, Resp the
// response message type. Resp only documents the call.
type RPC[Req, Resp any] struct {
	*Descriptor
}

// NewRPC builds an RPC from the parts of a google.api.http rule.
func NewRPC[Req, Resp any](method, path, body string) (*RPC[Req, Resp], error) {
	d, err := NewDescriptor(method, path, body)
	if err != nil {
		return nil, err
	}
	return &RPC[Req, Resp]{Descriptor: d}, nil
}

// MustRPC is like NewRPC but panics on error.
func MustRPC[Req, Resp any](method, path, body string) *RPC[Req, Resp] {
	r, err := NewRPC[Req, Resp](method, path, body)
	if err != nil {
		panic(err)
	}
	return r
}

// Build converts req with TreeFrom and builds the wire request.
func (r *RPC[Req, Resp]) Build(cfg RequestConfig, req Req) (*WireRequest, error) {
	params, err := TreeFrom(req)
	if err != nil {
		return nil, err
	}
	return Build(r.Descriptor, cfg, params)
}

// NewRequest is Build followed by WireRequest.HTTPRequest.
func (r *RPC[Req, Resp]) NewRequest(ctx context.Context, cfg RequestConfig, req Req) (*http.Request, error) {
	wr, err := r.Build(cfg, req)
	if err != nil {
		return nil, err
	}
	return wr.HTTPRequest(ctx)
}
