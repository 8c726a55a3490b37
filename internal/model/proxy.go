// Package model defines shared types for the proxy.
package model

import (
	"encoding/json"
	"io"
	"net/http"
)

// LangMode controls how a route forwards the inbound "lang" query parameter.
type LangMode int

const (
	// LangNone never forwards lang.
	LangNone LangMode = iota
	// LangOptional forwards lang only when the client sent a non-empty value.
	LangOptional
	// LangDefault always forwards lang, falling back to DefaultLang.
	LangDefault
)

// DefaultLang is used by LangDefault routes when the client sends no lang.
const DefaultLang = "en"

// QueryParam is one upstream query parameter. Routes keep them in a slice
// so the upstream URL preserves declaration order.
type QueryParam struct {
	Key   string
	Value string
}

// Route describes one proxy endpoint: where it listens, what it calls
// upstream and how it reports failure.
type Route struct {
	Name         string
	Path         string
	UpstreamPath string
	Params       []QueryParam
	Lang         LangMode
	// RequireOK treats a non-2xx upstream status as a failure. When false the
	// upstream body is relayed as long as it is valid JSON.
	RequireOK    bool
	ErrorMessage string
}

// ProxyResponse represents the raw upstream response.
type ProxyResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Result is a successfully fetched upstream payload.
type Result struct {
	StatusCode int
	Body       json.RawMessage
}
