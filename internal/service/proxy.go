// Package service implements the core proxy forwarding logic.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"tqf-proxy/internal/client"
	"tqf-proxy/internal/config"
	"tqf-proxy/internal/model"
)

var (
	// ErrUpstreamStatus is returned when a route requires a 2xx upstream status and gets another.
	ErrUpstreamStatus = errors.New("upstream returned non-2xx status")
	// ErrInvalidJSON is returned when the upstream body does not parse as JSON.
	ErrInvalidJSON = errors.New("upstream body is not valid JSON")
	// ErrBodyTooLarge is returned when the upstream body exceeds upstream.max_body_bytes.
	ErrBodyTooLarge = errors.New("upstream body too large")
)

// APIKeyHeader carries the server-held credential to the upstream.
const APIKeyHeader = "x-api-key"

const userAgent = "tqf-proxy/1.0"

// ProxyService fetches route payloads from the upstream TQF API.
type ProxyService struct {
	client       *client.UpstreamClient
	logger       *slog.Logger
	baseURL      string
	apiKey       string
	maxBodyBytes int64
}

// NewProxyService creates a ProxyService.
func NewProxyService(c *client.UpstreamClient, cfg *config.Config, logger *slog.Logger) (*ProxyService, error) {
	if _, err := url.Parse(cfg.Upstream.BaseURL); err != nil {
		return nil, fmt.Errorf("parse upstream base_url: %w", err)
	}
	if cfg.Upstream.APIKey == "" {
		return nil, errors.New("upstream api_key is empty")
	}

	return &ProxyService{
		client:       c,
		logger:       logger.With("component", "proxy_service"),
		baseURL:      strings.TrimRight(cfg.Upstream.BaseURL, "/"),
		apiKey:       cfg.Upstream.APIKey,
		maxBodyBytes: cfg.Upstream.MaxBodyBytes,
	}, nil
}

// Fetch performs exactly one upstream GET for route and returns the JSON body verbatim.
// query is the inbound query string; only "lang" is read from it, per the route's LangMode.
// Every error is an upstream failure; callers map it to the route's error envelope.
func (s *ProxyService) Fetch(ctx context.Context, route model.Route, query url.Values) (*model.Result, error) {
	upstreamURL := s.BuildUpstreamURL(route, query)

	s.logger.Debug("fetching route",
		"route", route.Name,
		"upstream_path", route.UpstreamPath,
	)

	resp, err := s.client.Get(ctx, upstreamURL, s.requestHeaders())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", route.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if route.RequireOK && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, fmt.Errorf("%s: %w: %d", route.Name, ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := s.readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", route.Name, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: %w (status %d)", route.Name, ErrInvalidJSON, resp.StatusCode)
	}

	return &model.Result{StatusCode: resp.StatusCode, Body: body}, nil
}

// BuildUpstreamURL concatenates the base URL, the route's upstream path and its
// query parameters in declaration order, with lang appended last when forwarded.
func (s *ProxyService) BuildUpstreamURL(route model.Route, query url.Values) string {
	params := make([]model.QueryParam, 0, len(route.Params)+1)
	params = append(params, route.Params...)

	lang := query.Get("lang")
	switch route.Lang {
	case model.LangOptional:
		if lang != "" {
			params = append(params, model.QueryParam{Key: "lang", Value: lang})
		}
	case model.LangDefault:
		if lang == "" {
			lang = model.DefaultLang
		}
		params = append(params, model.QueryParam{Key: "lang", Value: lang})
	}

	var b strings.Builder
	b.WriteString(s.baseURL)
	b.WriteString(route.UpstreamPath)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

func (s *ProxyService) requestHeaders() http.Header {
	h := make(http.Header)
	h.Set(APIKeyHeader, s.apiKey)
	h.Set("Accept", "application/json")
	h.Set("User-Agent", userAgent)
	return h
}

// readBody reads the whole upstream body, failing when it exceeds maxBodyBytes.
// A zero limit disables the check.
func (s *ProxyService) readBody(r io.Reader) ([]byte, error) {
	if s.maxBodyBytes <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read upstream body: %w", err)
		}
		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, s.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	if int64(len(body)) > s.maxBodyBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, s.maxBodyBytes)
	}
	return body, nil
}
