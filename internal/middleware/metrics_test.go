package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"

	"tqf-proxy/internal/metrics"
)

// requestLabels returns the label sets of tqf_proxy_http_requests_total with their counts.
func requestLabels(t *testing.T, m *metrics.Metrics) []map[string]string {
	t.Helper()
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var out []map[string]string
	for _, f := range families {
		if f.GetName() != "tqf_proxy_http_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			labels["_count"] = strconv.FormatFloat(metric.GetCounter().GetValue(), 'f', -1, 64)
			out = append(out, labels)
		}
	}
	return out
}

func TestMetricsMiddleware_IncrementsCounter(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m, "/metrics"))
	e.GET("/api/proxy/consciousness", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/proxy/consciousness", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	for _, labels := range requestLabels(t, m) {
		if labels["path_prefix"] == "/api/proxy/consciousness" {
			if labels["_count"] != "1" {
				t.Errorf("counter value = %s, want 1", labels["_count"])
			}
			if labels["status_code"] != "200" {
				t.Errorf("status_code = %q, want %q", labels["status_code"], "200")
			}
			return
		}
	}
	t.Error("expected tqf_proxy_http_requests_total with path_prefix=/api/proxy/consciousness")
}

func TestMetricsMiddleware_RecordsDuration(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m, "/metrics"))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	for _, f := range families {
		if f.GetName() == "tqf_proxy_http_request_duration_seconds" {
			for _, metric := range f.GetMetric() {
				if metric.GetHistogram().GetSampleCount() > 0 {
					return
				}
			}
		}
	}
	t.Error("expected tqf_proxy_http_request_duration_seconds with at least one sample")
}

func TestMetricsMiddleware_ErrorEnvelopeStatus(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m, "/metrics"))
	e.GET("/api/proxy/important-dates/upcoming", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch important dates"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/proxy/important-dates/upcoming", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	for _, labels := range requestLabels(t, m) {
		if labels["path_prefix"] == "/api/proxy/important-dates/upcoming" {
			if labels["status_code"] != "500" {
				t.Errorf("status_code = %q, want %q", labels["status_code"], "500")
			}
			return
		}
	}
	t.Error("expected tqf_proxy_http_requests_total for the upcoming dates route")
}

func TestMetricsMiddleware_HTTPErrorStatus(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m, "/metrics"))
	e.GET("/api/proxy/consciousness", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/proxy/consciousness", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	for _, labels := range requestLabels(t, m) {
		if labels["path_prefix"] == "/api/proxy/consciousness" {
			if labels["status_code"] != "404" {
				t.Errorf("status_code = %q, want %q", labels["status_code"], "404")
			}
			return
		}
	}
	t.Error("expected tqf_proxy_http_requests_total with path_prefix=/api/proxy/consciousness")
}

func TestMetricsMiddleware_UnknownMethodNormalized(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m, "/metrics"))
	e.Any("/api/proxy/consciousness", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("XYZZY", "/api/proxy/consciousness", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	for _, labels := range requestLabels(t, m) {
		if labels["path_prefix"] == "/api/proxy/consciousness" {
			if labels["method"] != "other" {
				t.Errorf("method = %q, want %q", labels["method"], "other")
			}
			return
		}
	}
	t.Error("expected tqf_proxy_http_requests_total with method=other")
}

func TestMetricsMiddleware_RouterNotFound(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m, "/metrics"))

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	for _, labels := range requestLabels(t, m) {
		if labels["path_prefix"] == "other" && labels["method"] == "GET" {
			if labels["status_code"] != "404" {
				t.Errorf("status_code = %q, want %q", labels["status_code"], "404")
			}
			return
		}
	}
	t.Error("expected tqf_proxy_http_requests_total with path_prefix=other, method=GET, status_code=404")
}

func TestMetricsMiddleware_SkipsScrapePath(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m, "/metrics"))
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := requestLabels(t, m); len(got) != 0 {
		t.Errorf("scrape requests should not be counted, got %v", got)
	}
}
