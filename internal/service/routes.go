package service

import "tqf-proxy/internal/model"

// ConsciousnessRoute relays the current consciousness reading.
var ConsciousnessRoute = model.Route{
	Name:         "consciousness",
	Path:         "/api/proxy/consciousness",
	UpstreamPath: "/api/consciousness/current",
	Lang:         model.LangNone,
	RequireOK:    true,
	ErrorMessage: "Failed to fetch consciousness data",
}

// RawAnalysisRoute relays the daily raw consciousness analysis.
// Upstream error statuses are relayed when their body is JSON.
var RawAnalysisRoute = model.Route{
	Name:         "raw-analysis",
	Path:         "/api/proxy/consciousness/raw-analysis",
	UpstreamPath: "/api/consciousness-analysis/raw-analysis",
	Params:       []model.QueryParam{{Key: "period", Value: "daily"}},
	Lang:         model.LangOptional,
	RequireOK:    false,
	ErrorMessage: "Failed to fetch raw consciousness analysis",
}

// UpcomingDatesRoute relays the upcoming important dates.
var UpcomingDatesRoute = model.Route{
	Name:         "upcoming-dates",
	Path:         "/api/proxy/important-dates/upcoming",
	UpstreamPath: "/api/important-dates/upcoming",
	Lang:         model.LangDefault,
	RequireOK:    true,
	ErrorMessage: "Failed to fetch important dates",
}

// Routes lists every proxied route.
func Routes() []model.Route {
	return []model.Route{ConsciousnessRoute, RawAnalysisRoute, UpcomingDatesRoute}
}
