package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civiceye_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "civiceye_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	ActionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civiceye_gamification_actions_total",
			Help: "Gamification actions applied",
		},
		[]string{"action"},
	)

	BadgeUnlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civiceye_badges_unlocked_total",
			Help: "Badges unlocked",
		},
		[]string{"badge"},
	)

	MissionClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civiceye_missions_claimed_total",
			Help: "Daily missions claimed",
		},
		[]string{"mission"},
	)

	AnalyticsRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "civiceye_analytics_refresh_seconds",
			Help: "Time spent computing an analytics snapshot",
		},
	)

	ExportCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civiceye_exports_total",
			Help: "Report exports by format",
		},
		[]string{"format"},
	)
)

// InitMetrics registers every collector with the default registry.
func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, ActionCount, BadgeUnlocks, MissionClaims, AnalyticsRefreshDuration, ExportCount)
}
