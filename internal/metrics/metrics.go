// Package metrics provides Prometheus metrics for journeylens
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for journeylens
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// gRPC request metrics
	GrpcRequestsTotal    *prometheus.CounterVec
	GrpcRequestDuration  *prometheus.HistogramVec
	GrpcRequestsInFlight prometheus.Gauge

	// Journey metrics
	DecisionLoadsTotal     *prometheus.CounterVec
	EpisodeSelectionsTotal *prometheus.CounterVec
	DatasetRecords         *prometheus.GaugeVec

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeylens_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journeylens_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "journeylens_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.GrpcRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeylens_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "status"},
	)

	m.GrpcRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journeylens_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.GrpcRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "journeylens_grpc_requests_in_flight",
			Help: "Number of gRPC requests currently being processed",
		},
	)

	m.DecisionLoadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeylens_decision_loads_total",
			Help: "Decision trace lookups by outcome (ok, not_found, error)",
		},
		[]string{"outcome"},
	)

	m.EpisodeSelectionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeylens_episode_selections_total",
			Help: "Episode selections by outcome (ok, date_error)",
		},
		[]string{"outcome"},
	)

	m.DatasetRecords = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "journeylens_dataset_records",
			Help: "Number of loaded records by kind",
		},
		[]string{"kind"},
	)

	m.ServerUptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "journeylens_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	return m
}

// RunUptime updates the uptime gauge every interval until ctx is done
func (m *Metrics) RunUptime(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
		}
	}
}

// RecordHTTPRequest records an HTTP request with its status code
func (m *Metrics) RecordHTTPRequest(route string, code int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordGrpcRequest records a gRPC request with its status
func (m *Metrics) RecordGrpcRequest(method string, status string, duration time.Duration) {
	m.GrpcRequestsTotal.WithLabelValues(method, status).Inc()
	m.GrpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordDecisionLoad records a decision lookup outcome
func (m *Metrics) RecordDecisionLoad(outcome string) {
	m.DecisionLoadsTotal.WithLabelValues(outcome).Inc()
}

// RecordEpisodeSelection records an episode selection outcome
func (m *Metrics) RecordEpisodeSelection(outcome string) {
	m.EpisodeSelectionsTotal.WithLabelValues(outcome).Inc()
}

// UpdateDatasetStats updates loaded record counts
func (m *Metrics) UpdateDatasetStats(episodes, chats int) {
	m.DatasetRecords.WithLabelValues("episodes").Set(float64(episodes))
	m.DatasetRecords.WithLabelValues("chats").Set(float64(chats))
}
