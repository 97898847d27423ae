// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/palette/models"
)

// Metrics holds the survey counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	votes           *prometheus.CounterVec
	ratings         prometheus.Counter
	photos          *prometheus.CounterVec
	uploadBytes     prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		votes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "palette_votes_submitted_total",
				Help: "Pairwise votes recorded, by winning author.",
			},
			[]string{"winner"},
		),
		ratings: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "palette_ratings_submitted_total",
				Help: "Photo ratings recorded, including gallery favorites.",
			},
		),
		photos: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "palette_photos_created_total",
				Help: "Photos added by admins, by author.",
			},
			[]string{"author"},
		),
		uploadBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "palette_upload_bytes_total",
				Help: "Bytes accepted through the upload endpoint.",
			},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "palette_http_request_duration_seconds",
				Help:    "HTTP request latency by route pattern and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *Metrics) VoteRecorded(winner models.Author) {
	m.votes.WithLabelValues(string(winner)).Inc()
}

func (m *Metrics) RatingsRecorded(n int) {
	m.ratings.Add(float64(n))
}

func (m *Metrics) PhotoCreated(author models.Author) {
	m.photos.WithLabelValues(string(author)).Inc()
}

func (m *Metrics) UploadAccepted(size int64) {
	m.uploadBytes.Add(float64(size))
}

// ObserveRequest records one served request. route is the mux pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
