package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer, source Source) *metrics {
	m := &metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voicestats_renders_total",
			Help: "Chart render requests by output format and response code.",
		}, []string{"format", "code"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicestats_render_duration_seconds",
			Help:    "Time spent rendering and encoding a chart.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"format"}),
	}
	reg.MustRegister(m.renders, m.renderDuration)
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "voicestats_dataset_samples",
		Help: "Number of samples in the served dataset.",
	}, func() float64 {
		return float64(source.Current().Data.Len())
	}))
	return m
}

// instrument counts and times requests to a render handler.
func (s *Server) instrument(format string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.renderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
		s.metrics.renders.WithLabelValues(format, strconv.Itoa(rec.status)).Inc()
	}
}
