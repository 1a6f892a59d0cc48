// Package metrics exposes the monitor's Prometheus instruments. All methods
// are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"plant_monitor/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plant"

// Watering triggers.
const (
	TriggerManual = "manual"
	TriggerAuto   = "auto"
)

type Metrics struct {
	reg *prometheus.Registry

	samples       prometheus.Counter
	sensorErrors  prometheus.Counter
	advisories    *prometheus.CounterVec
	waterings     *prometheus.CounterVec
	publishErrors *prometheus.CounterVec
	reading       *prometheus.GaugeVec
	wateringDue   prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Sensor readings successfully sampled.",
		}),
		sensorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sensor_errors_total",
			Help:      "Failed sensor reads.",
		}),
		advisories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisories_total",
			Help:      "Advisories produced, by code.",
		}, []string{"code"}),
		waterings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waterings_total",
			Help:      "Waterings recorded, by trigger.",
		}, []string{"trigger"}),
		publishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Snapshots a telemetry sink failed to accept.",
		}, []string{"sink"}),
		reading: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reading",
			Help:      "Latest sampled value per metric. Binary moisture is 1 for wet, 0 for dry.",
		}, []string{"metric"}),
		wateringDue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watering_due",
			Help:      "1 while the watering interval has elapsed.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.reg.MustRegister(
		m.samples,
		m.sensorErrors,
		m.advisories,
		m.waterings,
		m.publishErrors,
		m.reading,
		m.wateringDue,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveSnapshot records one successful sampling tick.
func (m *Metrics) ObserveSnapshot(s models.Snapshot) {
	if m == nil {
		return
	}
	m.samples.Inc()
	m.advisories.WithLabelValues(s.Advisory.Code).Inc()

	r := s.Reading
	m.reading.WithLabelValues("temperature").Set(r.Temperature)
	m.reading.WithLabelValues("humidity").Set(r.Humidity)
	m.reading.WithLabelValues("light").Set(r.Light)
	m.reading.WithLabelValues("ph").Set(r.PH)
	if r.Moisture.Kind == models.MoistureState {
		wet := 0.0
		if r.Moisture.State == models.SoilWet {
			wet = 1
		}
		m.reading.WithLabelValues("moisture").Set(wet)
	} else {
		m.reading.WithLabelValues("moisture").Set(r.Moisture.Percent)
	}
	m.SetWateringDue(s.WateringDue)
}

func (m *Metrics) SensorError() {
	if m == nil {
		return
	}
	m.sensorErrors.Inc()
}

func (m *Metrics) Watered(trigger string) {
	if m == nil {
		return
	}
	m.waterings.WithLabelValues(trigger).Inc()
}

func (m *Metrics) PublishError(sink string) {
	if m == nil {
		return
	}
	m.publishErrors.WithLabelValues(sink).Inc()
}

func (m *Metrics) SetWateringDue(due bool) {
	if m == nil {
		return
	}
	if due {
		m.wateringDue.Set(1)
	} else {
		m.wateringDue.Set(0)
	}
}
