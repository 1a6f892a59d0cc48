package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"plant_monitor/internal/models"

	"github.com/gin-gonic/gin"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	b, _ := io.ReadAll(rec.Body)
	return string(b)
}

func TestObserveSnapshot_UpdatesCountersAndGauges(t *testing.T) {
	m := New()
	m.ObserveSnapshot(models.Snapshot{
		Reading:     models.SensorReading{Temperature: 31, Humidity: 50, Moisture: models.MoistureOf(models.SoilWet), Light: 400, PH: 6.5},
		Advisory:    models.Advisory{Code: "too_hot"},
		WateringDue: true,
		SampledAt:   time.Now(),
	})
	m.SensorError()
	m.Watered(TriggerAuto)
	m.PublishError("kafka")

	out := scrape(t, m)
	for _, want := range []string{
		"plant_samples_total 1",
		"plant_sensor_errors_total 1",
		`plant_advisories_total{code="too_hot"} 1`,
		`plant_waterings_total{trigger="auto"} 1`,
		`plant_publish_errors_total{sink="kafka"} 1`,
		`plant_reading{metric="temperature"} 31`,
		`plant_reading{metric="moisture"} 1`,
		"plant_watering_due 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("scrape missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSnapshot(models.Snapshot{})
	m.SensorError()
	m.Watered(TriggerManual)
	m.PublishError("mqtt")
	m.SetWateringDue(true)
}

func TestMiddleware_RecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := scrape(t, m)
	if !strings.Contains(out, `http_requests_total{route="/health",status="204"} 1`) {
		t.Fatalf("missing /health sample\n%s", out)
	}
	if !strings.Contains(out, `http_requests_total{route="unmatched",status="404"} 1`) {
		t.Fatalf("missing unmatched sample\n%s", out)
	}
}
