package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"plant_monitor/internal/metrics"
	"plant_monitor/internal/models"
	"plant_monitor/internal/service"
)

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(&service.Service{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestSnapshotHandler(t *testing.T) {
	plant := &mockPlant{snap: models.Snapshot{
		PlantID:  "fern",
		Reading:  models.SensorReading{Moisture: models.MoistureOf(models.SoilDry)},
		Advisory: models.Advisory{Code: "water_now"},
	}}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Plant: plant}
	r := newTestRouter(s)

	// requires auth
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/plant/snapshot", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/plant/snapshot", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("snapshot status=%d body=%s", w.Code, w.Body.String())
	}
	var got models.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.PlantID != "fern" || got.Advisory.Code != "water_now" || got.Reading.Moisture.State != models.SoilDry {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestSnapshotHandler_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"nothing_sampled", service.ErrNoReading, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &service.Service{Authorization: &mockAuth{parseID: 1}, Plant: &mockPlant{err: tc.err}}
			w := httptest.NewRecorder()
			newTestRouter(s).ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/plant/snapshot", nil))
			if w.Code != tc.code {
				t.Fatalf("got %d, want %d", w.Code, tc.code)
			}
		})
	}
}

func TestAdvisoryHandler(t *testing.T) {
	plant := &mockPlant{advisory: models.Advisory{Code: "too_cold"}}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Plant: plant}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"temperature":12,"humidity":50,"moisture":"wet","light":500,"ph":6.5}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/plant/advisory", body))
	if w.Code != http.StatusOK {
		t.Fatalf("advisory status=%d body=%s", w.Code, w.Body.String())
	}
	if len(plant.evaluated) != 1 {
		t.Fatalf("Evaluate calls = %d", len(plant.evaluated))
	}
	in := plant.evaluated[0]
	if in.Temperature != 12 || in.Moisture.Kind != models.MoistureState || in.Moisture.State != models.SoilWet {
		t.Fatalf("reading not decoded: %+v", in)
	}
	if !strings.Contains(w.Body.String(), `"too_cold"`) {
		t.Fatalf("body missing advisory: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/plant/advisory", bytes.NewBufferString(`{"moisture":"soggy"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad moisture, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	r := newTestRouter(&service.Service{}, WithMetrics(m))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `http_requests_total{route="/health",status="200"} 1`) {
		t.Fatalf("request not counted:\n%s", w.Body.String())
	}
}

func TestMetricsEndpoint_AbsentWithoutMetrics(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(&service.Service{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
