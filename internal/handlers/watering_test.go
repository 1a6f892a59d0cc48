package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plant_monitor/internal/models"
	"plant_monitor/internal/service"
)

func wateringFixture(n int) *mockWatering {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	st := models.WateringState{IntervalHours: 24}
	for i := 0; i < n; i++ {
		st.History = append(st.History, start.Add(time.Duration(i)*24*time.Hour))
	}
	st.LastWateredAt = st.History[n-1]
	return &mockWatering{state: st, due: true}
}

func TestGetWatering_DefaultAndLimit(t *testing.T) {
	w8 := wateringFixture(8)
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Watering: w8}
	r := newTestRouter(s, WithHistoryDisplay(3))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/watering", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got WateringResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.History) != 3 || !got.History[2].Equal(w8.state.LastWateredAt) {
		t.Fatalf("history tail = %v", got.History)
	}
	if !got.Due || got.IntervalHours != 24 {
		t.Fatalf("unexpected view: %+v", got)
	}
	if want := w8.state.LastWateredAt.Add(24 * time.Hour); !got.NextDueAt.Equal(want) {
		t.Fatalf("next_due_at = %v, want %v", got.NextDueAt, want)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/watering?limit=100", nil))
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if len(got.History) != 8 {
		t.Fatalf("limit larger than history should return all, got %d", len(got.History))
	}

	for _, bad := range []string{"0", "-1", "x"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/watering?limit="+bad, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s: expected 400, got %d", bad, w.Code)
		}
	}
}

func TestWaterNow(t *testing.T) {
	wm := wateringFixture(1)
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Watering: wm}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/watering/water", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if wm.waterCalls != 1 {
		t.Fatalf("WaterNow calls = %d", wm.waterCalls)
	}
	var out struct {
		Status   string           `json:"status"`
		Watering WateringResponse `json:"watering"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Status != "watered" || out.Watering.Due || len(out.Watering.History) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}

	wm.err = errors.New("disk full")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/watering/water", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on persist failure, got %d", w.Code)
	}
}

func TestSetInterval(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		code int
	}{
		{"valid", `{"hours":48}`, nil, http.StatusOK},
		{"missing", `{}`, nil, http.StatusBadRequest},
		{"out_of_range", `{"hours":100}`, service.ErrInvalidInterval, http.StatusBadRequest},
		{"wrapped_range_error", `{"hours":-3}`, fmt.Errorf("set: %w", service.ErrInvalidInterval), http.StatusBadRequest},
		{"store_failure", `{"hours":12}`, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wm := wateringFixture(1)
			wm.err = tc.err
			s := &service.Service{Authorization: &mockAuth{parseID: 1}, Watering: wm}

			w := httptest.NewRecorder()
			newTestRouter(s).ServeHTTP(w, authedRequest(http.MethodPut, "/api/v1/watering/interval", bytes.NewBufferString(tc.body)))
			if w.Code != tc.code {
				t.Fatalf("got %d, want %d (body=%s)", w.Code, tc.code, w.Body.String())
			}
			if tc.code == http.StatusOK && wm.state.IntervalHours != 48 {
				t.Fatalf("interval not forwarded: %d", wm.state.IntervalHours)
			}
		})
	}
}
