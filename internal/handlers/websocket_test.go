package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"plant_monitor/internal/models"
	"plant_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialWS(t *testing.T, s *service.Service, query string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocket_SnapshotStream_InitialAndPeriodic(t *testing.T) {
	plant := &mockPlant{snap: models.Snapshot{
		PlantID:     "fern",
		Reading:     models.SensorReading{Temperature: 31, Humidity: 50, Moisture: models.MoisturePercent(40), Light: 500, PH: 6.5},
		Advisory:    models.Advisory{Code: "too_hot", Message: "It's too hot for the plant!"},
		WateringDue: true,
	}}
	conn := dialWS(t, &service.Service{Plant: plant}, "interval_ms=20")

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "snapshot" || len(env.Data) == 0 || env.Error != "" {
		t.Fatalf("bad envelope: %+v", env)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.PlantID != "fern" || snap.Advisory.Code != "too_hot" || !snap.WateringDue {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "snapshot" {
		t.Fatalf("expected type=snapshot, got %+v", env)
	}
}

func TestWebSocket_NoReadingYet_SendsErrorEnvelopeAndStaysOpen(t *testing.T) {
	plant := &mockPlant{err: service.ErrNoReading}
	conn := dialWS(t, &service.Service{Plant: plant}, "interval_ms=20")

	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if env.Type != "snapshot" || env.Error != service.ErrNoReading.Error() || len(env.Data) != 0 {
			t.Fatalf("unexpected envelope: %+v", env)
		}
	}
}

func TestWebSocket_InitialSnapshotError_Closes(t *testing.T) {
	plant := &mockPlant{err: errors.New("boom")}
	conn := dialWS(t, &service.Service{Plant: plant}, "")

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
