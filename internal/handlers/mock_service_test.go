package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"plant_monitor/internal/models"
	"plant_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockPlant struct {
	snap        models.Snapshot
	err         error
	evaluated   []models.SensorReading
	advisory    models.Advisory
	latestCalls int
}

func (m *mockPlant) Latest() (models.Snapshot, error) {
	m.latestCalls++
	return m.snap, m.err
}

func (m *mockPlant) Evaluate(r models.SensorReading) models.Snapshot {
	m.evaluated = append(m.evaluated, r)
	return models.Snapshot{PlantID: "test", Reading: r, Advisory: m.advisory}
}

type mockWatering struct {
	state       models.WateringState
	due         bool
	err         error
	waterCalls  int
	lastHours   int
	checkCalled int
}

func (m *mockWatering) State() models.WateringState { return m.state }
func (m *mockWatering) Due() bool                   { return m.due }

func (m *mockWatering) WaterNow(ctx context.Context) (models.WateringState, error) {
	m.waterCalls++
	if m.err != nil {
		return models.WateringState{}, m.err
	}
	now := m.state.LastWateredAt.Add(time.Hour)
	m.state.LastWateredAt = now
	m.state.History = append(m.state.History, now)
	m.due = false
	return m.state, nil
}

func (m *mockWatering) CheckAndWater(ctx context.Context) (bool, error) {
	m.checkCalled++
	return false, m.err
}

func (m *mockWatering) SetInterval(ctx context.Context, hours int) (models.WateringState, error) {
	m.lastHours = hours
	if m.err != nil {
		return models.WateringState{}, m.err
	}
	m.state.IntervalHours = hours
	return m.state, nil
}

func (m *mockWatering) History(limit int) []time.Time { return m.state.Tail(limit) }

type mockEventLog struct {
	resp      []models.PlantEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.PlantEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastLimit = f.Limit
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}
