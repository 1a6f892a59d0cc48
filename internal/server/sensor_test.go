package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"plant_monitor/internal/models"
	"plant_monitor/internal/sensor"
)

func startSensorServer(t *testing.T, src sensor.Source) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	srv := NewSensorServer(src, nil)
	go func() { done <- srv.Serve(ctx, ln) }()
	t.Cleanup(cancel)
	return ln.Addr().String(), cancel, done
}

func roundTrip(t *testing.T, c net.Conn, rd *bufio.Reader, cmd string) map[string]any {
	t.Helper()
	_ = c.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := c.Write([]byte(cmd + "\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err := rd.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return out
}

func TestSensorServer_GetDataAndUnknownCommand(t *testing.T) {
	reading := models.SensorReading{Temperature: 24, Humidity: 55, Moisture: models.MoistureOf(models.SoilWet), Light: 420, PH: 6.8}
	addr, _, _ := startSensorServer(t, sensor.SourceFunc(func(context.Context) (models.SensorReading, error) {
		return reading, nil
	}))

	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	rd := bufio.NewReader(c)

	got := roundTrip(t, c, rd, "GET_DATA")
	if got["moisture"] != "wet" || got["temperature"] != 24.0 || got["ph"] != 6.8 {
		t.Fatalf("unexpected reading: %v", got)
	}
	for _, k := range []string{"temperature", "humidity", "moisture", "light", "ph"} {
		if _, ok := got[k]; !ok {
			t.Fatalf("reply missing %s: %v", k, got)
		}
	}

	got = roundTrip(t, c, rd, "HELLO")
	if got["error"] != "unknown command" {
		t.Fatalf("expected unknown command error, got %v", got)
	}

	// connection stays usable
	got = roundTrip(t, c, rd, "get_data")
	if got["light"] != 420.0 {
		t.Fatalf("unexpected reading after error: %v", got)
	}
}

func TestSensorServer_SourceErrorKeepsConnection(t *testing.T) {
	calls := 0
	addr, _, _ := startSensorServer(t, sensor.SourceFunc(func(context.Context) (models.SensorReading, error) {
		calls++
		if calls == 1 {
			return models.SensorReading{}, errors.New("dht timeout")
		}
		return models.SensorReading{Moisture: models.MoisturePercent(33)}, nil
	}))

	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	rd := bufio.NewReader(c)

	got := roundTrip(t, c, rd, "GET_DATA")
	if msg, _ := got["error"].(string); !strings.Contains(msg, "dht timeout") {
		t.Fatalf("expected source error, got %v", got)
	}
	got = roundTrip(t, c, rd, "GET_DATA")
	if got["moisture"] != 33.0 {
		t.Fatalf("unexpected reading: %v", got)
	}
}

func TestSensorServer_RemoteClientInterop(t *testing.T) {
	addr, _, _ := startSensorServer(t, sensor.NewSimulated(5, true))

	r := sensor.NewRemote(addr, time.Second, nil)
	defer r.Close()
	for i := 0; i < 3; i++ {
		got, err := r.Read(context.Background())
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if got.Moisture.Kind != models.MoistureState {
			t.Fatalf("expected binary moisture, got %+v", got.Moisture)
		}
	}
}

func TestSensorServer_ShutdownClosesClients(t *testing.T) {
	addr, cancel, done := startSensorServer(t, sensor.NewSimulated(1, false))

	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	rd := bufio.NewReader(c)
	roundTrip(t, c, rd, "GET_DATA")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Serve did not return after cancel")
	}

	_ = c.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := rd.ReadString('\n'); err == nil {
		t.Fatalf("expected closed connection")
	}
}
