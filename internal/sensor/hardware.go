package sensor

import (
	"context"
	"fmt"

	"plant_monitor/internal/models"
)

// Calibration of the analog soil probe on a 16-bit ADC.
const (
	soilRawDry  = 1000
	soilRawFull = 65535
	phPerVolt   = 3.5
)

// RawSample is what a probe driver hands back before conversion.
type RawSample struct {
	Temperature float64 // °C, from the climate sensor
	Humidity    float64 // %
	SoilRaw     int     // ADC counts from the analog soil probe
	SoilWet     bool    // digital soil pin, used when the probe is binary
	LightRaw    int     // ADC counts, reported as lux
	PHVoltage   float64 // volts on the pH channel
}

// Probe abstracts the physical sensor bus.
type Probe interface {
	Sample(ctx context.Context) (RawSample, error)
}

// Hardware converts raw probe samples into readings.
type Hardware struct {
	probe  Probe
	binary bool
}

func NewHardware(p Probe, binary bool) *Hardware {
	return &Hardware{probe: p, binary: binary}
}

func (h *Hardware) Read(ctx context.Context) (models.SensorReading, error) {
	raw, err := h.probe.Sample(ctx)
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("sample probe: %w", err)
	}

	r := models.SensorReading{
		Temperature: raw.Temperature,
		Humidity:    raw.Humidity,
		Light:       float64(raw.LightRaw),
		PH:          PHFromVoltage(raw.PHVoltage),
	}
	if h.binary {
		if raw.SoilWet {
			r.Moisture = models.MoistureOf(models.SoilWet)
		} else {
			r.Moisture = models.MoistureOf(models.SoilDry)
		}
	} else {
		r.Moisture = models.MoisturePercent(MoistureFromRaw(raw.SoilRaw))
	}
	return r, nil
}

// MoistureFromRaw maps ADC counts onto 0..100 %, clamped.
func MoistureFromRaw(raw int) float64 {
	p := float64(raw-soilRawDry) / float64(soilRawFull-soilRawDry) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func PHFromVoltage(v float64) float64 { return v * phPerVolt }
