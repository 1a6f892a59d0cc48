package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SoilState is the reading of a digital (wet/dry) moisture probe.
type SoilState string

const (
	SoilWet SoilState = "wet"
	SoilDry SoilState = "dry"
)

// MoistureKind tags which variant a Moisture value carries.
type MoistureKind int

const (
	MoisturePercentage MoistureKind = iota
	MoistureState
)

// Moisture is either a percentage in [0,100] or a binary Wet/Dry state,
// depending on the probe fitted to the plant.
type Moisture struct {
	Kind    MoistureKind
	Percent float64
	State   SoilState
}

// MoisturePercent builds the percentage variant.
func MoisturePercent(p float64) Moisture {
	return Moisture{Kind: MoisturePercentage, Percent: p}
}

// MoistureOf builds the binary variant.
func MoistureOf(s SoilState) Moisture {
	return Moisture{Kind: MoistureState, State: s}
}

func (m Moisture) String() string {
	if m.Kind == MoistureState {
		return string(m.State)
	}
	return strconv.FormatFloat(m.Percent, 'f', 1, 64) + "%"
}

// MarshalJSON encodes the percentage variant as a bare number and the
// binary variant as "wet" or "dry".
func (m Moisture) MarshalJSON() ([]byte, error) {
	if m.Kind == MoistureState {
		return json.Marshal(string(m.State))
	}
	return json.Marshal(m.Percent)
}

func (m *Moisture) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("moisture: value is required")
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("moisture: %w", err)
		}
		st, err := ParseSoilState(s)
		if err != nil {
			return err
		}
		*m = MoistureOf(st)
		return nil
	}
	var p float64
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("moisture: %w", err)
	}
	*m = MoisturePercent(p)
	return nil
}

// ParseSoilState accepts "wet" or "dry" in any case.
func ParseSoilState(s string) (SoilState, error) {
	switch SoilState(strings.ToLower(strings.TrimSpace(s))) {
	case SoilWet:
		return SoilWet, nil
	case SoilDry:
		return SoilDry, nil
	default:
		return "", fmt.Errorf("moisture: unknown soil state %q (want wet or dry)", s)
	}
}

// SensorReading is one sampled snapshot of the plant environment.
type SensorReading struct {
	Temperature float64  `json:"temperature"` // °C
	Humidity    float64  `json:"humidity"`    // %
	Moisture    Moisture `json:"moisture" swaggertype:"number"`
	Light       float64  `json:"light"` // lux
	PH          float64  `json:"ph"`
}
