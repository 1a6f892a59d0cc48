// Package evaluator turns sensor readings into advisory messages and decides
// when a plant is due for watering. It performs no I/O.
package evaluator

import (
	"math/rand"
	"sync"
	"time"

	"plant_monitor/internal/models"
)

// Advisory codes.
const (
	CodeTooHot      = "too_hot"
	CodeTooCold     = "too_cold"
	CodeTooDry      = "too_dry"
	CodeTooHumid    = "too_humid"
	CodeNeedsWater  = "needs_water"
	CodeTooWet      = "too_wet"
	CodeTooDark     = "too_dark"
	CodeTooBright   = "too_bright"
	CodeTooAcidic   = "too_acidic"
	CodeTooAlkaline = "too_alkaline"
	CodeAllWell     = "all_well"
)

var messages = map[string]string{
	CodeTooHot:      "Whew, it's getting hot in here!",
	CodeTooCold:     "Brr, I'm feeling a bit chilly.",
	CodeTooDry:      "I'm feeling a bit dry. Could use some mist!",
	CodeTooHumid:    "It's quite humid today. I feel like I'm in a rainforest!",
	CodeNeedsWater:  "I'm thirsty! Could you water me, please?",
	CodeTooWet:      "Whoa, easy on the water there! I'm not a fish.",
	CodeTooDark:     "It's a bit dark here. I could use some more light to grow.",
	CodeTooBright:   "Wow, it's bright! I feel like I'm on a beach vacation.",
	CodeTooAcidic:   "The soil's a bit acidic. Maybe some lime would help?",
	CodeTooAlkaline: "The soil's a bit alkaline. Perhaps some sulfur would balance things out?",
	CodeAllWell:     "Everything's just perfect! I'm one happy plant!",
}

// Message returns the display text for an advisory code.
func Message(code string) string {
	return messages[code]
}

func advisory(code string) models.Advisory {
	return models.Advisory{Code: code, Message: messages[code]}
}

// Rules holds the per-metric thresholds. A value strictly beyond a bound
// triggers the corresponding advisory.
type Rules struct {
	HotAboveC       float64 `mapstructure:"hot_above_c"`
	ColdBelowC      float64 `mapstructure:"cold_below_c"`
	DryBelowPct     float64 `mapstructure:"dry_below_pct"`
	HumidAbovePct   float64 `mapstructure:"humid_above_pct"`
	ThirstyBelowPct float64 `mapstructure:"thirsty_below_pct"`
	SoggyAbovePct   float64 `mapstructure:"soggy_above_pct"`
	DarkBelowLux    float64 `mapstructure:"dark_below_lux"`
	BrightAboveLux  float64 `mapstructure:"bright_above_lux"`
	AcidicBelowPH   float64 `mapstructure:"acidic_below_ph"`
	AlkalineAbovePH float64 `mapstructure:"alkaline_above_ph"`
	// WetAdvises makes a binary probe reporting Wet raise the too-wet advisory.
	// Off by default: a wet digital probe is the healthy state.
	WetAdvises bool `mapstructure:"wet_advises"`
}

// DefaultRules returns the stock thresholds.
func DefaultRules() Rules {
	return Rules{
		HotAboveC:       30,
		ColdBelowC:      20,
		DryBelowPct:     40,
		HumidAbovePct:   70,
		ThirstyBelowPct: 30,
		SoggyAbovePct:   80,
		DarkBelowLux:    300,
		BrightAboveLux:  800,
		AcidicBelowPH:   6.0,
		AlkalineAbovePH: 7.0,
	}
}

// Picker selects an index in [0,n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// Evaluator maps readings to a single advisory. Safe for concurrent use.
type Evaluator struct {
	rules Rules

	mu     sync.Mutex
	picker Picker
}

// New returns an evaluator using picker to choose among candidates.
// A nil picker gets a time-seeded source.
func New(rules Rules, picker Picker) *Evaluator {
	if picker == nil {
		picker = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Evaluator{rules: rules, picker: picker}
}

// NewSeeded returns an evaluator whose choices are reproducible for a given seed.
func NewSeeded(rules Rules, seed int64) *Evaluator {
	return New(rules, rand.New(rand.NewSource(seed)))
}

// Rules returns the thresholds in use.
func (e *Evaluator) Rules() Rules {
	return e.rules
}

// Candidates lists every advisory the reading triggers, in metric order:
// temperature, humidity, moisture, light, pH.
func (e *Evaluator) Candidates(r models.SensorReading) []models.Advisory {
	rl := e.rules
	out := make([]models.Advisory, 0, 5)

	switch {
	case r.Temperature > rl.HotAboveC:
		out = append(out, advisory(CodeTooHot))
	case r.Temperature < rl.ColdBelowC:
		out = append(out, advisory(CodeTooCold))
	}

	switch {
	case r.Humidity < rl.DryBelowPct:
		out = append(out, advisory(CodeTooDry))
	case r.Humidity > rl.HumidAbovePct:
		out = append(out, advisory(CodeTooHumid))
	}

	if code := e.moistureCode(r.Moisture); code != "" {
		out = append(out, advisory(code))
	}

	switch {
	case r.Light < rl.DarkBelowLux:
		out = append(out, advisory(CodeTooDark))
	case r.Light > rl.BrightAboveLux:
		out = append(out, advisory(CodeTooBright))
	}

	switch {
	case r.PH < rl.AcidicBelowPH:
		out = append(out, advisory(CodeTooAcidic))
	case r.PH > rl.AlkalineAbovePH:
		out = append(out, advisory(CodeTooAlkaline))
	}

	return out
}

func (e *Evaluator) moistureCode(m models.Moisture) string {
	if m.Kind == models.MoistureState {
		switch m.State {
		case models.SoilDry:
			return CodeNeedsWater
		case models.SoilWet:
			if e.rules.WetAdvises {
				return CodeTooWet
			}
		}
		return ""
	}
	switch {
	case m.Percent < e.rules.ThirstyBelowPct:
		return CodeNeedsWater
	case m.Percent > e.rules.SoggyAbovePct:
		return CodeTooWet
	}
	return ""
}

// Evaluate returns exactly one advisory: the all-is-well advisory when no rule
// fires, otherwise one candidate chosen uniformly at random.
func (e *Evaluator) Evaluate(r models.SensorReading) models.Advisory {
	c := e.Candidates(r)
	switch len(c) {
	case 0:
		return advisory(CodeAllWell)
	case 1:
		return c[0]
	}
	e.mu.Lock()
	i := e.picker.Intn(len(c))
	e.mu.Unlock()
	return c[i]
}

// EvaluateAdvisory is Evaluate reduced to the display text.
func (e *Evaluator) EvaluateAdvisory(r models.SensorReading) string {
	return e.Evaluate(r).Message
}
