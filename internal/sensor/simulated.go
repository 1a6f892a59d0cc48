package sensor

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"plant_monitor/internal/models"
)

// Value ranges produced by the simulator.
const (
	simTempMin, simTempMax         = 15.0, 35.0
	simHumidityMin, simHumidityMax = 30.0, 80.0
	simMoistureMin, simMoistureMax = 0.0, 100.0
	simLightMin, simLightMax       = 100.0, 1000.0
	simPHMin, simPHMax             = 5.5, 7.5
)

// Simulated draws every metric uniformly from a plausible range.
type Simulated struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	binary bool
}

// NewSimulated returns a simulator. A zero seed uses the clock. When binary is
// set the moisture probe reports wet or dry instead of a percentage.
func NewSimulated(seed int64, binary bool) *Simulated {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulated{rnd: rand.New(rand.NewSource(seed)), binary: binary}
}

func (s *Simulated) Read(ctx context.Context) (models.SensorReading, error) {
	if err := ctx.Err(); err != nil {
		return models.SensorReading{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := models.SensorReading{
		Temperature: s.uniform(simTempMin, simTempMax),
		Humidity:    s.uniform(simHumidityMin, simHumidityMax),
		Light:       s.uniform(simLightMin, simLightMax),
		PH:          math.Round(s.uniform(simPHMin, simPHMax)*100) / 100,
	}
	if s.binary {
		if s.rnd.Intn(2) == 0 {
			r.Moisture = models.MoistureOf(models.SoilDry)
		} else {
			r.Moisture = models.MoistureOf(models.SoilWet)
		}
	} else {
		r.Moisture = models.MoisturePercent(s.uniform(simMoistureMin, simMoistureMax))
	}
	return r, nil
}

// uniform rounds to one decimal, like a display would.
func (s *Simulated) uniform(lo, hi float64) float64 {
	v := lo + s.rnd.Float64()*(hi-lo)
	return math.Round(v*10) / 10
}
