package models

import "time"

// Advisory is a short statement about plant condition derived from a reading.
type Advisory struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Snapshot is what one sampling tick produces for the presentation surface.
type Snapshot struct {
	PlantID     string        `json:"plant_id"`
	Reading     SensorReading `json:"reading"`
	Advisory    Advisory      `json:"advisory"`
	WateringDue bool          `json:"watering_due"`
	SampledAt   time.Time     `json:"sampled_at"`
}
