package publish

import (
	"context"
	"fmt"

	"plant_monitor/internal/config"
	"plant_monitor/internal/models"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Influx writes one point per snapshot, tagged with the plant id.
type Influx struct {
	client      influxdb2.Client
	writer      pointWriter
	measurement string
}

func NewInflux(cfg config.InfluxConfig) *Influx {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &Influx{
		client:      client,
		writer:      client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		measurement: cfg.Measurement,
	}
}

func (i *Influx) Name() string { return "influx" }

func (i *Influx) Publish(ctx context.Context, s models.Snapshot) error {
	if err := i.writer.WritePoint(ctx, SnapshotPoint(i.measurement, s)); err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	return nil
}

func (i *Influx) Close() error {
	if i.client != nil {
		i.client.Close()
	}
	return nil
}

// SnapshotPoint maps a snapshot onto an Influx point. Percentage moisture is
// written as moisture_pct, a binary probe as moisture_wet.
func SnapshotPoint(measurement string, s models.Snapshot) *write.Point {
	r := s.Reading
	tags := map[string]string{
		"plant_id": s.PlantID,
		"advisory": s.Advisory.Code,
	}
	fields := map[string]interface{}{
		"temperature":  r.Temperature,
		"humidity":     r.Humidity,
		"light":        r.Light,
		"ph":           r.PH,
		"watering_due": s.WateringDue,
	}
	if r.Moisture.Kind == models.MoistureState {
		fields["moisture_wet"] = r.Moisture.State == models.SoilWet
	} else {
		fields["moisture_pct"] = r.Moisture.Percent
	}
	return influxdb2.NewPoint(measurement, tags, fields, s.SampledAt)
}
