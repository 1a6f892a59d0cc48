// Command plantclient polls a sensor server, logs each reading with its
// advisory and waters the plant whenever the interval has elapsed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plant_monitor/internal/config"
	"plant_monitor/internal/evaluator"
	"plant_monitor/internal/logger"
	"plant_monitor/internal/models"
	"plant_monitor/internal/sensor"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("plantclient", pflag.ExitOnError)
	cfgPath := flags.StringP("config", "c", "", "path to config file (default configs/config.yml)")
	flags.String("addr", "", "sensor server address (host:port)")
	flags.Duration("interval", 0, "poll interval")
	flags.Int("water-every", 0, "watering interval in hours")
	flags.String("log-level", "", "debug | info | warn | error")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath, map[string]*pflag.Flag{
		"sensor.remote_addr":      flags.Lookup("addr"),
		"sampler.interval":        flags.Lookup("interval"),
		"watering.interval_hours": flags.Lookup("water-every"),
		"log.level":               flags.Lookup("log-level"),
	})
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	remote := sensor.NewRemote(cfg.Sensor.RemoteAddr, cfg.Sensor.DialTimeout, log.Named("sensor"))
	defer func() { _ = remote.Close() }()
	b := cfg.Sensor.Breaker
	src := sensor.NewGuarded("remote", remote, b.MaxFailures, b.OpenTimeout, log.Named("breaker"))

	var ev *evaluator.Evaluator
	if cfg.RNG.Seed != 0 {
		ev = evaluator.NewSeeded(cfg.Rules, cfg.RNG.Seed)
	} else {
		ev = evaluator.New(cfg.Rules, nil)
	}

	c := &client{
		src:     src,
		ev:      ev,
		state:   evaluator.NewWateringState(time.Now(), cfg.Watering.IntervalHours),
		display: cfg.Watering.HistoryDisplay,
		log:     log,
	}
	log.Infow("polling sensor server", "addr", cfg.Sensor.RemoteAddr, "every", cfg.Sampler.Interval)

	ticker := time.NewTicker(cfg.Sampler.Interval)
	defer ticker.Stop()
	for {
		c.poll(ctx, time.Now())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

type client struct {
	src     sensor.Source
	ev      *evaluator.Evaluator
	state   models.WateringState
	display int
	log     *logger.Logger
}

func (c *client) poll(ctx context.Context, now time.Time) {
	r, err := c.src.Read(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.log.Warnw("sensor read failed", "err", err)
		}
		return
	}
	c.log.Infow("reading",
		"temperature", r.Temperature,
		"humidity", r.Humidity,
		"moisture", r.Moisture.String(),
		"light", r.Light,
		"ph", r.PH,
		"advisory", c.ev.EvaluateAdvisory(r),
	)

	if evaluator.IsWateringDue(c.state, now) {
		c.state = evaluator.RecordWatering(c.state, now)
		c.log.Infow("plant watered",
			"at", now.Format(time.DateTime),
			"next_due", evaluator.NextDue(c.state).Format(time.DateTime),
			"recent", c.state.Tail(c.display),
		)
	}
}
