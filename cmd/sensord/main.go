// Command sensord answers GET_DATA over TCP with simulated plant readings.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"plant_monitor/internal/config"
	"plant_monitor/internal/logger"
	"plant_monitor/internal/sensor"
	"plant_monitor/internal/server"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("sensord", pflag.ExitOnError)
	cfgPath := flags.StringP("config", "c", "", "path to config file (default configs/config.yml)")
	flags.String("addr", "", "listen address (host:port)")
	flags.String("moisture-mode", "", "percentage | binary")
	flags.Int64("seed", 0, "simulator seed, 0 seeds from the clock")
	flags.String("log-level", "", "debug | info | warn | error")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath, map[string]*pflag.Flag{
		"sensor_server.addr":   flags.Lookup("addr"),
		"sensor.moisture_mode": flags.Lookup("moisture-mode"),
		"rng.seed":             flags.Lookup("seed"),
		"log.level":            flags.Lookup("log-level"),
	})
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src := sensor.NewSimulated(cfg.RNG.Seed, cfg.Sensor.MoistureMode == config.MoistureBinary)
	if err := server.NewSensorServer(src, log).ListenAndServe(ctx, cfg.SensorServer.Addr); err != nil {
		log.Fatalw("sensor server failed", "addr", cfg.SensorServer.Addr, "err", err)
	}
	log.Infow("sensor server stopped")
}
