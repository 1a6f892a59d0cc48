// @title                       Plant Monitor API
// @version                     1.0
// @description                 Sensor snapshots, care advisories and watering schedule for a single plant.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "plant_monitor/docs"
	"plant_monitor/internal/config"
	"plant_monitor/internal/evaluator"
	"plant_monitor/internal/handlers"
	"plant_monitor/internal/logger"
	"plant_monitor/internal/metrics"
	"plant_monitor/internal/publish"
	"plant_monitor/internal/repository"
	"plant_monitor/internal/repository/db"
	"plant_monitor/internal/sensor"
	"plant_monitor/internal/server"
	"plant_monitor/internal/service"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("plant-monitor", pflag.ExitOnError)
	cfgPath := flags.StringP("config", "c", "", "path to config file (default configs/config.yml)")
	flags.String("port", "", "HTTP listen port")
	flags.String("log-level", "", "debug | info | warn | error")
	flags.String("storage", "", "memory | sqlite")
	flags.String("sensor-source", "", "simulated | remote")
	flags.String("sensor-addr", "", "remote sensor server address")
	flags.Bool("serve-sensor", false, "also run the TCP sensor server")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath, map[string]*pflag.Flag{
		"server.port":           flags.Lookup("port"),
		"log.level":             flags.Lookup("log-level"),
		"storage.driver":        flags.Lookup("storage"),
		"sensor.source":         flags.Lookup("sensor-source"),
		"sensor.remote_addr":    flags.Lookup("sensor-addr"),
		"sensor_server.enabled": flags.Lookup("serve-sensor"),
	})
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, closeRepos, err := openRepositories(cfg, log)
	if err != nil {
		log.Fatalw("failed to init storage", "driver", cfg.Storage.Driver, "err", err)
	}
	defer closeRepos()

	m := metrics.New()
	pub := openPublishers(ctx, cfg, m, log)
	defer func() {
		if cerr := pub.Close(); cerr != nil {
			log.Warnw("closing publishers", "err", cerr)
		}
	}()

	src, closeSrc := buildSource(cfg, log)
	defer closeSrc()

	services, err := service.NewService(ctx, repos, service.Deps{
		Source:    src,
		Evaluator: buildEvaluator(cfg),
		Publisher: pub,
		Metrics:   m,
		Log:       log,
	}, service.Options{
		PlantID:       cfg.PlantID,
		IntervalHours: cfg.Watering.IntervalHours,
		AutoWater:     cfg.Watering.Auto,
		SigningKey:    cfg.Auth.SigningKey,
		TokenTTL:      cfg.Auth.TokenTTL,
	})
	if err != nil {
		log.Fatalw("failed to init services", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log.Named("http"),
		handlers.WithMetrics(m),
		handlers.WithHistoryDisplay(cfg.Watering.HistoryDisplay),
	)

	if cfg.SensorServer.Enabled {
		runSensorServer(ctx, cfg, log)
	}

	// start sampler (via composed service)
	samplerDone := make(chan struct{})
	go func() {
		defer close(samplerDone)
		services.Sampler.Run(ctx, cfg.Sampler.Interval)
	}()

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
	<-samplerDone
}

// openRepositories returns the configured storage and a func releasing it.
func openRepositories(cfg *config.Config, log *logger.Logger) (*repository.Repository, func(), error) {
	if cfg.Storage.Driver != config.DriverSQLite {
		log.Infow("using in-memory storage; state is lost on exit")
		return repository.NewMemoryRepository(), func() {}, nil
	}
	conn, err := db.InitDB(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("using sqlite storage", "path", cfg.Storage.SQLitePath)
	return repository.NewRepository(conn), func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}, nil
}

func buildEvaluator(cfg *config.Config) *evaluator.Evaluator {
	if cfg.RNG.Seed != 0 {
		return evaluator.NewSeeded(cfg.Rules, cfg.RNG.Seed)
	}
	return evaluator.New(cfg.Rules, nil)
}

// buildSource returns the reading source behind a circuit breaker.
func buildSource(cfg *config.Config, log *logger.Logger) (sensor.Source, func()) {
	binary := cfg.Sensor.MoistureMode == config.MoistureBinary
	var (
		src     sensor.Source
		closeFn = func() {}
	)
	switch cfg.Sensor.Source {
	case config.SourceRemote:
		remote := sensor.NewRemote(cfg.Sensor.RemoteAddr, cfg.Sensor.DialTimeout, log.Named("sensor"))
		src = remote
		closeFn = func() { _ = remote.Close() }
	default:
		src = sensor.NewSimulated(cfg.RNG.Seed, binary)
	}
	log.Infow("sensor source", "source", cfg.Sensor.Source, "moisture_mode", cfg.Sensor.MoistureMode)
	b := cfg.Sensor.Breaker
	return sensor.NewGuarded(cfg.Sensor.Source, src, b.MaxFailures, b.OpenTimeout, log.Named("breaker")), closeFn
}

// openPublishers connects every enabled sink. A sink that cannot be reached at
// startup is skipped so the monitor still runs.
func openPublishers(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) *publish.Fanout {
	var pubs []publish.Publisher
	if c := cfg.Publish.MQTT; c.Enabled {
		p, err := publish.DialMQTT(ctx, c, log.Named("mqtt"))
		if err != nil {
			log.Errorw("mqtt publisher disabled", "broker", c.Broker, "err", err)
		} else {
			pubs = append(pubs, p)
		}
	}
	if c := cfg.Publish.Influx; c.Enabled {
		pubs = append(pubs, publish.NewInflux(c))
	}
	if c := cfg.Publish.Kafka; c.Enabled {
		pubs = append(pubs, publish.NewKafka(c))
	}

	f := publish.NewFanout(log.Named("publish"), pubs...)
	f.OnError = func(sink string, _ error) { m.PublishError(sink) }
	if f.Len() > 0 {
		log.Infow("telemetry publishers enabled", "count", f.Len())
	}
	return f
}

// runSensorServer serves simulated readings over TCP until ctx is cancelled.
func runSensorServer(ctx context.Context, cfg *config.Config, log *logger.Logger) {
	src := sensor.NewSimulated(cfg.RNG.Seed, cfg.Sensor.MoistureMode == config.MoistureBinary)
	ss := server.NewSensorServer(src, log.Named("sensord"))
	go func() {
		if err := ss.ListenAndServe(ctx, cfg.SensorServer.Addr); err != nil {
			log.Errorw("sensor server stopped", "addr", cfg.SensorServer.Addr, "err", err)
		}
	}()
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
