package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/drakos74/mantis/infra/config"
	"github.com/drakos74/mantis/internal/engine"
	"github.com/drakos74/mantis/internal/metrics"
	"github.com/drakos74/mantis/internal/storage/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	key := flag.String("config", "mantis", "name of the config file, without the json extension")
	dir := flag.String("config-dir", config.Path, "directory of the config files")
	pretty := flag.Bool("pretty", false, "human readable log output")
	flag.Parse()

	if *pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	var cfg engine.Config
	if *dir == config.Path {
		config.MustLoad(*key, &cfg)
	} else if err := config.Load(*dir, *key, &cfg); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	level := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		l, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("invalid log level")
		}
		level = l
	}
	zerolog.SetGlobalLevel(level)

	ctx, cnl := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cnl()

	if cfg.MetricsPort > 0 {
		metrics.Serve(ctx, cfg.MetricsPort)
	}

	e, err := engine.New(cfg, file.NewStorage(cfg.StorageDir))
	if err != nil {
		log.Fatal().Err(err).Msg("could not create engine")
	}

	if err := e.Run(ctx); err != nil {
		log.Error().Err(err).Str("run", e.ID()).Msg("engine failed")
	}

	if err := e.Report(os.Stdout); err != nil {
		log.Error().Err(err).Msg("could not write report")
	}
}
