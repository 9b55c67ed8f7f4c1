package cmd

import (
	"fmt"
	"io"

	"github.com/Rana718/liteport/internal/config"
	"github.com/Rana718/liteport/internal/pipeline"
	"github.com/Rana718/liteport/internal/runlog"
)

// loadService reads the config and builds the pipeline. Log lines go to
// logOut; the caller closes the returned logger.
func loadService(logOut io.Writer) (*pipeline.Service, *config.Config, *runlog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	log := runlog.Default(cfg.Output.Verbose)
	if logOut != nil {
		log = runlog.New(logOut, cfg.Output.Verbose)
	}
	if cfg.Output.LogFile != "" {
		if err := log.TeeFile(cfg.Output.LogFile); err != nil {
			return nil, nil, nil, err
		}
	}

	return pipeline.NewService(cfg, log), cfg, log, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
