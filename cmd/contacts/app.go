package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/client"
	"github.com/DeBrosOfficial/contacts/pkg/config"
	"github.com/DeBrosOfficial/contacts/pkg/logging"
	"github.com/DeBrosOfficial/contacts/pkg/records"
)

// errNoResult is returned when the service answered with its empty result.
// The reason, if any, is in the log.
var errNoResult = errors.New("no result (see log output for the cause)")

// app holds what the commands share: configuration, logger and the lazily
// connected backend.
type app struct {
	configPath string
	noColor    bool

	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *logging.ColoredLogger

	svc    *records.Service
	closer io.Closer
}

// load reads configuration and builds the logger. Logs go to errOut so that
// command output on out stays machine readable.
func (a *app) load() error {
	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Err(); err != nil {
		return err
	}

	opts := cfg.Logging.Options()
	opts.NoColor = a.noColor
	opts.Writer = a.errOut
	logger, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	if path != "" {
		logger.ComponentDebug(logging.ComponentConfig, "Loaded configuration", zap.String("path", path))
	}
	return nil
}

func (a *app) connect(ctx context.Context) error {
	if a.svc != nil {
		return nil
	}
	svc, closer, err := client.NewRecordService(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.svc = svc
	a.closer = closer
	return nil
}

// service connects on first use.
func (a *app) service(cmd *cobra.Command) (*records.Service, error) {
	if err := a.connect(cmd.Context()); err != nil {
		return nil, err
	}
	return a.svc, nil
}

func (a *app) close() {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil && a.logger != nil {
			a.logger.ComponentError(logging.ComponentCLI, "Failed to close backend", zap.Error(err))
		}
		a.closer = nil
	}
	if a.logger != nil {
		_ = a.logger.Close()
	}
}
