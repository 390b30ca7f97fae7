// Package backend opens the configured persistence slot and wires a core
// service over it.
package backend

import (
	"context"
	stderrors "errors"
	"log/slog"

	"watchlater/internal/backend/filestore"
	"watchlater/internal/backend/sqlitestore"
	"watchlater/internal/config"
	"watchlater/internal/core"
	"watchlater/internal/errors"
	"watchlater/internal/logfields"
	"watchlater/internal/metrics"
	"watchlater/internal/store"
)

// Service is a core.Core bound to the slot and metrics chosen by config.
type Service struct {
	*core.Core

	logger   *slog.Logger
	recorder *metrics.PrometheusRecorder
	textfile string
}

// Open creates the slot selected by cfg.Backend and returns a Service over it.
// Close must be called to release the slot and flush metrics.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	slot, err := openSlot(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened state backend",
		logfields.Backend(string(cfg.Backend)),
		logfields.Key(cfg.StateKey))

	svc := &Service{logger: logger, textfile: cfg.MetricsTextfile}
	opts := core.Options{
		Key:         cfg.StateKey,
		MaxTitleLen: cfg.MaxTitleLen,
		Logger:      logger,
	}
	if svc.textfile != "" {
		svc.recorder = metrics.NewPrometheusRecorder(nil)
		opts.Recorder = svc.recorder
	}
	svc.Core = core.New(slot, opts)
	return svc, nil
}

func openSlot(cfg *config.Config) (store.Slot, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := cfg.EnsureDir(); err != nil {
			return nil, errors.PersistenceFailed("open", err).WithContext("path", cfg.Dir)
		}
		s, err := sqlitestore.New(cfg.DBPath())
		if err != nil {
			return nil, errors.PersistenceFailed("open", err).WithContext("path", cfg.DBPath())
		}
		return s, nil
	case config.BackendFile, "":
		s, err := filestore.New(cfg.Dir)
		if err != nil {
			return nil, errors.PersistenceFailed("open", err).WithContext("path", cfg.Dir)
		}
		return s, nil
	}
	return nil, errors.New(errors.CategoryConfig, errors.SeverityFatal, "unknown backend: "+string(cfg.Backend))
}

// Close closes the slot and writes the metrics textfile when one is configured.
func (s *Service) Close() error {
	var errs []error
	if err := s.Core.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.recorder != nil {
		if err := metrics.WriteTextfile(s.recorder.Registry(), s.textfile); err != nil {
			s.logger.Warn("failed to write metrics textfile",
				logfields.Path(s.textfile), logfields.Error(err))
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
