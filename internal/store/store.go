// Package store owns the persisted State: it reads the slot, repairs what it
// finds and writes back the canonical form.
package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"watchlater/internal/errors"
	"watchlater/internal/logfields"
	"watchlater/internal/metrics"
	"watchlater/internal/normalize"
	"watchlater/internal/service"
)

// Slot holds one JSON document per key.
type Slot interface {
	// Read returns the stored bytes, or nil and no error when the key is absent.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces the stored bytes.
	Write(ctx context.Context, key string, data []byte) error
}

// Store reads and writes State through a Slot.
type Store struct {
	slot     Slot
	engine   *normalize.Engine
	key      string
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the slot key. A blank key is ignored.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New creates a Store over slot. A nil engine uses normalize.New().
func New(slot Slot, engine *normalize.Engine, opts ...Option) *Store {
	if engine == nil {
		engine = normalize.New()
	}
	s := &Store{
		slot:     slot,
		engine:   engine,
		key:      service.StateKey,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and normalizes the stored state. When the slot was empty or
// needed repair the canonical form is written back; a failed write-back is
// logged, not returned. A read failure is returned.
func (s *Store) Load(ctx context.Context) (service.State, error) {
	data, err := s.slot.Read(ctx, s.key)
	if err != nil {
		return service.State{}, errors.PersistenceFailed("read", err).WithContext("key", s.key)
	}

	st, changed := s.engine.NormalizeJSON(data)
	if data != nil && !changed {
		return st, nil
	}

	if data != nil {
		s.recorder.IncStateRepair()
		s.logger.Info("Repaired stored state", logfields.Key(s.key))
	} else {
		s.logger.Debug("Seeding empty state", logfields.Key(s.key))
	}
	if err := s.write(ctx, st); err != nil {
		s.logger.Warn("State write-back failed", logfields.Key(s.key), logfields.Error(err))
	}
	return st, nil
}

// Get is Load that never fails: on a read error the defaults are returned
// and nothing is written.
func (s *Store) Get(ctx context.Context) service.State {
	st, err := s.Load(ctx)
	if err != nil {
		s.logger.Warn("State read failed, using defaults", logfields.Key(s.key), logfields.Error(err))
		st, _ = s.engine.Normalize(nil)
	}
	return st
}

// Save normalizes st and persists the canonical form.
func (s *Store) Save(ctx context.Context, st service.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, errors.SeverityError, "state not encodable")
	}
	canonical, _ := s.engine.NormalizeJSON(data)
	return s.write(ctx, canonical)
}

// Set is Save reporting success as a bool.
func (s *Store) Set(ctx context.Context, st service.State) bool {
	if err := s.Save(ctx, st); err != nil {
		s.logger.Warn("State save failed", logfields.Key(s.key), logfields.Error(err))
		return false
	}
	return true
}

func (s *Store) write(ctx context.Context, st service.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, errors.SeverityError, "state not encodable")
	}
	if err := s.slot.Write(ctx, s.key, data); err != nil {
		s.recorder.IncStateWrite(metrics.WriteFailed)
		return errors.PersistenceFailed("write", err).WithContext("key", s.key)
	}
	s.recorder.IncStateWrite(metrics.WriteSuccess)
	return nil
}
