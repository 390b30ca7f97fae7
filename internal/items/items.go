// Package items implements adding and bulk-deleting items.
package items

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"watchlater/internal/dedupe"
	"watchlater/internal/ident"
	"watchlater/internal/logfields"
	"watchlater/internal/metrics"
	"watchlater/internal/normalize"
	"watchlater/internal/service"
	"watchlater/internal/title"
)

// maxIDDraws bounds re-draws of a colliding generated ID before suffixing.
const maxIDDraws = 8

// StateStore loads and saves the whole State.
type StateStore interface {
	Load(ctx context.Context) (service.State, error)
	Save(ctx context.Context, st service.State) error
}

// IDGenerator produces identifiers of a requested length.
type IDGenerator interface {
	Generate(length int) string
}

// Service adds and deletes items.
type Service struct {
	store    StateStore
	ids      IDGenerator
	titles   *title.Normalizer
	dedupe   *dedupe.Deduplicator
	now      func() time.Time
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Config holds the collaborators of a Service. Zero fields get defaults.
type Config struct {
	IDs      IDGenerator
	Titles   *title.Normalizer
	Now      func() time.Time
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// New creates a Service over store.
func New(store StateStore, cfg Config) *Service {
	s := &Service{
		store:    store,
		ids:      cfg.IDs,
		titles:   cfg.Titles,
		now:      cfg.Now,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
	}
	if s.ids == nil {
		s.ids = ident.New()
	}
	if s.titles == nil {
		s.titles = title.New(title.DefaultMaxLen)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.recorder == nil {
		s.recorder = metrics.NoopRecorder{}
	}
	s.dedupe = dedupe.New(s.titles)
	return s
}

// AddItem prepends a new item to a list. It returns nil and no error when
// the list ID is blank or unknown or the sanitized title is empty. A
// duplicate in the same list is returned as is and nothing is written.
func (s *Service) AddItem(ctx context.Context, p service.AddItemParams) (*service.Item, error) {
	if p.ListID == "" {
		s.logger.Debug("Rejected item without list id")
		return nil, nil
	}
	cleaned := s.titles.Sanitize(p.Title)
	if cleaned == "" {
		s.logger.Debug("Rejected blank item title", logfields.ListID(p.ListID))
		return nil, nil
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !st.HasList(p.ListID) {
		s.logger.Warn("Rejected item for unknown list", logfields.ListID(p.ListID))
		return nil, nil
	}

	createdAt := service.Millis(s.now())
	if p.CreatedAt != nil && normalize.ValidTimestamp(*p.CreatedAt) {
		createdAt = *p.CreatedAt
	}
	item := service.Item{
		ListID:    p.ListID,
		Title:     cleaned,
		CreatedAt: createdAt,
	}

	if dup, ok := s.dedupe.FindDuplicate(st.Items, item); ok {
		s.recorder.IncDuplicateItem()
		s.logger.Debug("Duplicate item", logfields.ItemID(dup.ID), logfields.ListID(dup.ListID))
		return &dup, nil
	}

	item.ID = s.newItemID(st.Items)
	st.Items = append([]service.Item{item}, st.Items...)

	if err := s.store.Save(ctx, st); err != nil {
		return nil, err
	}
	s.logger.Info("Added item", logfields.ItemID(item.ID), logfields.ListID(item.ListID))
	return &item, nil
}

func (s *Service) newItemID(existing []service.Item) string {
	taken := make(map[string]struct{}, len(existing))
	for _, it := range existing {
		taken[it.ID] = struct{}{}
	}
	id := s.ids.Generate(ident.ItemIDLength)
	for i := 0; i < maxIDDraws; i++ {
		if _, dup := taken[id]; !dup {
			return id
		}
		id = s.ids.Generate(ident.ItemIDLength)
	}
	// A generator stuck on one value still yields a unique ID.
	return normalize.UniqueID(id, func(c string) bool {
		_, dup := taken[c]
		return dup
	})
}

// DeleteMany removes every item whose ID is in ids and returns how many were
// removed. Blank IDs are ignored; storage is written only when something
// was removed.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (int, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			want[id] = struct{}{}
		}
	}
	if len(want) == 0 {
		return 0, nil
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]service.Item, 0, len(st.Items))
	for _, it := range st.Items {
		if _, drop := want[it.ID]; !drop {
			kept = append(kept, it)
		}
	}
	deleted := len(st.Items) - len(kept)
	if deleted == 0 {
		return 0, nil
	}

	st.Items = kept
	if err := s.store.Save(ctx, st); err != nil {
		return 0, err
	}
	s.recorder.AddItemsDeleted(deleted)
	s.logger.Info("Deleted items", logfields.Count(deleted))
	return deleted, nil
}
