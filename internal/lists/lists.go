// Package lists implements list creation and deletion.
package lists

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"watchlater/internal/errors"
	"watchlater/internal/logfields"
	"watchlater/internal/normalize"
	"watchlater/internal/service"
)

// FallbackSlug is the list ID base used when a name has no ASCII letters or digits.
const FallbackSlug = "list"

// StateStore loads and saves the whole State.
type StateStore interface {
	Load(ctx context.Context) (service.State, error)
	Save(ctx context.Context, st service.State) error
}

// Service creates and deletes lists.
type Service struct {
	store  StateStore
	now    func() time.Time
	logger *slog.Logger
}

// New creates a Service. A nil logger uses slog.Default().
func New(store StateStore, now func() time.Time, logger *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, now: now, logger: logger}
}

// Slug derives a list ID base from a name: lowercase, every run of
// characters outside [a-z0-9] replaced by one hyphen, edge hyphens trimmed.
func Slug(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return FallbackSlug
	}
	return b.String()
}

// CreateList appends a list named name. A blank name returns nil and
// no error without touching storage.
func (s *Service) CreateList(ctx context.Context, name string) (*service.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.logger.Debug("Rejected blank list name")
		return nil, nil
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	list := service.List{
		ID:        normalize.UniqueID(Slug(name), st.HasList),
		Name:      name,
		CreatedAt: service.Millis(s.now()),
	}
	st.Lists = append(st.Lists, list)

	if err := s.store.Save(ctx, st); err != nil {
		return nil, err
	}
	s.logger.Info("Created list", logfields.ListID(list.ID))
	return &list, nil
}

// DeleteList removes a list, cascading to its items or moving them.
// The last remaining list cannot be deleted.
func (s *Service) DeleteList(ctx context.Context, listID string, opts service.DeleteListOptions) (service.DeleteListResult, error) {
	if strings.TrimSpace(listID) == "" {
		return service.DeleteListResult{}, errors.MissingListID()
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		return service.DeleteListResult{}, err
	}

	idx := -1
	for i, l := range st.Lists {
		if l.ID == listID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return service.DeleteListResult{}, errors.ListNotFound(listID)
	}
	if len(st.Lists) <= 1 {
		return service.DeleteListResult{}, errors.LastListProtected(listID)
	}

	var result service.DeleteListResult
	if !opts.Cascade {
		result.DestID, result.DestFallback = destination(st.Lists, idx, opts.MoveToID)
	}

	st.Lists = append(st.Lists[:idx:idx], st.Lists[idx+1:]...)

	if opts.Cascade {
		kept := make([]service.Item, 0, len(st.Items))
		for _, it := range st.Items {
			if it.ListID == listID {
				result.Deleted++
				continue
			}
			kept = append(kept, it)
		}
		st.Items = kept
	} else {
		for i := range st.Items {
			if st.Items[i].ListID == listID {
				st.Items[i].ListID = result.DestID
				result.Moved++
			}
		}
	}

	if err := s.store.Save(ctx, st); err != nil {
		return service.DeleteListResult{}, err
	}

	s.logger.Info("Deleted list",
		logfields.ListID(listID),
		logfields.DestID(result.DestID),
		logfields.Moved(result.Moved),
		logfields.Deleted(result.Deleted))
	if result.DestFallback {
		s.logger.Warn("Move destination unusable, used first remaining list",
			logfields.Request(opts.MoveToID),
			logfields.DestID(result.DestID))
	}
	return result, nil
}

// destination picks where the items of lists[idx] go: moveTo when it names
// another existing list, else the first remaining list. fallback reports
// that a non-empty moveTo was passed over.
func destination(lists []service.List, idx int, moveTo string) (dest string, fallback bool) {
	if moveTo != "" {
		for i, l := range lists {
			if i != idx && l.ID == moveTo {
				return moveTo, false
			}
		}
	}
	for i, l := range lists {
		if i != idx {
			return l.ID, moveTo != ""
		}
	}
	return "", moveTo != ""
}
