// Package normalize repairs an untrusted persisted blob into a canonical State.
//
// Repair never fails and never drops an item that carries an id or a title:
// items pointing at unknown lists are moved to the first list instead.
package normalize

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"watchlater/internal/ident"
	"watchlater/internal/service"
	"watchlater/internal/title"
)

// IDGenerator produces identifiers of a requested length.
type IDGenerator interface {
	Generate(length int) string
}

// DefaultLists are seeded when no valid list survives normalization.
var DefaultLists = []service.List{
	{ID: "movies", Name: "Movies"},
	{ID: "books", Name: "Books"},
	{ID: "anime", Name: "Anime"},
}

// Engine normalizes raw state.
type Engine struct {
	ids      IDGenerator
	titles   *title.Normalizer
	now      func() time.Time
	defaults []service.List
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDs sets the identifier generator.
func WithIDs(ids IDGenerator) Option {
	return func(e *Engine) { e.ids = ids }
}

// WithTitles sets the title normalizer.
func WithTitles(titles *title.Normalizer) Option {
	return func(e *Engine) { e.titles = titles }
}

// WithClock sets the clock used for missing timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine with the default generator, normalizer and seed lists.
func New(opts ...Option) *Engine {
	e := &Engine{
		ids:      ident.New(),
		titles:   title.New(title.DefaultMaxLen),
		now:      time.Now,
		defaults: DefaultLists,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NormalizeJSON decodes data and normalizes it. Empty or undecodable input
// is treated as absent and reported as changed.
func (e *Engine) NormalizeJSON(data []byte) (service.State, bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return e.Normalize(nil)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return e.Normalize(nil)
	}
	return e.Normalize(raw)
}

// Normalize repairs a decoded JSON value into a State satisfying every
// invariant. changed reports whether any repair was needed.
func (e *Engine) Normalize(raw any) (service.State, bool) {
	r := &repair{engine: e, now: service.Millis(e.now())}

	obj, ok := raw.(map[string]any)
	if !ok && raw != nil {
		r.changed = true
	}

	lists := r.lists(obj["lists"])
	items := r.items(obj["items"], lists)

	return service.State{
		Version:  r.version(obj["version"]),
		Lists:    lists,
		Items:    items,
		Settings: r.settings(obj),
	}, r.changed
}

// repair carries per-call state so Engine stays shareable.
type repair struct {
	engine  *Engine
	now     int64
	changed bool
}

func (r *repair) lists(v any) []service.List {
	entries, ok := v.([]any)
	if !ok && v != nil {
		r.changed = true
	}

	out := make([]service.List, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			r.changed = true
			continue
		}
		idRaw, nameRaw := m["id"], m["name"]
		if idRaw == nil && nameRaw == nil {
			r.changed = true
			continue
		}

		name := strings.TrimSpace(coerceString(nameRaw))
		if name == "" {
			name = service.UnnamedList
		}
		if s, isString := nameRaw.(string); !isString || s != name {
			r.changed = true
		}

		out = append(out, service.List{
			ID:        r.id(idRaw, ident.ListIDLength),
			Name:      name,
			CreatedAt: r.timestamp(m["createdAt"]),
		})
	}

	if len(out) == 0 {
		r.changed = true
		return r.seed()
	}

	seen := make(map[string]struct{}, len(out))
	for i := range out {
		id := UniqueID(out[i].ID, contains(seen))
		if id != out[i].ID {
			r.changed = true
			out[i].ID = id
		}
		seen[id] = struct{}{}
	}
	return out
}

func (r *repair) seed() []service.List {
	out := make([]service.List, 0, len(r.engine.defaults))
	seen := make(map[string]struct{}, len(r.engine.defaults))
	for _, d := range r.engine.defaults {
		id := d.ID
		if id == "" {
			id = r.engine.ids.Generate(ident.ListIDLength)
		}
		id = UniqueID(id, contains(seen))
		seen[id] = struct{}{}

		name := strings.TrimSpace(d.Name)
		if name == "" {
			name = service.UnnamedList
		}
		out = append(out, service.List{ID: id, Name: name, CreatedAt: r.now})
	}
	return out
}

func (r *repair) items(v any, lists []service.List) []service.Item {
	entries, ok := v.([]any)
	if !ok && v != nil {
		r.changed = true
	}

	listIDs := make(map[string]struct{}, len(lists))
	for _, l := range lists {
		listIDs[l.ID] = struct{}{}
	}
	fallback := lists[0].ID

	seen := make(map[string]struct{}, len(entries))
	out := make([]service.Item, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			r.changed = true
			continue
		}
		idRaw, titleRaw := m["id"], m["title"]
		if idRaw == nil && titleRaw == nil {
			r.changed = true
			continue
		}

		id := r.id(idRaw, ident.ItemIDLength)
		if unique := UniqueID(id, contains(seen)); unique != id {
			r.changed = true
			id = unique
		}
		seen[id] = struct{}{}

		t := r.engine.titles.Sanitize(coerceString(titleRaw))
		if t == "" {
			// Sanitized so a short maxLen still yields a fixed point.
			t = r.engine.titles.Sanitize(service.UntitledItem)
		}
		if s, isString := titleRaw.(string); !isString || s != t {
			r.changed = true
		}

		listRaw := m["listId"]
		listID := coerceString(listRaw)
		if _, isString := listRaw.(string); !isString {
			r.changed = true
		}
		if _, known := listIDs[listID]; !known {
			r.changed = true
			listID = fallback
		}

		out = append(out, service.Item{
			ID:        id,
			ListID:    listID,
			Title:     t,
			CreatedAt: r.timestamp(m["createdAt"]),
		})
	}
	return out
}

func (r *repair) settings(obj map[string]any) map[string]any {
	v := obj["settings"]
	if v == nil {
		return map[string]any{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.changed = true
		return map[string]any{}
	}
	return service.CloneSettings(m)
}

func (r *repair) version(v any) int {
	if f, ok := asFloat(v); ok && f >= 0 && f <= maxSafeInt && f == float64(int64(f)) {
		return int(f)
	}
	r.changed = true
	return service.SchemaVersion
}

// id coerces v to a string ID, generating one when it is blank.
func (r *repair) id(v any, length int) string {
	s := coerceString(v)
	if s == "" {
		r.changed = true
		return r.engine.ids.Generate(length)
	}
	if _, isString := v.(string); !isString {
		r.changed = true
	}
	return s
}

// timestamp returns v as unix millis, or now when v is not a finite number.
func (r *repair) timestamp(v any) int64 {
	f, ok := asFloat(v)
	if !ok || f < -maxSafeInt || f > maxSafeInt {
		r.changed = true
		return r.now
	}
	ms := int64(f)
	if float64(ms) != f {
		r.changed = true
	}
	return ms
}

func contains(set map[string]struct{}) func(string) bool {
	return func(id string) bool {
		_, ok := set[id]
		return ok
	}
}
