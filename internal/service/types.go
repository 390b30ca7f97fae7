// Package service defines the backend-agnostic interface for list and item operations.
package service

import "time"

const (
	// SchemaVersion is the current persisted state version.
	SchemaVersion = 3

	// StateKey is the default key of the persisted state slot.
	StateKey = "rw_lists_v3"

	// UnnamedList is the placeholder name for a list with a blank name.
	UnnamedList = "(unnamed)"

	// UntitledItem is the placeholder title for an item with a blank title.
	UntitledItem = "Untitled"
)

// State is the complete persisted snapshot.
type State struct {
	Version  int            `json:"version"`
	Lists    []List         `json:"lists"`
	Items    []Item         `json:"items"`
	Settings map[string]any `json:"settings"`
}

// List is a named grouping that items belong to.
type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"` // unix millis
}

// Item is one saved title bound to exactly one list.
type Item struct {
	ID        string `json:"id"`
	ListID    string `json:"listId"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"` // unix millis
}

// AddItemParams are the inputs of AddItem.
type AddItemParams struct {
	ListID string
	Title  string

	// CreatedAt overrides the creation timestamp (unix millis). Nil means now.
	CreatedAt *int64
}

// DeleteListOptions controls what happens to the items of a deleted list.
type DeleteListOptions struct {
	// Cascade deletes the list's items. When false they move to MoveToID,
	// or to the first remaining list if MoveToID is not usable.
	Cascade  bool
	MoveToID string
}

// DefaultDeleteListOptions returns the cascading default.
func DefaultDeleteListOptions() DeleteListOptions {
	return DeleteListOptions{Cascade: true}
}

// DeleteListResult reports the outcome of a successful DeleteList.
type DeleteListResult struct {
	Moved   int    `json:"moved"`
	Deleted int    `json:"deleted"`
	DestID  string `json:"destId,omitempty"` // empty when cascading

	// DestFallback is set when a non-empty MoveToID was ignored and the
	// items went to the first remaining list instead.
	DestFallback bool `json:"destFallback,omitempty"`
}

// Millis converts t to the persisted timestamp representation.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FindList returns the list with the given ID.
func (s State) FindList(id string) (List, bool) {
	for _, l := range s.Lists {
		if l.ID == id {
			return l, true
		}
	}
	return List{}, false
}

// HasList reports whether a list with the given ID exists.
func (s State) HasList(id string) bool {
	_, ok := s.FindList(id)
	return ok
}

// ItemsIn returns the items of a list, newest first.
func (s State) ItemsIn(listID string) []Item {
	var out []Item
	for _, it := range s.Items {
		if it.ListID == listID {
			out = append(out, it)
		}
	}
	return out
}

// CloneSettings deep-copies a decoded JSON object. A nil map yields an empty one.
func CloneSettings(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return CloneSettings(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return x
	}
}
