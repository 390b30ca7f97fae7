// Package dedupe decides whether two items are the same saved title.
package dedupe

import (
	"watchlater/internal/service"
	"watchlater/internal/title"
)

// Deduplicator compares items by list and title comparison key.
type Deduplicator struct {
	titles *title.Normalizer
}

// New creates a Deduplicator using titles for comparison keys.
func New(titles *title.Normalizer) *Deduplicator {
	return &Deduplicator{titles: titles}
}

// IsDuplicate reports whether a and b belong to the same list and their
// titles have the same comparison key.
func (d *Deduplicator) IsDuplicate(a, b service.Item) bool {
	if a.ListID != b.ListID {
		return false
	}
	return d.titles.ComparisonKey(a.Title) == d.titles.ComparisonKey(b.Title)
}

// FindDuplicate returns the first item in items that duplicates candidate.
func (d *Deduplicator) FindDuplicate(items []service.Item, candidate service.Item) (service.Item, bool) {
	key := d.titles.ComparisonKey(candidate.Title)
	for _, it := range items {
		if it.ListID != candidate.ListID {
			continue
		}
		if d.titles.ComparisonKey(it.Title) == key {
			return it, true
		}
	}
	return service.Item{}, false
}
