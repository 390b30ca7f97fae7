// Package core assembles the state store and the list and item services
// into a service.Service.
package core

import (
	"context"
	"io"
	"log/slog"
	"time"

	"watchlater/internal/ident"
	"watchlater/internal/items"
	"watchlater/internal/lists"
	"watchlater/internal/metrics"
	"watchlater/internal/normalize"
	"watchlater/internal/service"
	"watchlater/internal/store"
	"watchlater/internal/title"
)

// Options configures a Core. Zero values select defaults.
type Options struct {
	Key         string
	MaxTitleLen int
	Logger      *slog.Logger
	Recorder    metrics.Recorder
	Now         func() time.Time
	IDs         normalize.IDGenerator
}

// Core implements service.Service over a store.Slot.
type Core struct {
	slot  store.Slot
	store *store.Store
	lists *lists.Service
	items *items.Service
}

var _ service.Service = (*Core)(nil)

// New wires a Core over slot.
func New(slot store.Slot, opts Options) *Core {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = ident.New()
	}
	titles := title.New(opts.MaxTitleLen)

	engine := normalize.New(
		normalize.WithIDs(opts.IDs),
		normalize.WithTitles(titles),
		normalize.WithClock(opts.Now),
	)
	st := store.New(slot, engine,
		store.WithKey(opts.Key),
		store.WithLogger(opts.Logger),
		store.WithRecorder(opts.Recorder),
	)

	return &Core{
		slot:  slot,
		store: st,
		lists: lists.New(st, opts.Now, opts.Logger),
		items: items.New(st, items.Config{
			IDs:      opts.IDs,
			Titles:   titles,
			Now:      opts.Now,
			Logger:   opts.Logger,
			Recorder: opts.Recorder,
		}),
	}
}

// GetState implements service.Service.
func (c *Core) GetState(ctx context.Context) service.State {
	return c.store.Get(ctx)
}

// SetState implements service.Service.
func (c *Core) SetState(ctx context.Context, state service.State) bool {
	return c.store.Set(ctx, state)
}

// CreateList implements service.Service.
func (c *Core) CreateList(ctx context.Context, name string) (*service.List, error) {
	return c.lists.CreateList(ctx, name)
}

// AddItem implements service.Service.
func (c *Core) AddItem(ctx context.Context, params service.AddItemParams) (*service.Item, error) {
	return c.items.AddItem(ctx, params)
}

// DeleteMany implements service.Service.
func (c *Core) DeleteMany(ctx context.Context, ids []string) (int, error) {
	return c.items.DeleteMany(ctx, ids)
}

// DeleteList implements service.Service.
func (c *Core) DeleteList(ctx context.Context, listID string, opts service.DeleteListOptions) (service.DeleteListResult, error) {
	return c.lists.DeleteList(ctx, listID, opts)
}

// Close releases the slot if it holds resources.
func (c *Core) Close() error {
	if closer, ok := c.slot.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
