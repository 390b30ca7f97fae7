package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "watchlater/internal/errors"
	"watchlater/internal/metrics"
	"watchlater/internal/service"
	"watchlater/internal/store"
	"watchlater/internal/testutil"
)

type countingRecorder struct {
	repairs, writesOK, writesFailed int
}

func (c *countingRecorder) IncStateRepair() { c.repairs++ }
func (c *countingRecorder) IncStateWrite(r metrics.WriteResult) {
	if r == metrics.WriteSuccess {
		c.writesOK++
	} else {
		c.writesFailed++
	}
}
func (c *countingRecorder) IncDuplicateItem()   {}
func (c *countingRecorder) AddItemsDeleted(int) {}

func TestLoad_EmptySlotSeedsAndWritesBack(t *testing.T) {
	slot := testutil.NewFakeSlot()
	s := store.New(slot, nil)

	st, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, st.Lists, 3)
	assert.Empty(t, st.Items)
	assert.Equal(t, service.SchemaVersion, st.Version)

	raw, ok := slot.Raw(service.StateKey)
	require.True(t, ok)
	var persisted service.State
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, st.Lists, persisted.Lists)
}

func TestLoad_CanonicalStateNotRewritten(t *testing.T) {
	slot := testutil.NewFakeSlot()
	s := store.New(slot, nil)

	_, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, slot.Writes())

	_, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, slot.Writes())
}

func TestLoad_RepairsAndCounts(t *testing.T) {
	slot := testutil.NewFakeSlot()
	slot.Put(service.StateKey, []byte(`{"lists":[{"id":"a","name":" A "}],"items":[{"id":"x","listId":"zz","title":"T"}]}`))
	rec := &countingRecorder{}
	s := store.New(slot, nil, store.WithRecorder(rec))

	st, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", st.Lists[0].Name)
	assert.Equal(t, "a", st.Items[0].ListID)
	assert.Equal(t, 1, rec.repairs)
	assert.Equal(t, 1, rec.writesOK)
	assert.Equal(t, 1, slot.Writes())
}

func TestGet_RepairedPlaceholdersWrittenOnce(t *testing.T) {
	slot := testutil.NewFakeSlot()
	slot.Put(service.StateKey, []byte(`{"version":3,"lists":[{"id":"a","name":"","createdAt":1}],"items":[{"id":"x","listId":"a","title":"\"\"","createdAt":2}]}`))
	rec := &countingRecorder{}
	s := store.New(slot, nil, store.WithRecorder(rec))

	first := s.Get(context.Background())
	second := s.Get(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, service.UnnamedList, second.Lists[0].Name)
	assert.Equal(t, service.UntitledItem, second.Items[0].Title)
	assert.Equal(t, 1, slot.Writes())
	assert.Equal(t, 1, rec.repairs)
}

func TestLoad_ReadFailure(t *testing.T) {
	slot := testutil.NewFakeSlot()
	slot.ReadErr = errors.New("disk gone")
	s := store.New(slot, nil)

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, werrors.IsCategory(err, werrors.CategoryPersistence))
	assert.True(t, werrors.IsRetryable(err))
	assert.Equal(t, 0, slot.Writes())
}

func TestLoad_WriteBackFailureIsNotFatal(t *testing.T) {
	slot := testutil.NewFakeSlot()
	slot.WriteErr = errors.New("read-only")
	rec := &countingRecorder{}
	s := store.New(slot, nil, store.WithRecorder(rec))

	st, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, st.Lists, 3)
	assert.Equal(t, 1, rec.writesFailed)
}

func TestGet_ReadFailureReturnsDefaultsWithoutWriting(t *testing.T) {
	slot := testutil.NewFakeSlot()
	slot.Put(service.StateKey, []byte(`{"version":3,"lists":[{"id":"keep","name":"Keep","createdAt":1}],"items":[],"settings":{}}`))
	slot.ReadErr = errors.New("transient")
	s := store.New(slot, nil)

	st := s.Get(context.Background())
	assert.Len(t, st.Lists, 3)
	assert.Equal(t, 0, slot.Writes())

	raw, _ := slot.Raw(service.StateKey)
	assert.Contains(t, string(raw), `"keep"`)
}

func TestGet_ReturnsIndependentCopies(t *testing.T) {
	s := store.New(testutil.NewFakeSlot(), nil)
	ctx := context.Background()

	first := s.Get(ctx)
	first.Lists[0].Name = "mutated"
	first.Settings["x"] = 1

	second := s.Get(ctx)
	assert.NotEqual(t, "mutated", second.Lists[0].Name)
	assert.NotContains(t, second.Settings, "x")
}

func TestSave_NormalizesBeforeWriting(t *testing.T) {
	slot := testutil.NewFakeSlot()
	s := store.New(slot, nil, store.WithKey("custom"))
	ctx := context.Background()

	err := s.Save(ctx, service.State{
		Version: 3,
		Lists:   []service.List{{ID: "a", Name: "A", CreatedAt: 1}},
		Items:   []service.Item{{ID: "i", ListID: "missing", Title: "  Spaced   Out ", CreatedAt: 1}},
	})
	require.NoError(t, err)

	_, ok := slot.Raw(service.StateKey)
	assert.False(t, ok)

	st, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, "a", st.Items[0].ListID)
	assert.Equal(t, "Spaced Out", st.Items[0].Title)
	assert.Equal(t, map[string]any{}, st.Settings)
	assert.Equal(t, 1, slot.Writes())
}

func TestSet(t *testing.T) {
	slot := testutil.NewFakeSlot()
	s := store.New(slot, nil)
	ctx := context.Background()

	st := s.Get(ctx)
	assert.True(t, s.Set(ctx, st))

	slot.WriteErr = errors.New("full")
	assert.False(t, s.Set(ctx, st))
}
