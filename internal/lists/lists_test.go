package lists_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "watchlater/internal/errors"
	"watchlater/internal/lists"
	"watchlater/internal/normalize"
	"watchlater/internal/service"
	"watchlater/internal/store"
	"watchlater/internal/testutil"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

func clock() time.Time { return fixedNow }

func setup(t *testing.T, seed string) (*lists.Service, *store.Store, *testutil.FakeSlot) {
	t.Helper()
	slot := testutil.NewFakeSlot()
	if seed != "" {
		slot.Put(service.StateKey, []byte(seed))
	}
	st := store.New(slot, normalize.New(normalize.WithClock(clock)))
	return lists.New(st, clock, nil), st, slot
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Movies", "movies"},
		{"Sci-Fi & Fantasy", "sci-fi-fantasy"},
		{"  --Weird__Name--  ", "weird-name"},
		{"Top 10!", "top-10"},
		{"Été", "t"},
		{"日本語", lists.FallbackSlug},
		{"!!!", lists.FallbackSlug},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, lists.Slug(tt.in))
		})
	}
}

func TestCreateList(t *testing.T) {
	svc, st, _ := setup(t, "")
	ctx := context.Background()

	l, err := svc.CreateList(ctx, "  Board Games ")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, service.List{ID: "board-games", Name: "Board Games", CreatedAt: fixedNow.UnixMilli()}, *l)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Lists, 4)
	assert.Equal(t, "board-games", state.Lists[3].ID)
}

func TestCreateList_Collisions(t *testing.T) {
	svc, _, _ := setup(t, "")
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Movies", "movies!", "MOVIES"} {
		l, err := svc.CreateList(ctx, name)
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"movies-1", "movies-2", "movies-3"}, ids)
}

func TestCreateList_BlankName(t *testing.T) {
	svc, _, slot := setup(t, "")

	l, err := svc.CreateList(context.Background(), " \t ")
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.Equal(t, 0, slot.Writes(), "storage must not be touched")
}

func TestCreateList_PersistenceFailure(t *testing.T) {
	svc, _, slot := setup(t, "")
	slot.ReadErr = errors.New("boom")

	l, err := svc.CreateList(context.Background(), "Games")
	assert.Nil(t, l)
	assert.True(t, werrors.IsCategory(err, werrors.CategoryPersistence))
}

const twoLists = `{"version":3,"lists":[
	{"id":"a","name":"A","createdAt":1},
	{"id":"b","name":"B","createdAt":1}
],"items":[
	{"id":"i1","listId":"a","title":"One","createdAt":1},
	{"id":"i2","listId":"a","title":"Two","createdAt":1}
],"settings":{}}`

func TestDeleteList_MoveToExisting(t *testing.T) {
	svc, st, _ := setup(t, twoLists)
	ctx := context.Background()

	res, err := svc.DeleteList(ctx, "a", service.DeleteListOptions{Cascade: false, MoveToID: "b"})
	require.NoError(t, err)
	assert.Equal(t, service.DeleteListResult{Moved: 2, Deleted: 0, DestID: "b"}, res)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Lists, 1)
	assert.Equal(t, "b", state.Lists[0].ID)
	require.Len(t, state.Items, 2)
	for _, it := range state.Items {
		assert.Equal(t, "b", it.ListID)
	}
}

func TestDeleteList_MoveFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		moveTo   string
		fallback bool
	}{
		{"unknown destination", "zzz", true},
		{"destination is the deleted list", "a", true},
		{"no destination", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := setup(t, twoLists)

			res, err := svc.DeleteList(context.Background(), "a", service.DeleteListOptions{MoveToID: tt.moveTo})
			require.NoError(t, err)
			assert.Equal(t, "b", res.DestID)
			assert.Equal(t, 2, res.Moved)
			assert.Equal(t, tt.fallback, res.DestFallback)
		})
	}
}

func TestDeleteList_Cascade(t *testing.T) {
	svc, st, _ := setup(t, twoLists)
	ctx := context.Background()

	res, err := svc.DeleteList(ctx, "a", service.DefaultDeleteListOptions())
	require.NoError(t, err)
	assert.Equal(t, service.DeleteListResult{Deleted: 2}, res)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Lists, 1)
	assert.Empty(t, state.Items)
}

func TestDeleteList_Errors(t *testing.T) {
	oneList := `{"version":3,"lists":[{"id":"only","name":"Only","createdAt":1}],"items":[],"settings":{}}`

	tests := []struct {
		name     string
		seed     string
		listID   string
		category werrors.Category
	}{
		{"blank id", twoLists, "  ", werrors.CategoryValidation},
		{"unknown id", twoLists, "nope", werrors.CategoryNotFound},
		{"last list", oneList, "only", werrors.CategoryInvariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, slot := setup(t, tt.seed)
			before, _ := slot.Raw(service.StateKey)

			_, err := svc.DeleteList(context.Background(), tt.listID, service.DefaultDeleteListOptions())
			require.Error(t, err)
			assert.Equal(t, tt.category, werrors.GetCategory(err))

			after, _ := slot.Raw(service.StateKey)
			assert.Equal(t, string(before), string(after), "state must be unchanged")
		})
	}
}

func TestDeleteList_WriteFailure(t *testing.T) {
	svc, _, slot := setup(t, twoLists)
	slot.WriteErr = errors.New("disk full")

	_, err := svc.DeleteList(context.Background(), "a", service.DefaultDeleteListOptions())
	require.Error(t, err)
	assert.True(t, werrors.IsCategory(err, werrors.CategoryPersistence))
}
