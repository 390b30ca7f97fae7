package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"watchlater/internal/backend/googletasks"
	"watchlater/internal/commands"
	"watchlater/internal/config"
	"watchlater/internal/core"
	werrors "watchlater/internal/errors"
	"watchlater/internal/exitcode"
	"watchlater/internal/prompt"
	"watchlater/internal/service"
	"watchlater/internal/testutil"
)

// seqIDs generates zero-padded sequence numbers.
type seqIDs struct{ n int }

func (s *seqIDs) Generate(length int) string {
	s.n++
	return fmt.Sprintf("%0*d", length, s.n)
}

// seededState has items in movies and anime and none in books.
func seededState() service.State {
	return service.State{
		Version: service.SchemaVersion,
		Lists: []service.List{
			{ID: "movies", Name: "Movies", CreatedAt: 1},
			{ID: "books", Name: "Books", CreatedAt: 2},
			{ID: "anime", Name: "Anime", CreatedAt: 3},
		},
		Items: []service.Item{
			{ID: "i1", ListID: "movies", Title: "Alien", CreatedAt: 10},
			{ID: "i2", ListID: "movies", Title: "Heat", CreatedAt: 9},
			{ID: "i3", ListID: "anime", Title: "Akira", CreatedAt: 8},
		},
		Settings: map[string]any{},
	}
}

// newService returns a Core over an in-memory slot, seeded with st when non-nil.
func newService(t *testing.T, st *service.State) (*core.Core, *testutil.FakeSlot) {
	t.Helper()
	slot := testutil.NewFakeSlot()
	svc := core.New(slot, core.Options{
		Now: func() time.Time { return time.UnixMilli(1_700_000_000_000) },
		IDs: &seqIDs{},
	})
	if st != nil && !svc.SetState(context.Background(), *st) {
		t.Fatal("failed to seed state")
	}
	return svc, slot
}

// runCommand is a helper to run a command against svc.
func runCommand(t *testing.T, cmd commands.Command, svc service.Service, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:      t.TempDir(),
		Quiet:    quiet,
		Settings: config.DefaultSettings(),
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectResult(t *testing.T, gotOut, gotErr string, gotCode int, wantOut, wantErr string, wantCode int) {
	t.Helper()
	if gotCode != wantCode {
		t.Errorf("expected exit code %d, got %d", wantCode, gotCode)
	}
	if gotOut != wantOut {
		t.Errorf("expected stdout %q, got %q", wantOut, gotOut)
	}
	if gotErr != wantErr {
		t.Errorf("expected stderr %q, got %q", wantErr, gotErr)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)
	expectResult(t, stdout, stderr, code, "watchlater 0.1.0 (state v3)\n", "", exitcode.Success)
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
	for _, cmd := range commands.DefaultRegistry.All() {
		if !strings.Contains(stdout, "watchlater "+cmd.Name()) {
			t.Errorf("help output should mention %q", cmd.Name())
		}
	}
}

// Tests for lists command
func TestListsCommand(t *testing.T) {
	st := seededState()
	svc, _ := newService(t, &st)

	stdout, stderr, code := runCommand(t, &commands.ListsCmd{}, svc, nil, false)

	expected := "movies  Movies [default]  2\nbooks  Books  0\nanime  Anime  1\n"
	expectResult(t, stdout, stderr, code, expected, "", exitcode.Success)
}

func TestListsCommand_SeedsDefaults(t *testing.T) {
	svc, slot := newService(t, nil)

	stdout, _, code := runCommand(t, &commands.ListsCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "movies  Movies [default]  0\nbooks  Books  0\nanime  Anime  0\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	if slot.Writes() != 1 {
		t.Errorf("expected defaults to be written once, got %d writes", slot.Writes())
	}
}

// Tests for list command
func TestListCommand_All(t *testing.T) {
	st := seededState()
	svc, _ := newService(t, &st)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	expected := "------------\nMovies [default] (2)\n------------\n" +
		"    i1  Alien\n    i2  Heat\n" +
		"------------\nAnime (1)\n------------\n" +
		"    i3  Akira\n"
	expectResult(t, stdout, stderr, code, expected, "", exitcode.Success)
}

func TestListCommand_Empty(t *testing.T) {
	tests := []struct {
		name    string
		quiet   bool
		wantOut string
	}{
		{"verbose", false, "no items found\n"},
		{"quiet", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, nil)
			stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, tt.quiet)
			expectResult(t, stdout, stderr, code, tt.wantOut, "", exitcode.Success)
		})
	}
}

func TestListCommand_One(t *testing.T) {
	st := seededState()
	svc, _ := newService(t, &st)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, []string{"books"}, false)
	expectResult(t, stdout, stderr, code, "------------\nBooks (0)\n------------\n", "", exitcode.Success)

	stdout, stderr, code = runCommand(t, &commands.ListCmd{}, svc, []string{"nope"}, false)
	expectResult(t, stdout, stderr, code, "", "error: list not found: nope\n", exitcode.UserError)
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	tests := []struct {
		name     string
		listID   string
		args     []string
		quiet    bool
		wantOut  string
		wantErr  string
		wantCode int
		wantList string
	}{
		{
			name:     "default list",
			args:     []string{"The", "Thing"},
			wantOut:  "ok 0000000000000001\n",
			wantCode: exitcode.Success,
			wantList: "movies",
		},
		{
			name:     "explicit list",
			listID:   "books",
			args:     []string{"Dune"},
			wantOut:  "ok 0000000000000001\n",
			wantCode: exitcode.Success,
			wantList: "books",
		},
		{
			name:     "quiet",
			args:     []string{"Ran"},
			quiet:    true,
			wantCode: exitcode.Success,
			wantList: "movies",
		},
		{
			name:     "duplicate",
			args:     []string{`"alien"`},
			wantOut:  "already saved i1\n",
			wantCode: exitcode.Success,
		},
		{
			name:     "unknown list",
			listID:   "nope",
			args:     []string{"Dune"},
			wantErr:  "error: list not found: nope\n",
			wantCode: exitcode.UserError,
		},
		{
			name:     "no title",
			wantErr:  "error: title required\n",
			wantCode: exitcode.UserError,
		},
		{
			name:     "title empty after sanitizing",
			args:     []string{`"''"`},
			wantErr:  "error: title required\n",
			wantCode: exitcode.UserError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := seededState()
			svc, _ := newService(t, &st)

			cmd := &commands.AddCmd{}
			cmd.SetListID(tt.listID)
			stdout, stderr, code := runCommand(t, cmd, svc, tt.args, tt.quiet)
			expectResult(t, stdout, stderr, code, tt.wantOut, tt.wantErr, tt.wantCode)

			items := svc.GetState(context.Background()).Items
			if tt.wantList == "" {
				if len(items) != len(st.Items) {
					t.Errorf("expected %d items, got %d", len(st.Items), len(items))
				}
				return
			}
			if len(items) != len(st.Items)+1 {
				t.Fatalf("expected %d items, got %d", len(st.Items)+1, len(items))
			}
			if items[0].ListID != tt.wantList {
				t.Errorf("expected new item in %s, got %s", tt.wantList, items[0].ListID)
			}
		})
	}
}

func TestAddCommand_WriteFailure(t *testing.T) {
	st := seededState()
	svc, slot := newService(t, &st)
	slot.WriteErr = errors.New("disk full")

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Dune"}, false)
	expectResult(t, stdout, stderr, code, "", "error: state write failed: disk full\n", exitcode.BackendError)
}

func TestCreateCommand_IsAdd(t *testing.T) {
	svc, _ := newService(t, nil)

	stdout, stderr, code := runCommand(t, &commands.CreateCmd{}, svc, []string{"Akira"}, false)
	expectResult(t, stdout, stderr, code, "ok 0000000000000001\n", "", exitcode.Success)
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantOut   string
		wantErr   string
		wantCode  int
		wantItems int
	}{
		{"two items", []string{"i1", "i3", "missing"}, "ok 2\n", "", exitcode.Success, 1},
		{"no match", []string{"missing"}, "", "error: no matching items\n", exitcode.UserError, 3},
		{"no args", nil, "", "error: item id required\n", exitcode.UserError, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := seededState()
			svc, _ := newService(t, &st)

			stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, tt.args, false)
			expectResult(t, stdout, stderr, code, tt.wantOut, tt.wantErr, tt.wantCode)

			if got := len(svc.GetState(context.Background()).Items); got != tt.wantItems {
				t.Errorf("expected %d items left, got %d", tt.wantItems, got)
			}
		})
	}
}

// stubPrompt answers RequestName with a fixed result.
type stubPrompt struct {
	name  string
	err   error
	calls int
}

func (s *stubPrompt) RequestName(context.Context, string) (string, error) {
	s.calls++
	return s.name, s.err
}

// Tests for createlist command
func TestCreateListCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		prompt    *stubPrompt
		wantOut   string
		wantErr   string
		wantCode  int
		wantLists int
		wantAsked bool
	}{
		{
			name:      "name from args",
			args:      []string{"Sci", "Fi"},
			prompt:    &stubPrompt{},
			wantOut:   "ok sci-fi\n",
			wantCode:  exitcode.Success,
			wantLists: 4,
		},
		{
			name:      "collision",
			args:      []string{"MOVIES!"},
			prompt:    &stubPrompt{},
			wantOut:   "ok movies-1\n",
			wantCode:  exitcode.Success,
			wantLists: 4,
		},
		{
			name:      "prompted",
			prompt:    &stubPrompt{name: "Podcasts"},
			wantOut:   "ok podcasts\n",
			wantCode:  exitcode.Success,
			wantLists: 4,
			wantAsked: true,
		},
		{
			name:      "prompt canceled",
			prompt:    &stubPrompt{err: prompt.ErrCanceled},
			wantOut:   "canceled\n",
			wantCode:  exitcode.Success,
			wantLists: 3,
			wantAsked: true,
		},
		{
			name:      "prompt unavailable",
			args:      []string{"  "},
			prompt:    &stubPrompt{err: prompt.ErrUnavailable},
			wantErr:   "error: list name required\n",
			wantCode:  exitcode.UserError,
			wantLists: 3,
			wantAsked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := seededState()
			svc, _ := newService(t, &st)

			cmd := &commands.CreateListCmd{Prompt: tt.prompt}
			stdout, stderr, code := runCommand(t, cmd, svc, tt.args, false)
			expectResult(t, stdout, stderr, code, tt.wantOut, tt.wantErr, tt.wantCode)

			if got := len(svc.GetState(context.Background()).Lists); got != tt.wantLists {
				t.Errorf("expected %d lists, got %d", tt.wantLists, got)
			}
			if asked := tt.prompt.calls > 0; asked != tt.wantAsked {
				t.Errorf("prompt asked = %v, want %v", asked, tt.wantAsked)
			}
		})
	}
}

func TestAddListCommand_IsCreateList(t *testing.T) {
	svc, _ := newService(t, nil)

	cmd := &commands.AddListCmd{Prompt: &stubPrompt{}}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Podcasts"}, false)
	expectResult(t, stdout, stderr, code, "ok podcasts\n", "", exitcode.Success)
}

// Tests for rmlist command
func TestRmListCommand(t *testing.T) {
	tests := []struct {
		name     string
		keep     bool
		moveTo   string
		args     []string
		wantOut  string
		wantErr  string
		wantCode int
		wantDest string // list holding i3 afterwards, "" when deleted
	}{
		{
			name:     "cascade",
			args:     []string{"anime"},
			wantOut:  "ok deleted 1\n",
			wantCode: exitcode.Success,
		},
		{
			name:     "keep",
			keep:     true,
			args:     []string{"anime"},
			wantOut:  "ok moved 1 to movies\n",
			wantCode: exitcode.Success,
			wantDest: "movies",
		},
		{
			name:     "move to",
			moveTo:   "books",
			args:     []string{"anime"},
			wantOut:  "ok moved 1 to books\n",
			wantCode: exitcode.Success,
			wantDest: "books",
		},
		{
			name:     "move to unknown falls back",
			moveTo:   "nope",
			args:     []string{"anime"},
			wantOut:  "ok moved 1 to movies\n",
			wantErr:  "warning: list not usable as destination: nope (moved to movies)\n",
			wantCode: exitcode.Success,
			wantDest: "movies",
		},
		{
			name:     "unknown list",
			args:     []string{"nope"},
			wantErr:  "error: unknown list id: nope\n",
			wantCode: exitcode.UserError,
			wantDest: "anime",
		},
		{
			name:     "no args",
			wantErr:  "error: list id required\n",
			wantCode: exitcode.UserError,
			wantDest: "anime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := seededState()
			svc, _ := newService(t, &st)

			cmd := &commands.RmListCmd{}
			cmd.SetKeep(tt.keep)
			cmd.SetMoveTo(tt.moveTo)
			stdout, stderr, code := runCommand(t, cmd, svc, tt.args, false)
			expectResult(t, stdout, stderr, code, tt.wantOut, tt.wantErr, tt.wantCode)

			after := svc.GetState(context.Background())
			var dest string
			for _, it := range after.Items {
				if it.ID == "i3" {
					dest = it.ListID
				}
			}
			if dest != tt.wantDest {
				t.Errorf("expected i3 in %q, got %q", tt.wantDest, dest)
			}
		})
	}
}

func TestRmListCommand_LastList(t *testing.T) {
	st := service.State{
		Lists: []service.List{{ID: "movies", Name: "Movies", CreatedAt: 1}},
		Items: []service.Item{{ID: "i1", ListID: "movies", Title: "Alien", CreatedAt: 2}},
	}
	svc, slot := newService(t, &st)
	writes := slot.Writes()

	stdout, stderr, code := runCommand(t, &commands.RmListCmd{}, svc, []string{"movies"}, false)
	expectResult(t, stdout, stderr, code, "", "error: cannot delete the last list: movies\n", exitcode.UserError)

	if slot.Writes() != writes {
		t.Error("state should not be written when the last list is protected")
	}
}

// Tests for state command
func TestStateCommand(t *testing.T) {
	st := seededState()
	svc, _ := newService(t, &st)

	stdout, stderr, code := runCommand(t, &commands.StateCmd{}, svc, nil, false)
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("unexpected result: code %d, stderr %q", code, stderr)
	}

	var got service.State
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("state output is not JSON: %v", err)
	}
	if len(got.Lists) != 3 || len(got.Items) != 3 || got.Version != 3 {
		t.Errorf("unexpected state %+v", got)
	}
}

// Tests for import command
func TestImportCommand(t *testing.T) {
	valid := `{"version":3,"lists":[{"id":"tv","name":"TV","createdAt":1}],` +
		`"items":[{"id":"x1","listId":"tv","title":"  Dark ","createdAt":2}]}`

	tests := []struct {
		name     string
		content  string
		wantOut  string
		wantErr  string
		wantCode int
	}{
		{"valid", valid, "ok 1 1\n", "", exitcode.Success},
		{"unknown list", `{"lists":[{"id":"tv","name":"TV","createdAt":1}],"items":[{"id":"x","listId":"nope","title":"t","createdAt":1}]}`,
			"", "error: invalid state: items[0].listId: unknown list nope\n", exitcode.UserError},
		{"missing items", `{"lists":[{"id":"tv","name":"TV","createdAt":1}]}`,
			"", "error: invalid state: items: required\n", exitcode.UserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := seededState()
			svc, _ := newService(t, &st)

			path := filepath.Join(t.TempDir(), "state.json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			stdout, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{path}, false)
			expectResult(t, stdout, stderr, code, tt.wantOut, tt.wantErr, tt.wantCode)
		})
	}
}

func TestImportCommand_StdinIsNormalized(t *testing.T) {
	svc, _ := newService(t, nil)

	cmd := &commands.ImportCmd{Stdin: strings.NewReader(
		`{"lists":[{"id":"tv","name":"TV","createdAt":1}],"items":[{"id":"x1","listId":"tv","title":"  Dark ","createdAt":2}]}`,
	)}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"-"}, false)
	expectResult(t, stdout, stderr, code, "ok 1 1\n", "", exitcode.Success)

	st := svc.GetState(context.Background())
	if len(st.Items) != 1 || st.Items[0].Title != "Dark" {
		t.Errorf("expected sanitized import, got %+v", st.Items)
	}
}

func TestImportCommand_Args(t *testing.T) {
	svc, _ := newService(t, nil)

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, nil, false)
	if code != exitcode.UserError || stderr != "error: exactly one file required\n" {
		t.Errorf("unexpected result: code %d, stderr %q", code, stderr)
	}

	_, _, code = runCommand(t, &commands.ImportCmd{}, svc, []string{filepath.Join(t.TempDir(), "missing.json")}, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d for a missing file, got %d", exitcode.UserError, code)
	}
}

// fakePusher records the pushed state.
type fakePusher struct {
	got    service.State
	result googletasks.PushResult
	err    error
}

func (f *fakePusher) Push(ctx context.Context, st service.State) (googletasks.PushResult, error) {
	f.got = st
	return f.result, f.err
}

// Tests for push command
func TestPushCommand(t *testing.T) {
	st := seededState()
	svc, _ := newService(t, &st)

	pusher := &fakePusher{result: googletasks.PushResult{ListsCreated: 2, TasksCreated: 3}}
	cmd := &commands.PushCmd{Connect: func(context.Context, *config.Config) (commands.Pusher, error) {
		return pusher, nil
	}}

	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
	expectResult(t, stdout, stderr, code, "ok lists created 2, tasks created 3, skipped 0\n", "", exitcode.Success)

	if len(pusher.got.Items) != 3 {
		t.Errorf("expected the saved state to be pushed, got %+v", pusher.got)
	}
}

func TestPushCommand_Errors(t *testing.T) {
	tests := []struct {
		name       string
		connectErr error
		pushErr    error
		wantCode   int
	}{
		{"auth", werrors.New(werrors.CategoryAuth, werrors.SeverityError, "token expired"), nil, exitcode.AuthError},
		{"remote", nil, werrors.New(werrors.CategoryRemote, werrors.SeverityError, "request failed"), exitcode.BackendError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, nil)
			cmd := &commands.PushCmd{Connect: func(context.Context, *config.Config) (commands.Pusher, error) {
				if tt.connectErr != nil {
					return nil, tt.connectErr
				}
				return &fakePusher{err: tt.pushErr}, nil
			}}

			stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if stdout != "" || !strings.HasPrefix(stderr, "error: ") {
				t.Errorf("unexpected output: stdout %q, stderr %q", stdout, stderr)
			}
		})
	}
}

func TestPushCommand_NotLoggedIn(t *testing.T) {
	svc, _ := newService(t, nil)

	_, stderr, code := runCommand(t, &commands.PushCmd{}, svc, nil, false)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: oauth_client.json not found in ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{werrors.MissingListID(), exitcode.UserError},
		{werrors.ListNotFound("x"), exitcode.UserError},
		{werrors.LastListProtected("x"), exitcode.UserError},
		{werrors.PersistenceFailed("write", errors.New("boom")), exitcode.BackendError},
		{werrors.ConfigInvalid("config.yaml", errors.New("bad")), exitcode.AuthError},
		{werrors.New(werrors.CategoryAuth, werrors.SeverityError, "token"), exitcode.AuthError},
		{errors.New("plain"), exitcode.BackendError},
	}
	for _, tt := range tests {
		if got := commands.ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.StateCmd{}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register(&commands.StateCmd{}); err == nil {
		t.Error("expected duplicate name to be rejected")
	}

	cmd, ok := r.Find("export")
	if !ok || cmd.Name() != "state" {
		t.Error("expected alias to resolve to state")
	}
}
