package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/mayhemheroes/chess-rs/internal/board"
	"github.com/mayhemheroes/chess-rs/internal/diagram"
	"github.com/mayhemheroes/chess-rs/internal/game"
	"github.com/mayhemheroes/chess-rs/internal/storage"
)

func run(t *testing.T, store *storage.Storage, script string) (*Shell, string) {
	t.Helper()
	var out bytes.Buffer
	sh := New(game.New(), store, strings.NewReader(script), &out)
	if err := sh.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sh, out.String()
}

func openStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.Open("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMovesAndUndo(t *testing.T) {
	sh, out := run(t, nil, `
e2e4
move e7e5 g1f3
undo 2
moves
`)
	if got := sh.Game().Moves(); len(got) != 1 || got[0] != "e2e4" {
		t.Errorf("moves = %v", got)
	}
	if strings.Contains(out, "error") {
		t.Errorf("unexpected error output:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if last := lines[len(lines)-1]; last != "e2e4" {
		t.Errorf("last line = %q", last)
	}
}

func TestErrorsAreReported(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"e7e5", "not that side's turn"},
		{"e3e4", "no piece"},
		{"e2e2", "invalid move"},
		{"e1e1", "invalid move"},
		{"undo", "nothing to undo"},
		{"load nonsense", "invalid FEN"},
		{"frobnicate now", "unknown command"},
		{"save", ErrNoStorage.Error()},
		{"position moves e2e4", "usage"},
		{"undo x", "invalid undo count"},
	}
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			sh, out := run(t, nil, tt.script)
			if !strings.Contains(out, "error: ") || !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not report %q", out, tt.want)
			}
			if sh.Game().FEN() != board.StartFEN {
				t.Errorf("position changed to %s", sh.Game().FEN())
			}
		})
	}
}

func TestPosition(t *testing.T) {
	sh, _ := run(t, nil, "position fen 4k3/8/8/8/8/8/4P3/4K3 w - - 0 1 moves e2e4 e8d7\n")
	if got, want := sh.Game().FEN(), "8/3k4/8/8/4P3/8/8/4K3 w - - 2 2"; got != want {
		t.Errorf("FEN = %q, want %q", got, want)
	}

	sh, _ = run(t, nil, "e2e4\nposition startpos moves d2d4\n")
	if got := sh.Game().Moves(); len(got) != 1 || got[0] != "d2d4" {
		t.Errorf("moves = %v", got)
	}
}

func TestQuitStopsReading(t *testing.T) {
	sh, _ := run(t, nil, "e2e4\nquit\ne7e5\n")
	if n := len(sh.Game().Moves()); n != 1 {
		t.Errorf("played %d moves, want 1", n)
	}
}

func TestSaveOpenGames(t *testing.T) {
	store := openStorage(t)

	_, out := run(t, store, "e2e4\ne7e5\nsave\n")
	m := regexp.MustCompile(`saved ([0-9a-f-]{36})`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no id in output:\n%s", out)
	}
	id := m[1]

	sh, out := run(t, store, "games\nopen "+id+"\nstats\n")
	if !strings.Contains(out, id) {
		t.Errorf("games listing lacks %s:\n%s", id, out)
	}
	if !strings.Contains(out, "games 1  mean 2.0") {
		t.Errorf("stats output:\n%s", out)
	}
	if sh.Game().ID().String() != id {
		t.Errorf("opened %s, want %s", sh.Game().ID(), id)
	}
	if got := sh.Game().Moves(); len(got) != 2 {
		t.Errorf("moves = %v", got)
	}

	_, out = run(t, store, "delete "+id+"\nopen "+id+"\n")
	if !strings.Contains(out, "ok") || !strings.Contains(out, "not found") {
		t.Errorf("delete then open:\n%s", out)
	}
}

func TestSnapshotRestore(t *testing.T) {
	store := openStorage(t)

	_, out := run(t, store, "d2d4\nsnapshot\n")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	key := lines[len(lines)-1]

	sh, out := run(t, store, "restore "+key+"\n")
	if strings.Contains(out, "error") {
		t.Fatalf("restore failed:\n%s", out)
	}
	want := "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 1 1"
	if got := sh.Game().FEN(); got != want {
		t.Errorf("FEN = %q, want %q", got, want)
	}
}

func TestDiagram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	var out bytes.Buffer
	sh := New(game.New(), nil, strings.NewReader("diagram "+path+" flip\n"), &out)
	sh.SetDiagramOptions(diagram.Options{Size: 96})
	if err := sh.Run(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("diagram not written: %v\n%s", err, out.String())
	}
}
