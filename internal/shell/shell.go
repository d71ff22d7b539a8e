// Package shell implements the line-oriented command interface of chrs.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apex/log"
	uuid "github.com/satori/go.uuid"

	"github.com/mayhemheroes/chess-rs/internal/diagram"
	"github.com/mayhemheroes/chess-rs/internal/game"
	"github.com/mayhemheroes/chess-rs/internal/storage"
)

// ErrNoStorage is reported by persistence commands when the shell was
// started without a database.
var ErrNoStorage = errors.New("no database open")

// Shell reads commands from in and writes responses to out.
type Shell struct {
	game    *game.Game
	store   *storage.Storage // nil when persistence is disabled
	diagram diagram.Options

	in  io.Reader
	out io.Writer
}

// New creates a shell driving g. store may be nil.
func New(g *game.Game, store *storage.Storage, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		game:    g,
		store:   store,
		diagram: diagram.DefaultOptions(),
		in:      in,
		out:     out,
	}
}

// SetDiagramOptions changes how the diagram command renders.
func (s *Shell) SetDiagramOptions(opts diagram.Options) {
	s.diagram = opts
}

// Game returns the game currently being played.
func (s *Shell) Game() *game.Game { return s.game }

// Run executes commands until quit or end of input.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)

	for scanner.Scan() {
		if !s.Exec(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Exec runs a single command line. It returns false when the shell should
// stop.
func (s *Shell) Exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return true
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	var err error
	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		s.handleHelp()
	case "move", "m":
		err = s.handleMove(args)
	case "undo", "u":
		err = s.handleUndo(args)
	case "reset", "new":
		s.game.Reset()
		s.println("ok")
	case "load":
		err = s.handleLoad(args)
	case "position":
		err = s.handlePosition(args)
	case "fen":
		s.println(s.game.FEN())
	case "d", "show":
		s.println(s.game.Position().String())
	case "moves":
		s.println(strings.Join(s.game.Moves(), " "))
	case "hash":
		s.printf("%016x\n", s.game.Position().Hash())
	case "save":
		err = s.handleSave()
	case "open":
		err = s.handleOpen(args)
	case "games":
		err = s.handleGames()
	case "delete":
		err = s.handleDelete(args)
	case "stats":
		err = s.handleStats()
	case "snapshot":
		err = s.handleSnapshot()
	case "restore":
		err = s.handleRestore(args)
	case "diagram":
		err = s.handleDiagram(args)
	default:
		// A bare move is the most common input.
		if len(parts) == 1 && (len(cmd) == 4 || len(cmd) == 5) {
			err = s.handleMove(parts)
		} else {
			err = fmt.Errorf("unknown command %q", cmd)
		}
	}

	if err != nil {
		log.WithError(err).WithField("command", cmd).Debug("command failed")
		s.printf("error: %v\n", err)
	}
	return true
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Shell) handleHelp() {
	s.println(`commands:
  <uci>, move <uci>...           play moves (e2e4, e7e8q)
  undo [n]                       take back n moves (default 1)
  reset                          start over from the initial position
  load <fen>                     set up a position
  position startpos|fen <fen> [moves <uci>...]
  fen, d, moves, hash            inspect the position
  save, open <id>, games, delete <id>, stats
  snapshot, restore <key>        store or fetch a bare position
  diagram <file.png> [flip]      render the board
  quit`)
}

// handleMove plays each move in turn, stopping at the first failure.
func (s *Shell) handleMove(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: move <uci>...")
	}
	for _, uci := range args {
		if err := s.game.Play(uci); err != nil {
			return err
		}
	}
	s.println(s.game.FEN())
	return nil
}

func (s *Shell) handleUndo(args []string) error {
	n := 1
	if len(args) > 0 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid undo count %q", args[0])
		}
	}

	undone := 0
	for undone < n && s.game.Undo() {
		undone++
	}
	if undone == 0 {
		return errors.New("nothing to undo")
	}
	s.println(s.game.FEN())
	return nil
}

func (s *Shell) handleLoad(args []string) error {
	if err := s.game.Load(strings.Join(args, " ")); err != nil {
		return err
	}
	s.println(s.game.FEN())
	return nil
}

// handlePosition sets up a position and optionally plays moves from it.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (s *Shell) handlePosition(args []string) error {
	setup, moves := args, []string(nil)
	for i, arg := range args {
		if arg == "moves" {
			setup, moves = args[:i], args[i+1:]
			break
		}
	}

	if len(setup) == 0 {
		return errors.New("usage: position startpos|fen <fen> [moves ...]")
	}

	switch setup[0] {
	case "startpos":
		s.game.Reset()
	case "fen":
		if err := s.game.Load(strings.Join(setup[1:], " ")); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown position type %q", setup[0])
	}

	if len(moves) > 0 {
		return s.handleMove(moves)
	}
	s.println(s.game.FEN())
	return nil
}

func (s *Shell) handleSave() error {
	if s.store == nil {
		return ErrNoStorage
	}
	rec := s.game.Record()
	if err := s.store.SaveGame(rec); err != nil {
		return err
	}
	s.printf("saved %s\n", rec.ID)
	return nil
}

func (s *Shell) handleOpen(args []string) error {
	if s.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: open <id>")
	}
	id, err := uuid.FromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid game id: %w", err)
	}
	rec, err := s.store.LoadGame(id)
	if err != nil {
		return err
	}
	g, err := game.Restore(rec)
	if err != nil {
		return err
	}
	s.game = g
	s.println(g.FEN())
	return nil
}

func (s *Shell) handleGames() error {
	if s.store == nil {
		return ErrNoStorage
	}
	games, err := s.store.ListGames()
	if err != nil {
		return err
	}
	for _, rec := range games {
		s.printf("%s  %s  %3d  %s\n", rec.ID, rec.UpdatedAt.Format("2006-01-02 15:04"), len(rec.Moves), rec.FEN)
	}
	return nil
}

func (s *Shell) handleDelete(args []string) error {
	if s.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: delete <id>")
	}
	id, err := uuid.FromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid game id: %w", err)
	}
	if err := s.store.DeleteGame(id); err != nil {
		return err
	}
	s.println("ok")
	return nil
}

func (s *Shell) handleStats() error {
	if s.store == nil {
		return ErrNoStorage
	}
	games, err := s.store.ListGames()
	if err != nil {
		return err
	}
	sum, err := game.Summarize(games)
	if err != nil {
		return err
	}
	s.printf("games %d  mean %.1f  median %.1f  p80 %.1f  longest %d\n",
		sum.Games, sum.Mean, sum.Median, sum.P80, sum.Longest)
	return nil
}

func (s *Shell) handleSnapshot() error {
	if s.store == nil {
		return ErrNoStorage
	}
	key, err := s.store.SavePosition(s.game.Position())
	if err != nil {
		return err
	}
	s.printf("%016x\n", key)
	return nil
}

func (s *Shell) handleRestore(args []string) error {
	if s.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: restore <key>")
	}
	key, err := strconv.ParseUint(args[0], 16, 64)
	if err != nil {
		return fmt.Errorf("invalid snapshot key %q", args[0])
	}
	pos, err := s.store.LoadPosition(key)
	if err != nil {
		return err
	}
	return s.handleLoad(strings.Fields(pos.FEN()))
}

func (s *Shell) handleDiagram(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: diagram <file.png> [flip]")
	}
	opts := s.diagram
	if len(args) > 1 && args[1] == "flip" {
		opts.Flip = !opts.Flip
	}
	if err := diagram.SavePNG(args[0], s.game.Position(), opts); err != nil {
		return err
	}
	s.printf("wrote %s\n", args[0])
	return nil
}
