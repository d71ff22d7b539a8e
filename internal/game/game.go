// Package game ties a board.Position to an identity and a textual move
// list so it can be saved, restored and driven interactively.
package game

import (
	"errors"
	"fmt"

	"github.com/apex/log"
	uuid "github.com/satori/go.uuid"

	"github.com/mayhemheroes/chess-rs/internal/board"
	"github.com/mayhemheroes/chess-rs/internal/storage"
)

// ErrWrongTurn is returned by Play when the moved piece belongs to the side
// not on turn. The position is unchanged in that case.
var ErrWrongTurn = errors.New("not that side's turn")

// Game is a position plus the information needed to persist it.
type Game struct {
	id       uuid.UUID
	startFEN string
	pos      *board.Position
}

// New starts a game from the standard starting position.
func New() *Game {
	return &Game{
		id:       uuid.NewV4(),
		startFEN: board.StartFEN,
		pos:      board.NewPosition(),
	}
}

// FromFEN starts a game from an arbitrary position.
func FromFEN(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{id: uuid.NewV4(), startFEN: pos.FEN(), pos: pos}, nil
}

// ID returns the game identifier.
func (g *Game) ID() uuid.UUID { return g.id }

// StartFEN returns the position the game started from.
func (g *Game) StartFEN() string { return g.startFEN }

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position { return g.pos.Copy() }

// FEN returns the current position in FEN.
func (g *Game) FEN() string { return g.pos.FEN() }

// Play applies a move given in UCI notation.
func (g *Game) Play(uci string) error {
	m, err := board.ParseMove(uci, g.pos)
	if err != nil {
		return err
	}

	if err := g.pos.Validate(m); err != nil {
		return err
	}

	before := g.pos.HistoryLen()
	g.pos.Apply(m)
	if g.pos.HistoryLen() == before {
		return fmt.Errorf("%w: %s to move", ErrWrongTurn, g.pos.SideToMove())
	}

	log.WithFields(log.Fields{
		"game": g.id.String(),
		"move": m.String(),
		"kind": m.Kind().String(),
	}).Info("played")
	return nil
}

// Undo takes back the last move. It reports whether there was one.
func (g *Game) Undo() bool {
	if g.pos.HistoryLen() == 0 {
		return false
	}
	g.pos.Undo()
	return true
}

// Reset returns to the standard starting position and forgets all moves.
func (g *Game) Reset() {
	g.pos.Reset()
	g.startFEN = board.StartFEN
}

// Load replaces the position and forgets all moves. On error the game is
// unchanged.
func (g *Game) Load(fen string) error {
	if err := g.pos.Load(fen); err != nil {
		return err
	}
	g.startFEN = g.pos.FEN()
	return nil
}

// Moves returns the moves played since the start, in UCI notation.
func (g *Game) Moves() []string {
	moves := g.pos.Moves()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// Record returns the persistable form of the game.
func (g *Game) Record() *storage.GameRecord {
	return &storage.GameRecord{
		ID:       g.id,
		StartFEN: g.startFEN,
		Moves:    g.Moves(),
		FEN:      g.pos.FEN(),
	}
}

// Restore rebuilds a game by replaying rec's moves from its start position.
func Restore(rec *storage.GameRecord) (*Game, error) {
	pos, err := board.ParseFEN(rec.StartFEN)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", rec.ID, err)
	}
	g := &Game{id: rec.ID, startFEN: rec.StartFEN, pos: pos}

	for i, uci := range rec.Moves {
		if err := g.Play(uci); err != nil {
			return nil, fmt.Errorf("game %s: move %d (%s): %w", rec.ID, i+1, uci, err)
		}
	}

	if rec.FEN != "" && rec.FEN != g.pos.FEN() {
		log.WithFields(log.Fields{
			"game":   rec.ID.String(),
			"stored": rec.FEN,
			"replay": g.pos.FEN(),
		}).Warn("stored position differs from replay")
	}
	return g, nil
}
