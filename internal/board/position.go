package board

import (
	"fmt"
	"strings"

	"github.com/apex/log"
)

// Position represents a complete chess position together with the log of
// moves applied to it. A Position is not safe for concurrent use.
type Position struct {
	pieces     [pieceCount]Bitboard // indexed by Piece
	sideToMove Color
	enPassant  Square // NoSquare if none
	castling   CastlingRights
	halfMove   int // incremented by every applied move
	fullMove   int // starts at 1, incremented after Black moves
	history    UndoLog
}

// startPosition is the standard initial array. It is never mutated.
var startPosition = Position{
	pieces: [pieceCount]Bitboard{
		WhitePawn:   Rank2,
		WhiteKnight: SquareBB(B1) | SquareBB(G1),
		WhiteBishop: SquareBB(C1) | SquareBB(F1),
		WhiteRook:   SquareBB(A1) | SquareBB(H1),
		WhiteQueen:  SquareBB(D1),
		WhiteKing:   SquareBB(E1),
		BlackPawn:   Rank7,
		BlackKnight: SquareBB(B8) | SquareBB(G8),
		BlackBishop: SquareBB(C8) | SquareBB(F8),
		BlackRook:   SquareBB(A8) | SquareBB(H8),
		BlackQueen:  SquareBB(D8),
		BlackKing:   SquareBB(E8),
	},
	sideToMove: White,
	enPassant:  NoSquare,
	castling:   AllCastling,
	halfMove:   0,
	fullMove:   1,
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	p := startPosition
	return &p
}

// Copy creates a deep copy of the position, undo log included.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.history = p.history.clone()
	return &newPos
}

// Reset restores the starting position and clears the undo log.
func (p *Position) Reset() {
	*p = startPosition
}

// Load replaces the whole state with the position described by fen and
// clears the undo log. On error p is left untouched.
func (p *Position) Load(fen string) error {
	parsed, err := ParseFEN(fen)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// Apply plays m. A move of a piece whose color is not on turn is ignored:
// nothing changes and no undo record is pushed. Every other call pushes
// exactly one UndoRecord.
//
// Apply panics when the origin square is empty, when m is a promotion
// without a promotion piece, or when m is a castle whose king and rook
// cannot make it.
func (p *Position) Apply(m Move) {
	piece := p.PieceAt(m.from)
	if piece == NoPiece {
		contractViolation("no piece on origin square", m)
	}
	us := piece.Color()
	if us != p.sideToMove {
		log.WithFields(log.Fields{
			"move":  m.String(),
			"piece": piece.String(),
			"turn":  p.sideToMove.String(),
		}).Debug("ignoring move out of turn")
		return
	}
	if err := p.Validate(m); err != nil {
		contractViolation(err.Error(), m)
	}

	log.WithFields(log.Fields{
		"move": m.String(),
		"kind": m.kind.String(),
	}).Debug("apply")

	prevEnPassant := p.enPassant
	prevCastling := p.castling

	var captured Piece
	switch m.kind {
	case Normal:
		captured = p.removePiece(m.to)
		p.movePiece(m.from, m.to)
	case DoublePush:
		captured = p.removePiece(m.to)
		p.movePiece(m.from, m.to)
		p.enPassant = m.to.behind(us)
	case EnPassant:
		p.movePiece(m.from, m.to)
		captured = p.removePiece(m.to.behind(us))
	case Castle:
		cm := castleMoves[us][m.side]
		p.movePiece(cm.kingFrom, cm.kingTo)
		p.movePiece(cm.rookFrom, cm.rookTo)
		p.castling = p.castling.Clear(colorCastling(us))
		captured = NoPiece
	case Promotion:
		p.removePiece(m.from)
		captured = p.removePiece(m.to)
		p.setPiece(m.promo, m.to)
	}

	if m.kind != DoublePush {
		p.enPassant = NoSquare
	}
	p.castling = p.castling.Clear(RevokedBy(piece, m.from))
	p.halfMove++
	if us == Black {
		p.fullMove++
	}
	p.sideToMove = us.Other()

	p.history.Push(UndoRecord{
		move:          m,
		captured:      captured,
		prevEnPassant: prevEnPassant,
		castleDelta:   p.castling.Delta(prevCastling),
	})
}

// Validate reports whether m satisfies the preconditions of Apply other
// than the turn order. Apply panics on a move that fails Validate.
func (p *Position) Validate(m Move) error {
	piece := p.PieceAt(m.from)
	if piece == NoPiece {
		return fmt.Errorf("%w: %s", ErrNoPiece, m.from)
	}
	if m.from == m.to {
		return fmt.Errorf("%w: %s does not leave its square", ErrInvalidMove, m)
	}
	us := piece.Color()

	switch m.kind {
	case Promotion:
		if m.promo == NoPiece {
			return fmt.Errorf("%w: %s", ErrMissingPromotion, m)
		}
		if piece.Type() != Pawn {
			return fmt.Errorf("%w: promotion by %s", ErrInvalidMove, piece.Type())
		}
	case EnPassant:
		if !p.IsEmpty(m.to) {
			return fmt.Errorf("%w: en passant onto occupied %s", ErrInvalidMove, m.to)
		}
	case Castle:
		cm := castleMoves[us][m.side]
		if m.from != cm.kingFrom || piece != NewPiece(King, us) ||
			p.PieceAt(cm.rookFrom) != NewPiece(Rook, us) {
			return fmt.Errorf("%w: king and rook not on their home squares", ErrCastleBlocked)
		}
		if !p.IsEmpty(cm.kingTo) || !p.IsEmpty(cm.rookTo) {
			return fmt.Errorf("%w: %s or %s occupied", ErrCastleBlocked, cm.kingTo, cm.rookTo)
		}
	}
	return nil
}

// Undo takes back the most recently applied move. It does nothing when the
// undo log is empty.
func (p *Position) Undo() {
	rec, ok := p.history.Pop()
	if !ok {
		return
	}
	m := rec.move
	us := p.sideToMove.Other() // the side that made m

	switch m.kind {
	case Normal, DoublePush:
		p.movePiece(m.to, m.from)
		p.setPiece(rec.captured, m.to)
	case EnPassant:
		p.movePiece(m.to, m.from)
		p.setPiece(rec.captured, m.to.behind(us))
	case Castle:
		cm := castleMoves[us][m.side]
		p.movePiece(cm.kingTo, cm.kingFrom)
		p.movePiece(cm.rookTo, cm.rookFrom)
	case Promotion:
		if m.promo == NoPiece {
			contractViolation("promotion move has no promotion piece", m)
		}
		p.removePiece(m.to)
		p.setPiece(NewPiece(Pawn, us), m.from)
		p.setPiece(rec.captured, m.to)
	}

	if us == Black {
		p.fullMove--
	}
	p.enPassant = rec.prevEnPassant
	p.castling = p.castling.Apply(rec.castleDelta)
	p.halfMove--
	p.sideToMove = p.sideToMove.Other()
}

// contractViolation logs and panics. It is reserved for misuse by the
// caller, never for bad external input.
func contractViolation(msg string, m Move) {
	log.WithFields(log.Fields{
		"move": m.String(),
		"kind": m.kind.String(),
	}).Error(msg)
	panic(fmt.Sprintf("board: %s (%s %s)", msg, m.kind, m))
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	for piece := WhitePawn; piece < NoPiece; piece++ {
		if p.pieces[piece].IsSet(sq) {
			return piece
		}
	}
	return NoPiece
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return !p.AllOccupancy().IsSet(sq)
}

// setPiece places a piece on a square. NoPiece is ignored.
func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	p.pieces[piece] = p.pieces[piece].Set(sq)
}

// removePiece clears a square and returns what was there.
func (p *Position) removePiece(sq Square) Piece {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return NoPiece
	}
	p.pieces[piece] = p.pieces[piece].Clear(sq)
	return piece
}

// movePiece moves whatever stands on from to the empty square to.
func (p *Position) movePiece(from, to Square) {
	piece := p.PieceAt(from)
	if piece == NoPiece {
		contractViolation("no piece to move on "+from.String(), NewMove(from, to))
	}
	p.pieces[piece] = p.pieces[piece].Move(from, to)
}

// SideToMove returns the color on turn.
func (p *Position) SideToMove() Color { return p.sideToMove }

// EnPassant returns the en-passant target square, or NoSquare.
func (p *Position) EnPassant() Square { return p.enPassant }

// CastlingRights returns the current castling flags.
func (p *Position) CastlingRights() CastlingRights { return p.castling }

// CanWhiteCastleKingSide reports the K flag.
func (p *Position) CanWhiteCastleKingSide() bool { return p.castling.Has(WhiteKingSideCastle) }

// CanWhiteCastleQueenSide reports the Q flag.
func (p *Position) CanWhiteCastleQueenSide() bool { return p.castling.Has(WhiteQueenSideCastle) }

// CanBlackCastleKingSide reports the k flag.
func (p *Position) CanBlackCastleKingSide() bool { return p.castling.Has(BlackKingSideCastle) }

// CanBlackCastleQueenSide reports the q flag.
func (p *Position) CanBlackCastleQueenSide() bool { return p.castling.Has(BlackQueenSideCastle) }

// HalfMoveClock returns the half-move clock.
func (p *Position) HalfMoveClock() int { return p.halfMove }

// FullMoveNumber returns the full-move number.
func (p *Position) FullMoveNumber() int { return p.fullMove }

// PieceOccupancy returns the squares holding piece.
func (p *Position) PieceOccupancy(piece Piece) Bitboard {
	if piece >= NoPiece {
		return Empty
	}
	return p.pieces[piece]
}

// PieceOccupancyByChar returns the squares holding the piece named by a FEN
// letter. ok is false for letters that name no piece.
func (p *Position) PieceOccupancyByChar(c byte) (bb Bitboard, ok bool) {
	piece := PieceFromChar(c)
	if piece == NoPiece {
		return Empty, false
	}
	return p.pieces[piece], true
}

// ColorOccupancy returns all squares holding pieces of color c.
func (p *Position) ColorOccupancy(c Color) Bitboard {
	var bb Bitboard
	for pt := Pawn; pt <= King; pt++ {
		bb |= p.PieceOccupancy(NewPiece(pt, c))
	}
	return bb
}

// AllOccupancy returns all occupied squares.
func (p *Position) AllOccupancy() Bitboard {
	var bb Bitboard
	for _, b := range p.pieces {
		bb |= b
	}
	return bb
}

// HistoryLen returns the number of moves that can be undone.
func (p *Position) HistoryLen() int { return p.history.Len() }

// LastRecord returns the most recent undo record.
func (p *Position) LastRecord() (UndoRecord, bool) { return p.history.Peek() }

// Moves returns the applied moves, oldest first.
func (p *Position) Moves() []Move { return p.history.Moves() }

// Equal reports whether p and o describe the same position. The undo logs
// are not compared.
func (p *Position) Equal(o *Position) bool {
	return p.pieces == o.pieces &&
		p.sideToMove == o.sideToMove &&
		p.enPassant == o.enPassant &&
		p.castling == o.castling &&
		p.halfMove == o.halfMove &&
		p.fullMove == o.fullMove
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.halfMove)
	fmt.Fprintf(&sb, "Full move: %d\n", p.fullMove)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash())
	return sb.String()
}
