package board

import (
	"fmt"
	"strings"
)

// MoveKind classifies how a move changes the board.
type MoveKind uint8

const (
	Normal MoveKind = iota
	DoublePush
	EnPassant
	Castle
	Promotion
)

// String returns the kind name.
func (k MoveKind) String() string {
	switch k {
	case Normal:
		return "Normal"
	case DoublePush:
		return "DoublePush"
	case EnPassant:
		return "EnPassant"
	case Castle:
		return "Castle"
	case Promotion:
		return "Promotion"
	default:
		return "Unknown"
	}
}

// Move is a classified move. It is immutable once constructed; use the
// New* constructors or InferMove to build one.
type Move struct {
	from, to Square
	kind     MoveKind
	side     CastleSide
	promo    Piece
}

// NewMove creates a normal move (quiet move or plain capture).
func NewMove(from, to Square) Move {
	return Move{from: from, to: to, kind: Normal, promo: NoPiece}
}

// NewDoublePush creates a two-square pawn advance.
func NewDoublePush(from, to Square) Move {
	return Move{from: from, to: to, kind: DoublePush, promo: NoPiece}
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move{from: from, to: to, kind: EnPassant, promo: NoPiece}
}

// NewCastle creates a castling move described by the king's movement.
func NewCastle(from, to Square, side CastleSide) Move {
	return Move{from: from, to: to, kind: Castle, side: side, promo: NoPiece}
}

// NewPromotion creates a promotion onto to. The piece must be the colored
// piece the pawn becomes; passing NoPiece builds a move that Apply rejects
// by panicking.
func NewPromotion(from, to Square, piece Piece) Move {
	return Move{from: from, to: to, kind: Promotion, promo: piece}
}

// From returns the origin square.
func (m Move) From() Square { return m.from }

// To returns the destination square.
func (m Move) To() Square { return m.to }

// Kind returns the move kind.
func (m Move) Kind() MoveKind { return m.kind }

// CastleSide returns the castling wing. Only meaningful for Castle moves.
func (m Move) CastleSide() CastleSide { return m.side }

// PromotionPiece returns the piece a promotion produces, or NoPiece.
func (m Move) PromotionPiece() Piece { return m.promo }

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.from.String() + m.to.String()
	if m.kind == Promotion && m.promo != NoPiece {
		s += string(m.promo.Type().Char())
	}
	return s
}

// InferMove classifies the pair (from, to) against pos. The classifier
// looks at geometry and board content only; it does not check legality.
// promo names the piece type a pawn reaching its last rank becomes and is
// ignored for every other move.
func InferMove(from, to Square, promo PieceType, pos *Position) (Move, error) {
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return Move{}, fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	us := piece.Color()

	switch piece.Type() {
	case Pawn:
		advance := to.RelativeRank(us) - from.RelativeRank(us)
		fileDiff := abs(to.File() - from.File())
		if advance == 2 && fileDiff == 0 {
			return NewDoublePush(from, to), nil
		}
		if fileDiff == 1 && to == pos.enPassant && pos.IsEmpty(to) {
			return NewEnPassant(from, to), nil
		}
		if to.RelativeRank(us) == 7 {
			if !promo.isPromotable() {
				return Move{}, fmt.Errorf("%w: %s%s", ErrMissingPromotion, from, to)
			}
			return NewPromotion(from, to, NewPiece(promo, us)), nil
		}
	case King:
		if from == kingHome[us] && abs(to.File()-from.File()) == 2 {
			for side, cm := range castleMoves[us] {
				if cm.kingTo == to {
					return NewCastle(from, to, CastleSide(side)), nil
				}
			}
		}
	}

	return NewMove(from, to), nil
}

// ParseMove parses a UCI format move string ("e2e4", "e7e8q") and
// classifies it against pos.
func ParseMove(s string, pos *Position) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %w", ErrInvalidMove, s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %w", ErrInvalidMove, s, err)
	}

	promo := NoPieceType
	if len(s) == 5 {
		promo = PieceTypeFromChar(s[4])
		if !promo.isPromotable() {
			return Move{}, fmt.Errorf("%w: invalid promotion piece %q", ErrInvalidMove, s[4])
		}
	}

	return InferMove(from, to, promo, pos)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
