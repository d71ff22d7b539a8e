package board

import "errors"

// Sentinel errors returned by the board package. Match them with errors.Is.
var (
	// ErrInvalidSquare indicates text that is not a square in algebraic notation.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidMove indicates move text that cannot be read as a UCI move.
	ErrInvalidMove = errors.New("invalid move")

	// ErrNoPiece indicates a move whose origin square is empty.
	ErrNoPiece = errors.New("no piece on origin square")

	// ErrMissingPromotion indicates a pawn move onto its last rank without a
	// usable promotion piece.
	ErrMissingPromotion = errors.New("promotion piece required")

	// ErrCastleBlocked indicates a castle whose king or rook cannot make the
	// move: one is missing or a destination square is occupied.
	ErrCastleBlocked = errors.New("castle blocked")
)
