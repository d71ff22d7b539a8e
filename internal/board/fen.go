package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN field names used in FENError.
const (
	FieldCount     = "field count"
	FieldPlacement = "piece placement"
	FieldSide      = "side to move"
	FieldCastling  = "castling"
	FieldEnPassant = "en passant"
	FieldHalfMove  = "half-move clock"
	FieldFullMove  = "full-move number"
)

// FENError describes why a FEN string was rejected. It wraps ErrInvalidFEN,
// so errors.Is(err, ErrInvalidFEN) holds for every parse failure.
type FENError struct {
	Field  string // which of the six fields is at fault
	Value  string // the offending text
	Reason string
}

// Error returns a formatted error message.
func (e *FENError) Error() string {
	return fmt.Sprintf("%v: %s %q: %s", ErrInvalidFEN, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidFEN.
func (e *FENError) Unwrap() error {
	return ErrInvalidFEN
}

func fenError(field, value, format string, args ...any) *FENError {
	return &FENError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// ParseFEN parses a six-field FEN string and returns a Position with an
// empty undo log.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fenError(FieldCount, fen, "need 6 fields, got %d", len(parts))
	}

	pos := &Position{enPassant: NoSquare}

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.sideToMove = White
	case "b":
		pos.sideToMove = Black
	default:
		return nil, fenError(FieldSide, parts[1], "want w or b")
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fenError(FieldEnPassant, parts[3], "not a square")
		}
		pos.enPassant = sq
	}

	hmc, err := parseCounter(FieldHalfMove, parts[4])
	if err != nil {
		return nil, err
	}
	pos.halfMove = hmc

	fmn, err := parseCounter(FieldFullMove, parts[5])
	if err != nil {
		return nil, err
	}
	pos.fullMove = fmn

	return pos, nil
}

// MustParseFEN is like ParseFEN but panics on error. It is meant for
// known-good literals.
func MustParseFEN(fen string) *Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fenError(FieldPlacement, placement, "need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return fenError(FieldPlacement, placement, "too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fenError(FieldPlacement, placement, "invalid piece character %q", c)
			}
			pos.setPiece(piece, NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return fenError(FieldPlacement, placement, "rank %d has %d squares", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.castling = NoCastling
		return nil
	}

	for i := 0; i < len(castling); i++ {
		var flag CastlingRights
		switch castling[i] {
		case 'K':
			flag = WhiteKingSideCastle
		case 'Q':
			flag = WhiteQueenSideCastle
		case 'k':
			flag = BlackKingSideCastle
		case 'q':
			flag = BlackQueenSideCastle
		default:
			return fenError(FieldCastling, castling, "invalid castling character %q", castling[i])
		}
		if pos.castling.Has(flag) {
			return fenError(FieldCastling, castling, "repeated castling character %q", castling[i])
		}
		pos.castling = pos.castling.Set(flag)
	}

	return nil
}

func parseCounter(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fenError(field, s, "not a number")
	}
	if n < 0 {
		return 0, fenError(field, s, "negative")
	}
	return n, nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())

	sb.WriteByte(' ')
	sb.WriteString(p.enPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfMove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullMove))

	return sb.String()
}
