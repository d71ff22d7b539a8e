package board

// CastlingRights represents the available castling options as four
// independent flags.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// CastleSide selects the wing a king castles toward.
type CastleSide uint8

const (
	KingSide CastleSide = iota
	QueenSide
)

// String returns "O-O" or "O-O-O".
func (s CastleSide) String() string {
	if s == QueenSide {
		return "O-O-O"
	}
	return "O-O"
}

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr.Has(WhiteKingSideCastle) {
		s += "K"
	}
	if cr.Has(WhiteQueenSideCastle) {
		s += "Q"
	}
	if cr.Has(BlackKingSideCastle) {
		s += "k"
	}
	if cr.Has(BlackQueenSideCastle) {
		s += "q"
	}
	return s
}

// Has reports whether every flag in f is set.
func (cr CastlingRights) Has(f CastlingRights) bool {
	return cr&f == f
}

// Set returns cr with the flags in f added.
func (cr CastlingRights) Set(f CastlingRights) CastlingRights {
	return cr | f
}

// Clear returns cr with the flags in f removed.
func (cr CastlingRights) Clear(f CastlingRights) CastlingRights {
	return cr &^ f
}

// Delta returns the flags that differ between cr and prev.
// Applying the delta to either value yields the other.
func (cr CastlingRights) Delta(prev CastlingRights) CastlingRights {
	return cr ^ prev
}

// Apply XORs a delta produced by Delta into cr.
func (cr CastlingRights) Apply(delta CastlingRights) CastlingRights {
	return cr ^ delta
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, side CastleSide) bool {
	return cr.Has(castleFlag(c, side))
}

func castleFlag(c Color, side CastleSide) CastlingRights {
	if c == White {
		if side == KingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if side == KingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

func colorCastling(c Color) CastlingRights {
	if c == White {
		return WhiteKingSideCastle | WhiteQueenSideCastle
	}
	return BlackKingSideCastle | BlackQueenSideCastle
}

// RevokedBy returns the castling rights lost when piece moves away from
// from. Any king move clears both rights of its color. Otherwise only the
// origin matters: leaving the color's king home square clears both rights,
// leaving one of its rook home squares clears that side, whatever the
// piece. A move that lands on a home square leaves the rights alone.
func RevokedBy(piece Piece, from Square) CastlingRights {
	c := piece.Color()
	if c == NoColor {
		return NoCastling
	}
	if piece.Type() == King || from == kingHome[c] {
		return colorCastling(c)
	}
	switch from {
	case rookHome[c][KingSide]:
		return castleFlag(c, KingSide)
	case rookHome[c][QueenSide]:
		return castleFlag(c, QueenSide)
	}
	return NoCastling
}

// Home squares, indexed by color and side.
var (
	kingHome = [2]Square{E1, E8}
	rookHome = [2][2]Square{{H1, A1}, {H8, A8}}
)

// castleMove lists the king and rook relocations for one castle.
type castleMove struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
}

var castleMoves = [2][2]castleMove{
	White: {
		KingSide:  {E1, G1, H1, F1},
		QueenSide: {E1, C1, A1, D1},
	},
	Black: {
		KingSide:  {E8, G8, H8, F8},
		QueenSide: {E8, C8, A8, D8},
	},
}
