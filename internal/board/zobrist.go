package board

// Zobrist keys identify positions for storage and quick comparison.
// Uses PRNG with fixed seed so keys are stable across runs.
var (
	zobristPiece      [pieceCount][64]uint64
	zobristEnPassant  [8]uint64  // One per file
	zobristCastling   [16]uint64 // All 16 castling combinations
	zobristSideToMove uint64     // XOR when black to move
)

func init() {
	initZobrist()
}

type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for piece := range zobristPiece {
		for sq := range zobristPiece[piece] {
			zobristPiece[piece][sq] = rng.next()
		}
	}
	for file := range zobristEnPassant {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash computes the Zobrist key of the position from scratch. Positions
// that differ only in their move counters or undo logs share a key.
func (p *Position) Hash() uint64 {
	var hash uint64

	for piece, bb := range p.pieces {
		for bb != 0 {
			hash ^= zobristPiece[piece][bb.PopLSB()]
		}
	}
	if p.sideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[p.castling]
	if p.enPassant != NoSquare {
		hash ^= zobristEnPassant[p.enPassant.File()]
	}

	return hash
}
