package board

// UndoRecord holds what Apply changed that cannot be derived from the move
// and the resulting board.
type UndoRecord struct {
	move          Move
	captured      Piece
	prevEnPassant Square
	castleDelta   CastlingRights
}

// Move returns the applied move.
func (r UndoRecord) Move() Move { return r.move }

// Captured returns the piece removed by the move, or NoPiece.
func (r UndoRecord) Captured() Piece { return r.captured }

// PrevEnPassant returns the en-passant target in force before the move.
func (r UndoRecord) PrevEnPassant() Square { return r.prevEnPassant }

// CastleDelta returns the castling flags the move cleared.
func (r UndoRecord) CastleDelta() CastlingRights { return r.castleDelta }

// UndoLog is a LIFO stack of UndoRecords, one per applied move.
type UndoLog struct {
	records []UndoRecord
}

// Push appends a record.
func (l *UndoLog) Push(r UndoRecord) {
	l.records = append(l.records, r)
}

// Pop removes and returns the most recent record. ok is false when the log
// is empty.
func (l *UndoLog) Pop() (r UndoRecord, ok bool) {
	n := len(l.records)
	if n == 0 {
		return UndoRecord{}, false
	}
	r = l.records[n-1]
	l.records = l.records[:n-1]
	return r, true
}

// Peek returns the most recent record without removing it.
func (l *UndoLog) Peek() (UndoRecord, bool) {
	if len(l.records) == 0 {
		return UndoRecord{}, false
	}
	return l.records[len(l.records)-1], true
}

// Len returns the number of records.
func (l *UndoLog) Len() int {
	return len(l.records)
}

// Clear drops every record.
func (l *UndoLog) Clear() {
	l.records = nil
}

// Moves returns the logged moves, oldest first.
func (l *UndoLog) Moves() []Move {
	moves := make([]Move, len(l.records))
	for i, r := range l.records {
		moves[i] = r.move
	}
	return moves
}

// clone returns a log that shares no storage with l.
func (l *UndoLog) clone() UndoLog {
	if l.records == nil {
		return UndoLog{}
	}
	return UndoLog{records: append([]UndoRecord(nil), l.records...)}
}
