package board

import "testing"

func TestUndoLogIsLIFO(t *testing.T) {
	var l UndoLog
	if _, ok := l.Pop(); ok {
		t.Fatal("Pop on empty log should report false")
	}

	first := UndoRecord{move: NewMove(E2, E4), captured: NoPiece, prevEnPassant: NoSquare}
	second := UndoRecord{move: NewMove(E7, E5), captured: WhitePawn, prevEnPassant: E3, castleDelta: BlackKingSideCastle}
	l.Push(first)
	l.Push(second)

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	if top, _ := l.Peek(); top != second {
		t.Errorf("Peek = %+v, want %+v", top, second)
	}

	r, ok := l.Pop()
	if !ok || r != second {
		t.Errorf("first Pop = %+v, want %+v", r, second)
	}
	r, ok = l.Pop()
	if !ok || r != first {
		t.Errorf("second Pop = %+v, want %+v", r, first)
	}
	if l.Len() != 0 {
		t.Errorf("Len = %d after popping everything", l.Len())
	}
}

func TestUndoLogMovesIsACopy(t *testing.T) {
	var l UndoLog
	l.Push(UndoRecord{move: NewMove(G1, F3)})
	moves := l.Moves()
	moves[0] = NewMove(A1, A2)

	if got := l.Moves()[0]; got.From() != G1 || got.To() != F3 {
		t.Errorf("log changed through returned slice: %s", got)
	}

	l.Clear()
	if l.Len() != 0 || len(l.Moves()) != 0 {
		t.Error("Clear should empty the log")
	}
}

func TestApplyAlwaysLogsOneRecord(t *testing.T) {
	pos := NewPosition()
	pos.Apply(NewMove(G1, F3))

	rec, ok := pos.LastRecord()
	if !ok {
		t.Fatal("no record pushed")
	}
	if rec.Captured() != NoPiece || rec.CastleDelta() != NoCastling || rec.PrevEnPassant() != NoSquare {
		t.Errorf("quiet move record = %+v", rec)
	}
	if rec.Move() != NewMove(G1, F3) {
		t.Errorf("record move = %s", rec.Move())
	}
}
