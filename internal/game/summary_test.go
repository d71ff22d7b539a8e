package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mayhemheroes/chess-rs/internal/storage"
)

func TestSummarize(t *testing.T) {
	var recs []storage.GameRecord
	for _, n := range []int{6, 2, 10, 4, 8} {
		recs = append(recs, storage.GameRecord{Moves: make([]string, n)})
	}

	got, err := Summarize(recs)
	if err != nil {
		t.Fatal(err)
	}
	want := Summary{Games: 5, Mean: 6, Median: 6, P80: 8, Longest: 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got, err := Summarize(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Summary{}) {
		t.Errorf("got %+v, want zero", got)
	}
}
