package game

import (
	"github.com/montanaflynn/stats"

	"github.com/mayhemheroes/chess-rs/internal/storage"
)

// Summary describes the lengths, in plies, of a set of stored games.
type Summary struct {
	Games   int
	Mean    float64
	Median  float64
	P80     float64 // 80th percentile
	Longest int
}

// Summarize computes length statistics over recs. An empty slice yields a
// zero Summary.
func Summarize(recs []storage.GameRecord) (Summary, error) {
	if len(recs) == 0 {
		return Summary{}, nil
	}

	lengths := make([]int, len(recs))
	for i, rec := range recs {
		lengths[i] = len(rec.Moves)
	}
	data := stats.LoadRawData(lengths)

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, err
	}
	p80, err := stats.Percentile(data, 80)
	if err != nil {
		return Summary{}, err
	}
	longest, err := stats.Max(data)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Games:   len(recs),
		Mean:    mean,
		Median:  median,
		P80:     p80,
		Longest: int(longest),
	}, nil
}
