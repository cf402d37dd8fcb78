// Package stats holds the read-side reducers that fold match documents into
// winrate lookups, the roster leaderboard, and player profiles. Every builder
// is a pure function over a repository snapshot; nothing here mutates match
// data or retries failed reads.
package stats

import (
	"errors"
	"math"
	"sort"
)

// Trailing windows, in days from request time.
const (
	winrateWindowDays     = 15
	leaderboardWindowDays = 14
)

const (
	topChampionCount   = 5
	profileRecentCount = 5
)

// ErrMissingParameter marks a caller-contract violation: a required query
// parameter was missing or blank.
var ErrMissingParameter = errors.New("missing required parameter")

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// percentage is 100*wins/games rounded to one decimal, 0 for an empty
// denominator (never NaN).
func percentage(wins, games int) float64 {
	if games == 0 {
		return 0
	}
	return round1(float64(wins) / float64(games) * 100)
}

// average is sum/count rounded to one decimal, 0 for an empty denominator.
func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return round1(sum / float64(count))
}

// freqEntry is one key of a frequency table with its play and win counts.
type freqEntry struct {
	Key   string
	Games int
	Wins  int
}

// freqTable counts plays per key and remembers first-seen order, so "most
// played" ties break on the earlier key. The tie-break is part of the
// contract, not an accident of map iteration.
type freqTable struct {
	index   map[string]int
	entries []freqEntry
}

func newFreqTable() *freqTable {
	return &freqTable{index: make(map[string]int)}
}

func (t *freqTable) Add(key string, won bool) {
	i, ok := t.index[key]
	if !ok {
		i = len(t.entries)
		t.index[key] = i
		t.entries = append(t.entries, freqEntry{Key: key})
	}
	t.entries[i].Games++
	if won {
		t.entries[i].Wins++
	}
}

// Top returns the n highest-count entries, descending by count with
// first-seen order preserved on ties. n <= 0 returns all entries.
func (t *freqTable) Top(n int) []freqEntry {
	out := make([]freqEntry, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Games > out[j].Games
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// MostPlayed returns the key with the highest count, or "" for an empty
// table.
func (t *freqTable) MostPlayed() string {
	top := t.Top(1)
	if len(top) == 0 {
		return ""
	}
	return top[0].Key
}
