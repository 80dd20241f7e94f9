// Package thor defines the interface the engine uses to consult an
// external historical-game database for opening candidates, without
// implementing the database itself (kept out-of-core by design).
package thor

import "github.com/hailam/othello/internal/board"

// Candidate is one historical continuation out of a queried position,
// aggregated over whatever game collection the Oracle draws from.
type Candidate struct {
	Move        board.Move
	GamesPlayed int
	Wins        int // wins for the side to move
	Losses      int
	Draws       int
}

// WinRate returns the fraction of recorded games the candidate's side
// won, or 0 if it was never played.
func (c Candidate) WinRate() float64 {
	if c.GamesPlayed == 0 {
		return 0
	}
	return float64(c.Wins) / float64(c.GamesPlayed)
}

// Stats is the result of querying a position: every historical
// continuation on record, most-played first.
type Stats struct {
	Candidates []Candidate
}

// Oracle is the interface to an external historical-game database.
// Grounded on internal/tablebase.Prober's shape (Probe/ProbeRoot/
// Available), generalized from WDL/DTZ results to move candidates and
// game statistics.
type Oracle interface {
	// Query returns recorded continuations for b with side to move,
	// or ok=false if the position has no games on record.
	Query(b *board.Board, side board.Color) (Stats, bool)

	// Available reports whether the oracle has any data loaded at all.
	Available() bool
}

// NoopOracle is an Oracle that never has data available. Used as the
// default when no historical database is configured, exactly as
// tablebase.NoopProber stands in for an absent tablebase.
type NoopOracle struct{}

func (NoopOracle) Query(*board.Board, board.Color) (Stats, bool) {
	return Stats{}, false
}

func (NoopOracle) Available() bool { return false }

// BestCandidate returns the most-played candidate in s, or ok=false if
// s has no candidates.
func BestCandidate(s Stats) (Candidate, bool) {
	if len(s.Candidates) == 0 {
		return Candidate{}, false
	}
	best := s.Candidates[0]
	for _, c := range s.Candidates[1:] {
		if c.GamesPlayed > best.GamesPlayed {
			best = c
		}
	}
	return best, true
}
