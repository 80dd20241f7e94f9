package thor

import (
	"testing"

	"github.com/hailam/othello/internal/board"
)

func TestNoopOracleAlwaysUnavailable(t *testing.T) {
	var o Oracle = NoopOracle{}
	if o.Available() {
		t.Fatal("expected NoopOracle to report unavailable")
	}
	b := board.NewBoard()
	if _, ok := o.Query(b, board.Black); ok {
		t.Fatal("expected NoopOracle.Query to report no data")
	}
}

func TestBestCandidatePicksMostPlayed(t *testing.T) {
	stats := Stats{Candidates: []Candidate{
		{Move: board.Move(19), GamesPlayed: 10, Wins: 4},
		{Move: board.Move(26), GamesPlayed: 42, Wins: 30},
		{Move: board.Move(37), GamesPlayed: 12, Wins: 1},
	}}
	best, ok := BestCandidate(stats)
	if !ok {
		t.Fatal("expected a best candidate")
	}
	if best.Move != board.Move(26) {
		t.Fatalf("expected move 26, got %v", best.Move)
	}
}

func TestBestCandidateEmptyStats(t *testing.T) {
	if _, ok := BestCandidate(Stats{}); ok {
		t.Fatal("expected ok=false for empty stats")
	}
}

func TestCandidateWinRate(t *testing.T) {
	c := Candidate{GamesPlayed: 4, Wins: 3}
	if rate := c.WinRate(); rate != 0.75 {
		t.Fatalf("expected win rate 0.75, got %v", rate)
	}
	var zero Candidate
	if rate := zero.WinRate(); rate != 0 {
		t.Fatalf("expected win rate 0 for unplayed candidate, got %v", rate)
	}
}
