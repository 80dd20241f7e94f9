package search

import (
	"testing"
	"time"

	"github.com/hailam/othello/internal/board"
	"github.com/hailam/othello/internal/pattern"
)

func newTestEvaluator(t *testing.T) *pattern.Evaluator {
	t.Helper()
	stages := []pattern.Stage{pattern.ZeroStage(0), pattern.ZeroStage(60)}
	eval, err := pattern.NewEvaluator(stages)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	eval.SetAdjustments(pattern.DefaultAdjustments)
	return eval
}

func newTestSearcher(t *testing.T) *Searcher {
	t.Helper()
	tt := NewTable(12)
	orderer := NewOrderer(board.SquarePriorityOrder())
	return NewSearcher(tt, orderer, newTestEvaluator(t))
}

func TestTableStoreKeepsDeeperDraft(t *testing.T) {
	tt := NewTable(8)
	h := board.Hash{}
	tt.Store(h, 100, board.Move(board.NewSquare(3, 3)), Midgame, 8, 0, false)
	tt.Store(h, 200, board.Move(board.NewSquare(4, 4)), Midgame, 2, 0, false)

	entry, ok := tt.Probe(h, false)
	if !ok {
		t.Fatal("expected entry present")
	}
	if entry.Score != 100 || entry.Draft != 8 {
		t.Fatalf("shallower draft must not overwrite deeper entry, got score=%d draft=%d", entry.Score, entry.Draft)
	}
}

func TestTableStoreExactAlwaysReplacesSameDraft(t *testing.T) {
	tt := NewTable(8)
	h := board.Hash{}
	tt.Store(h, 50, board.Move(board.NewSquare(3, 3)), Midgame, 4, 0, false)
	tt.Store(h, 75, board.Move(board.NewSquare(4, 4)), Exact, 4, 0, false)

	entry, ok := tt.Probe(h, false)
	if !ok {
		t.Fatal("expected entry present")
	}
	if entry.Kind != Exact || entry.Score != 75 {
		t.Fatalf("exact-value store at equal draft must win, got kind=%v score=%d", entry.Kind, entry.Score)
	}
}

func TestOrdererFloatsHashMoveFirst(t *testing.T) {
	o := NewOrderer(board.SquarePriorityOrder())
	b := board.NewBoard()
	legal := b.Generate(board.Black)

	hashMove := legal.Get(legal.Len() - 1)
	ordered := o.OrderMoves(60, legal, hashMove)
	if ordered.Len() != legal.Len() {
		t.Fatalf("expected %d moves, got %d", legal.Len(), ordered.Len())
	}
	if ordered.Get(0) != hashMove {
		t.Fatalf("expected hash move %v first, got %v", hashMove, ordered.Get(0))
	}
}

func TestComputeMoveOpeningIsLegal(t *testing.T) {
	s := newTestSearcher(t)
	b := board.NewBoard()

	cfg := Config{MidDepth: 4, ExactDepth: 0, WldDepth: 0, Selectivity: 0, TimeControl: TimeControl{UseTimer: false}}
	ev := s.ComputeMove(b, board.Black, cfg)

	if ev.Move == board.NoMove {
		t.Fatal("expected a move")
	}
	legal := b.Generate(board.Black)
	if !legal.Contains(ev.Move) {
		t.Fatalf("chosen move %v is not legal", ev.Move)
	}
}

func TestComputeMoveDeterministic(t *testing.T) {
	cfg := Config{MidDepth: 4, TimeControl: TimeControl{UseTimer: false}}

	s1 := newTestSearcher(t)
	b1 := board.NewBoard()
	ev1 := s1.ComputeMove(b1, board.Black, cfg)

	s2 := newTestSearcher(t)
	b2 := board.NewBoard()
	ev2 := s2.ComputeMove(b2, board.Black, cfg)

	if ev1.Move != ev2.Move || ev1.Score != ev2.Score {
		t.Fatalf("expected deterministic result, got %v/%d vs %v/%d", ev1.Move, ev1.Score, ev2.Move, ev2.Score)
	}
}

func TestComputeMovePVStartsWithChosenMove(t *testing.T) {
	s := newTestSearcher(t)
	b := board.NewBoard()
	cfg := Config{MidDepth: 4, TimeControl: TimeControl{UseTimer: false}}

	ev := s.ComputeMove(b, board.Black, cfg)
	if len(ev.PV) == 0 {
		t.Fatal("expected a non-empty principal variation")
	}
	if ev.PV[0] != ev.Move {
		t.Fatalf("PV head %v does not match chosen move %v", ev.PV[0], ev.Move)
	}
}

func TestComputeMoveForcedSingleReply(t *testing.T) {
	s := newTestSearcher(t)
	b := board.NewBoard()
	cfg := Config{MidDepth: 4, TimeControl: TimeControl{UseTimer: false}}

	// c4 is Black's only reasonable opening reply set, but to force a
	// single-legal-move position deterministically we drive a short,
	// known sequence and just assert the Forced path is reachable and
	// reports a legal move whenever it triggers naturally during play.
	side := board.Black
	for i := 0; i < 6; i++ {
		legal := b.Generate(side)
		if legal.Len() == 1 {
			ev := s.ComputeMove(b, side, cfg)
			if ev.Kind != Forced && ev.Kind != Pass {
				t.Fatalf("expected Forced or Pass with one legal move, got %v", ev.Kind)
			}
			return
		}
		mv := legal.Get(0)
		if _, err := b.Apply(side, mv, true); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		side = side.Other()
	}
}

func TestComputeMoveHonorsForceReturn(t *testing.T) {
	s := newTestSearcher(t)
	b := board.NewBoard()
	cfg := Config{MidDepth: 60, TimeControl: TimeControl{UseTimer: true, Budget: time.Hour}}

	s.timer = NewTimer(cfg.TimeControl)
	s.timer.ForceReturn()

	ev := s.iterativeDeepen(b, board.Black, cfg)
	if ev.Move == board.NoMove {
		t.Fatal("expected a fallback move even when aborted immediately")
	}
}

func TestExtendedComputeMoveCoversAllLegalMoves(t *testing.T) {
	s := newTestSearcher(t)
	b := board.NewBoard()
	cfg := Config{MidDepth: 2, TimeControl: TimeControl{UseTimer: false}}

	results := s.ExtendedComputeMove(b, board.Black, cfg, nil)
	legal := b.Generate(board.Black)
	if len(results) != legal.Len() {
		t.Fatalf("expected %d evaluated moves, got %d", legal.Len(), len(results))
	}
	seen := make(map[board.Move]bool)
	for _, r := range results {
		seen[r.Move] = true
	}
	for i := 0; i < legal.Len(); i++ {
		if !seen[legal.Get(i)] {
			t.Fatalf("move %v missing from extended evaluation", legal.Get(i))
		}
	}
}

func TestEvalTerminalMatchesDiscDifferential(t *testing.T) {
	b := board.NewBoard()
	score := evalTerminal(b, board.Black)
	want := (b.Count(board.Black) - b.Count(board.White)) * pattern.DiscUnit
	if score != want {
		t.Fatalf("expected %d, got %d", want, score)
	}
}
