package driver

import (
	"testing"

	"github.com/hailam/othello/internal/board"
	"github.com/hailam/othello/internal/pattern"
	"github.com/hailam/othello/internal/search"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	stages := []pattern.Stage{pattern.ZeroStage(0), pattern.ZeroStage(60)}
	e, err := New(12, stages, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// S1: initial position, minimal midgame search, no book.
func TestComputeMoveOpeningIsLegalAndMidgame(t *testing.T) {
	e := newTestEngine(t)
	cfg := Config{Black: SideConfig{MidDepth: 1}, White: SideConfig{MidDepth: 1}}

	mv, ev := e.ComputeMove(board.Black, cfg, search.TimeControl{UseTimer: false})
	if !e.Board.Generate(board.Black).Contains(mv) {
		t.Fatalf("chosen move %v is not legal", mv)
	}
	want := map[board.Move]bool{
		board.Move(board.NewSquare(4, 3)): true, // c4
		board.Move(board.NewSquare(3, 4)): true, // d3
		board.Move(board.NewSquare(6, 5)): true, // e6
		board.Move(board.NewSquare(5, 6)): true, // f5
	}
	if !want[mv] {
		t.Fatalf("expected an opening move among {c4,d3,e6,f5}, got %v", mv)
	}
	if ev.Kind != search.Midgame {
		t.Fatalf("expected Midgame evaluation, got %v", ev.Kind)
	}
}

// S2: a position with exactly one legal move reports Forced.
func TestComputeMoveForced(t *testing.T) {
	e := newTestEngine(t)
	cfg := Config{Black: SideConfig{MidDepth: 4}, White: SideConfig{MidDepth: 4}}

	side := board.Black
	for i := 0; i < 8; i++ {
		legal := e.Board.Generate(side)
		if legal.Len() == 1 && legal.Get(0) != board.PassMove {
			mv, ev := e.ComputeMove(side, cfg, search.TimeControl{UseTimer: false})
			if mv != legal.Get(0) {
				t.Fatalf("expected the lone legal move %v, got %v", legal.Get(0), mv)
			}
			if ev.Kind != search.Forced {
				t.Fatalf("expected Forced, got %v", ev.Kind)
			}
			return
		}
		mv := legal.Get(0)
		if err := e.ApplyMove(side, mv); err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
		side = side.Other()
	}
}

// S3: a position with no legal moves for side but a legal move for the
// opponent reports Pass and does not mutate the board.
func TestComputeMovePassDoesNotMutateBoard(t *testing.T) {
	e := newTestEngine(t)
	cfg := Config{Black: SideConfig{MidDepth: 4}, White: SideConfig{MidDepth: 4}}

	// Construct a position where Black has no legal move: an edge-only
	// ring of White discs around a lone Black disc, with empty squares
	// only reachable in directions where White already brackets them.
	cells := [64]board.Color{}
	for i := range cells {
		cells[i] = board.Empty
	}
	set := func(r, c int, col board.Color) { cells[(r-1)*8+(c-1)] = col }
	set(1, 1, board.White)
	set(1, 2, board.White)
	set(2, 1, board.White)
	set(2, 2, board.Black)
	e.Board.LoadCells(cells, board.Black)

	if e.Board.HasLegalMove(board.Black) {
		t.Skip("constructed position unexpectedly has a legal move for Black")
	}
	before := *e.Board

	mv, ev := e.ComputeMove(board.Black, cfg, search.TimeControl{UseTimer: false})
	if mv != board.PassMove {
		t.Fatalf("expected Pass, got %v", mv)
	}
	if ev.Kind != search.Pass {
		t.Fatalf("expected Pass evaluation, got %v", ev.Kind)
	}
	if *e.Board != before {
		t.Fatal("ComputeMove must not mutate the board")
	}
}

// S4: a terminal position (no legal moves for either side) scores the
// exact disc differential.
func TestComputeMoveTerminalScoresDiscDifferential(t *testing.T) {
	e := newTestEngine(t)
	cells := [64]board.Color{}
	for i := range cells {
		if i%3 == 0 {
			cells[i] = board.White
		} else {
			cells[i] = board.Black
		}
	}
	e.Board.LoadCells(cells, board.Black)
	if e.Board.HasLegalMove(board.Black) || e.Board.HasLegalMove(board.White) {
		t.Skip("constructed position unexpectedly has a legal move")
	}

	diff := e.Board.Count(board.Black) - e.Board.Count(board.White)
	cfg := Config{Black: SideConfig{MidDepth: 1}, White: SideConfig{MidDepth: 1}}
	_, ev := e.ComputeMove(board.Black, cfg, search.TimeControl{UseTimer: false})
	want := diff * pattern.DiscUnit
	if ev.Score != want {
		t.Fatalf("expected exact score %d, got %d", want, ev.Score)
	}
}

func TestComputeMoveDeterministicAcrossEngines(t *testing.T) {
	cfg := Config{Black: SideConfig{MidDepth: 4}, White: SideConfig{MidDepth: 4}}

	e1 := newTestEngine(t)
	mv1, ev1 := e1.ComputeMove(board.Black, cfg, search.TimeControl{UseTimer: false})

	e2 := newTestEngine(t)
	mv2, ev2 := e2.ComputeMove(board.Black, cfg, search.TimeControl{UseTimer: false})

	if mv1 != mv2 || ev1.Score != ev2.Score {
		t.Fatalf("expected deterministic result, got %v/%d vs %v/%d", mv1, ev1.Score, mv2, ev2.Score)
	}
}

func TestExtendedComputeMoveCoversAllLegalMoves(t *testing.T) {
	e := newTestEngine(t)
	cfg := Config{Black: SideConfig{MidDepth: 2}, White: SideConfig{MidDepth: 2}}

	results := e.ExtendedComputeMove(board.Black, cfg, search.TimeControl{UseTimer: false})
	legal := e.Board.Generate(board.Black)
	if len(results) != legal.Len() {
		t.Fatalf("expected %d evaluated moves, got %d", legal.Len(), len(results))
	}
}

func TestBookEvaluationReportsNotInBook(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.BookEvaluation(board.Black); err != errNotInBook {
		t.Fatalf("expected errNotInBook, got %v", err)
	}
}

func TestAddGameThenBookMoveIsLegal(t *testing.T) {
	e := newTestEngine(t)
	opening := []board.Move{
		board.Move(board.NewSquare(4, 3)), // c4
		board.Move(board.NewSquare(3, 3)), // c3
		board.Move(board.NewSquare(3, 2)), // d2
	}
	// Candidate moves aren't all legal in sequence from the opening
	// position; keep only the prefix that stays legal, since
	// AddNewGame requires every recorded move to be legal along the path.
	b := board.NewBoard()
	side := board.Black
	var legalPrefix []board.Move
	for _, mv := range opening {
		if !b.Generate(side).Contains(mv) {
			break
		}
		if _, err := b.Apply(side, mv, true); err != nil {
			break
		}
		legalPrefix = append(legalPrefix, mv)
		side = side.Other()
	}
	if len(legalPrefix) == 0 {
		t.Skip("no legal prefix available to seed the book with")
	}

	if err := e.AddGame(legalPrefix, 58, 0, 0, false); err != nil {
		t.Fatalf("AddGame: %v", err)
	}

	cfg := Config{Black: SideConfig{MidDepth: 2}, White: SideConfig{MidDepth: 2}, UseBook: true, UpdateBookSlack: true}
	mv, _ := e.ComputeMove(board.Black, cfg, search.TimeControl{UseTimer: false})
	if !e.Board.Generate(board.Black).Contains(mv) {
		t.Fatalf("book move %v is not legal", mv)
	}
}
