package book

import (
	"testing"

	"github.com/hailam/othello/internal/board"
	"github.com/hailam/othello/internal/pattern"
	"github.com/hailam/othello/internal/search"
)

func newTestSearcher(t *testing.T) *search.Searcher {
	t.Helper()
	stages := []pattern.Stage{pattern.ZeroStage(0), pattern.ZeroStage(60)}
	eval, err := pattern.NewEvaluator(stages)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	eval.SetAdjustments(pattern.DefaultAdjustments)
	tt := search.NewTable(10)
	orderer := search.NewOrderer(board.SquarePriorityOrder())
	return search.NewSearcher(tt, orderer, eval)
}

func firstLegalGame(n int) []board.Move {
	b := board.NewBoard()
	side := board.Black
	var moves []board.Move
	for i := 0; i < n; i++ {
		legal := b.Generate(side)
		mv := legal.Get(0)
		if _, err := b.Apply(side, mv, true); err != nil {
			break
		}
		moves = append(moves, mv)
		side = side.Other()
	}
	return moves
}

func TestAddNewGameCreatesRootNode(t *testing.T) {
	bk := New(1)
	s := newTestSearcher(t)
	game := firstLegalGame(6)

	if err := bk.AddNewGame(s, game, 58, 0, 0, false); err != nil {
		t.Fatalf("AddNewGame: %v", err)
	}
	root := board.NewBoard()
	idx, _, ok := bk.Lookup(root)
	if !ok {
		t.Fatal("expected root position in book")
	}
	if bk.nodes[idx].Flags&NotTraversed != 0 {
		t.Fatal("expected root node to be traversed after AddNewGame")
	}
}

func TestAddNewGameIdempotent(t *testing.T) {
	s := newTestSearcher(t)
	game := firstLegalGame(6)

	bk1 := New(1)
	if err := bk1.AddNewGame(s, game, 58, 0, 0, false); err != nil {
		t.Fatalf("AddNewGame: %v", err)
	}
	size1 := bk1.Size()

	s2 := newTestSearcher(t)
	bk2 := New(1)
	if err := bk2.AddNewGame(s2, game, 58, 0, 0, false); err != nil {
		t.Fatalf("AddNewGame: %v", err)
	}
	if err := bk2.AddNewGame(s2, game, 58, 0, 0, false); err != nil {
		t.Fatalf("second AddNewGame: %v", err)
	}

	if bk2.Size() != size1 {
		t.Fatalf("expected idempotent node count %d, got %d", size1, bk2.Size())
	}
}

func TestGetBookMoveReturnsLegalMove(t *testing.T) {
	bk := New(1)
	s := newTestSearcher(t)
	game := firstLegalGame(4)

	if err := bk.AddNewGame(s, game, 58, 0, 0, false); err != nil {
		t.Fatalf("AddNewGame: %v", err)
	}

	b := board.NewBoard()
	mv, _, ok := bk.GetBookMove(s, b, board.Black, false)
	if !ok {
		t.Fatal("expected a book move from the root")
	}
	legal := b.Generate(board.Black)
	if !legal.Contains(mv) {
		t.Fatalf("book move %v is not legal", mv)
	}
}

func TestCheckForcedOpeningMatchesRecordedLine(t *testing.T) {
	opening := firstLegalGame(4)
	b := board.NewBoard()
	side := board.Black
	for i := 0; i < 3; i++ {
		if _, err := b.Apply(side, opening[i], true); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		side = side.Other()
	}

	mv := CheckForcedOpening(b, side, opening)
	if mv != opening[3] {
		t.Fatalf("expected forced move %v, got %v", opening[3], mv)
	}
}

func TestCheckForcedOpeningReturnsPassOffLine(t *testing.T) {
	opening := firstLegalGame(4)
	b := board.NewBoard()
	if _, err := b.Apply(board.Black, opening[0], true); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// Every legal first move is a symmetry image of opening[0], so the
	// game leaves the recorded line at White's reply instead.
	legal := b.Generate(board.White)
	var divergent board.Move = board.NoMove
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i) != opening[1] {
			divergent = legal.Get(i)
			break
		}
	}
	if divergent == board.NoMove {
		t.Skip("no divergent legal move available from the opening position")
	}
	if _, err := b.Apply(board.White, divergent, true); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	mv := CheckForcedOpening(b, board.Black, opening)
	if mv != board.PassMove {
		t.Fatalf("expected Pass off the recorded line, got %v", mv)
	}
}

func TestMergeKeepsBetterEndgameStatus(t *testing.T) {
	h := board.Hash{H1: 42, H2: 7}
	a := New(1)
	a.nodes = append(a.nodes, BookNode{H1: h.H1, H2: h.H2, ScoreBlack: 100, ScoreWhite: 100, Flags: WldSolved, BestAlternativeMove: board.NoMove})
	a.index[key(h)] = 0

	other := New(2)
	other.nodes = append(other.nodes, BookNode{H1: h.H1, H2: h.H2, ScoreBlack: 50, ScoreWhite: 50, Flags: WldSolved | FullSolved, BestAlternativeMove: board.NoMove})
	other.index[key(h)] = 0

	a.Merge(other)
	if a.nodes[0].Flags&FullSolved == 0 {
		t.Fatal("expected merge to adopt the more fully solved node")
	}
	if a.nodes[0].ScoreBlack != 50 {
		t.Fatalf("expected adopted score 50, got %d", a.nodes[0].ScoreBlack)
	}
}

func TestDeviationBonusPrefersEarlierDisksPlayed(t *testing.T) {
	d := DeviationBonus{LowThreshold: 10, HighThreshold: 30, BonusPerDisc: 2}
	belowA := d.adjust(2) // both clamp to LowThreshold's plateau value
	belowB := d.adjust(8)
	mid := d.adjust(20)
	late := d.adjust(40) // past HighThreshold, floors at 0

	if belowA != belowB {
		t.Fatalf("expected the plateau below LowThreshold to be flat, got %d vs %d", belowA, belowB)
	}
	if belowA <= mid {
		t.Fatalf("expected a larger bonus for an earlier position, got below=%d mid=%d", belowA, mid)
	}
	if mid <= late {
		t.Fatalf("expected a larger bonus for an earlier position, got mid=%d late=%d", mid, late)
	}
	if late != 0 {
		t.Fatalf("expected zero bonus past HighThreshold, got %d", late)
	}

	zero := DeviationBonus{}
	if zero.adjust(4) != 0 {
		t.Fatal("expected the zero-value DeviationBonus to be a no-op")
	}
}

func TestGetBookMoveAppliesDeviationBonusOnlyWhenUnsolved(t *testing.T) {
	root := board.NewBoard()
	h := root.Hash()

	newNode := func(solved bool) BookNode {
		n := BookNode{
			H1: h.H1, H2: h.H2,
			ScoreBlack:          0,
			BestAlternativeMove: root.Generate(board.Black).Get(0),
			AlternativeScore:    0,
			Flags:               BlackToMove,
			DisksPlayed:         4,
		}
		if solved {
			n.Flags |= WldSolved
		}
		return n
	}

	build := func(solved bool) *Book {
		bk := New(1)
		bk.nodes = append(bk.nodes, newNode(solved))
		bk.index[key(h)] = 0
		bk.Deviation = DeviationBonus{LowThreshold: 0, HighThreshold: 20, BonusPerDisc: 100}
		return bk
	}
	s := newTestSearcher(t)

	unsolved := build(false)
	_, ev, ok := unsolved.GetBookMove(s, board.NewBoard(), board.Black, false)
	if !ok {
		t.Fatal("expected a book move from the unsolved node")
	}
	wantBonus := unsolved.Deviation.adjust(4)
	if ev.Score != wantBonus {
		t.Fatalf("expected deviation-boosted score %d, got %d", wantBonus, ev.Score)
	}

	solved := build(true)
	_, ev2, ok := solved.GetBookMove(s, board.NewBoard(), board.Black, false)
	if !ok {
		t.Fatal("expected a book move from the solved node")
	}
	if ev2.Score != 0 {
		t.Fatalf("expected a solved node's score to stay unadjusted, got %d", ev2.Score)
	}
}

func TestExportCoversAddedLine(t *testing.T) {
	bk := New(1)
	s := newTestSearcher(t)
	game := firstLegalGame(4)
	if err := bk.AddNewGame(s, game, 58, 0, 0, false); err != nil {
		t.Fatalf("AddNewGame: %v", err)
	}

	lines := bk.Export(board.NewBoard())
	if len(lines) == 0 {
		t.Fatal("expected at least one exported line")
	}
}
