package pattern

import (
	"bytes"
	"testing"

	"github.com/hailam/othello/internal/board"
)

func TestShapesTotal46Instances(t *testing.T) {
	if InstanceCount != 46 {
		t.Fatalf("expected 46 total pattern instances, got %d", InstanceCount)
	}
}

func TestShapeCellsOnBoard(t *testing.T) {
	seen := map[board.Square]int{}
	for _, s := range Shapes {
		for _, inst := range s.Instances {
			if len(inst) != s.CellCount {
				t.Fatalf("shape %s: instance has %d cells, want %d", s.Name, len(inst), s.CellCount)
			}
			for _, sq := range inst {
				if !sq.OnBoard() {
					t.Fatalf("shape %s: cell %v off board", s.Name, sq)
				}
				seen[sq]++
			}
		}
	}
	for r := 1; r <= 8; r++ {
		for c := 1; c <= 8; c++ {
			sq := board.NewSquare(r, c)
			if seen[sq] == 0 {
				t.Errorf("square %s is not covered by any pattern", sq)
			}
		}
	}
}

func TestMirrorIndexInvolution(t *testing.T) {
	for _, s := range Shapes {
		for v := 0; v < s.Table; v += 7 { // sample, full sweep is expensive for the 59049 tables
			m := mirrorIndex(s, v)
			if mirrorIndex(s, m) != v {
				t.Fatalf("shape %s: mirrorIndex not an involution at %d", s.Name, v)
			}
		}
	}
}

func TestWeightFileRoundTrip(t *testing.T) {
	stages := []Stage{ZeroStage(0), ZeroStage(30)}
	stages[1].Tables[0][5] = 42
	stages[1].Constant = 7
	stages[1].Parity = -3

	var buf bytes.Buffer
	if err := WriteWeights(&buf, stages); err != nil {
		t.Fatalf("WriteWeights: %v", err)
	}

	got, err := ReadWeights(&buf)
	if err != nil {
		t.Fatalf("ReadWeights: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(got))
	}
	if got[1].Tables[0][5] != 42 || got[1].Constant != 7 || got[1].Parity != -3 {
		t.Fatalf("round trip lost data: %+v", got[1])
	}
	// The mirror of index 5 in Shapes[0] (a 10-cell shape) must carry the same value.
	mirrored := mirrorIndex(Shapes[0], 5)
	if got[1].Tables[0][mirrored] != 42 {
		t.Fatalf("folded weight not propagated to mirror index %d", mirrored)
	}
}

// nonZeroStage builds a calibrated stage whose tables hold varied,
// nonzero weights (a nonzero constant and parity too), so a test
// exercising it cannot pass merely because every contribution is 0 -
// as an all-ZeroStage table would let it.
func nonZeroStage(phase int) Stage {
	st := ZeroStage(phase)
	for i, s := range Shapes {
		for v := 0; v < s.Table; v++ {
			st.Tables[i][v] = int16((v%37)*3 - 55)
		}
	}
	st.Constant = 11
	st.Parity = -4
	return st
}

func TestEvaluateColorSymmetry(t *testing.T) {
	ev, err := NewEvaluator([]Stage{nonZeroStage(0), nonZeroStage(60)})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	ev.SetAdjustments(DefaultAdjustments) // exercise the real heuristic nudges too

	b := board.NewBoard()
	side := board.Black
	for i := 0; i < 3; i++ { // reach a mixed, asymmetric position
		ml := b.Generate(side)
		if _, err := b.Apply(side, ml.Get(0), true); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		side = side.Other()
	}

	// swapped is b with every disc's color exchanged.
	var cells [64]board.Color
	for i := range cells {
		switch b.At(board.NewSquare(i/8+1, i%8+1)) {
		case board.Black:
			cells[i] = board.White
		case board.White:
			cells[i] = board.Black
		default:
			cells[i] = board.Empty
		}
	}
	swapped := board.NewBoard()
	swapped.LoadCells(cells, board.White)

	// Evaluate is mover-relative, so the same position with colors
	// renamed scores the same for its side to move; in Black-relative
	// terms the two scores sum to zero.
	blackScore := ev.Evaluate(b, board.Black)
	whiteScore := ev.Evaluate(swapped, board.White)
	if blackScore == 0 && whiteScore == 0 {
		t.Fatal("test position evaluates to zero for both sides, too weak to exercise P2")
	}
	if blackScore != whiteScore {
		t.Fatalf("P2 color symmetry violated: black=%d white=%d", blackScore, whiteScore)
	}
}

func TestInterpolationMonotoneBetweenEndpoints(t *testing.T) {
	lo, hi := ZeroStage(0), ZeroStage(20)
	lo.Tables[0][0] = 0
	hi.Tables[0][0] = 100
	ev, err := NewEvaluator([]Stage{lo, hi})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	st := ev.stageFor(10)
	if st.Tables[0][0] != 50 {
		t.Fatalf("expected interpolated weight 50 at phase 10, got %d", st.Tables[0][0])
	}
}

func TestDegeneratePositionSentinel(t *testing.T) {
	ev, err := NewEvaluator([]Stage{ZeroStage(0)})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	b := board.NewBoard()
	cells := [64]board.Color{}
	for i := range cells {
		cells[i] = board.Black
	}
	b.LoadCells(cells, board.Black)
	if got := ev.Evaluate(b, board.Black); got != MidgameWin+64 {
		t.Fatalf("expected +%d for a board with zero white discs, got %d", MidgameWin+64, got)
	}
	if got := ev.Evaluate(b, board.White); got != -(MidgameWin + 64) {
		t.Fatalf("expected -%d from white's perspective, got %d", MidgameWin+64, got)
	}
}
