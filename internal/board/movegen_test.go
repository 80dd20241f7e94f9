package board

import "testing"

func TestStartingPosition(t *testing.T) {
	b := NewBoard()
	if b.Count(Black) != 2 || b.Count(White) != 2 {
		t.Fatalf("expected 2/2 discs at start, got black=%d white=%d", b.Count(Black), b.Count(White))
	}
	if b.DisksPlayed() != 0 {
		t.Fatalf("expected disksPlayed=0 at start, got %d", b.DisksPlayed())
	}
	if b.SideToMove() != Black {
		t.Fatalf("expected Black to move first")
	}
}

func TestGenerateStartingMoves(t *testing.T) {
	b := NewBoard()
	ml := b.Generate(Black)
	want := map[string]bool{"c4": true, "d3": true, "e6": true, "f5": true}
	if ml.Len() != 4 {
		t.Fatalf("expected 4 legal opening moves, got %d", ml.Len())
	}
	for i := 0; i < ml.Len(); i++ {
		s := ml.Get(i).String()
		if !want[s] {
			t.Errorf("unexpected opening move %s", s)
		}
	}
}

// P1: apply followed by undo is the identity on every field.
func TestApplyUndoIdentity(t *testing.T) {
	b := NewBoard()
	before := *b

	ml := b.Generate(Black)
	for i := 0; i < ml.Len(); i++ {
		mv := ml.Get(i)
		flips, err := b.Apply(Black, mv, true)
		if err != nil {
			t.Fatalf("Apply(%s): %v", mv, err)
		}
		if flips == 0 && mv != PassMove {
			t.Fatalf("legal move %s flipped nothing", mv)
		}
		b.Undo(Black, mv)
		if *b != before {
			t.Fatalf("board mismatch after apply/undo of %s", mv)
		}
	}
}

func TestApplyUndoDeepLine(t *testing.T) {
	b := NewBoard()
	snapshots := []Board{}
	moves := []Move{}
	side := Black

	for i := 0; i < 10; i++ {
		ml := b.Generate(side)
		if ml.Len() == 0 {
			break
		}
		mv := ml.Get(0)
		snapshots = append(snapshots, *b)
		moves = append(moves, mv)
		if _, err := b.Apply(side, mv, true); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		side = side.Other()
	}

	for i := len(moves) - 1; i >= 0; i-- {
		side = side.Other()
		b.Undo(side, moves[i])
		if *b != snapshots[i] {
			t.Fatalf("undo mismatch at depth %d", i)
		}
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	b := NewBoard()
	if _, err := b.Apply(Black, Move(NewSquare(1, 1)), true); err != ErrIllegalMove {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

// P3: canonical hash is invariant under rotation.
func TestCanonicalHashRotationInvariant(t *testing.T) {
	b := NewBoard()
	ml := b.Generate(Black)
	if _, err := b.Apply(Black, ml.Get(0), true); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	h1, orient1 := b.CanonicalHash()

	// Build the orientation-6 (transpose) rotation of the same position
	// and confirm it produces the identical canonical hash with a
	// possibly different orientation index.
	rotated := NewBoard()
	for _, sq := range allSquares {
		rotated.cells[symmetryMap[6][sq]] = b.cells[sq]
	}
	rotated.blackCount, rotated.whiteCount = b.blackCount, b.whiteCount
	rotated.disksPlayed = b.disksPlayed
	rotated.sideToMove = b.sideToMove
	rotated.RecomputeHash()

	h2, orient2 := rotated.CanonicalHash()
	if h1 != h2 {
		t.Fatalf("canonical hash not rotation invariant: %v (orient %d) vs %v (orient %d)", h1, orient1, h2, orient2)
	}
}

// S6: mapping a move through symmetryMap[orientation] and back through
// inverseSymmetryMap[orientation] returns the original move, for every
// orientation except the documented 5/7 cross-wiring.
func TestSymmetryMapRoundTrip(t *testing.T) {
	for k := 0; k < 8; k++ {
		if k == 5 || k == 7 {
			continue // deliberately asymmetric pairing, see symmetry.go
		}
		for _, sq := range allSquares {
			mapped := SymmetryMap(k, sq)
			back := InverseSymmetryMap(k, mapped)
			if back != sq {
				t.Fatalf("orientation %d: round trip failed for %s: got %s", k, sq, back)
			}
		}
	}
}
