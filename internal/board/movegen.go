package board

import "errors"

// ErrIllegalMove is returned when a caller asks to play a move that
// flips no discs (spec.md §7 "IllegalMove").
var ErrIllegalMove = errors.New("board: illegal move")

// Move is a placement square, or PassMove when a side has no legal move.
type Move Square

// PassMove is the reserved "no legal move" sentinel (spec.md §6 "PASS is reserved internally").
const PassMove Move = -1

// NoMove marks an absent move (e.g. an empty alternative-move slot).
const NoMove Move = -2

func (m Move) String() string {
	if m == PassMove {
		return "PASS"
	}
	if m == NoMove {
		return "--"
	}
	return Square(m).String()
}

// directionOffsets lists the linear-index deltas for the eight rays a
// flip can travel along: N, S, E, W, NE, NW, SE, SW.
var directionOffsets = [8]int{-10, 10, 1, -1, -9, -11, 9, 11}

// directionMask[sq] has bit d set when direction d has at least one
// on-board neighbor from sq. The sentinel border already makes
// out-of-range scans harmless (they hit Outside and stop), so this
// mask is a pure ordering/skip optimization rather than a correctness
// requirement, mirroring the per-square precomputed attack tables the
// reference chess engine builds once at init time.
var directionMask [100]uint8

func init() {
	for _, sq := range allSquares {
		var mask uint8
		for d, off := range directionOffsets {
			n := Square(int(sq) + off)
			if n.OnBoard() {
				mask |= 1 << uint(d)
			}
		}
		directionMask[sq] = mask
	}
}

// squarePriorityOrder is the fixed 60-entry candidate order spec.md
// §4.1 requires: corners, then C-squares, then edges, then interior
// squares, excluding the four always-occupied starting squares.
var squarePriorityOrder = buildSquarePriorityOrder()

// SquarePriorityOrder returns a copy of the fixed 60-entry candidate
// order move generation and search ordering are seeded from.
func SquarePriorityOrder() []Square {
	out := make([]Square, len(squarePriorityOrder))
	copy(out, squarePriorityOrder)
	return out
}

func buildSquarePriorityOrder() []Square {
	isCorner := func(r, c int) bool {
		return (r == 1 || r == 8) && (c == 1 || c == 8)
	}
	isCSquare := func(r, c int) bool {
		return (r == 1 || r == 8 || c == 1 || c == 8) &&
			((r == 1 && (c == 2 || c == 7)) || (r == 8 && (c == 2 || c == 7)) ||
				(c == 1 && (r == 2 || r == 7)) || (c == 8 && (r == 2 || r == 7)))
	}
	isEdge := func(r, c int) bool {
		return r == 1 || r == 8 || c == 1 || c == 8
	}
	isStart := func(r, c int) bool {
		return (r == 4 || r == 5) && (c == 4 || c == 5)
	}

	var corners, cSquares, edges, interior []Square
	for r := 1; r <= 8; r++ {
		for c := 1; c <= 8; c++ {
			if isStart(r, c) {
				continue
			}
			sq := NewSquare(r, c)
			switch {
			case isCorner(r, c):
				corners = append(corners, sq)
			case isCSquare(r, c):
				cSquares = append(cSquares, sq)
			case isEdge(r, c):
				edges = append(edges, sq)
			default:
				interior = append(interior, sq)
			}
		}
	}
	order := make([]Square, 0, 60)
	order = append(order, corners...)
	order = append(order, cSquares...)
	order = append(order, edges...)
	order = append(order, interior...)
	return order
}

// flipRecord captures what a single apply() changed, so undo() can
// restore it exactly without recomputation.
type flipRecord struct {
	move       Square
	side       Color
	flipped    [24]Square
	numFlipped int
	hashDelta  Hash
}

// Board is the 10x10 sentinel-bordered Othello board plus the
// incrementally maintained disc counts and hash key (spec.md §3).
type Board struct {
	cells       [boardSize]Color
	blackCount  int
	whiteCount  int
	disksPlayed int
	sideToMove  Color
	hash        Hash

	flipStack [60]flipRecord
}

// NewBoard returns a board set up for a new game (spec.md §3 "Lifecycle": game_init).
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset reinitializes the board to the starting position.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = Outside
	}
	for _, sq := range allSquares {
		b.cells[sq] = Empty
	}
	b.cells[NewSquare(4, 4)] = White
	b.cells[NewSquare(5, 5)] = White
	b.cells[NewSquare(4, 5)] = Black
	b.cells[NewSquare(5, 4)] = Black
	b.blackCount = 2
	b.whiteCount = 2
	b.disksPlayed = 0
	b.sideToMove = Black

	b.hash = Hash{}
	for _, sq := range allSquares {
		if b.cells[sq] != Empty {
			b.hash = b.hash.XOR(PieceMask(b.cells[sq], sq))
		}
	}
}

// At returns the color occupying sq (Outside for border cells).
func (b *Board) At(sq Square) Color { return b.cells[sq] }

// SideToMove returns the color to move.
func (b *Board) SideToMove() Color { return b.sideToMove }

// DisksPlayed returns the number of non-initial placements so far (spec.md §3).
func (b *Board) DisksPlayed() int { return b.disksPlayed }

// Count returns the number of discs of the given color. Invariant:
// Count(Black)+Count(White)+emptyCount == 64 (spec.md §3).
func (b *Board) Count(c Color) int {
	switch c {
	case Black:
		return b.blackCount
	case White:
		return b.whiteCount
	default:
		return 64 - b.blackCount - b.whiteCount
	}
}

// Hash returns the current (h1,h2) key pair.
func (b *Board) Hash() Hash { return b.hash }

// RecomputeHash recomputes the hash key from the board and
// side-to-move from scratch. Called whenever the board is loaded from
// outside normal apply/undo sequencing (spec.md §3 "Lifecycle": start,
// position load, book probe).
func (b *Board) RecomputeHash() {
	h := Hash{}
	for _, sq := range allSquares {
		if b.cells[sq] != Empty {
			h = h.XOR(PieceMask(b.cells[sq], sq))
		}
	}
	if b.sideToMove == White {
		h = h.XOR(SideToMoveMask())
	}
	b.hash = h
}

// countFlips returns the total number of discs that would flip if
// side played sq, and fills lens with the per-direction run
// lengths (lens[d] == 0 means direction d flips nothing).
func (b *Board) countFlips(side Color, sq Square, lens *[8]int) int {
	if b.cells[sq] != Empty {
		return 0
	}
	opp := side.Other()
	total := 0
	for d, off := range directionOffsets {
		if directionMask[sq]&(1<<uint(d)) == 0 {
			lens[d] = 0
			continue
		}
		n := 0
		p := Square(int(sq) + off)
		for b.cells[p] == opp {
			n++
			p = Square(int(p) + off)
		}
		if n > 0 && b.cells[p] == side {
			lens[d] = n
			total += n
		} else {
			lens[d] = 0
		}
	}
	return total
}

// IsLegal reports whether sq is a legal placement for side (spec.md §4.1).
func (b *Board) IsLegal(side Color, sq Move) bool {
	if sq == PassMove {
		return !b.HasLegalMove(side)
	}
	s := Square(sq)
	if !s.OnBoard() {
		return false
	}
	var lens [8]int
	return b.countFlips(side, s, &lens) > 0
}

// HasLegalMove reports whether side has at least one legal placement.
func (b *Board) HasLegalMove(side Color) bool {
	var lens [8]int
	for _, sq := range squarePriorityOrder {
		if b.countFlips(side, sq, &lens) > 0 {
			return true
		}
	}
	return false
}

// Generate enumerates every legal move for side, in the fixed
// square-priority order (spec.md §4.1). Returns [PassMove] when side
// has no placement that flips a disc.
func (b *Board) Generate(side Color) *MoveList {
	ml := NewMoveList()
	var lens [8]int
	for _, sq := range squarePriorityOrder {
		if b.countFlips(side, sq, &lens) > 0 {
			ml.Add(Move(sq))
		}
	}
	if ml.Len() == 0 {
		ml.Add(PassMove)
	}
	return ml
}

// Apply plays move for side, updating the board, disc counts, and (if
// updateHash) the hash key. Returns the number of discs flipped; 0 for
// a legal Pass. Returns ErrIllegalMove if move flips no discs and is
// not a legitimate pass (spec.md §4.1).
func (b *Board) Apply(side Color, move Move, updateHash bool) (int, error) {
	rec := &b.flipStack[b.disksPlayed]
	rec.side = side
	rec.numFlipped = 0
	rec.hashDelta = Hash{}

	if move == PassMove {
		if b.HasLegalMove(side) {
			return 0, ErrIllegalMove
		}
		rec.move = Square(PassMove)
		b.disksPlayed++
		b.sideToMove = side.Other()
		if updateHash {
			b.hash = b.hash.XOR(SideToMoveMask())
			rec.hashDelta = rec.hashDelta.XOR(SideToMoveMask())
		}
		return 0, nil
	}

	sq := Square(move)
	var lens [8]int
	total := b.countFlips(side, sq, &lens)
	if total == 0 {
		return 0, ErrIllegalMove
	}

	rec.move = sq
	b.cells[sq] = side
	placeMask := PieceMask(side, sq)
	if updateHash {
		b.hash = b.hash.XOR(placeMask)
		rec.hashDelta = rec.hashDelta.XOR(placeMask)
	}

	for d, off := range directionOffsets {
		n := lens[d]
		if n == 0 {
			continue
		}
		p := Square(int(sq) + off)
		for i := 0; i < n; i++ {
			b.cells[p] = side
			rec.flipped[rec.numFlipped] = p
			rec.numFlipped++
			if updateHash {
				// Flipping a disc removes the opponent's mask and adds ours.
				delta := PieceMask(side, p).XOR(PieceMask(side.Other(), p))
				b.hash = b.hash.XOR(delta)
				rec.hashDelta = rec.hashDelta.XOR(delta)
			}
			p = Square(int(p) + off)
		}
	}

	if side == Black {
		b.blackCount += 1 + total
		b.whiteCount -= total
	} else {
		b.whiteCount += 1 + total
		b.blackCount -= total
	}

	b.disksPlayed++
	b.sideToMove = side.Other()
	if updateHash {
		b.hash = b.hash.XOR(SideToMoveMask())
		rec.hashDelta = rec.hashDelta.XOR(SideToMoveMask())
	}
	return total, nil
}

// Undo reverses the most recent Apply for side. Invariant (P1):
// Apply followed by Undo is the identity on every field, including
// the hash key.
func (b *Board) Undo(side Color, move Move) {
	b.disksPlayed--
	rec := &b.flipStack[b.disksPlayed]
	b.sideToMove = side

	if move == PassMove {
		b.hash = b.hash.XOR(rec.hashDelta)
		*rec = flipRecord{}
		return
	}

	sq := Square(move)
	for i := 0; i < rec.numFlipped; i++ {
		b.cells[rec.flipped[i]] = side.Other()
	}
	b.cells[sq] = Empty

	total := rec.numFlipped
	if side == Black {
		b.blackCount -= 1 + total
		b.whiteCount += total
	} else {
		b.whiteCount -= 1 + total
		b.blackCount += total
	}

	b.hash = b.hash.XOR(rec.hashDelta)
	*rec = flipRecord{}
}

// LoadCells replaces the board contents wholesale (e.g. from a parsed
// position dump, spec.md §6) and recomputes disc counts, disksPlayed,
// and the hash key from scratch, matching the "board loaded from
// outside" lifecycle case in spec.md §3.
func (b *Board) LoadCells(cells [64]Color, side Color) {
	for i := range b.cells {
		b.cells[i] = Outside
	}
	b.blackCount, b.whiteCount = 0, 0
	for i, sq := range allSquares {
		b.cells[sq] = cells[i]
		switch cells[i] {
		case Black:
			b.blackCount++
		case White:
			b.whiteCount++
		}
	}
	b.disksPlayed = b.blackCount + b.whiteCount - 4
	b.sideToMove = side
	b.RecomputeHash()
}

// Copy returns an independent deep copy (used for scratch searches that
// should not disturb the caller's flip stack, e.g. book deviation search).
func (b *Board) Copy() *Board {
	cp := *b
	return &cp
}
