package board

// MoveList is a fixed-capacity list of candidate moves, avoiding
// per-node allocation during search (mirrors the reference engine's
// MoveList idiom, generalized from 256 chess pseudo-moves down to the
// handful of legal Othello placements possible from any position).
type MoveList struct {
	moves [64]Move
	count int
}

// NewMoveList returns an empty move list.
func NewMoveList() *MoveList { return &MoveList{} }

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves held.
func (ml *MoveList) Len() int { return ml.count }

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Set overwrites the move at index i.
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }

// Swap exchanges the moves at i and j.
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() { ml.count = 0 }

// Contains reports whether m is present.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the held moves as a slice (aliases the backing array).
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }
