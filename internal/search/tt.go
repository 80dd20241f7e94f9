// Package search implements the iterative-deepening, transposition-
// table-backed searcher named in spec.md §4.3–§4.4: a two-probe hash
// table, move ordering, and a negascout/PVS searcher with
// ProbCut-style selective cutoffs.
package search

import "github.com/hailam/othello/internal/board"

// Kind tags what an Entry's score actually means — the "evaluation
// kinds" sum type spec.md §9 calls out (Midgame, Exact, Wld,
// Selective, Forced, Pass, Interrupted, Uninitialized).
type Kind uint8

const (
	Uninitialized Kind = iota
	Midgame
	Exact
	Wld
	Selective
	Forced
	Pass
	Interrupted
)

// String renders a Kind for status output and logging, matching
// board.Color.String()'s and board.Move.String()'s word-per-value
// style.
func (k Kind) String() string {
	switch k {
	case Midgame:
		return "Midgame"
	case Exact:
		return "Exact"
	case Wld:
		return "Wld"
	case Selective:
		return "Selective"
	case Forced:
		return "Forced"
	case Pass:
		return "Pass"
	case Interrupted:
		return "Interrupted"
	default:
		return "Uninitialized"
	}
}

// NoHashMove marks a Draft value as "no entry stored here".
const NoHashMove int8 = -1

// Entry is one transposition table record (spec.md §4.3).
type Entry struct {
	H1          uint32
	H2          uint32
	Score       int16
	BestMove    board.Move
	Kind        Kind
	Draft       int8
	Selectivity int8
}

func emptyEntry() Entry {
	return Entry{BestMove: board.NoMove, Draft: NoHashMove}
}

func (e Entry) occupied() bool { return e.Draft != NoHashMove }

// Table is the two-probe hash table spec.md §4.3 describes: primary
// slot h1 mod N, secondary slot primary XOR 1, sized to a single
// contiguous array of 2^hashBits entries (spec.md §9 "Memory").
// Grounded on internal/engine/transposition.go (slot layout, age-free
// draft-based replacement, HashFull/HitRate diagnostics), generalized
// from single-probe age-based replacement to the two-probe
// draft-margin scheme spec.md mandates.
type Table struct {
	slots []Entry
	mask  uint64

	probes uint64
	hits   uint64
}

// NewTable allocates a table with 2^hashBits entries.
func NewTable(hashBits int) *Table {
	n := uint64(1) << uint(hashBits)
	slots := make([]Entry, n)
	for i := range slots {
		slots[i] = emptyEntry()
	}
	return &Table{slots: slots, mask: n - 1}
}

// Resize replaces the table with a fresh one of the given size. Per
// spec.md §9 ("Shared resources"), callers must only call this between
// searches, never while a search is in flight.
func (t *Table) Resize(hashBits int) {
	n := uint64(1) << uint(hashBits)
	slots := make([]Entry, n)
	for i := range slots {
		slots[i] = emptyEntry()
	}
	t.slots = slots
	t.mask = n - 1
	t.probes, t.hits = 0, 0
}

// Clear wipes every slot without changing the table's size.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i] = emptyEntry()
	}
	t.probes, t.hits = 0, 0
}

func (t *Table) slotPair(h board.Hash, reverse bool) (uint64, uint64) {
	primaryHash := h.H1
	if reverse {
		primaryHash = h.H2
	}
	primary := uint64(primaryHash) & t.mask
	secondary := primary ^ 1
	return primary, secondary
}

// Probe returns the stored entry if either of the two candidate slots
// matches both h.H1 and h.H2, or the NoHashMove sentinel otherwise
// (spec.md §4.3).
func (t *Table) Probe(h board.Hash, reverse bool) (Entry, bool) {
	t.probes++
	primary, secondary := t.slotPair(h, reverse)
	for _, idx := range [2]uint64{primary, secondary} {
		e := t.slots[idx]
		if e.occupied() && e.H1 == h.H1 && e.H2 == h.H2 {
			t.hits++
			return e, true
		}
	}
	return emptyEntry(), false
}

// Store records a search result, picking the slot of the pair with the
// smaller existing draft and applying spec.md §4.3's replacement rule:
// exact-value stores get a +2 "change encouragement" bonus, and the
// existing entry is kept only if its draft exceeds the (bonused) new
// draft by more than 2 for a same-key update or more than 4 for a
// different-key update.
func (t *Table) Store(h board.Hash, score int16, bestMove board.Move, kind Kind, draft int, selectivity int8, reverse bool) {
	primary, secondary := t.slotPair(h, reverse)
	sameKeyAt := func(idx uint64) bool {
		e := &t.slots[idx]
		return e.occupied() && e.H1 == h.H1 && e.H2 == h.H2
	}

	var targetIdx uint64
	switch {
	case sameKeyAt(primary):
		targetIdx = primary
	case sameKeyAt(secondary):
		targetIdx = secondary
	case t.slots[secondary].Draft < t.slots[primary].Draft:
		targetIdx = secondary
	default:
		targetIdx = primary
	}
	target := &t.slots[targetIdx]

	changeEncouragement := draft
	if kind == Exact {
		changeEncouragement += 2
	}

	sameKey := target.occupied() && target.H1 == h.H1 && target.H2 == h.H2
	margin := 4
	if sameKey {
		margin = 2
	}

	if target.occupied() && int(target.Draft)-changeEncouragement > margin {
		return
	}

	target.H1 = h.H1
	target.H2 = h.H2
	target.Score = score
	target.BestMove = bestMove
	target.Kind = kind
	target.Draft = int8(draft)
	target.Selectivity = selectivity
}

// HashFull returns the permille of a 1000-entry sample currently
// occupied, a driver status-line diagnostic (spec.md §6 "-e").
func (t *Table) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > uint64(len(t.slots)) {
		sampleSize = len(t.slots)
	}
	used := 0
	for i := 0; i < sampleSize; i++ {
		if t.slots[i].occupied() {
			used++
		}
	}
	if sampleSize == 0 {
		return 0
	}
	return (used * 1000) / sampleSize
}

// HitRate returns the cumulative probe hit rate as a percentage.
func (t *Table) HitRate() float64 {
	if t.probes == 0 {
		return 0
	}
	return float64(t.hits) / float64(t.probes) * 100
}

// Size returns the number of slots in the table.
func (t *Table) Size() uint64 { return uint64(len(t.slots)) }
