package board

// Hash keys are a pair of 32-bit values XORed from per-(color,square)
// masks and a per-side-to-move mask (spec.md §3 "Hash key"). Using two
// independent 32-bit streams rather than one 64-bit stream lets the
// transposition table (internal/search) pick a slot from the low bits
// of one half and verify a stored entry against both halves (spec.md
// §4.3).
//
// Key masks are generated once at init time by a seeded PRNG, mirroring
// the fixed-seed xorshift64* generator the teacher repo uses to build
// its Zobrist tables (internal/board/zobrist.go in the reference
// chess engine this package is modeled on): reproducibility is a hard
// requirement (spec.md §1, §5 "PRNG"), so keys must never depend on
// real time or OS entropy.
type Hash struct {
	H1 uint32
	H2 uint32
}

// XOR combines two hashes (used to fold in a placement or side-to-move mask).
func (h Hash) XOR(o Hash) Hash {
	return Hash{H1: h.H1 ^ o.H1, H2: h.H2 ^ o.H2}
}

var (
	hashPiece      [3][100]Hash // [Black,White unused at Empty/Outside index 0][square]
	hashSideToMove Hash
)

// prng is a small xorshift64* generator seeded deterministically so
// that hash tables are reproducible across runs given the same seed
// (spec.md §5 "PRNG").
type prng struct{ state uint64 }

func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = 1
	}
	return &prng{state: seed}
}

func (p *prng) next64() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func (p *prng) next32() uint32 {
	return uint32(p.next64() >> 32)
}

func init() {
	initHashKeys(0xB17E5A0F2C3D4E5F)
}

// initHashKeys (re)populates the per-(color,square) and side-to-move
// hash masks from a fixed seed. Exposed as ResetHashSeed for callers
// that want a specific reproducible seed (e.g. "-r 0" deterministic
// mode per spec.md §6).
func initHashKeys(seed uint64) {
	rng := newPRNG(seed)
	for color := Black; color <= White; color++ {
		for _, sq := range allSquares {
			hashPiece[color][sq] = Hash{H1: rng.next32(), H2: rng.next32()}
		}
	}
	hashSideToMove = Hash{H1: rng.next32(), H2: rng.next32()}
}

// ResetHashSeed reinitializes the hash key tables from seed. Changing
// the seed after positions have been hashed invalidates any stored
// hash-derived state (transposition table, book); callers must clear
// those structures afterward.
func ResetHashSeed(seed uint64) {
	initHashKeys(seed)
}

// PieceMask returns the XOR mask for placing/removing color on sq.
func PieceMask(color Color, sq Square) Hash {
	return hashPiece[color][sq]
}

// SideToMoveMask returns the XOR mask toggled whenever the side to move changes.
func SideToMoveMask() Hash {
	return hashSideToMove
}
