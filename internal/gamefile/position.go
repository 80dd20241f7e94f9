// Package gamefile implements the external textual formats named in
// spec.md §6: 64-character position dumps and two-character move
// notation. It is the module's analogue of the reference engine's FEN
// parser (internal/board/fen.go), generalized from chess's piece
// placement grammar to Othello's simpler disc/side-to-move dump.
package gamefile

import (
	"fmt"
	"strings"

	"github.com/hailam/othello/internal/board"
)

// errFormat is returned for structurally malformed input (spec.md §7 "FormatError").
type errFormat struct{ reason string }

func (e *errFormat) Error() string { return "gamefile: " + e.reason }

// ParsePositionDump parses the 64-character row-major dump plus a
// trailing side-to-move character (spec.md §6 "Position dump"):
// "*"/"X" = Black, "O"/"0" = White, "-"/"." = Empty, followed by a
// space and the side to move.
func ParsePositionDump(s string) (*board.Board, board.Color, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 || len(fields[0]) != 64 || len(fields[1]) != 1 {
		return nil, board.NoColor, &errFormat{reason: fmt.Sprintf("expected 64 cells + side-to-move, got %q", s)}
	}

	b := board.NewBoard()
	cells := [64]board.Color{}
	for i := 0; i < 64; i++ {
		c, ok := board.ParseDiscChar(fields[0][i])
		if !ok {
			return nil, board.NoColor, &errFormat{reason: fmt.Sprintf("invalid disc character %q at index %d", fields[0][i], i)}
		}
		cells[i] = c
	}
	side, ok := board.ParseDiscChar(fields[1][0])
	if !ok || side == board.Empty {
		return nil, board.NoColor, &errFormat{reason: fmt.Sprintf("invalid side-to-move character %q", fields[1])}
	}

	b.LoadCells(cells, side)
	return b, side, nil
}

// FormatPositionDump renders a board back into the 64-character dump
// plus side-to-move, the inverse of ParsePositionDump.
func FormatPositionDump(b *board.Board, side board.Color) string {
	var sb strings.Builder
	sb.Grow(66)
	for r := 1; r <= 8; r++ {
		for c := 1; c <= 8; c++ {
			sb.WriteByte(b.At(board.NewSquare(r, c)).DiscChar())
		}
	}
	sb.WriteByte(' ')
	sb.WriteByte(side.DiscChar())
	return sb.String()
}

// ParseMoveNotation parses spec.md §6's two-character move notation:
// column letter a..h then row digit 1..8, e.g. "d3". "PASS" (any case)
// parses to board.PassMove.
func ParseMoveNotation(s string) (board.Move, error) {
	if strings.EqualFold(s, "PASS") {
		return board.PassMove, nil
	}
	sq, err := board.ParseSquare(s)
	if err != nil {
		return board.NoMove, &errFormat{reason: err.Error()}
	}
	return board.Move(sq), nil
}

// FormatMoveNotation renders a move back to spec.md §6 notation.
func FormatMoveNotation(m board.Move) string {
	return m.String()
}

// ParseMoveSequence splits a packed move string (no separators, e.g.
// "f5d6c3...") into individual two-character moves, as used by the
// "-seq <movestr>" driver flag (spec.md §6).
func ParseMoveSequence(s string) ([]board.Move, error) {
	s = strings.TrimSpace(s)
	if len(s)%2 != 0 {
		return nil, &errFormat{reason: fmt.Sprintf("move sequence length %d is not even", len(s))}
	}
	moves := make([]board.Move, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		m, err := ParseMoveNotation(s[i : i+2])
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}
