// Package board implements the chess rules: an 8x8 mailbox grid, move
// generation with make/undo simulation, and check, checkmate and stalemate
// detection.
package board

import "fmt"

// Square identifies a cell of the grid by row and column, both 0-7.
// Row 0 is black's back rank (rank 8), row 7 is white's (rank 1).
// Column 0 is the a-file.
type Square struct {
	Row int
	Col int
}

// NoSquare marks the absence of a square (e.g. no en passant target).
var NoSquare = Square{Row: -1, Col: -1}

// Named squares used by castling.
var (
	A1 = Square{7, 0}
	E1 = Square{7, 4}
	H1 = Square{7, 7}
	A8 = Square{0, 0}
	E8 = Square{0, 4}
	H8 = Square{0, 7}
)

// NewSquare creates a square from row and column. It panics if either is
// outside 0-7.
func NewSquare(row, col int) Square {
	if !onBoard(row, col) {
		panic(fmt.Sprintf("board: square (%d,%d) out of range", row, col))
	}
	return Square{Row: row, Col: col}
}

func onBoard(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// IsValid returns true if the square lies on the board.
func (sq Square) IsValid() bool {
	return onBoard(sq.Row, sq.Col)
}

// File returns the file letter index (0=a, 7=h).
func (sq Square) File() int {
	return sq.Col
}

// Rank returns the rank index (0=rank 1, 7=rank 8).
func (sq Square) Rank() int {
	return 7 - sq.Row
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return Square{Row: 7 - rank, Col: file}, nil
}
