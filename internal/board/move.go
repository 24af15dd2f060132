package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when move text does not match any legal move.
var ErrIllegalMove = errors.New("illegal move")

// Move describes a single board transition. Moves are values; once built
// they are never modified.
type Move struct {
	From     Square
	To       Square
	Moved    Piece
	Captured Piece // piece taken, or Empty

	EnPassant bool
	Castle    bool
	Promotion bool
}

// MoveID is the identity of a move: its start and end squares. Two moves
// with the same squares but different metadata compare equal, which is
// sound only while promotion always produces a queen.
type MoveID struct {
	From Square
	To   Square
}

// NoMove represents the absence of a move.
var NoMove = Move{From: NoSquare, To: NoSquare, Moved: Empty, Captured: Empty}

// newMove builds a move from the pieces currently on the grid. Promotion is
// derived from the destination rank.
func newMove(from, to Square, grid *Grid) Move {
	m := Move{
		From:     from,
		To:       to,
		Moved:    grid[from.Row][from.Col],
		Captured: grid[to.Row][to.Col],
	}
	m.Promotion = (m.Moved == WhitePawn && to.Row == 0) || (m.Moved == BlackPawn && to.Row == 7)
	return m
}

// newEnPassant builds an en passant capture. The captured pawn is not on the
// destination square, so it is filled in from the mover's color.
func newEnPassant(from, to Square, grid *Grid) Move {
	m := newMove(from, to, grid)
	m.EnPassant = true
	m.Captured = NewPiece(Pawn, m.Moved.Color().Other())
	return m
}

func newCastle(from, to Square, grid *Grid) Move {
	m := newMove(from, to, grid)
	m.Castle = true
	return m
}

// ID returns the identity key of the move.
func (m Move) ID() MoveID {
	return MoveID{From: m.From, To: m.To}
}

// Equal reports whether two moves share the same identity.
func (m Move) Equal(o Move) bool {
	return m.ID() == o.ID()
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool {
	return m.Captured != Empty
}

// String returns the start and end squares, e.g. "e2e4".
func (m Move) String() string {
	if m.From == NoSquare {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// UCI returns the UCI form of the move, which spells out the promotion piece.
func (m Move) UCI() string {
	if m.Promotion {
		return m.String() + "q"
	}
	return m.String()
}

// FindMove returns the member of legal whose start and end squares match the
// text s ("e2e4", optionally with a trailing "q").
func FindMove(s string, legal []Move) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	if len(s) == 5 && s[4] != 'q' {
		return NoMove, fmt.Errorf("%w: only queen promotion is supported: %s", ErrIllegalMove, s)
	}

	id := MoveID{From: from, To: to}
	for _, m := range legal {
		if m.ID() == id {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}
