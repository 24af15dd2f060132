package engine

import "github.com/hailam/chessai/internal/board"

// Score constants.
const (
	CheckmateScore = 1000
	StalemateScore = 0
)

// PieceScore is the material value of each piece type. The king has no
// material value.
var PieceScore = [...]int{
	board.Pawn:   1,
	board.Knight: 3,
	board.Bishop: 3,
	board.Rook:   5,
	board.Queen:  9,
	board.King:   0,
}

// Evaluate scores the position from white's point of view: positive is good
// for white. Checkmate and stalemate are read from the flags set by the
// last ValidMoves call, so call it first.
func Evaluate(g *board.GameState) int {
	if g.Checkmate() {
		// The side to move is the one that has been mated.
		if g.WhiteToMove() {
			return -CheckmateScore
		}
		return CheckmateScore
	}
	if g.Stalemate() {
		return StalemateScore
	}
	return Material(g)
}

// Material returns the material balance (positive favors white).
func Material(g *board.GameState) int {
	score := 0
	grid := g.Board()
	for r := range grid {
		for _, p := range grid[r] {
			if p == board.Empty {
				continue
			}
			if p.Color() == board.White {
				score += PieceScore[p.Type()]
			} else {
				score -= PieceScore[p.Type()]
			}
		}
	}
	return score
}
