package engine

import (
	"golang.org/x/exp/rand"

	"github.com/hailam/chessai/internal/board"
)

// Infinity bounds every score the search can produce.
const Infinity = 30000

// SearchResult is what a search call hands back. Move is only set by the
// root call, and only if HasMove is true.
type SearchResult struct {
	Score   int
	Move    board.Move
	HasMove bool
	Nodes   uint64
}

// sideSign returns +1 when white is to move, -1 otherwise, turning the
// white-relative evaluation into one relative to the side to move.
func sideSign(g *board.GameState) int {
	if g.WhiteToMove() {
		return 1
	}
	return -1
}

// FindBestMove shuffles moves and searches them to depth. It returns false
// if no move was chosen; callers then fall back to FindRandomMove.
// The root window is -Infinity..Infinity, so for a non-empty list with
// depth >= 1 a move is always chosen, even when every move loses to mate.
// moves is reordered in place.
func FindBestMove(g *board.GameState, moves []board.Move, depth int, rng *rand.Rand) (board.Move, bool) {
	res := Search(g, moves, depth, rng)
	return res.Move, res.HasMove
}

// Search is FindBestMove returning the full result.
func Search(g *board.GameState, moves []board.Move, depth int, rng *rand.Rand) SearchResult {
	if len(moves) == 0 || depth < 1 {
		return SearchResult{Move: board.NoMove}
	}
	rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
	return NegaMaxAlphaBeta(g, moves, depth, -Infinity, Infinity, sideSign(g))
}

// FindRandomMove picks a move uniformly at random.
func FindRandomMove(moves []board.Move, rng *rand.Rand) board.Move {
	if len(moves) == 0 {
		return board.NoMove
	}
	return moves[rng.Intn(len(moves))]
}

// NegaMaxAlphaBeta searches moves to depth and returns the best score for
// the side to move. sign is +1 if that side is white. The position is
// restored before it returns.
func NegaMaxAlphaBeta(g *board.GameState, moves []board.Move, depth, alpha, beta, sign int) SearchResult {
	var res SearchResult
	res.Score = negaMaxAlphaBeta(g, moves, depth, alpha, beta, sign, 0, &res)
	if !res.HasMove {
		res.Move = board.NoMove
	}
	return res
}

func negaMaxAlphaBeta(g *board.GameState, moves []board.Move, depth, alpha, beta, sign, ply int, res *SearchResult) int {
	res.Nodes++
	if depth == 0 || len(moves) == 0 {
		return sign * Evaluate(g)
	}

	best := -Infinity
	for _, m := range moves {
		var score int
		g.Simulate(m, func() {
			replies := g.ValidMoves()
			score = -negaMaxAlphaBeta(g, replies, depth-1, -beta, -alpha, -sign, ply+1, res)
		})
		if score > best {
			best = score
			if ply == 0 {
				res.Move = m
				res.HasMove = true
			}
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// NegaMax is the full-width search without pruning. It visits every node and
// exists to check that pruning never changes the result.
func NegaMax(g *board.GameState, moves []board.Move, depth, sign int) SearchResult {
	var res SearchResult
	res.Score = negaMax(g, moves, depth, sign, 0, &res)
	if !res.HasMove {
		res.Move = board.NoMove
	}
	return res
}

func negaMax(g *board.GameState, moves []board.Move, depth, sign, ply int, res *SearchResult) int {
	res.Nodes++
	if depth == 0 || len(moves) == 0 {
		return sign * Evaluate(g)
	}

	best := -Infinity
	for _, m := range moves {
		var score int
		g.Simulate(m, func() {
			score = -negaMax(g, g.ValidMoves(), depth-1, -sign, ply+1, res)
		})
		if score > best {
			best = score
			if ply == 0 {
				res.Move = m
				res.HasMove = true
			}
		}
	}
	return best
}
