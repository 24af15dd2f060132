package engine

import (
	"log"
	"runtime"
	"sort"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessai/internal/board"
)

// SearchInfo describes a completed search.
type SearchInfo struct {
	Depth  int
	Score  int // relative to the side to move
	Nodes  uint64
	Time   time.Duration
	Move   board.Move
	Random bool // the move came from the random fallback
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

// DifficultyDepth maps difficulty to search depth in plies.
var DifficultyDepth = map[Difficulty]int{
	Easy:   1,
	Medium: 2,
	Hard:   3,
}

// ParseDifficulty accepts "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, bool) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return Medium, false
}

// Engine picks moves for an automated player.
type Engine struct {
	depth int
	rng   *rand.Rand

	// Logger receives one line per search. Nil disables logging.
	Logger *log.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine at Medium difficulty. seed fixes the move
// shuffle, so equal seeds give equal games.
func NewEngine(seed uint64) *Engine {
	return &Engine{
		depth: DifficultyDepth[Medium],
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// SetDifficulty sets the search depth from a difficulty level.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.depth = DifficultyDepth[d]
}

// SetDepth sets the search depth directly. Values below 1 are raised to 1.
func (e *Engine) SetDepth(depth int) {
	if depth < 1 {
		depth = 1
	}
	e.depth = depth
}

// Depth returns the configured search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// BestMove searches the position and returns a move for the side to move,
// falling back to a random legal move when the search picks none. It
// returns NoMove only when there are no legal moves.
func (e *Engine) BestMove(g *board.GameState) board.Move {
	return e.BestMoveDepth(g, e.depth)
}

// BestMoveDepth is BestMove searching to depth instead of the configured
// depth.
func (e *Engine) BestMoveDepth(g *board.GameState, depth int) board.Move {
	moves := g.ValidMoves()
	if len(moves) == 0 {
		return board.NoMove
	}
	if depth < 1 {
		depth = 1
	}

	start := time.Now()
	res := Search(g, moves, depth, e.rng)
	info := SearchInfo{
		Depth: depth,
		Score: res.Score,
		Nodes: res.Nodes,
		Move:  res.Move,
	}
	if !res.HasMove {
		info.Move = FindRandomMove(moves, e.rng)
		info.Random = true
	}
	info.Time = time.Since(start)

	if e.Logger != nil {
		e.Logger.Printf("search depth=%d move=%s score=%d nodes=%d time=%v random=%v",
			info.Depth, info.Move, info.Score, info.Nodes, info.Time, info.Random)
	}
	if e.OnInfo != nil {
		e.OnInfo(info)
	}
	return info.Move
}

// Perft performs a perft test (for debugging move generation).
func Perft(g *board.GameState, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := g.ValidMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		g.Simulate(m, func() {
			nodes += Perft(g, depth-1)
		})
	}
	return nodes
}

// DivideEntry is the node count below one root move.
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// PerftDivide counts leaf nodes below each root move, one goroutine per move.
// Each goroutine works on its own clone, so g is never shared.
func PerftDivide(g *board.GameState, depth int) ([]DivideEntry, error) {
	if depth < 1 {
		return nil, nil
	}
	moves := g.ValidMoves()
	entries := make([]DivideEntry, len(moves))

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i, m := range moves {
		worker := g.Clone()
		eg.Go(func() error {
			worker.MakeMove(m)
			entries[i] = DivideEntry{Move: m, Nodes: Perft(worker, depth-1)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries, nil
}

// PerftParallel is Perft spread over the root moves.
func PerftParallel(g *board.GameState, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	entries, err := PerftDivide(g, depth)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	return total, nil
}
