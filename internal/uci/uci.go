// Package uci adapts the engine to the Universal Chess Interface protocol.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/engine"
)

// MaxDepth caps the Depth option and "go depth".
const MaxDepth = 6

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine *engine.Engine
	game   *board.GameState

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	outMu  sync.Mutex

	// Search state
	searching  bool
	searchDone chan struct{}

	// CPU profiling
	profileFile *os.File
}

// New creates a UCI handler on stdin/stdout, with diagnostics on stderr.
func New(eng *engine.Engine) *UCI {
	return NewWithIO(eng, os.Stdin, os.Stdout, os.Stderr)
}

// NewWithIO creates a UCI handler reading commands from in.
func NewWithIO(eng *engine.Engine, in io.Reader, out, errOut io.Writer) *UCI {
	u := &UCI{
		engine: eng,
		game:   board.NewGameState(),
		in:     in,
		out:    out,
	}
	// The search goroutine logs through the engine while Run writes
	// diagnostics, so both share outMu.
	u.errOut = &lockedWriter{mu: &u.outMu, w: errOut}
	eng.Logger = log.New(u.errOut, "info string ", 0)
	eng.OnInfo = u.sendInfo
	return u
}

// Run reads commands until "quit" or end of input. Any running search is
// finished before it returns.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.send("readyok")
		case "ucinewgame":
			u.wait()
			u.game = board.NewGameState()
		case "position":
			u.wait()
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.wait()
		case "quit":
			u.handleQuit()
			return nil
		case "setoption":
			u.wait()
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.wait()
			u.send("%s", u.game.String())
		case "perft":
			u.wait()
			u.handlePerft(args)
		case "undo":
			u.wait()
			u.game.UndoMove()
		default:
			u.diag("Unknown command: %s", cmd)
		}
	}

	u.handleQuit()
	return scanner.Err()
}

func (u *UCI) send(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

// diag writes an "info string" line to the diagnostic stream.
func (u *UCI) diag(format string, args ...any) {
	fmt.Fprintf(u.errOut, "info string "+format+"\n", args...)
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.send("id name ChessAI")
	u.send("id author ChessAI Team")
	u.send("")
	u.send("option name Depth type spin default %d min 1 max %d", u.engine.Depth(), MaxDepth)
	u.send("option name Difficulty type combo default medium var easy var medium var hard")
	u.send("option name CPUProfile type string default <empty>")
	u.send("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// Find "moves" keyword
	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	switch args[0] {
	case "startpos":
		u.game = board.NewGameState()
	case "fen":
		fenStr := strings.Join(args[1:movesAt], " ")
		g, err := board.ParseFEN(fenStr)
		if err != nil {
			u.diag("Invalid FEN: %v", err)
			return
		}
		u.game = g
	default:
		return
	}

	if movesAt >= len(args) {
		return
	}
	for _, moveStr := range args[movesAt+1:] {
		m, err := board.FindMove(moveStr, u.game.ValidMoves())
		if err != nil {
			u.diag("Invalid move: %v", err)
			return
		}
		u.game.MakeMove(m)
	}
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth int
}

// parseGoOptions parses "go" command arguments. Time controls are accepted
// and ignored; the search is always depth-limited.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes":
			i++
		}
	}

	if opts.Depth > MaxDepth {
		opts.Depth = MaxDepth
	}
	return opts
}

// handleGo starts a search on a copy of the current game.
func (u *UCI) handleGo(args []string) {
	u.wait()
	opts := parseGoOptions(args)
	depth := opts.Depth
	if depth < 1 {
		depth = u.engine.Depth()
	}

	u.searching = true
	u.searchDone = make(chan struct{})
	g := u.game.Clone()

	go func() {
		defer close(u.searchDone)

		best := u.engine.BestMoveDepth(g, depth)
		if best == board.NoMove {
			// Only sent for checkmate/stalemate (no legal moves)
			u.diag("No legal moves: %s", g.Status())
		}
		u.send("bestmove %s", best.UCI())
	}()
}

// sendInfo outputs search info in UCI format. Scores are material in pawns,
// reported as centipawns.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("score cp %d", info.Score*100),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.Move != board.NoMove {
		parts = append(parts, "pv "+info.Move.UCI())
	}

	u.send("info %s", strings.Join(parts, " "))
}

// wait blocks until the running search, if any, has sent its bestmove.
// The search cannot be interrupted; at the depths offered it is short.
func (u *UCI) wait() {
	if u.searching {
		<-u.searchDone
		u.searching = false
	}
}

// handleQuit finishes the search and stops profiling.
func (u *UCI) handleQuit() {
	u.wait()
	u.stopProfile()
}

func (u *UCI) stopProfile() {
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		u.profileFile = nil
		u.diag("CPU profile saved")
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value []string
	var target *[]string

	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	val := strings.Join(value, " ")

	// Handle options
	switch strings.ToLower(strings.Join(name, " ")) {
	case "depth":
		depth, err := strconv.Atoi(val)
		if err != nil || depth < 1 || depth > MaxDepth {
			u.diag("Invalid depth: %q", val)
			return
		}
		u.engine.SetDepth(depth)
	case "difficulty":
		d, ok := engine.ParseDifficulty(strings.ToLower(val))
		if !ok {
			u.diag("Invalid difficulty: %q", val)
			return
		}
		u.engine.SetDifficulty(d)
	case "cpuprofile":
		u.stopProfile()
		// Start new profile if path provided
		if val != "" && val != "stop" {
			f, err := os.Create(val)
			if err != nil {
				u.diag("Failed to create profile: %v", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				u.diag("Failed to start profile: %v", err)
				return
			}
			u.profileFile = f
			u.diag("CPU profiling to %s", val)
		}
	default:
		u.diag("Unknown option: %s", strings.Join(name, " "))
	}
}

// handlePerft runs a perft test and prints the node count under each move.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	start := time.Now()
	entries, err := engine.PerftDivide(u.game, depth)
	if err != nil {
		u.diag("perft failed: %v", err)
		return
	}
	elapsed := time.Since(start)

	var nodes uint64
	for _, e := range entries {
		u.send("%s: %d", e.Move.UCI(), e.Nodes)
		nodes += e.Nodes
	}
	u.send("")
	u.send("Nodes: %d", nodes)
	u.send("Time: %v", elapsed)
	if elapsed > 0 {
		u.send("NPS: %.0f", float64(nodes)/elapsed.Seconds())
	}
}
