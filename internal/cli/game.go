// Package cli runs a game in the terminal: human against computer, two
// humans at one keyboard, or two computers.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/engine"
	"github.com/hailam/chessai/internal/record"
	"github.com/hailam/chessai/internal/storage"
)

// Config describes a session.
type Config struct {
	WhiteHuman bool
	BlackHuman bool

	Engine     *engine.Engine
	Difficulty string // recorded with the game statistics

	// Store receives the result of each game. May be nil.
	Store *storage.Storage

	// StartFEN sets up the first position. Empty means the standard start.
	StartFEN string

	// MaxPlies ends a game as unfinished after this many plies. Zero
	// means no limit.
	MaxPlies int

	Player string // PGN name for the human side
	Color  bool   // colour the board with ANSI escapes

	In  io.Reader
	Out io.Writer
}

// Game is one terminal session. Several games may be played in a session
// by resetting.
type Game struct {
	cfg     Config
	state   *board.GameState
	input   *bufio.Scanner
	out     io.Writer
	palette *palette

	started  time.Time
	recorded bool
}

// New creates a session. It fails only if cfg.StartFEN does not parse.
func New(cfg Config) (*Game, error) {
	if cfg.Engine == nil {
		cfg.Engine = engine.NewEngine(uint64(time.Now().UnixNano()))
	}
	g := &Game{
		cfg:   cfg,
		input: bufio.NewScanner(cfg.In),
		out:   cfg.Out,
	}
	if cfg.Color {
		g.palette = newPalette()
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// State returns the current game state.
func (g *Game) State() *board.GameState {
	return g.state
}

func (g *Game) reset() error {
	state := board.NewGameState()
	if g.cfg.StartFEN != "" {
		var err error
		if state, err = board.ParseFEN(g.cfg.StartFEN); err != nil {
			return err
		}
	}
	g.state = state
	g.started = time.Now()
	g.recorded = false
	return nil
}

func (g *Game) humanToMove() bool {
	if g.state.WhiteToMove() {
		return g.cfg.WhiteHuman
	}
	return g.cfg.BlackHuman
}

func (g *Game) computerOnly() bool {
	return !g.cfg.WhiteHuman && !g.cfg.BlackHuman
}

// Run plays until the player quits or input ends. A computer-only session
// returns when its game ends.
func (g *Game) Run() error {
	renderBoard(g.out, g.state, g.palette)

	for {
		moves := g.state.ValidMoves()

		if st := g.state.Status(); st != board.InProgress {
			if !g.recorded {
				g.announce(st)
			}
			g.finish()
			if g.computerOnly() {
				return nil
			}
		} else if g.cfg.MaxPlies > 0 && len(g.state.MoveLog()) >= g.cfg.MaxPlies {
			fmt.Fprintf(g.out, "Stopped after %d plies.\n", g.cfg.MaxPlies)
			g.finish()
			if g.computerOnly() {
				return nil
			}
		} else if !g.humanToMove() {
			g.computerMove()
			continue
		}

		quit, err := g.prompt(moves)
		if quit {
			g.finish()
			return err
		}
	}
}

func (g *Game) announce(st board.Status) {
	switch st {
	case board.Checkmate:
		winner := board.Black
		if !g.state.WhiteToMove() {
			winner = board.White
		}
		fmt.Fprintf(g.out, "Checkmate. %s wins (%s).\n", winner, record.Result(g.state))
	case board.Stalemate:
		fmt.Fprintln(g.out, "Stalemate. Draw (1/2-1/2).")
	}
}

func (g *Game) computerMove() {
	m := g.cfg.Engine.BestMove(g.state)
	san := g.state.SAN(m)
	g.state.MakeMove(m)

	fmt.Fprintf(g.out, "%s plays %s (%s)\n", g.state.SideToMove().Other(), m.UCI(), san)
	renderBoard(g.out, g.state, g.palette)
}

// prompt reads one line of input and acts on it. It returns true when the
// session should end.
func (g *Game) prompt(moves []board.Move) (bool, error) {
	fmt.Fprintf(g.out, "%s> ", g.state.SideToMove())
	if !g.input.Scan() {
		fmt.Fprintln(g.out)
		return true, g.input.Err()
	}
	line := strings.TrimSpace(g.input.Text())

	switch strings.ToLower(line) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "undo":
		g.undo()
	case "reset":
		g.finish()
		if err := g.reset(); err != nil {
			return true, err
		}
		renderBoard(g.out, g.state, g.palette)
	case "board":
		renderBoard(g.out, g.state, g.palette)
	case "moves":
		g.listMoves(moves)
	case "pgn":
		g.printPGN()
	case "help":
		fmt.Fprintln(g.out, "Enter a move as e2e4 or e4/Nf3/O-O. Commands: undo, reset, board, moves, pgn, quit.")
	default:
		if err := g.humanMove(line, moves); err != nil {
			fmt.Fprintf(g.out, "%v\n", err)
		}
	}
	return false, nil
}

// humanMove plays text given in start+end notation or in SAN.
func (g *Game) humanMove(text string, moves []board.Move) error {
	m, err := board.FindMove(text, moves)
	if err != nil {
		var sanErr error
		if m, sanErr = g.state.ParseSAN(text); sanErr != nil {
			if errors.Is(err, board.ErrIllegalMove) || errors.Is(sanErr, board.ErrIllegalMove) {
				return fmt.Errorf("illegal move: %s", text)
			}
			return fmt.Errorf("cannot read move %q (try e2e4 or help)", text)
		}
	}

	g.state.MakeMove(m)
	renderBoard(g.out, g.state, g.palette)
	return nil
}

// undo takes back moves until a human is to move again, so the computer
// does not immediately replay its answer.
func (g *Game) undo() {
	if len(g.state.MoveLog()) == 0 {
		fmt.Fprintln(g.out, "Nothing to undo.")
		return
	}
	g.state.UndoMove()
	if !g.humanToMove() && len(g.state.MoveLog()) > 0 {
		g.state.UndoMove()
	}
	renderBoard(g.out, g.state, g.palette)
}

func (g *Game) listMoves(moves []board.Move) {
	sans := make([]string, len(moves))
	for i, m := range moves {
		sans[i] = g.state.SAN(m)
	}
	fmt.Fprintln(g.out, strings.Join(sans, " "))
}

func (g *Game) pgnNames() (string, string) {
	name := func(human bool) string {
		if human {
			if g.cfg.Player != "" {
				return g.cfg.Player
			}
			return "Human"
		}
		return fmt.Sprintf("ChessAI depth %d", g.cfg.Engine.Depth())
	}
	return name(g.cfg.WhiteHuman), name(g.cfg.BlackHuman)
}

func (g *Game) printPGN() {
	white, black := g.pgnNames()
	pgn, err := record.PGN(g.state, record.DefaultTags(white, black)...)
	if err != nil {
		fmt.Fprintf(g.out, "pgn: %v\n", err)
		return
	}
	fmt.Fprintln(g.out, pgn)
}

// finish stores the result of the current game once. Games with no moves
// are not recorded.
func (g *Game) finish() {
	if g.recorded || len(g.state.MoveLog()) == 0 {
		return
	}
	g.recorded = true

	white, black := g.pgnNames()
	if pgn, err := record.PGN(g.state, record.DefaultTags(white, black)...); err == nil {
		log.Printf("game over: %s", strings.ReplaceAll(pgn, "\n", " "))
	}

	if g.cfg.Store == nil {
		return
	}
	result := storage.GameResult{
		Result:     record.Result(g.state),
		Mode:       storage.ModeOf(g.cfg.WhiteHuman, g.cfg.BlackHuman),
		HumanWhite: g.cfg.WhiteHuman,
		Difficulty: g.cfg.Difficulty,
		Plies:      len(g.state.MoveLog()),
		Duration:   time.Since(g.started),
	}
	if err := g.cfg.Store.RecordGame(result); err != nil {
		log.Printf("failed to record game: %v", err)
	}
}
