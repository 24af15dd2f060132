package engine

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/hailam/chessai/internal/board"
)

func mustFEN(t *testing.T, fen string) *board.GameState {
	t.Helper()
	g, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%s): %v", fen, err)
	}
	return g
}

func playMoves(t *testing.T, g *board.GameState, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := board.FindMove(s, g.ValidMoves())
		if err != nil {
			t.Fatalf("move %s: %v", s, err)
		}
		g.MakeMove(m)
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("StartingPosition", func(t *testing.T) {
		g := board.NewGameState()
		g.ValidMoves()
		if got := Evaluate(g); got != 0 {
			t.Errorf("Evaluate = %d, want 0", got)
		}
	})

	t.Run("Material", func(t *testing.T) {
		// White: K, Q, R. Black: K, N, 2 pawns.
		g := mustFEN(t, "4k3/pp6/2n5/8/8/8/8/Q3K2R w - - 0 1")
		g.ValidMoves()
		if got := Evaluate(g); got != 9 {
			t.Errorf("Evaluate = %d, want 9", got)
		}
	})

	t.Run("WhiteMated", func(t *testing.T) {
		g := board.NewGameState()
		playMoves(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
		g.ValidMoves()
		if got := Evaluate(g); got != -CheckmateScore {
			t.Errorf("Evaluate = %d, want %d", got, -CheckmateScore)
		}
	})

	t.Run("BlackMated", func(t *testing.T) {
		g := mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
		g.ValidMoves()
		if got := Evaluate(g); got != CheckmateScore {
			t.Errorf("Evaluate = %d, want %d", got, CheckmateScore)
		}
	})

	t.Run("Stalemate", func(t *testing.T) {
		g := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
		g.ValidMoves()
		if got := Evaluate(g); got != StalemateScore {
			t.Errorf("Evaluate = %d, want %d", got, StalemateScore)
		}
	})
}

// At depth 1 from the start no capture is possible, so every move scores 0.
func TestDepthOneFromStart(t *testing.T) {
	g := board.NewGameState()
	moves := g.ValidMoves()
	for _, m := range moves {
		g.Simulate(m, func() {
			g.ValidMoves()
			if got := Evaluate(g); got != 0 {
				t.Errorf("%s: Evaluate = %d, want 0", m, got)
			}
		})
	}

	res := NegaMaxAlphaBeta(g, moves, 1, -Infinity, Infinity, 1)
	if res.Score != 0 {
		t.Errorf("root score = %d, want 0", res.Score)
	}
	if !res.HasMove {
		t.Error("expected a root move")
	}
}

func TestAlphaBetaMatchesNegaMax(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
	}{
		{"start", board.StartFEN, 2},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2},
		{"hanging pieces", "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", 2},
		{"endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
		{"black to move", "r3k2r/8/8/8/1q6/8/3N4/R3K2R b KQkq - 0 1", 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := mustFEN(t, tc.fen)
			sign := sideSign(g)

			full := NegaMax(g, g.ValidMoves(), tc.depth, sign)
			pruned := NegaMaxAlphaBeta(g, g.ValidMoves(), tc.depth, -Infinity, Infinity, sign)

			if full.Score != pruned.Score {
				t.Errorf("score: negamax %d, alpha-beta %d", full.Score, pruned.Score)
			}
			if full.Move != pruned.Move {
				t.Errorf("move: negamax %s, alpha-beta %s", full.Move, pruned.Move)
			}
			if pruned.Nodes > full.Nodes {
				t.Errorf("alpha-beta visited more nodes (%d) than negamax (%d)", pruned.Nodes, full.Nodes)
			}
			if g.ToFEN() != mustFEN(t, tc.fen).ToFEN() {
				t.Errorf("search did not restore the position: %s", g.ToFEN())
			}
			t.Logf("%s: score %d move %s nodes %d/%d", tc.name, pruned.Score, pruned.Move, pruned.Nodes, full.Nodes)
		})
	}
}

func TestFindBestMove(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		want  string
	}{
		{"back rank mate", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", 1, "a1a8"},
		{"back rank mate depth 2", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", 2, "a1a8"},
		{"win the queen", "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1", 1, "d1d5"},
		{"black mates", "r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", 2, "a8a1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := mustFEN(t, tc.fen)
			rng := rand.New(rand.NewSource(7))
			m, ok := FindBestMove(g, g.ValidMoves(), tc.depth, rng)
			if !ok {
				t.Fatal("no move returned")
			}
			if m.String() != tc.want {
				t.Errorf("best move = %s, want %s", m, tc.want)
			}
		})
	}
}

func TestFindBestMoveNoMoves(t *testing.T) {
	g := board.NewGameState()
	playMoves(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	moves := g.ValidMoves()
	rng := rand.New(rand.NewSource(1))

	if m, ok := FindBestMove(g, moves, 2, rng); ok || m != board.NoMove {
		t.Errorf("expected no move, got %s %v", m, ok)
	}
	if m := FindRandomMove(moves, rng); m != board.NoMove {
		t.Errorf("expected NoMove from empty list, got %s", m)
	}
}

func TestFindBestMoveAllMovesLose(t *testing.T) {
	// Both pawn moves allow mate in one.
	g := mustFEN(t, "8/8/8/8/8/6q1/P4k2/7K w - - 0 1")
	rng := rand.New(rand.NewSource(11))

	res := Search(g, g.ValidMoves(), 2, rng)
	if !res.HasMove {
		t.Fatal("no move chosen")
	}
	if res.Score != -CheckmateScore {
		t.Errorf("score = %d, want %d", res.Score, -CheckmateScore)
	}
	if s := res.Move.String(); s != "a2a3" && s != "a2a4" {
		t.Errorf("move = %s, want a pawn move", s)
	}
}

func TestFindRandomMove(t *testing.T) {
	g := board.NewGameState()
	moves := g.ValidMoves()
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 50; i++ {
		m := FindRandomMove(moves, rng)
		if _, err := board.FindMove(m.String(), moves); err != nil {
			t.Fatalf("random move %s not legal: %v", m, err)
		}
	}
}

func TestEngineBestMove(t *testing.T) {
	g := board.NewGameState()

	a := NewEngine(42)
	b := NewEngine(42)
	a.SetDifficulty(Easy)
	b.SetDifficulty(Easy)

	var info SearchInfo
	a.OnInfo = func(i SearchInfo) { info = i }

	ma := a.BestMove(g)
	mb := b.BestMove(g)
	if ma == board.NoMove {
		t.Fatal("BestMove returned NoMove for starting position")
	}
	if ma != mb {
		t.Errorf("same seed gave different moves: %s and %s", ma, mb)
	}
	if info.Move != ma || info.Depth != 1 || info.Nodes == 0 {
		t.Errorf("unexpected info %+v", info)
	}
	if len(g.MoveLog()) != 0 || g.ToFEN() != board.StartFEN {
		t.Error("BestMove changed the position")
	}
	t.Logf("Best move: %s", ma)
}

func TestEngineSelfPlay(t *testing.T) {
	g := board.NewGameState()
	eng := NewEngine(11)
	eng.SetDifficulty(Easy)

	for ply := 0; ply < 40; ply++ {
		m := eng.BestMove(g)
		if m == board.NoMove {
			if g.Status() == board.InProgress {
				t.Fatalf("NoMove while game in progress at ply %d", ply)
			}
			return
		}
		if _, err := board.FindMove(m.String(), g.ValidMoves()); err != nil {
			t.Fatalf("engine played illegal move %s: %v", m, err)
		}
		g.MakeMove(m)
	}
}

func TestDifficulty(t *testing.T) {
	eng := NewEngine(0)
	if eng.Depth() != 2 {
		t.Errorf("default depth = %d, want 2", eng.Depth())
	}
	eng.SetDifficulty(Hard)
	if eng.Depth() != 3 {
		t.Errorf("hard depth = %d, want 3", eng.Depth())
	}
	eng.SetDepth(0)
	if eng.Depth() != 1 {
		t.Errorf("SetDepth(0) gave %d, want 1", eng.Depth())
	}

	if d, ok := ParseDifficulty("easy"); !ok || d != Easy {
		t.Errorf("ParseDifficulty(easy) = %v %v", d, ok)
	}
	if _, ok := ParseDifficulty("extreme"); ok {
		t.Error("ParseDifficulty accepted an unknown level")
	}
}

func TestPerftParallel(t *testing.T) {
	g := board.NewGameState()

	serial := Perft(g, 3)
	parallel, err := PerftParallel(g, 3)
	if err != nil {
		t.Fatal(err)
	}
	if serial != 8902 || parallel != serial {
		t.Errorf("perft(3): serial %d, parallel %d, want 8902", serial, parallel)
	}

	entries, err := PerftDivide(g, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 20 {
		t.Fatalf("divide has %d entries, want 20", len(entries))
	}
	for _, e := range entries {
		if e.Nodes != 20 {
			t.Errorf("%s: %d nodes, want 20", e.Move, e.Nodes)
		}
	}
}
