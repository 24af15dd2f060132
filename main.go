// ChessAI - play chess against a small negamax engine in the terminal
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/hailam/chessai/internal/cli"
	"github.com/hailam/chessai/internal/engine"
	"github.com/hailam/chessai/internal/storage"
)

var (
	depth      = flag.Int("depth", 0, "search depth in plies (overrides -difficulty)")
	difficulty = flag.String("difficulty", "", "easy, medium or hard")
	white      = flag.String("white", "", "who plays white: human or computer")
	black      = flag.String("black", "", "who plays black: human or computer")
	seed       = flag.Uint64("seed", 0, "random seed for the engine (0 picks one)")
	fen        = flag.String("fen", "", "start from this FEN instead of the initial position")
	maxPlies   = flag.Int("max-plies", 0, "stop a game after this many plies (0 = no limit)")
	name       = flag.String("name", "", "player name")
	dbDir      = flag.String("db", "", "database directory (default: user data directory)")
	noStore    = flag.Bool("nostore", false, "do not load or save preferences and statistics")
	noColor    = flag.Bool("nocolor", false, "print the board without colours")
	verbose    = flag.Bool("v", false, "log every engine search to stderr")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	log.SetPrefix("chessai: ")

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		loaded, err := store.LoadPreferences()
		if err != nil {
			log.Printf("Warning: preferences not loaded: %v", err)
		} else {
			prefs = loaded
		}
	}
	if err := applyFlags(prefs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	eng := engine.NewEngine(engineSeed(prefs.Seed))
	if d, ok := engine.ParseDifficulty(prefs.Difficulty); ok {
		eng.SetDifficulty(d)
	}
	if prefs.Depth > 0 {
		eng.SetDepth(prefs.Depth)
	}
	if *verbose {
		eng.Logger = log.Default()
	}

	game, err := cli.New(cli.Config{
		WhiteHuman: prefs.WhiteHuman,
		BlackHuman: prefs.BlackHuman,
		Engine:     eng,
		Difficulty: prefs.Difficulty,
		Store:      store,
		StartFEN:   *fen,
		MaxPlies:   *maxPlies,
		Player:     prefs.Username,
		Color:      !*noColor && cli.IsTerminal(os.Stdout),
		In:         os.Stdin,
		Out:        os.Stdout,
	})
	if err != nil {
		log.Fatal(err)
	}

	if store != nil {
		first, err := store.IsFirstLaunch()
		if err != nil {
			log.Printf("Warning: first launch not checked: %v", err)
		}
		if first {
			fmt.Printf("Welcome, %s. Type help for commands.\n", prefs.Username)
			if err := store.MarkFirstLaunchComplete(); err != nil {
				log.Printf("Warning: first launch not recorded: %v", err)
			}
		}
		if err := store.SavePreferences(prefs); err != nil {
			log.Printf("Warning: preferences not saved: %v", err)
		}
	}

	if err := game.Run(); err != nil {
		log.Fatal(err)
	}
}

func openStore() *storage.Storage {
	if *noStore {
		return nil
	}
	var (
		store *storage.Storage
		err   error
	)
	if *dbDir != "" {
		store, err = storage.Open(*dbDir)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Printf("Warning: statistics disabled: %v", err)
		return nil
	}
	return store
}

// applyFlags copies the flags given on the command line over the stored
// preferences.
func applyFlags(prefs *storage.UserPreferences) error {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["difficulty"] {
		if _, ok := engine.ParseDifficulty(*difficulty); !ok {
			return fmt.Errorf("unknown difficulty %q", *difficulty)
		}
		prefs.Difficulty = *difficulty
		prefs.Depth = 0
	}
	if set["depth"] {
		prefs.Depth = *depth
	}
	if set["white"] {
		h, err := isHuman(*white)
		if err != nil {
			return fmt.Errorf("-white: %w", err)
		}
		prefs.WhiteHuman = h
	}
	if set["black"] {
		h, err := isHuman(*black)
		if err != nil {
			return fmt.Errorf("-black: %w", err)
		}
		prefs.BlackHuman = h
	}
	if set["seed"] {
		prefs.Seed = *seed
	}
	if set["name"] {
		prefs.Username = *name
	}
	return nil
}

func isHuman(s string) (bool, error) {
	switch s {
	case "human":
		return true, nil
	case "computer":
		return false, nil
	}
	return false, fmt.Errorf("expected human or computer, got %q", s)
}

func engineSeed(s uint64) uint64 {
	if s != 0 {
		return s
	}
	return uint64(time.Now().UnixNano())
}
