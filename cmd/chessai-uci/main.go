package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/hailam/chessai/internal/engine"
	"github.com/hailam/chessai/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", 0, "default search depth (0 = medium difficulty)")
	seed       = flag.Uint64("seed", 0, "random seed for move shuffling (0 picks one)")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)
	log.SetPrefix("info string ")
	log.SetFlags(0)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	eng := engine.NewEngine(s)
	if *depth > 0 {
		eng.SetDepth(*depth)
	}

	// Create and run UCI protocol handler
	protocol := uci.New(eng)
	if err := protocol.Run(); err != nil {
		log.Printf("input error: %v", err)
	}
}
