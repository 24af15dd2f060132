package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	petname "github.com/dustinkirkland/golang-petname"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// Mode says who plays each side.
type Mode int

const (
	ModeHumanVsHuman Mode = iota
	ModeHumanVsComputer
	ModeComputerVsComputer
)

// ModeOf derives the mode from which sides are human.
func ModeOf(whiteHuman, blackHuman bool) Mode {
	switch {
	case whiteHuman && blackHuman:
		return ModeHumanVsHuman
	case whiteHuman || blackHuman:
		return ModeHumanVsComputer
	default:
		return ModeComputerVsComputer
	}
}

// String returns the short key used in statistics.
func (m Mode) String() string {
	switch m {
	case ModeHumanVsHuman:
		return "hvh"
	case ModeHumanVsComputer:
		return "hvc"
	default:
		return "cvc"
	}
}

// UserPreferences stores user settings
type UserPreferences struct {
	Username   string    `json:"username"`
	Difficulty string    `json:"difficulty"`
	Depth      int       `json:"depth,omitempty"` // overrides Difficulty when > 0
	WhiteHuman bool      `json:"white_human"`
	BlackHuman bool      `json:"black_human"`
	Seed       uint64    `json:"seed,omitempty"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences. The username is a
// random pet name until the player picks one.
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:   petname.Generate(2, "-"),
		Difficulty: "medium",
		WhiteHuman: true,
		BlackHuman: false,
		LastPlayed: time.Now(),
	}
}

// Mode returns the mode the preferences select.
func (p *UserPreferences) Mode() Mode {
	return ModeOf(p.WhiteHuman, p.BlackHuman)
}

// GameStats stores game statistics. Only outcomes are kept, never moves.
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	WhiteWins      int            `json:"white_wins"`
	BlackWins      int            `json:"black_wins"`
	Draws          int            `json:"draws"`
	Unfinished     int            `json:"unfinished"`
	Wins           int            `json:"wins"`   // human wins against the computer
	Losses         int            `json:"losses"` // human losses against the computer
	GamesByMode    map[string]int `json:"games_by_mode"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalPlies     int            `json:"total_plies"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		GamesByMode: make(map[string]int),
		WinsByDiff:  make(map[string]int),
	}
}

// GameResult represents the result of a finished or abandoned game
type GameResult struct {
	Result     string // PGN result token: "1-0", "0-1", "1/2-1/2" or "*"
	Mode       Mode
	HumanWhite bool // which side the human had, for ModeHumanVsComputer
	Difficulty string
	Plies      int
	Duration   time.Duration
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.get(keyStats, stats)
	// Older records may lack the maps.
	if stats.GamesByMode == nil {
		stats.GamesByMode = make(map[string]int)
	}
	if stats.WinsByDiff == nil {
		stats.WinsByDiff = make(map[string]int)
	}
	return stats, err
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v. A missing key leaves v untouched.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, v); err != nil {
				return fmt.Errorf("storage: decode %s: %w", key, err)
			}
			return nil
		})
	})
}

// RecordGame records a game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}
	stats.apply(result)
	return s.SaveStats(stats)
}

func (s *GameStats) apply(result GameResult) {
	s.GamesPlayed++
	s.GamesByMode[result.Mode.String()]++
	s.TotalPlies += result.Plies
	s.TotalPlayTime += result.Duration

	switch result.Result {
	case "1-0":
		s.WhiteWins++
	case "0-1":
		s.BlackWins++
	case "1/2-1/2":
		s.Draws++
	default:
		s.Unfinished++
	}

	if result.Mode != ModeHumanVsComputer {
		return
	}
	won := (result.Result == "1-0" && result.HumanWhite) || (result.Result == "0-1" && !result.HumanWhite)
	lost := (result.Result == "0-1" && result.HumanWhite) || (result.Result == "1-0" && !result.HumanWhite)
	switch {
	case won:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStrk {
			s.LongestWinStrk = s.CurrentStreak
		}
		s.WinsByDiff[result.Difficulty]++
	case lost:
		s.Losses++
		s.CurrentStreak = 0
	default:
		s.CurrentStreak = 0
	}
}

// GetWinRate returns the human win rate against the computer as a
// percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	decided := s.Wins + s.Losses
	if decided == 0 {
		return 0
	}
	return float64(s.Wins) / float64(decided) * 100
}
