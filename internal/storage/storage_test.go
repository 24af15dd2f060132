package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username == "" {
			t.Error("expected a generated username")
		}
		if prefs.Difficulty != "medium" {
			t.Errorf("expected medium difficulty, got %s", prefs.Difficulty)
		}
		if prefs.Mode() != ModeHumanVsComputer {
			t.Errorf("expected human vs computer, got %s", prefs.Mode())
		}
		t.Logf("Default username: %s", prefs.Username)
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{GamesPlayed: 10, Wins: 3, Losses: 3, Draws: 4}
		if rate := stats.GetWinRate(); rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestModeOf(t *testing.T) {
	tests := []struct {
		white, black bool
		want         Mode
	}{
		{true, true, ModeHumanVsHuman},
		{true, false, ModeHumanVsComputer},
		{false, true, ModeHumanVsComputer},
		{false, false, ModeComputerVsComputer},
	}
	for _, tc := range tests {
		if got := ModeOf(tc.white, tc.black); got != tc.want {
			t.Errorf("ModeOf(%v, %v) = %s, want %s", tc.white, tc.black, got, tc.want)
		}
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTemp(t)

	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v; want true", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ = s.IsFirstLaunch(); first {
		t.Error("IsFirstLaunch still true after MarkFirstLaunchComplete")
	}

	prefs := &UserPreferences{
		Username:   "tester",
		Difficulty: "hard",
		Depth:      4,
		WhiteHuman: false,
		BlackHuman: true,
		Seed:       99,
	}
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "tester" || got.Difficulty != "hard" || got.Depth != 4 ||
		got.WhiteHuman || !got.BlackHuman || got.Seed != 99 {
		t.Errorf("loaded %+v, saved %+v", got, prefs)
	}
	if got.LastPlayed.IsZero() {
		t.Error("LastPlayed not set on save")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTemp(t)

	games := []GameResult{
		{Result: "1-0", Mode: ModeHumanVsComputer, HumanWhite: true, Difficulty: "easy", Plies: 40, Duration: time.Minute},
		{Result: "1-0", Mode: ModeHumanVsComputer, HumanWhite: true, Difficulty: "easy", Plies: 30},
		{Result: "1-0", Mode: ModeHumanVsComputer, HumanWhite: false, Difficulty: "hard", Plies: 22},
		{Result: "1/2-1/2", Mode: ModeComputerVsComputer, Plies: 80},
		{Result: "*", Mode: ModeHumanVsHuman, Plies: 3},
	}
	for _, g := range games {
		if err := s.RecordGame(g); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 5 || stats.WhiteWins != 3 || stats.Draws != 1 || stats.Unfinished != 1 {
		t.Errorf("unexpected totals %+v", stats)
	}
	if stats.Wins != 2 || stats.Losses != 1 {
		t.Errorf("wins/losses = %d/%d, want 2/1", stats.Wins, stats.Losses)
	}
	if stats.LongestWinStrk != 2 || stats.CurrentStreak != 0 {
		t.Errorf("streaks = %d/%d, want 2/0", stats.LongestWinStrk, stats.CurrentStreak)
	}
	if stats.WinsByDiff["easy"] != 2 || stats.GamesByMode["hvc"] != 3 {
		t.Errorf("unexpected breakdown %v %v", stats.WinsByDiff, stats.GamesByMode)
	}
	if stats.TotalPlies != 175 || stats.TotalPlayTime != time.Minute {
		t.Errorf("plies/time = %d/%v", stats.TotalPlies, stats.TotalPlayTime)
	}
}

func TestDataPaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvDataDir, filepath.Join(tmp, "home"))

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if want := filepath.Join(tmp, "home", "db"); dbDir != want {
		t.Errorf("GetDatabaseDir = %s, want %s", dbDir, want)
	}
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Database directory was not created: %s", dbDir)
	}

	s, err := NewStorage()
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
}
