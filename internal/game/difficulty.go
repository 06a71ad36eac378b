// internal/game/difficulty.go
//
// Difficulty profiles for the cup game.
// A profile is pure configuration: how many cups are on the table, the time
// budget for timed play, and the scoring weight of a win. Profiles come from
// a fixed closed table and are never constructed elsewhere.

package game

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty names the closed set of difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Profile is the immutable configuration for one difficulty level.
type Profile struct {
	Name      Difficulty
	CupCount  int           // number of cups on the table, always >= 2
	CupLabels []string      // presentation names, len == CupCount
	TimeLimit time.Duration // budget for timed mode
	WinWeight float64       // scoring weight of a single win
}

var profiles = map[Difficulty]Profile{
	DifficultyEasy: {
		Name:      DifficultyEasy,
		CupCount:  3,
		CupLabels: []string{"left", "middle", "right"},
		TimeLimit: 60 * time.Second,
		WinWeight: 1.0,
	},
	DifficultyMedium: {
		Name:      DifficultyMedium,
		CupCount:  4,
		CupLabels: []string{"left", "middle-left", "middle-right", "right"},
		TimeLimit: 45 * time.Second,
		WinWeight: 1.5,
	},
	DifficultyHard: {
		Name:      DifficultyHard,
		CupCount:  6,
		CupLabels: []string{"far-left", "left", "middle-left", "middle-right", "right", "far-right"},
		TimeLimit: 30 * time.Second,
		WinWeight: 2.0,
	},
}

// LookupProfile resolves a difficulty name (case-insensitive) to its profile.
// Unknown names fail with ErrUnknownDifficulty.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[Difficulty(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
	}
	return p, nil
}

// Difficulties returns the configured difficulty levels, easiest first.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}
