// internal/game/mode.go
//
// Game modes and their termination rules.
// A mode decides when a session is over; nothing else about round play
// depends on it. Each mode is one predicate evaluated by the Session after
// every round, so adding a mode means adding one case here.

package game

import (
	"fmt"
	"strings"
	"time"
)

// Mode names the session termination rule.
type Mode string

const (
	// ModeClassic ends after a fixed number of rounds.
	ModeClassic Mode = "classic"
	// ModeTimed ends once elapsed time exceeds the profile's time limit.
	ModeTimed Mode = "timed"
	// ModeEndless ends on the first lost round.
	ModeEndless Mode = "endless"
)

// DefaultClassicRounds is the round count for classic sessions unless
// overridden via WithRounds.
const DefaultClassicRounds = 10

// LookupMode resolves a mode name (case-insensitive). Unknown names fail
// with ErrUnknownMode.
func LookupMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case ModeClassic:
		return ModeClassic, nil
	case ModeTimed:
		return ModeTimed, nil
	case ModeEndless:
		return ModeEndless, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Modes returns the supported game modes.
func Modes() []Mode {
	return []Mode{ModeClassic, ModeTimed, ModeEndless}
}

// done reports whether the session should complete after the round that
// produced out, evaluated at time now.
func (m Mode) done(s *Session, out Outcome, now time.Time) bool {
	switch m {
	case ModeClassic:
		return s.wins+s.losses >= s.roundLimit
	case ModeTimed:
		return s.profile.TimeLimit > 0 && now.Sub(s.startedAt) >= s.profile.TimeLimit
	case ModeEndless:
		return !out.Win
	}
	return false
}
