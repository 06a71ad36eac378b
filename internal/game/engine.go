// internal/game/engine.go
//
// Round engine for the cup game.
// Responsibilities:
//   - Validate a guessed cup position against the difficulty profile.
//   - Hide the prize under a uniformly random cup, independent per round.
//   - Produce an immutable Outcome (win/loss, target, timing).
//
// The engine holds no per-session state and is safe to share across
// sessions. Randomness comes from crypto/rand; tests substitute the
// randInt field for deterministic targets.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"cupgame/internal/prizes"
)

// Outcome is the result of a single round. Immutable once produced.
type Outcome struct {
	Guess   int           `json:"guess"`
	Target  int           `json:"target"`
	Win     bool          `json:"win"`
	Prize   string        `json:"prize,omitempty"` // flavor text, wins only
	Elapsed time.Duration `json:"-"`
}

// ElapsedMs reports the round duration in whole milliseconds.
func (o Outcome) ElapsedMs() int64 { return o.Elapsed.Milliseconds() }

// Engine resolves rounds. The zero value is not usable; construct with
// NewEngine.
type Engine struct {
	randInt func(n int) int // uniform draw from [0, n)
	prize   func() string
}

// NewEngine constructs an engine backed by crypto/rand.
func NewEngine() *Engine {
	return &Engine{randInt: cryptoRandInt, prize: prizes.Random}
}

// Play validates guess against p and resolves one round. The guess must be
// a cup position in [0, p.CupCount); anything else fails with
// ErrInvalidGuess and produces no outcome. elapsed is the wall-clock time
// the caller measured between guess submission and resolution; it is
// stamped onto the outcome unchanged.
func (e *Engine) Play(p Profile, guess int, elapsed time.Duration) (Outcome, error) {
	if guess < 0 || guess >= p.CupCount {
		return Outcome{}, fmt.Errorf("%w: position %d not in [0, %d)", ErrInvalidGuess, guess, p.CupCount)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	target := e.randInt(p.CupCount)
	out := Outcome{
		Guess:   guess,
		Target:  target,
		Win:     guess == target,
		Elapsed: elapsed,
	}
	if out.Win {
		out.Prize = e.prize()
	}
	return out, nil
}

// cryptoRandInt draws a uniform integer from [0, n) using crypto/rand.
func cryptoRandInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand read failure is effectively unreachable
		return 0
	}
	return int(v.Int64())
}

// randomID returns a compact 16-hex-char identifier for sessions.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
