// internal/game/session.go
//
// Session state machine for the cup game.
// A session is one continuous play sequence under a single (difficulty,
// mode) pair. It owns the running win/loss counts and elapsed time, and it
// moves forward only: NotStarted → InProgress → Completed.
//
// Termination is the mode's business (see mode.go); the session just asks
// its mode after every round. Completed always implies at least one round
// was played, so Summary never produces an empty record. A session with no
// rounds can only be abandoned, never completed.

package game

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Record is the persisted form of a completed session. Created once at
// session end and never mutated afterwards.
type Record struct {
	ID              string     `json:"id"`
	PlayerID        string     `json:"playerId,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
	Difficulty      Difficulty `json:"difficulty"`
	Mode            Mode       `json:"gameMode"`
	Wins            int        `json:"wins"`
	Losses          int        `json:"losses"`
	DurationSeconds float64    `json:"durationSeconds"`
}

// Rounds is the total number of rounds the session recorded.
func (r Record) Rounds() int { return r.Wins + r.Losses }

// Session orchestrates a sequence of rounds. Not safe for concurrent use;
// each logical player owns exactly one instance at a time.
type Session struct {
	id       string
	playerID string
	profile  Profile
	mode     Mode
	engine   *Engine

	roundLimit int // classic mode only

	status    Status
	wins      int
	losses    int
	startedAt time.Time
	endedAt   time.Time
	lastPlay  time.Time

	now func() time.Time
}

// Option customizes a session at construction time.
type Option func(*Session)

// WithRounds overrides the classic-mode round count.
func WithRounds(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.roundLimit = n
		}
	}
}

// WithPlayer stamps the owning player's identifier onto the session record.
func WithPlayer(id string) Option {
	return func(s *Session) { s.playerID = id }
}

// WithEngine substitutes the round engine, for tests or sharing.
func WithEngine(e *Engine) Option {
	return func(s *Session) { s.engine = e }
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession constructs a session in the NotStarted state.
func NewSession(profile Profile, mode Mode, opts ...Option) *Session {
	s := &Session{
		id:         randomID(),
		profile:    profile,
		mode:       mode,
		engine:     NewEngine(),
		roundLimit: DefaultClassicRounds,
		status:     StatusNotStarted,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start transitions NotStarted → InProgress and records the start time.
// Any later call fails with ErrInvalidSessionState.
func (s *Session) Start() error {
	if s.status != StatusNotStarted {
		return fmt.Errorf("%w: start called on a %s session", ErrInvalidSessionState, s.status)
	}
	s.startedAt = s.now()
	s.lastPlay = s.startedAt
	s.status = StatusInProgress
	return nil
}

// Play resolves one round for guess via the engine, updates the win/loss
// counts, and applies the mode's termination rule. The outcome is returned
// whether or not the session completed. Valid only while InProgress.
func (s *Session) Play(guess int) (Outcome, error) {
	if s.status != StatusInProgress {
		return Outcome{}, fmt.Errorf("%w: play called on a %s session", ErrInvalidSessionState, s.status)
	}
	now := s.now()
	out, err := s.engine.Play(s.profile, guess, now.Sub(s.lastPlay))
	if err != nil {
		return Outcome{}, err
	}
	s.lastPlay = now
	if out.Win {
		s.wins++
	} else {
		s.losses++
	}
	if s.mode.done(s, out, now) {
		s.finish(now)
	}
	return out, nil
}

// End completes the session on the player's request. Valid only while
// InProgress with at least one round played; a round-less session cannot
// complete (it is simply abandoned).
func (s *Session) End() error {
	if s.status != StatusInProgress {
		return fmt.Errorf("%w: end called on a %s session", ErrInvalidSessionState, s.status)
	}
	if s.wins+s.losses == 0 {
		return fmt.Errorf("%w: cannot end a session with no rounds played", ErrInvalidSessionState)
	}
	s.finish(s.now())
	return nil
}

// ExpireIfTimedOut completes a timed session whose budget ran out between
// requests. Reports whether the session is (now) completed. Sessions with
// no rounds stay InProgress so that a completed session always has a
// persistable record.
func (s *Session) ExpireIfTimedOut() bool {
	if s.mode != ModeTimed || s.status != StatusInProgress {
		return s.status == StatusCompleted
	}
	if s.wins+s.losses == 0 {
		return false
	}
	if now := s.now(); s.profile.TimeLimit > 0 && now.Sub(s.startedAt) >= s.profile.TimeLimit {
		// The game ended when the budget ran out, not when the client next
		// polled; clamp so the recorded duration never exceeds the limit.
		s.finish(s.startedAt.Add(s.profile.TimeLimit))
	}
	return s.status == StatusCompleted
}

func (s *Session) finish(now time.Time) {
	s.endedAt = now
	s.status = StatusCompleted
}

// Summary returns the persisted form of the session. Valid only once
// Completed; repeated calls return an equal value.
func (s *Session) Summary() (Record, error) {
	if s.status != StatusCompleted {
		return Record{}, fmt.Errorf("%w: summary requested on a %s session", ErrInvalidSessionState, s.status)
	}
	return Record{
		ID:              s.id,
		PlayerID:        s.playerID,
		// Second precision: records survive a round-trip through storage
		// backends that persist RFC3339 text.
		Timestamp:       s.endedAt.UTC().Truncate(time.Second),
		Difficulty:      s.profile.Name,
		Mode:            s.mode,
		Wins:            s.wins,
		Losses:          s.losses,
		DurationSeconds: s.endedAt.Sub(s.startedAt).Seconds(),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// PlayerID returns the owning player's identifier, if any.
func (s *Session) PlayerID() string { return s.playerID }

// Profile returns the session's difficulty profile.
func (s *Session) Profile() Profile { return s.profile }

// Mode returns the session's game mode.
func (s *Session) Mode() Mode { return s.mode }

// Status returns the current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Wins returns the running win count.
func (s *Session) Wins() int { return s.wins }

// Losses returns the running loss count.
func (s *Session) Losses() int { return s.losses }

// Rounds returns the number of rounds played so far.
func (s *Session) Rounds() int { return s.wins + s.losses }

// RoundLimit returns the classic-mode round budget.
func (s *Session) RoundLimit() int { return s.roundLimit }

// Score is the difficulty-weighted score: wins × the profile's win weight.
func (s *Session) Score() float64 { return float64(s.wins) * s.profile.WinWeight }

// TimeRemaining reports the unspent time budget for timed sessions, zero
// for other modes or once the budget is exhausted.
func (s *Session) TimeRemaining() time.Duration {
	if s.mode != ModeTimed || s.status != StatusInProgress || s.profile.TimeLimit <= 0 {
		return 0
	}
	rem := s.profile.TimeLimit - s.now().Sub(s.startedAt)
	if rem < 0 {
		return 0
	}
	return rem
}
