package game

import "errors"

// Error kinds surfaced across the core boundary. Callers classify with
// errors.Is; wrapped messages carry the offending value or current state.
var (
	// ErrInvalidGuess means the guessed position is outside the cup range.
	// Recoverable by the caller (re-prompt); never fatal.
	ErrInvalidGuess = errors.New("invalid guess")

	// ErrInvalidSessionState means an operation was invoked in a state that
	// forbids it (e.g. Play before Start). Indicates a caller bug.
	ErrInvalidSessionState = errors.New("invalid session state")

	// ErrUnknownDifficulty means the requested difficulty name is not in the
	// configured table.
	ErrUnknownDifficulty = errors.New("unknown difficulty")

	// ErrUnknownMode means the requested game mode name is not recognized.
	ErrUnknownMode = errors.New("unknown game mode")
)
