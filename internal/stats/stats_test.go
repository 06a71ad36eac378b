package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cupgame/internal/game"
)

func rec(ts time.Time, diff game.Difficulty, wins, losses int, dur float64) game.Record {
	return game.Record{
		ID:              "s-" + ts.Format("150405"),
		Timestamp:       ts,
		Difficulty:      diff,
		Mode:            game.ModeClassic,
		Wins:            wins,
		Losses:          losses,
		DurationSeconds: dur,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	rep := Summarize(nil)
	assert.Equal(t, 0, rep.TotalSessions)
	assert.Equal(t, 0.0, rep.OverallWinRate)
	assert.Equal(t, 0.0, rep.AverageDurationSeconds)
	assert.Equal(t, 0, rep.LongestWinStreak)
	assert.Empty(t, rep.PerDifficulty)
}

func TestSummarizeWinRateAndDuration(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	records := []game.Record{
		rec(t0, game.DifficultyEasy, 3, 2, 30),
		rec(t0.Add(time.Hour), game.DifficultyEasy, 1, 4, 50),
	}

	rep := Summarize(records)
	assert.Equal(t, 2, rep.TotalSessions)
	assert.InDelta(t, 0.4, rep.OverallWinRate, 1e-9) // 4 wins of 10 rounds
	assert.InDelta(t, 40.0, rep.AverageDurationSeconds, 1e-9)
}

func TestSummarizePerDifficultyBreakdown(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	records := []game.Record{
		rec(t0, game.DifficultyEasy, 4, 1, 20),
		rec(t0.Add(time.Minute), game.DifficultyHard, 1, 3, 40),
		rec(t0.Add(2*time.Minute), game.DifficultyHard, 2, 2, 40),
	}

	rep := Summarize(records)
	assert.Len(t, rep.PerDifficulty, 2)

	easy := rep.PerDifficulty["easy"]
	assert.Equal(t, 1, easy.Sessions)
	assert.InDelta(t, 0.8, easy.WinRate, 1e-9)

	hard := rep.PerDifficulty["hard"]
	assert.Equal(t, 2, hard.Sessions)
	assert.InDelta(t, 3.0/8.0, hard.WinRate, 1e-9)
}

func TestSummarizeLongestWinStreak(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	at := func(i int) time.Time { return t0.Add(time.Duration(i) * time.Minute) }

	// Won sessions (wins > losses): W W L W W W L
	records := []game.Record{
		rec(at(0), game.DifficultyEasy, 3, 1, 10),
		rec(at(1), game.DifficultyEasy, 2, 1, 10),
		rec(at(2), game.DifficultyEasy, 1, 4, 10),
		rec(at(3), game.DifficultyEasy, 5, 0, 10),
		rec(at(4), game.DifficultyEasy, 2, 0, 10),
		rec(at(5), game.DifficultyEasy, 3, 2, 10),
		rec(at(6), game.DifficultyEasy, 2, 2, 10), // a draw is not a win
	}

	rep := Summarize(records)
	assert.Equal(t, 3, rep.LongestWinStreak)
}

func TestSummarizeOrdersByTimestamp(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	// Same streak sequence as above, supplied out of order; the engine must
	// order by timestamp before computing streaks.
	records := []game.Record{
		rec(t0.Add(2*time.Minute), game.DifficultyEasy, 1, 4, 10),
		rec(t0, game.DifficultyEasy, 3, 1, 10),
		rec(t0.Add(4*time.Minute), game.DifficultyEasy, 2, 0, 10),
		rec(t0.Add(time.Minute), game.DifficultyEasy, 2, 1, 10),
		rec(t0.Add(3*time.Minute), game.DifficultyEasy, 5, 0, 10),
	}

	rep := Summarize(records)
	assert.Equal(t, 2, rep.LongestWinStreak)
}
