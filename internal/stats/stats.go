// internal/stats/stats.go
//
// Statistics engine: pure aggregation over session records. Performs no
// I/O; the store supplies the records.
//
// Win streak policy: per-round detail is not persisted, so streaks are
// approximated at session level. A session counts as won when it has more
// wins than losses, and LongestWinStreak is the longest consecutive run of
// won sessions in timestamp order.

package stats

import (
	"sort"

	"cupgame/internal/game"
)

// DifficultyStats is the per-difficulty breakdown of a report.
type DifficultyStats struct {
	WinRate  float64 `json:"winRate"`
	Sessions int     `json:"sessions"`
}

// Report holds the derived metrics for a set of session records.
type Report struct {
	TotalSessions          int                        `json:"totalSessions"`
	OverallWinRate         float64                    `json:"overallWinRate"`
	AverageDurationSeconds float64                    `json:"averageDurationSeconds"`
	PerDifficulty          map[string]DifficultyStats `json:"perDifficulty"`
	LongestWinStreak       int                        `json:"longestWinStreak"`
}

// Summarize computes a report from records. All rates are 0 when there are
// no recorded rounds; an empty input yields a zero report rather than a
// division-by-zero fault.
func Summarize(records []game.Record) Report {
	rep := Report{
		TotalSessions: len(records),
		PerDifficulty: make(map[string]DifficultyStats, len(game.Difficulties())),
	}
	if len(records) == 0 {
		return rep
	}

	ordered := make([]game.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	type tally struct{ wins, losses, sessions int }
	byDifficulty := make(map[string]*tally)

	var wins, losses int
	var totalDuration float64
	var streak, longest int
	for _, rec := range ordered {
		wins += rec.Wins
		losses += rec.Losses
		totalDuration += rec.DurationSeconds

		t := byDifficulty[string(rec.Difficulty)]
		if t == nil {
			t = &tally{}
			byDifficulty[string(rec.Difficulty)] = t
		}
		t.wins += rec.Wins
		t.losses += rec.Losses
		t.sessions++

		if rec.Wins > rec.Losses {
			streak++
			if streak > longest {
				longest = streak
			}
		} else {
			streak = 0
		}
	}

	rep.OverallWinRate = winRate(wins, losses)
	rep.AverageDurationSeconds = totalDuration / float64(len(ordered))
	rep.LongestWinStreak = longest
	for name, t := range byDifficulty {
		rep.PerDifficulty[name] = DifficultyStats{
			WinRate:  winRate(t.wins, t.losses),
			Sessions: t.sessions,
		}
	}
	return rep
}

// winRate is wins/(wins+losses), defined as 0 for zero rounds.
func winRate(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}
