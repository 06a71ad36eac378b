package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cupgame/internal/game"
)

func newSQLiteForTest(t *testing.T) Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A pooled second connection would see a different empty :memory: db.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	st, err := NewSQLite(db)
	require.NoError(t, err)
	return st
}

func testRecord(id string, ts time.Time, diff game.Difficulty, mode game.Mode) game.Record {
	return game.Record{
		ID:              id,
		PlayerID:        "p1",
		Timestamp:       ts,
		Difficulty:      diff,
		Mode:            mode,
		Wins:            2,
		Losses:          3,
		DurationSeconds: 12.5,
	}
}

// Both implementations must satisfy the same contract.
func forEachStore(t *testing.T, fn func(t *testing.T, st Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteForTest(t)) })
}

func TestAppendQueryRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
		rec := testRecord("s1", ts, game.DifficultyEasy, game.ModeClassic)

		require.NoError(t, st.Append(ctx, rec))

		got, err := st.Query(ctx, Filter{Difficulty: game.DifficultyEasy, Mode: game.ModeClassic})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, rec, got[0])
	})
}

func TestQueryEmptyStore(t *testing.T) {
	forEachStore(t, func(t *testing.T, st Store) {
		got, err := st.Query(context.Background(), Filter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestQueryFiltersAndOrder(t *testing.T) {
	forEachStore(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

		recs := []game.Record{
			testRecord("s1", t0, game.DifficultyEasy, game.ModeClassic),
			testRecord("s2", t0.Add(2*time.Hour), game.DifficultyHard, game.ModeEndless),
			testRecord("s3", t0.Add(time.Hour), game.DifficultyEasy, game.ModeTimed),
		}
		// Append out of timestamp order on purpose.
		for _, r := range recs {
			require.NoError(t, st.Append(ctx, r))
		}

		t.Run("empty filter returns all ascending", func(t *testing.T) {
			got, err := st.Query(ctx, Filter{})
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, []string{"s1", "s3", "s2"}, []string{got[0].ID, got[1].ID, got[2].ID})
		})

		t.Run("by difficulty", func(t *testing.T) {
			got, err := st.Query(ctx, Filter{Difficulty: game.DifficultyEasy})
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "s1", got[0].ID)
			assert.Equal(t, "s3", got[1].ID)
		})

		t.Run("by mode", func(t *testing.T) {
			got, err := st.Query(ctx, Filter{Mode: game.ModeEndless})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "s2", got[0].ID)
		})

		t.Run("by time range", func(t *testing.T) {
			got, err := st.Query(ctx, Filter{From: t0.Add(time.Hour), To: t0.Add(2 * time.Hour)})
			require.NoError(t, err)
			require.Len(t, got, 1) // From inclusive, To exclusive
			assert.Equal(t, "s3", got[0].ID)
		})

		t.Run("combined", func(t *testing.T) {
			got, err := st.Query(ctx, Filter{Difficulty: game.DifficultyEasy, Mode: game.ModeClassic})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "s1", got[0].ID)
		})
	})
}

func TestSQLiteRejectsZeroRoundRecord(t *testing.T) {
	st := newSQLiteForTest(t)
	rec := testRecord("s1", time.Now().UTC().Truncate(time.Second), game.DifficultyEasy, game.ModeClassic)
	rec.Wins, rec.Losses = 0, 0

	err := st.Append(context.Background(), rec)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestSQLiteAppendAfterClose(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	st, err := NewSQLite(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	rec := testRecord("s1", time.Now().UTC().Truncate(time.Second), game.DifficultyEasy, game.ModeClassic)
	assert.ErrorIs(t, st.Append(context.Background(), rec), ErrPersistence)
}
