package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupProfile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantCups int
	}{
		{name: "easy", input: "easy", wantCups: 3},
		{name: "medium", input: "medium", wantCups: 4},
		{name: "hard", input: "hard", wantCups: 6},
		{name: "case and whitespace insensitive", input: "  Easy ", wantCups: 3},
		{name: "unknown", input: "nightmare", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LookupProfile(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDifficulty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCups, p.CupCount)
			assert.Len(t, p.CupLabels, p.CupCount)
			assert.Greater(t, p.WinWeight, 0.0)
		})
	}
}

func TestLookupMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := LookupMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := LookupMode("marathon")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
