package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	oldState := map[string]any{"number": "PUR-2026-00001", "fixed": false, "notes": "x"}
	newState := map[string]any{"number": "PUR-2026-00001", "fixed": true, "party": "p2"}

	changes := Diff(oldState, newState)

	assert.Len(t, changes, 3)
	assert.Equal(t, map[string]any{"old": false, "new": true}, changes["fixed"])
	assert.Equal(t, map[string]any{"old": nil, "new": "p2"}, changes["party"])
	assert.Equal(t, map[string]any{"old": "x", "new": nil}, changes["notes"])
}

func TestSnapshot(t *testing.T) {
	snap, err := Snapshot(struct {
		Number string `json:"number"`
		Pieces int    `json:"pieces"`
	}{"SAL-2026-00003", 4})
	require.NoError(t, err)

	assert.Equal(t, "SAL-2026-00003", snap["number"])
	assert.Equal(t, float64(4), snap["pieces"])
}
