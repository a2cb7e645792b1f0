package tournament_test

import (
	"testing"

	"github.com/mauv0809/duel-keeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPlayers(t *testing.T) {
	players := []tournament.Player{
		{ID: 1, DisplayName: "Alice Smith"},
		{ID: 2, DisplayName: "alice"},
		{ID: 3, DisplayName: "Bob"},
		{ID: 4, DisplayName: "Alicia"},
	}

	t.Run("exact match ranks first", func(t *testing.T) {
		hits := tournament.SearchPlayers(players, "Alice", 0)
		require.Len(t, hits, 2)
		assert.Equal(t, int64(2), hits[0].Player.ID)
		assert.Equal(t, 1.0, hits[0].Score)
		assert.Contains(t, hits[0].Reasons, "Exact name match")
		assert.Equal(t, int64(1), hits[1].Player.ID)
		assert.Contains(t, hits[1].Reasons, "Name contains query")
	})

	t.Run("punctuation and case are ignored", func(t *testing.T) {
		hits := tournament.SearchPlayers(players, "  B.O.B!  ", 0)
		require.Len(t, hits, 1)
		assert.Equal(t, int64(3), hits[0].Player.ID)
	})

	t.Run("limit", func(t *testing.T) {
		hits := tournament.SearchPlayers(players, "alice", 1)
		require.Len(t, hits, 1)
		assert.Equal(t, int64(2), hits[0].Player.ID)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Empty(t, tournament.SearchPlayers(players, " !? ", 0))
	})

	t.Run("no similar names", func(t *testing.T) {
		assert.Empty(t, tournament.SearchPlayers(players, "zzzzzz", 0))
	})
}
