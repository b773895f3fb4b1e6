package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownId(t *testing.T) {
	def, ok := Get(FirstGoal)
	require.True(t, ok)
	assert.Equal(t, FirstGoal, def.ID)
	assert.NotEmpty(t, def.Title)
	assert.NotEmpty(t, def.Description)
	assert.NotEmpty(t, def.Icon)
}

func TestGet_UnknownId(t *testing.T) {
	_, ok := Get("no-such-id")
	assert.False(t, ok)
}

func TestAll_CoversEveryDefinition(t *testing.T) {
	defs := All()
	assert.Len(t, defs, Len())

	ids := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		assert.Equal(t, d, mustGet(t, d.ID))
		ids[d.ID] = struct{}{}
	}
	assert.Len(t, ids, len(defs), "ids must be unique")
}

func TestStreakAchievementsExist(t *testing.T) {
	for _, id := range []string{StreakWeek, StreakMonth, StreakQuarter, StreakHalfYear, StreakYear} {
		_, ok := Get(id)
		assert.True(t, ok, id)
	}
}

func TestDomainForIcon_Known(t *testing.T) {
	assert.Equal(t, "Health", DomainForIcon("💪"))
	assert.Equal(t, "Career", DomainForIcon("💼"))
	assert.Equal(t, "Finance", DomainForIcon("💰"))
}

func TestDomainForIcon_Unknown(t *testing.T) {
	assert.Empty(t, DomainForIcon("🦄"))
	assert.Empty(t, DomainForIcon(""))
}

func mustGet(t *testing.T, id string) Definition {
	t.Helper()
	def, ok := Get(id)
	require.True(t, ok)
	return def
}
