package consultant

import (
	"testing"

	"ship-consultant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery(t *testing.T) {
	t.Run("no preferences yet falls back to a generic query", func(t *testing.T) {
		got := buildSearchQuery(store.Preferences{})
		assert.Equal(t, "versatile multi-role ship", got)
	})

	t.Run("known playstyles expand to templates", func(t *testing.T) {
		got := buildSearchQuery(store.Preferences{Playstyles: []string{"combat"}})
		assert.Equal(t, "fast combat ship for dogfighting and bounty hunting", got)
	})

	t.Run("unknown playstyle still produces a query", func(t *testing.T) {
		got := buildSearchQuery(store.Preferences{Playstyles: []string{"racing"}})
		assert.Equal(t, "racing ship", got)
	})
}

func TestBuildConstraints(t *testing.T) {
	sess := &store.Session{
		Preferences: store.Preferences{
			Playstyles:   []string{"trading"},
			BudgetMaxUSD: 200,
			CrewMax:      2,
			Manufacturer: "Drake",
		},
		Excluded: []string{"ship-a"},
	}

	c := buildConstraints(sess, []string{"ship-b", "ship-c"})

	assert.Equal(t, "Drake", c.Manufacturer)
	assert.Equal(t, []string{"freight"}, c.RoleKeywords)
	require.NotNil(t, c.PriceMaxUSD)
	assert.Equal(t, 200.0, *c.PriceMaxUSD)
	require.NotNil(t, c.CrewMax)
	assert.Equal(t, 2, *c.CrewMax)
	assert.Nil(t, c.PriceMinUSD)
	assert.Nil(t, c.CargoMinSCU)

	// rejected ships and current fleet are both filtered out of retrieval
	assert.ElementsMatch(t, []string{"ship-a", "ship-b", "ship-c"}, c.ExcludeIDs)
}

func TestKeywordExtract(t *testing.T) {
	t.Run("interest words accumulate playstyles", func(t *testing.T) {
		sess := &store.Session{}
		keywordExtract(sess, "I mostly do bounty hunting and some cargo hauling")
		assert.ElementsMatch(t, []string{"combat", "trading"}, sess.Preferences.Playstyles)
		assert.Equal(t, 20, sess.Preferences.CargoMinSCU)
	})

	t.Run("budget phrases parse a ceiling", func(t *testing.T) {
		sess := &store.Session{}
		keywordExtract(sess, "something under $150 please")
		assert.Equal(t, 150.0, sess.Preferences.BudgetMaxUSD)
	})

	t.Run("solo play caps crew at one", func(t *testing.T) {
		sess := &store.Session{}
		keywordExtract(sess, "I fly solo most of the time")
		assert.Equal(t, 1, sess.Preferences.CrewMax)
	})

	t.Run("asking for suggestions flags intent", func(t *testing.T) {
		sess := &store.Session{}
		res := keywordExtract(sess, "just show me something good")
		assert.True(t, res.WantsRecommendations)
	})

	t.Run("repeated mentions do not duplicate playstyles", func(t *testing.T) {
		sess := &store.Session{Preferences: store.Preferences{Playstyles: []string{"combat"}}}
		keywordExtract(sess, "combat combat combat")
		assert.Equal(t, []string{"combat"}, sess.Preferences.Playstyles)
	})
}
