package service

import (
	"strings"
	"testing"

	"ship-consultant-be/internal/entity"
	"ship-consultant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStateRoundTrip(t *testing.T) {
	sess := &store.Session{
		ID:    "conv-1",
		Phase: store.PhaseRecommending,
		Preferences: store.Preferences{
			Playstyles:   []string{"combat", "trading"},
			BudgetMaxUSD: 200,
			CrewMax:      2,
		},
		Excluded: []string{"ship-a", "ship-b"},
		Pending: &store.PendingCandidate{
			ShipID:   "ship-c",
			ShipName: "Cutlass Black",
			Score:    0.82,
		},
		LastQuery: "cargo hauler for trading",
	}

	state := sessionStateToMap(sess)
	require.NotNil(t, state)

	restored := sessionStateFromMap(state)
	assert.Equal(t, sess.ID, restored.ID)
	assert.Equal(t, sess.Phase, restored.Phase)
	assert.Equal(t, sess.Preferences, restored.Preferences)
	assert.Equal(t, sess.Excluded, restored.Excluded)
	require.NotNil(t, restored.Pending)
	assert.Equal(t, "Cutlass Black", restored.Pending.ShipName)
	assert.Equal(t, sess.LastQuery, restored.LastQuery)
}

func TestSessionStateFromMapToleratesNil(t *testing.T) {
	restored := sessionStateFromMap(nil)
	require.NotNil(t, restored)
	assert.Empty(t, restored.Phase)
	assert.Nil(t, restored.Pending)
}

func TestBuildShipDocument(t *testing.T) {
	ship := &entity.Ship{
		Id:            uuid.New(),
		Name:          "Cutlass Black",
		Manufacturer:  "Drake",
		Focus:         "Multi-role",
		Type:          "Medium Fighter",
		CargoCapacity: 46,
		CrewMin:       1,
		CrewMax:       3,
		PriceUSD:      110,
		MaxSpeed:      1113,
		Description:   "The workhorse of the verse.",
	}

	doc := buildShipDocument(ship)

	assert.True(t, strings.HasPrefix(doc, "Ship: Cutlass Black\n"))
	assert.Contains(t, doc, "Manufacturer: Drake\n")
	assert.Contains(t, doc, "Role: Multi-role\n")
	assert.Contains(t, doc, "Crew: 1-3\n")
	assert.Contains(t, doc, "Cargo capacity: 46 SCU\n")
	assert.Contains(t, doc, "Top speed: 1113 m/s\n")
	assert.Contains(t, doc, "Price: $110 USD\n")
}

func TestBuildShipDocumentSkipsEmptyFields(t *testing.T) {
	ship := &entity.Ship{Id: uuid.New(), Name: "Mystery Hull", CrewMin: 1, CrewMax: 1}

	doc := buildShipDocument(ship)

	assert.NotContains(t, doc, "Manufacturer:")
	assert.NotContains(t, doc, "Top speed:")
	assert.NotContains(t, doc, "Price:")
	assert.NotContains(t, doc, "Description:")
}
