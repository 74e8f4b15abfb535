package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aday/internal/model"
)

func mapEvents() []model.EventItem {
	return []model.EventItem{
		{ID: "a", Latitude: 48.850, Longitude: 2.350},
		{ID: "b", Latitude: 48.852, Longitude: 2.352},
		{ID: "c", Latitude: 48.854, Longitude: 2.354},
	}
}

func TestReconcileCreatesUpdatesRemoves(t *testing.T) {
	m := NewMapModel()
	events := mapEvents()

	m.Reconcile(events, "b")
	assert.Equal(t, 3, m.MarkerCount())
	require.NotNil(t, m.Marker("b"))
	assert.True(t, m.Marker("b").active)
	assert.False(t, m.Marker("a").active)

	// Existing markers update in place rather than being recreated.
	before := m.Marker("a")
	events[0].Latitude = 48.860
	m.Reconcile(events, "a")
	assert.Same(t, before, m.Marker("a"))
	assert.InDelta(t, 48.860, m.Marker("a").lat, 1e-9)
	assert.True(t, m.Marker("a").active)
	assert.False(t, m.Marker("b").active)

	// Stale markers disappear.
	m.Reconcile(events[:1], "a")
	assert.Equal(t, 1, m.MarkerCount())
	assert.Nil(t, m.Marker("b"))
	assert.Nil(t, m.Marker("c"))

	m.Reconcile(nil, "")
	assert.Equal(t, 0, m.MarkerCount())
}

func TestFlyToAnimatesAndSettles(t *testing.T) {
	m := NewMapModel()
	m.CenterOn(48.8566, 2.3522)

	started := m.FlyTo(48.850, 2.350, false)
	require.True(t, started)
	require.True(t, m.Flying())

	frames := 0
	for m.Advance() {
		frames++
	}
	assert.Equal(t, flightSteps-1, frames)
	assert.False(t, m.Flying())
	assert.InDelta(t, 48.850, m.centerLat, 1e-9)
	assert.InDelta(t, 2.350, m.centerLon, 1e-9)
	assert.InDelta(t, zoomClose, m.zoom, 1e-9)
}

func TestFlyToSameTargetIsNoOp(t *testing.T) {
	m := NewMapModel()
	m.CenterOn(48.8566, 2.3522)

	require.True(t, m.FlyTo(48.850, 2.350, false))
	assert.False(t, m.FlyTo(48.850, 2.350, false), "in-flight target repeat must not restart")

	for m.Advance() {
	}
	assert.False(t, m.FlyTo(48.850, 2.350, false), "already centered at close zoom")

	assert.True(t, m.FlyTo(48.860, 2.360, false), "a new target flies again")
}

func TestFlyToNarrowShiftsTarget(t *testing.T) {
	m := NewMapModel()
	m.CenterOn(48.8566, 2.3522)

	require.True(t, m.FlyTo(48.850, 2.350, true))
	for m.Advance() {
	}
	assert.InDelta(t, 48.850+narrowLatOffset, m.centerLat, 1e-9)
}

func TestCenterOnCancelsFlight(t *testing.T) {
	m := NewMapModel()
	m.CenterOn(48.8566, 2.3522)
	require.True(t, m.FlyTo(48.850, 2.350, false))

	m.CenterOn(40.0, -3.0)
	assert.False(t, m.Flying())
	assert.InDelta(t, zoomStreet, m.zoom, 1e-9)
}

func TestViewShowsMarkers(t *testing.T) {
	m := NewMapModel()
	m.CenterOn(48.8566, 2.3522)
	m.SetUser(48.8566, 2.3522)
	m.Reconcile([]model.EventItem{
		{ID: "a", Latitude: 48.8566, Longitude: 2.3522},
		{ID: "b", Latitude: 48.8570, Longitude: 2.3530},
	}, "b")

	out := m.View(60, 20, false)
	assert.Contains(t, out, "▼", "active marker rendered")
	assert.Contains(t, out, "48.8566, 2.3522")
}
