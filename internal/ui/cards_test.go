package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aday/internal/model"
)

func cardEvents() []model.EventItem {
	return []model.EventItem{
		{ID: "a", Title: "Morning Market", Highlights: []string{"FOOD"}, Rating: 4.3},
		{ID: "b", Title: "Gallery Opening", Highlights: []string{"CULTURE"}, Rating: 4.8},
		{ID: "c", Title: "Open Mic", Highlights: []string{"MUSIC"}, Rating: 4.0},
	}
}

func TestScrollToFollowsSelection(t *testing.T) {
	m := NewCardsModel()
	m.SetEvents(cardEvents())

	m.ScrollTo("c")
	assert.Equal(t, 2, m.Cursor())
	require.NotNil(t, m.SelectedEvent())
	assert.Equal(t, "c", m.SelectedEvent().ID)

	// Unknown ids leave the cursor where it is.
	m.ScrollTo("nope")
	assert.Equal(t, 2, m.Cursor())
}

func TestAppendPreservesOrder(t *testing.T) {
	m := NewCardsModel()
	for _, e := range cardEvents() {
		m.Append(e)
	}
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, "a", m.EventAt(0).ID)
	assert.Equal(t, "c", m.EventAt(2).ID)
	assert.Nil(t, m.EventAt(3))
	assert.Nil(t, m.EventAt(-1))
}

func TestSetEventsResetsOutOfRangeCursor(t *testing.T) {
	m := NewCardsModel()
	m.SetEvents(cardEvents())
	m.ScrollTo("c")

	m.SetEvents(cardEvents()[:1])
	assert.Equal(t, 0, m.Cursor())
}

func TestViewRendersCardsAndStatus(t *testing.T) {
	m := NewCardsModel()
	m.SetEvents(cardEvents())
	m.ScrollTo("b")

	out := m.View(40, 24)
	assert.Contains(t, out, "Gallery Opening")
	assert.Contains(t, out, "CULTURE")
	assert.Contains(t, out, "3 events")
	assert.Contains(t, out, "2/3")
}

func TestViewEmptyState(t *testing.T) {
	m := NewCardsModel()
	assert.Contains(t, m.View(40, 24), "No events yet.")
}

func TestViewSkeletonHasPlaceholders(t *testing.T) {
	m := NewCardsModel()
	out := m.ViewSkeleton(40, 24, false)
	assert.Contains(t, out, "░")
}
