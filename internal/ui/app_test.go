package ui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aday/internal/model"
)

type stubResolver struct {
	loc model.GeoLocation
}

func (s stubResolver) Resolve(context.Context) model.GeoLocation { return s.loc }

type stubSource struct {
	events []model.EventItem
	err    error
}

func (s stubSource) Fetch(context.Context, model.GeoLocation) ([]model.EventItem, error) {
	return s.events, s.err
}

func testEvents(n int) []model.EventItem {
	items := make([]model.EventItem, n)
	for i := range items {
		items[i] = model.EventItem{
			ID:        fmt.Sprintf("evt_%d", i),
			Title:     fmt.Sprintf("Event %d", i),
			Latitude:  48.85 + float64(i)*0.002,
			Longitude: 2.35 + float64(i)*0.002,
			Rating:    4.0,
		}
	}
	return items
}

func newTestModel() Model {
	m := New(stubResolver{loc: model.GeoLocation{City: "Paris", Latitude: 48.8566, Longitude: 2.3522}},
		stubSource{}, "https://aday.today/")
	m.width = 120
	m.height = 40
	return m
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func loaded(t *testing.T, m Model, events []model.EventItem) Model {
	t.Helper()
	m, _ = apply(t, m, model.LocationResolvedMsg{Session: m.session, Location: model.GeoLocation{City: "Paris", Latitude: 48.8566, Longitude: 2.3522}})
	m, _ = apply(t, m, model.EventsLoadedMsg{Session: m.session, Events: events})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialLoadSelectsFirstEvent(t *testing.T) {
	m := loaded(t, newTestModel(), testEvents(3))

	assert.Equal(t, model.PhaseReady, m.phase)
	assert.Equal(t, "evt_0", m.selectedID)
	assert.False(t, m.userSelected)
	assert.Equal(t, 3, m.mapview.MarkerCount())
	assert.Equal(t, 0, m.cards.Cursor())
}

func TestDeadlineShowsSkeletonNotError(t *testing.T) {
	m := newTestModel()
	m, _ = apply(t, m, model.LocationResolvedMsg{Session: 0, Location: model.GeoLocation{City: "Paris"}})
	m, cmd := apply(t, m, model.SkeletonDeadlineMsg{Session: 0})

	assert.Equal(t, model.PhaseSkeleton, m.phase)
	assert.True(t, m.retryActive)
	assert.NotNil(t, cmd, "skeleton starts the retry loop")

	// The slow initial fetch eventually fails; the skeleton must hold.
	m, _ = apply(t, m, model.EventsFailedMsg{Session: 0, Err: errors.New("boom")})
	assert.Equal(t, model.PhaseSkeleton, m.phase)
}

func TestFailureBeforeDeadlineShowsError(t *testing.T) {
	m := newTestModel()
	m, _ = apply(t, m, model.EventsFailedMsg{Session: 0, Err: errors.New("boom")})

	assert.Equal(t, model.PhaseError, m.phase)
	assert.False(t, m.errTransient)
	assert.Equal(t, "boom", m.errorMessage)
}

func TestTransientFailureFlagged(t *testing.T) {
	m := newTestModel()
	m, _ = apply(t, m, model.EventsFailedMsg{Session: 0, Err: errors.New("the model is overloaded")})

	assert.Equal(t, model.PhaseError, m.phase)
	assert.True(t, m.errTransient)
}

func TestNoErrorRegressionOnceDataShown(t *testing.T) {
	m := loaded(t, newTestModel(), testEvents(2))

	m, _ = apply(t, m, model.EventsFailedMsg{Session: 0, Err: errors.New("boom")})
	assert.Equal(t, model.PhaseReady, m.phase)
}

func TestRetryTickCountsAttempts(t *testing.T) {
	m := newTestModel()
	m, _ = apply(t, m, model.LocationResolvedMsg{Session: 0, Location: model.GeoLocation{City: "Paris"}})
	m, _ = apply(t, m, model.SkeletonDeadlineMsg{Session: 0})

	for i := 1; i <= maxRetryAttempts; i++ {
		var cmd tea.Cmd
		m, cmd = apply(t, m, model.RetryTickMsg{Session: 0})
		assert.Equal(t, i, m.retryAttempts)
		assert.NotNil(t, cmd)
	}
	assert.False(t, m.retryActive, "retry loop stops after the last attempt")

	m, _ = apply(t, m, model.RetryTickMsg{Session: 0})
	assert.Equal(t, maxRetryAttempts, m.retryAttempts, "extra ticks are ignored")
}

func TestBackgroundLoadRevealsOneAtATime(t *testing.T) {
	m := newTestModel()
	m, _ = apply(t, m, model.LocationResolvedMsg{Session: 0, Location: model.GeoLocation{City: "Paris"}})
	m, _ = apply(t, m, model.SkeletonDeadlineMsg{Session: 0})

	events := testEvents(3)
	m, cmd := apply(t, m, model.EventsLoadedMsg{Session: 0, Background: true, Events: events})

	require.Equal(t, model.PhaseReady, m.phase)
	assert.False(t, m.retryActive)
	require.Len(t, m.events, 1, "first event lands immediately")
	assert.Len(t, m.pending, 2)
	assert.Empty(t, m.selectedID, "nothing auto-selected on the first insert")
	require.NotNil(t, cmd, "reveal tick scheduled")

	m, _ = apply(t, m, model.RevealTickMsg{Session: 0})
	require.Len(t, m.events, 2)
	assert.Equal(t, "evt_1", m.selectedID, "second insert auto-selects itself")
	assert.False(t, m.userSelected)

	m, _ = apply(t, m, model.RevealTickMsg{Session: 0})
	require.Len(t, m.events, 3)
	assert.Equal(t, "evt_1", m.selectedID, "later inserts leave selection alone")
	assert.Equal(t, 3, m.mapview.MarkerCount())
}

func TestUserSelectionPreemptsAutoSelect(t *testing.T) {
	m := newTestModel()
	m, _ = apply(t, m, model.LocationResolvedMsg{Session: 0, Location: model.GeoLocation{City: "Paris"}})
	m, _ = apply(t, m, model.SkeletonDeadlineMsg{Session: 0})
	m, _ = apply(t, m, model.EventsLoadedMsg{Session: 0, Background: true, Events: testEvents(3)})

	// User picks the only visible event before the second reveal fires.
	m, _ = apply(t, m, keyMsg("j"))
	require.True(t, m.userSelected)
	assert.Equal(t, "evt_0", m.selectedID)

	m, _ = apply(t, m, model.RevealTickMsg{Session: 0})
	assert.Equal(t, "evt_0", m.selectedID, "auto-select must not override the user")
}

func TestBackgroundReplaceClearsStaleSelection(t *testing.T) {
	m := loaded(t, newTestModel(), testEvents(2))
	require.Equal(t, "evt_0", m.selectedID)

	fresh := []model.EventItem{{ID: "other_1", Title: "Other", Rating: 4.0}}
	m, _ = apply(t, m, model.EventsLoadedMsg{Session: 0, Background: true, Events: fresh})

	assert.Empty(t, m.selectedID, "selection must never point at a missing event")
	require.Len(t, m.events, 1)
	assert.Equal(t, "other_1", m.events[0].ID)
}

func TestNavigationMovesSharedSelection(t *testing.T) {
	m := loaded(t, newTestModel(), testEvents(3))

	m, _ = apply(t, m, keyMsg("j"))
	assert.Equal(t, "evt_1", m.selectedID)
	assert.Equal(t, 1, m.cards.Cursor(), "card cursor follows the selection")
	assert.True(t, m.userSelected)

	m, _ = apply(t, m, keyMsg("k"))
	assert.Equal(t, "evt_0", m.selectedID)

	m, _ = apply(t, m, keyMsg("k"))
	assert.Equal(t, "evt_0", m.selectedID, "clamped at the first event")

	m, _ = apply(t, m, keyMsg("G"))
	assert.Equal(t, "evt_2", m.selectedID)

	m, _ = apply(t, m, keyMsg("g"))
	m, _ = apply(t, m, keyMsg("g"))
	assert.Equal(t, "evt_0", m.selectedID)
}

func TestReselectingSameEventIsIdempotent(t *testing.T) {
	m := loaded(t, newTestModel(), testEvents(2))
	m, _ = apply(t, m, keyMsg("j"))
	require.Equal(t, "evt_1", m.selectedID)

	// Drain the flight so a redundant reselect has nothing to restart.
	for m.mapview.Advance() {
	}

	var cmd tea.Cmd
	m, cmd = apply(t, m, keyMsg("j"))
	assert.Equal(t, "evt_1", m.selectedID)
	assert.Nil(t, cmd, "re-selecting the selected event schedules nothing")
	assert.False(t, m.mapview.Flying())
}

func TestEnterOpensStoryAndEscCloses(t *testing.T) {
	m := loaded(t, newTestModel(), testEvents(2))

	m, _ = apply(t, m, keyMsg("enter"))
	require.Equal(t, model.ScreenStory, m.screen)
	require.NotNil(t, m.story)
	assert.Equal(t, "evt_0", m.story.Event().ID)
	assert.Equal(t, 0, m.story.Slide())

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, model.ScreenBrowse, m.screen)
	assert.Nil(t, m.story)
}

func TestStoryAdvancePastLastSlideCloses(t *testing.T) {
	m := loaded(t, newTestModel(), testEvents(1))
	m, _ = apply(t, m, keyMsg("enter"))

	m, _ = apply(t, m, keyMsg("enter"))
	m, _ = apply(t, m, keyMsg("enter"))
	require.Equal(t, model.ScreenStory, m.screen)
	assert.Equal(t, 2, m.story.Slide())

	m, _ = apply(t, m, keyMsg("enter"))
	assert.Equal(t, model.ScreenBrowse, m.screen)
	assert.Nil(t, m.story)
}

func TestRetryKeyStartsFreshSession(t *testing.T) {
	m := newTestModel()
	m, _ = apply(t, m, model.EventsFailedMsg{Session: 0, Err: errors.New("boom")})
	require.Equal(t, model.PhaseError, m.phase)

	m, cmd := apply(t, m, keyMsg("r"))
	assert.Equal(t, 1, m.session)
	assert.Equal(t, model.PhaseLoading, m.phase)
	assert.Empty(t, m.errorMessage)
	assert.NotNil(t, cmd)

	// A message from the torn-down session must be dropped.
	m, _ = apply(t, m, model.EventsLoadedMsg{Session: 0, Events: testEvents(2)})
	assert.Equal(t, model.PhaseLoading, m.phase)
	assert.Empty(t, m.events)
}

func TestStaleTimerMessagesDropped(t *testing.T) {
	m := loaded(t, newTestModel(), testEvents(2))

	m, _ = apply(t, m, model.SkeletonDeadlineMsg{Session: 5})
	assert.Equal(t, model.PhaseReady, m.phase)

	m, _ = apply(t, m, model.EventsFailedMsg{Session: 5, Err: errors.New("boom")})
	assert.Equal(t, model.PhaseReady, m.phase)
}

func TestPaneSwitchKeepsSelection(t *testing.T) {
	m := loaded(t, newTestModel(), testEvents(3))
	m, _ = apply(t, m, keyMsg("j"))

	m, _ = apply(t, m, keyMsg("tab"))
	assert.Equal(t, model.PaneMap, m.focus)
	assert.Equal(t, "evt_1", m.selectedID)

	// Map-pane navigation acts like marker clicks: selection only.
	m, _ = apply(t, m, keyMsg("j"))
	assert.Equal(t, "evt_2", m.selectedID)

	m, _ = apply(t, m, keyMsg("tab"))
	assert.Equal(t, model.PaneCards, m.focus)
}

func TestEmptyEventsMsgIgnored(t *testing.T) {
	m := newTestModel()
	m, _ = apply(t, m, model.LocationResolvedMsg{Session: 0, Location: model.GeoLocation{City: "Paris"}})
	m, _ = apply(t, m, model.EventsLoadedMsg{Session: 0, Events: nil})

	assert.Equal(t, model.PhaseLoading, m.phase)
}

func TestDemoModeDetected(t *testing.T) {
	demo := []model.EventItem{{ID: model.FallbackIDPrefix + "1", Title: "Demo", Rating: 4.0}}
	m := loaded(t, newTestModel(), demo)
	assert.True(t, m.demoMode())

	m2 := loaded(t, newTestModel(), testEvents(1))
	assert.False(t, m2.demoMode())
}
