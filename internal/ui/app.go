package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"aday/internal/events"
	"aday/internal/model"
)

// Timing for the load state machine.
const (
	skeletonDeadline = 2 * time.Second
	retryInterval    = 3 * time.Second
	maxRetryAttempts = 5
	revealInterval   = 200 * time.Millisecond
	flightFrame      = 50 * time.Millisecond

	// Below this width the layout stacks: map on top, carousel at the bottom.
	narrowWidth = 100
)

type locationResolver interface {
	Resolve(ctx context.Context) model.GeoLocation
}

type eventFetcher interface {
	Fetch(ctx context.Context, loc model.GeoLocation) ([]model.EventItem, error)
}

// Model is the root Bubble Tea model. It owns the load lifecycle
// (loading -> skeleton -> ready/error), the background retry loop, the
// staggered reveal of fresh events, and the shared selection that keeps the
// card list and the map in sync.
type Model struct {
	resolver locationResolver
	source   eventFetcher
	planBase string

	screen model.Screen
	phase  model.Phase
	focus  model.Pane

	width  int
	height int

	// session guards timers and in-flight loads: messages stamped with an
	// older generation are dropped, so a torn-down session can never mutate
	// the state of the one that replaced it.
	session int

	location    model.GeoLocation
	hasLocation bool

	events       []model.EventItem
	selectedID   string
	userSelected bool

	errorMessage string
	errTransient bool

	// Staggered reveal queue and whether it is populating an empty list.
	pending     []model.EventItem
	firstReveal bool

	retryActive   bool
	retryAttempts int

	cards   *CardsModel
	mapview *MapModel
	story   *StoryModel

	spin spinner.Model

	keys        KeyMap
	storyKeys   StoryKeyMap
	gState      GState
	showingHelp bool
}

// New creates a new root model. The session begins loading immediately.
func New(resolver locationResolver, source eventFetcher, planBase string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return Model{
		resolver:  resolver,
		source:    source,
		planBase:  planBase,
		screen:    model.ScreenBrowse,
		phase:     model.PhaseLoading,
		focus:     model.PaneCards,
		cards:     NewCardsModel(),
		mapview:   NewMapModel(),
		spin:      sp,
		keys:      DefaultKeyMap(),
		storyKeys: DefaultStoryKeyMap(),
	}
}

// Init starts the session: resolve the location and arm the skeleton
// deadline. The deadline runs against the whole initial load, not just the
// fetch, so a slow geo lookup also ends up on the skeleton path.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		resolveLocationCmd(m.resolver, m.session),
		skeletonDeadlineCmd(m.session),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.phase == model.PhaseLoading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case model.LocationResolvedMsg:
		if msg.Session != m.session {
			return m, nil
		}
		m.location = msg.Location
		m.hasLocation = true
		m.mapview.CenterOn(msg.Location.Latitude, msg.Location.Longitude)
		m.mapview.SetUser(msg.Location.Latitude, msg.Location.Longitude)
		log.Info().
			Str("city", msg.Location.City).
			Str("country", msg.Location.CountryName).
			Msg("location resolved")
		return m, fetchEventsCmd(m.source, msg.Location, m.session, false)

	case model.SkeletonDeadlineMsg:
		// Loading took too long: show placeholders and start the background
		// retry loop. In-flight work is left alone; this is not an error.
		if msg.Session != m.session || m.phase != model.PhaseLoading {
			return m, nil
		}
		m.phase = model.PhaseSkeleton
		m.retryActive = true
		m.retryAttempts = 0
		log.Info().Msg("initial load past deadline, showing skeleton")
		return m, retryTickCmd(m.session)

	case model.RetryTickMsg:
		if msg.Session != m.session || !m.retryActive {
			return m, nil
		}
		if !m.hasLocation {
			// Location is a required input; keep ticking until it resolves.
			return m, retryTickCmd(m.session)
		}
		m.retryAttempts++
		log.Info().
			Int("attempt", m.retryAttempts).
			Int("max", maxRetryAttempts).
			Msg("background retry")
		cmds := []tea.Cmd{fetchEventsCmd(m.source, m.location, m.session, true)}
		if m.retryAttempts >= maxRetryAttempts {
			m.retryActive = false
		} else {
			cmds = append(cmds, retryTickCmd(m.session))
		}
		return m, tea.Batch(cmds...)

	case model.EventsLoadedMsg:
		if msg.Session != m.session || len(msg.Events) == 0 {
			return m, nil
		}
		return m.handleEventsLoaded(msg)

	case model.EventsFailedMsg:
		if msg.Session != m.session {
			return m, nil
		}
		return m.handleEventsFailed(msg)

	case model.RevealTickMsg:
		if msg.Session != m.session {
			return m, nil
		}
		cmd := m.revealNext()
		return m, cmd

	case model.FlightTickMsg:
		if msg.Session != m.session {
			return m, nil
		}
		if m.mapview.Advance() {
			return m, flightTickCmd(m.session)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleEventsLoaded(msg model.EventsLoadedMsg) (tea.Model, tea.Cmd) {
	// Any successful load retires the background loop.
	m.retryActive = false

	if msg.Background {
		// Replace whatever is on screen (usually demo data) wholesale, one
		// event at a time. Selection survives only if its event is in the
		// incoming list; it will point at the event again once inserted.
		m.firstReveal = len(m.events) == 0
		if !containsID(msg.Events, m.selectedID) {
			m.selectedID = ""
		}
		m.phase = model.PhaseReady
		m.pending = msg.Events
		m.events = nil
		m.cards.SetEvents(nil)
		m.mapview.Reconcile(nil, "")
		log.Info().Int("count", len(msg.Events)).Msg("background loading successful")
		cmd := m.revealNext()
		return m, cmd
	}

	m.phase = model.PhaseReady
	m.events = msg.Events
	m.cards.SetEvents(msg.Events)
	m.selectedID = ""
	cmd := m.selectEvent(msg.Events[0].ID, false)
	if msg.Events[0].IsFallback() {
		log.Info().Msg("showing demo events (API unavailable)")
	} else {
		log.Info().Int("count", len(msg.Events)).Msg("events loaded")
	}
	return m, cmd
}

func (m Model) handleEventsFailed(msg model.EventsFailedMsg) (tea.Model, tea.Cmd) {
	if msg.Background {
		log.Warn().Err(msg.Err).Int("attempt", m.retryAttempts).Msg("background retry failed")
		return m, nil
	}
	// The error state is reachable only with nothing on screen and no
	// skeleton covering for the load; once any data is shown the component
	// must not regress to Error. Both conditions read current state.
	if m.phase == model.PhaseSkeleton || len(m.events) > 0 {
		log.Warn().Err(msg.Err).Msg("initial load failed, keeping skeleton")
		return m, nil
	}
	m.phase = model.PhaseError
	m.errorMessage = msg.Err.Error()
	m.errTransient = events.IsTransient(msg.Err)
	log.Error().Err(msg.Err).Msg("initial load failed")
	return m, nil
}

// revealNext appends the next pending event to the visible list. The second
// insertion of a first population auto-selects itself, unless the user has
// already made a selection by the time it fires.
func (m *Model) revealNext() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	next := m.pending[0]
	m.pending = m.pending[1:]
	m.events = append(m.events, next)
	m.cards.Append(next)
	m.mapview.Reconcile(m.events, m.selectedID)

	var cmds []tea.Cmd
	if m.firstReveal && len(m.events) == 2 && !m.userSelected {
		if cmd := m.selectEvent(next.ID, false); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(m.pending) > 0 {
		cmds = append(cmds, revealTickCmd(m.session))
	}
	return tea.Batch(cmds...)
}

// selectEvent is the single write point for the shared selection. The card
// list scroll and the map fly-to are both reactions to the value changing;
// neither effect writes back, so a marker "click" cannot echo through the
// list back into another fly-to.
func (m *Model) selectEvent(id string, byUser bool) tea.Cmd {
	if byUser {
		m.userSelected = true
	}
	if id == m.selectedID {
		return nil
	}
	m.selectedID = id
	m.cards.ScrollTo(id)
	m.mapview.Reconcile(m.events, id)

	ev := m.cards.EventAt(m.cards.IndexOf(id))
	if ev == nil {
		return nil
	}
	wasFlying := m.mapview.Flying()
	if m.mapview.FlyTo(ev.Latitude, ev.Longitude, m.narrowLayout()) && !wasFlying {
		return flightTickCmd(m.session)
	}
	return nil
}

// restartSession tears the session down and starts over: a new generation
// orphans every pending timer and in-flight load of the old one.
func (m *Model) restartSession() tea.Cmd {
	m.session++
	m.screen = model.ScreenBrowse
	m.phase = model.PhaseLoading
	m.focus = model.PaneCards
	m.hasLocation = false
	m.events = nil
	m.pending = nil
	m.selectedID = ""
	m.userSelected = false
	m.errorMessage = ""
	m.errTransient = false
	m.retryActive = false
	m.retryAttempts = 0
	m.firstReveal = false
	m.story = nil
	m.cards = NewCardsModel()
	m.mapview = NewMapModel()
	log.Info().Int("session", m.session).Msg("session restart")
	return tea.Batch(
		m.spin.Tick,
		resolveLocationCmd(m.resolver, m.session),
		skeletonDeadlineCmd(m.session),
	)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.screen == model.ScreenStory && m.story != nil {
		return m.handleStoryKey(msg)
	}

	if m.showingHelp {
		if msg.String() == "esc" || msg.String() == "?" {
			m.showingHelp = false
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.showingHelp = true
		return m, nil
	}

	if m.phase == model.PhaseError {
		switch {
		case key.Matches(msg, m.keys.Retry):
			cmd := m.restartSession()
			return m, cmd
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// "gg" jumps to the first event.
	if msg.String() == "g" {
		if m.gState == GStateFirstG {
			m.gState = GStateIdle
			return m.selectByIndex(0)
		}
		m.gState = GStateFirstG
		return m, nil
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == model.PaneCards {
			m.focus = model.PaneMap
		} else {
			m.focus = model.PaneCards
		}
		return m, nil

	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Next):
		return m.selectByIndex(m.selectedIndex() + 1)

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Prev):
		return m.selectByIndex(m.selectedIndex() - 1)

	case key.Matches(msg, m.keys.Bottom):
		return m.selectByIndex(m.cards.Len() - 1)

	case key.Matches(msg, m.keys.Open):
		if m.focus == model.PaneMap {
			// Map-pane confirm mirrors a marker click: selection only.
			return m, nil
		}
		if ev := m.cards.SelectedEvent(); ev != nil {
			m.story = NewStoryModel(*ev, m.planBase)
			m.screen = model.ScreenStory
			if !m.narrowLayout() {
				// Desktop cards set the selection too; the narrow carousel
				// opens the story without touching map sync.
				cmd := m.selectEvent(ev.ID, true)
				return m, cmd
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleStoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.storyKeys.Close):
		m.story = nil
		m.screen = model.ScreenBrowse
		return m, nil
	case key.Matches(msg, m.storyKeys.Back):
		m.story.Back()
		return m, nil
	case key.Matches(msg, m.storyKeys.Advance):
		if !m.story.Advance() {
			m.story = nil
			m.screen = model.ScreenBrowse
		}
		return m, nil
	}
	return m, nil
}

func (m Model) selectByIndex(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 {
		idx = 0
	}
	if idx >= m.cards.Len() {
		idx = m.cards.Len() - 1
	}
	ev := m.cards.EventAt(idx)
	if ev == nil {
		return m, nil
	}
	cmd := m.selectEvent(ev.ID, true)
	return m, cmd
}

func (m Model) selectedIndex() int {
	if idx := m.cards.IndexOf(m.selectedID); idx >= 0 {
		return idx
	}
	return 0
}

func (m Model) narrowLayout() bool {
	return m.width > 0 && m.width < narrowWidth
}

func (m Model) demoMode() bool {
	return len(m.events) > 0 && m.events[0].IsFallback()
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.screen == model.ScreenStory && m.story != nil {
		return m.story.View(m.width, m.height)
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	switch m.phase {
	case model.PhaseInitial, model.PhaseLoading:
		return m.renderSplash()
	case model.PhaseError:
		return m.renderError()
	}

	return m.renderBrowse()
}

func (m Model) renderSplash() string {
	brand := BrandStyle.Render("A DAY\nTODAY")
	line := m.spin.View() + " " + HelpDescStyle.Render("finding what's on near you")
	content := lipgloss.JoinVertical(lipgloss.Center, brand, "", line)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderError() string {
	var title, body, hint string
	if m.errTransient {
		title = "SERVICE BUSY"
		body = "Our AI service is experiencing high demand right now.\nWe'll show you demo events while we retry in the background."
		hint = "press r to try again  ·  q to quit"
	} else {
		title = "OOPS"
		body = m.errorMessage
		if body == "" {
			body = "Could not load events."
		}
		hint = "press r to retry  ·  q to quit"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		BrandStyle.Render(title),
		"",
		NormalRowStyle.Render(body),
		"",
		HelpDescStyle.Render(hint),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderBrowse() string {
	header := m.renderHeader()
	footer := RenderHelp(m.focus, m.width)
	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 4 {
		contentHeight = 4
	}

	skeleton := m.phase == model.PhaseSkeleton && len(m.events) == 0

	var content string
	if m.narrowLayout() {
		carouselHeight := cardHeight
		mapHeight := contentHeight - carouselHeight
		mapPane := m.mapview.View(m.width, mapHeight, m.focus == model.PaneMap)
		var strip string
		if skeleton {
			strip = m.cards.ViewSkeleton(m.width, carouselHeight, true)
		} else {
			strip = m.cards.ViewCarousel(m.width)
		}
		content = lipgloss.JoinVertical(lipgloss.Left, mapPane, strip)
	} else {
		sidebarWidth := m.width * 2 / 5
		if sidebarWidth < 36 {
			sidebarWidth = 36
		}
		if sidebarWidth > 56 {
			sidebarWidth = 56
		}
		var sidebar string
		if skeleton {
			sidebar = m.cards.ViewSkeleton(sidebarWidth, contentHeight, false)
		} else {
			sidebar = m.cards.View(sidebarWidth, contentHeight)
		}
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Height(contentHeight).Render(sidebar)
		mapPane := m.mapview.View(m.width-sidebarWidth, contentHeight, m.focus == model.PaneMap)
		content = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mapPane)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) renderHeader() string {
	city := m.location.City
	if !m.hasLocation {
		city = "…"
	}
	left := "  " + HeaderStyle.Render("A DAY TODAY") +
		KickerStyle.Render(" HAPPENING NOW IN ") +
		CityStyle.Render(strings.ToUpper(city))

	right := HelpDescStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	bar := TitleStyle.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)

	if m.phase == model.PhaseSkeleton && len(m.events) == 0 {
		status := StatusBarStyle.Width(m.width).Render(
			fmt.Sprintf("loading events…  retry %d/%d", m.retryAttempts, maxRetryAttempts))
		return lipgloss.JoinVertical(lipgloss.Left, bar, status)
	}
	if m.demoMode() {
		banner := InfoStyle.Width(m.width).Render("Showing demo events, live data unavailable")
		return lipgloss.JoinVertical(lipgloss.Left, bar, banner)
	}
	return bar
}

// Commands

func resolveLocationCmd(r locationResolver, session int) tea.Cmd {
	return func() tea.Msg {
		return model.LocationResolvedMsg{
			Session:  session,
			Location: r.Resolve(context.Background()),
		}
	}
}

func fetchEventsCmd(s eventFetcher, loc model.GeoLocation, session int, background bool) tea.Cmd {
	return func() tea.Msg {
		evts, err := s.Fetch(context.Background(), loc)
		if err == nil && len(evts) == 0 {
			err = events.ErrEmpty
		}
		if err != nil {
			return model.EventsFailedMsg{Session: session, Background: background, Err: err}
		}
		return model.EventsLoadedMsg{Session: session, Background: background, Events: evts}
	}
}

func skeletonDeadlineCmd(session int) tea.Cmd {
	return tea.Tick(skeletonDeadline, func(time.Time) tea.Msg {
		return model.SkeletonDeadlineMsg{Session: session}
	})
}

func retryTickCmd(session int) tea.Cmd {
	return tea.Tick(retryInterval, func(time.Time) tea.Msg {
		return model.RetryTickMsg{Session: session}
	})
}

func revealTickCmd(session int) tea.Cmd {
	return tea.Tick(revealInterval, func(time.Time) tea.Msg {
		return model.RevealTickMsg{Session: session}
	})
}

func flightTickCmd(session int) tea.Cmd {
	return tea.Tick(flightFrame, func(time.Time) tea.Msg {
		return model.FlightTickMsg{Session: session}
	})
}

func containsID(items []model.EventItem, id string) bool {
	if id == "" {
		return false
	}
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
