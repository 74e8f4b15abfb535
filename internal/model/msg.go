package model

// Bubble Tea message types. Timer and load messages carry the session
// generation that scheduled them; the root model drops messages from an
// earlier generation so torn-down sessions cannot mutate fresh state.

// LocationResolvedMsg is sent when the session location has been resolved.
type LocationResolvedMsg struct {
	Session  int
	Location GeoLocation
}

// EventsLoadedMsg is sent when an event fetch finishes with data.
type EventsLoadedMsg struct {
	Session    int
	Background bool
	Events     []EventItem
}

// EventsFailedMsg is sent when an event fetch finishes without data.
type EventsFailedMsg struct {
	Session    int
	Background bool
	Err        error
}

// SkeletonDeadlineMsg fires when the initial load has run past its deadline
// and placeholder cards should replace the splash screen.
type SkeletonDeadlineMsg struct {
	Session int
}

// RetryTickMsg drives the background retry loop while the skeleton is shown.
type RetryTickMsg struct {
	Session int
}

// RevealTickMsg drives the staggered reveal of freshly fetched events.
type RevealTickMsg struct {
	Session int
}

// FlightTickMsg advances an in-progress map fly-to animation.
type FlightTickMsg struct {
	Session int
}
