package model

import "strings"

// GeoLocation is the position resolved for the session. It is produced once
// by geo.Resolver and never changes afterwards.
type GeoLocation struct {
	City        string
	CountryName string
	Latitude    float64
	Longitude   float64
}

// EventItem is one event as shown on the map and in the card list. Instances
// are replaced wholesale on reload, never mutated field by field.
type EventItem struct {
	ID              string
	Title           string
	Description     string
	FullDescription string
	Highlights      []string
	Latitude        float64
	Longitude       float64
	Rating          float64
	Distance        string
	LocationName    string
	ImageURL        string
}

// FallbackIDPrefix marks demo events supplied when the live source is down.
const FallbackIDPrefix = "fallback_"

// Category returns the first highlight, which is treated as the category tag.
func (e EventItem) Category() string {
	if len(e.Highlights) == 0 {
		return ""
	}
	return e.Highlights[0]
}

// IsFallback reports whether the event comes from the demo dataset.
func (e EventItem) IsFallback() bool {
	return strings.HasPrefix(e.ID, FallbackIDPrefix)
}

// Phase is the load lifecycle of a session.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseLoading
	PhaseSkeleton
	PhaseReady
	PhaseError
)

// Screen represents different app screens.
type Screen int

const (
	ScreenBrowse Screen = iota
	ScreenStory
)

// Pane is the focused half of the browse screen.
type Pane int

const (
	PaneCards Pane = iota
	PaneMap
)
