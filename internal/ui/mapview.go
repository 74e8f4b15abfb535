package ui

import (
	"fmt"
	"math"
	"strings"

	"aday/internal/model"
	"aday/internal/util"
)

const (
	// Degrees of latitude covered by one map row.
	zoomStreet = 0.0060 // city overview around the user
	zoomClose  = 0.0030 // after flying to a selected event

	flightSteps = 8

	// On narrow layouts the carousel covers the bottom of the map, so the
	// fly-to target is shifted south to keep the marker visible.
	narrowLatOffset = -0.005
)

type marker struct {
	id       string
	lat, lon float64
	active   bool
}

type flight struct {
	fromLat, fromLon, fromZoom float64
	toLat, toLon, toZoom       float64
	step                       int
}

// MapModel renders one marker per event on an ASCII viewport. Markers are
// reconciled against the event list by id: new ones are created, existing
// ones update their style in place, stale ones are removed. Selection is
// read-only input here; marker "clicks" are routed through the root model.
type MapModel struct {
	markers map[string]*marker
	order   []string

	centerLat, centerLon float64
	zoom                 float64

	userLat, userLon float64
	hasUser          bool

	flight *flight
}

// NewMapModel creates an empty map viewport.
func NewMapModel() *MapModel {
	return &MapModel{
		markers: make(map[string]*marker),
		zoom:    zoomStreet,
	}
}

// CenterOn recenters the viewport immediately, cancelling any flight. Used
// once when the session location resolves.
func (m *MapModel) CenterOn(lat, lon float64) {
	m.centerLat = lat
	m.centerLon = lon
	m.zoom = zoomStreet
	m.flight = nil
}

// SetUser places the "you are here" glyph.
func (m *MapModel) SetUser(lat, lon float64) {
	m.userLat = lat
	m.userLon = lon
	m.hasUser = true
}

// Reconcile diffs the marker set against the current event list. Existing
// markers are updated in place rather than recreated.
func (m *MapModel) Reconcile(events []model.EventItem, selectedID string) {
	present := make(map[string]bool, len(events))
	for _, e := range events {
		present[e.ID] = true
		if mk, ok := m.markers[e.ID]; ok {
			mk.lat = e.Latitude
			mk.lon = e.Longitude
			mk.active = e.ID == selectedID
			continue
		}
		m.markers[e.ID] = &marker{
			id:     e.ID,
			lat:    e.Latitude,
			lon:    e.Longitude,
			active: e.ID == selectedID,
		}
		m.order = append(m.order, e.ID)
	}

	kept := m.order[:0]
	for _, id := range m.order {
		if present[id] {
			kept = append(kept, id)
		} else {
			delete(m.markers, id)
		}
	}
	m.order = kept
}

// Marker returns the marker for id, or nil. Exposed for tests.
func (m *MapModel) Marker(id string) *marker {
	return m.markers[id]
}

// MarkerCount returns the number of markers on the map.
func (m *MapModel) MarkerCount() int {
	return len(m.markers)
}

// FlyTo starts an animated recenter toward (lat, lon) at the close zoom,
// optionally shifted for narrow layouts. It reports whether a new flight was
// started; re-selecting the current target is a no-op so selection updates
// stay idempotent.
func (m *MapModel) FlyTo(lat, lon float64, narrow bool) bool {
	if narrow {
		lat += narrowLatOffset
	}
	if m.flight != nil && m.flight.toLat == lat && m.flight.toLon == lon {
		return false
	}
	if m.flight == nil && m.zoom == zoomClose &&
		math.Abs(m.centerLat-lat) < 1e-9 && math.Abs(m.centerLon-lon) < 1e-9 {
		return false
	}
	m.flight = &flight{
		fromLat:  m.centerLat,
		fromLon:  m.centerLon,
		fromZoom: m.zoom,
		toLat:    lat,
		toLon:    lon,
		toZoom:   zoomClose,
	}
	return true
}

// Flying reports whether a fly-to animation is in progress.
func (m *MapModel) Flying() bool {
	return m.flight != nil
}

// Advance steps the current flight by one frame and reports whether more
// frames remain.
func (m *MapModel) Advance() bool {
	f := m.flight
	if f == nil {
		return false
	}
	f.step++
	t := float64(f.step) / float64(flightSteps)
	t = t * t * (3 - 2*t) // smoothstep
	m.centerLat = f.fromLat + (f.toLat-f.fromLat)*t
	m.centerLon = f.fromLon + (f.toLon-f.fromLon)*t
	m.zoom = f.fromZoom + (f.toZoom-f.fromZoom)*t
	if f.step >= flightSteps {
		m.centerLat = f.toLat
		m.centerLon = f.toLon
		m.zoom = f.toZoom
		m.flight = nil
		return false
	}
	return true
}

// View renders the viewport with a border and a status line.
func (m *MapModel) View(width, height int, focused bool) string {
	frame := MapFrameStyle
	if focused {
		frame = MapFrameFocusStyle
	}

	innerW := width - frame.GetHorizontalBorderSize()
	innerH := height - frame.GetVerticalBorderSize() - 1
	if innerW < 10 || innerH < 4 {
		return frame.Width(innerW).Render("")
	}

	grid := make([][]string, innerH)
	for r := range grid {
		grid[r] = make([]string, innerW)
		for c := range grid[r] {
			if r%3 == 1 && c%6 == 3 {
				grid[r][c] = MapGridStyle.Render("·")
			} else {
				grid[r][c] = " "
			}
		}
	}

	if m.hasUser {
		if r, c, ok := m.project(m.userLat, m.userLon, innerW, innerH); ok {
			grid[r][c] = MarkerUserStyle.Render("✦")
		}
	}

	// Inactive markers first, active last so it stays on top.
	var active *marker
	for _, id := range m.order {
		mk := m.markers[id]
		if mk.active {
			active = mk
			continue
		}
		if r, c, ok := m.project(mk.lat, mk.lon, innerW, innerH); ok {
			grid[r][c] = MarkerInactiveStyle.Render("•")
		}
	}
	if active != nil {
		if r, c, ok := m.project(active.lat, active.lon, innerW, innerH); ok {
			grid[r][c] = MarkerActiveStyle.Render("▼")
			if r > 0 {
				grid[r-1][c] = MarkerActiveStyle.Render("⬤")
			}
		}
	}

	rows := make([]string, innerH)
	for r := range grid {
		rows[r] = strings.Join(grid[r], "")
	}

	zoomLabel := "street"
	if m.zoom <= zoomClose {
		zoomLabel = "close"
	}
	status := StatusBarStyle.Render(fmt.Sprintf("%s  ·  zoom %s", util.FormatCoords(m.centerLat, m.centerLon), zoomLabel))

	body := strings.Join(rows, "\n") + "\n" + status
	return frame.Render(body)
}

// project maps coordinates into grid cells. Terminal cells are about twice
// as tall as wide, and longitude degrees shrink with latitude, so columns
// are scaled by both factors to keep distances visually square.
func (m *MapModel) project(lat, lon float64, innerW, innerH int) (row, col int, ok bool) {
	cosLat := math.Cos(m.centerLat * math.Pi / 180)
	if cosLat < 0.05 {
		cosLat = 0.05
	}
	dRows := (m.centerLat - lat) / m.zoom
	dCols := (lon - m.centerLon) * cosLat * 2 / m.zoom

	row = innerH/2 + int(math.Round(dRows))
	col = innerW/2 + int(math.Round(dCols))
	if row < 0 || row >= innerH || col < 0 || col >= innerW {
		return 0, 0, false
	}
	return row, col, true
}
