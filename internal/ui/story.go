package ui

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"aday/internal/model"
	"aday/internal/util"
)

const storySlideCount = 3

// StoryModel is the tap-to-advance story overlay for one event: three
// ordered slides, advancing past the last one closes the overlay.
type StoryModel struct {
	event    model.EventItem
	slide    int
	planBase string
}

// NewStoryModel opens the story for an event, always starting at slide 0.
func NewStoryModel(event model.EventItem, planBase string) *StoryModel {
	return &StoryModel{event: event, planBase: planBase}
}

// Event returns the event the story is showing.
func (m *StoryModel) Event() model.EventItem {
	return m.event
}

// Slide returns the current slide index.
func (m *StoryModel) Slide() int {
	return m.slide
}

// Advance moves to the next slide. It reports false when the story has run
// past its last slide and should close.
func (m *StoryModel) Advance() bool {
	if m.slide < storySlideCount-1 {
		m.slide++
		return true
	}
	return false
}

// Back moves one slide back, stopping at the first one.
func (m *StoryModel) Back() {
	if m.slide > 0 {
		m.slide--
	}
}

// planPayload is the event data carried by the plan deep link, URL-encoded
// as JSON. Field names follow the plan destination's contract.
type planPayload struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	FullDescription string   `json:"fullDescription"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	LocationName    string   `json:"locationName"`
	Distance        string   `json:"distance"`
	Rating          float64  `json:"rating"`
	Highlights      []string `json:"highlights"`
	ImageURL        string   `json:"imageUrl"`
}

// DeepLink builds the external plan link carrying the full event data.
func (m *StoryModel) DeepLink() string {
	payload := planPayload{
		ID:              m.event.ID,
		Title:           m.event.Title,
		Description:     m.event.Description,
		FullDescription: m.event.FullDescription,
		Latitude:        m.event.Latitude,
		Longitude:       m.event.Longitude,
		LocationName:    m.event.LocationName,
		Distance:        m.event.Distance,
		Rating:          m.event.Rating,
		Highlights:      m.event.Highlights,
		ImageURL:        m.event.ImageURL,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return m.planBase + "#/main?action=plan"
	}
	return m.planBase + "#/main?event=" + url.QueryEscape(string(data))
}

// View renders the story overlay centered on the screen.
func (m *StoryModel) View(width, height int) string {
	cardWidth := width - 8
	if cardWidth > 64 {
		cardWidth = 64
	}
	if cardWidth < 30 {
		cardWidth = 30
	}
	inner := cardWidth - StoryFrameStyle.GetHorizontalFrameSize()

	var sections []string
	sections = append(sections, m.renderProgress(inner))
	sections = append(sections, "")

	switch m.slide {
	case 0:
		sections = append(sections, m.renderHero(inner)...)
	case 1:
		sections = append(sections, m.renderExpect(inner)...)
	case 2:
		sections = append(sections, m.renderPlan(inner)...)
	}

	sections = append(sections, "")
	sections = append(sections, FooterStyle.BorderTop(false).Render(
		HelpKeyStyle.Render("enter")+HelpDescStyle.Render(" next  ")+
			HelpKeyStyle.Render("h")+HelpDescStyle.Render(" back  ")+
			HelpKeyStyle.Render("esc")+HelpDescStyle.Render(" close")))

	card := StoryFrameStyle.Width(inner).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (m *StoryModel) renderProgress(inner int) string {
	segWidth := (inner - (storySlideCount-1)*1) / storySlideCount
	if segWidth < 1 {
		segWidth = 1
	}
	segs := make([]string, storySlideCount)
	for i := range segs {
		bar := strings.Repeat("─", segWidth)
		if i <= m.slide {
			segs[i] = StoryProgressOn.Render(bar)
		} else {
			segs[i] = StoryProgressOff.Render(bar)
		}
	}
	return strings.Join(segs, " ")
}

func (m *StoryModel) renderHero(inner int) []string {
	wrap := lipgloss.NewStyle().Width(inner)
	return []string{
		BadgeStyle.Render("HAPPENING TODAY"),
		"",
		wrap.Bold(true).Foreground(ColorAccent).Render(m.event.Title),
		"",
		wrap.Foreground(ColorText).Render(m.event.Description),
		"",
		RatingStyle.Render(util.FormatRatingStars(m.event.Rating) + "  " + util.FormatRating(m.event.Rating)),
		HelpDescStyle.Render(util.TruncateString(m.event.ImageURL, inner)),
	}
}

func (m *StoryModel) renderExpect(inner int) []string {
	wrap := lipgloss.NewStyle().Width(inner)
	lines := []string{
		LabelStyle.Render("What to Expect"),
		"",
		wrap.Foreground(ColorText).Render(m.event.FullDescription),
	}
	if len(m.event.Highlights) > 0 {
		lines = append(lines, "", KickerStyle.Render("HIGHLIGHTS"))
		for _, h := range m.event.Highlights {
			lines = append(lines, InfoStyle.Padding(0).Render("✓ ")+NormalRowStyle.Render(util.TruncateString(h, inner-2)))
		}
	}
	return lines
}

func (m *StoryModel) renderPlan(inner int) []string {
	wrap := lipgloss.NewStyle().Width(inner)
	away := strings.TrimSpace(m.event.Distance)
	if away != "" {
		away += " away"
	}
	return []string{
		MarkerActiveStyle.Render("⬤") + "  " + wrap.Bold(true).Foreground(ColorAccent).Inline(true).Render(util.TruncateString(m.event.LocationName, inner-3)),
		HelpDescStyle.Render(away),
		"",
		LabelStyle.Render("Plan Today"),
		wrap.Render(DeepLinkStyle.Render(util.TruncateString(m.DeepLink(), inner*3))),
		"",
		HelpDescStyle.Render("Open the link to plan this event."),
	}
}
