package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"aday/internal/model"
	"aday/internal/util"
)

const (
	// SkeletonCardCount is how many placeholder cards stand in for real
	// events while the first load is still pending.
	SkeletonCardCount = 4

	cardHeight    = 6  // rendered rows per card, border included
	carouselWidth = 30 // fixed card width in the horizontal carousel
)

// CardsModel renders the event list as a vertical card column (wide layouts)
// or a horizontal carousel (narrow layouts). The cursor always mirrors the
// shared selection; it never writes back to it.
type CardsModel struct {
	events []model.EventItem
	cursor int

	viewportSlots int
}

// NewCardsModel creates an empty card list.
func NewCardsModel() *CardsModel {
	return &CardsModel{}
}

// SetEvents replaces the list wholesale.
func (m *CardsModel) SetEvents(events []model.EventItem) {
	m.events = append([]model.EventItem(nil), events...)
	if m.cursor >= len(m.events) {
		m.cursor = 0
	}
}

// Append adds one event at the end, preserving display order. Used by the
// staggered reveal.
func (m *CardsModel) Append(event model.EventItem) {
	m.events = append(m.events, event)
}

// Len returns the number of cards.
func (m *CardsModel) Len() int {
	return len(m.events)
}

// EventAt returns the event at index i, or nil when out of range.
func (m *CardsModel) EventAt(i int) *model.EventItem {
	if i < 0 || i >= len(m.events) {
		return nil
	}
	return &m.events[i]
}

// SelectedEvent returns the event under the cursor, or nil when empty.
func (m *CardsModel) SelectedEvent() *model.EventItem {
	return m.EventAt(m.cursor)
}

// Cursor returns the index of the card under the cursor.
func (m *CardsModel) Cursor() int {
	return m.cursor
}

// IndexOf returns the index of the event with the given id, or -1.
func (m *CardsModel) IndexOf(id string) int {
	for i := range m.events {
		if m.events[i].ID == id {
			return i
		}
	}
	return -1
}

// ScrollTo moves the cursor to the card with the given id so the next render
// centers it. It is a pure reaction to the shared selection and triggers no
// selection change of its own.
func (m *CardsModel) ScrollTo(id string) {
	if idx := m.IndexOf(id); idx >= 0 {
		m.cursor = idx
	}
}

// View renders the vertical card column.
func (m *CardsModel) View(width, height int) string {
	if len(m.events) == 0 {
		return EmptyStateStyle.Width(width).Height(height).Render("No events yet.")
	}

	slots := height / cardHeight
	if slots < 1 {
		slots = 1
	}
	m.viewportSlots = slots

	offset := m.centeredOffset(slots)
	var cards []string
	for i := offset; i < len(m.events) && i < offset+slots; i++ {
		cards = append(cards, m.renderCard(m.events[i], width, i == m.cursor))
	}

	list := lipgloss.JoinVertical(lipgloss.Left, cards...)
	status := StatusBarStyle.Render(fmt.Sprintf("%d events  ·  %d/%d", len(m.events), m.cursor+1, len(m.events)))
	spacerHeight := max(0, height-lipgloss.Height(list)-lipgloss.Height(status))
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	return lipgloss.JoinVertical(lipgloss.Left, list, spacer, status)
}

// ViewCarousel renders the horizontal card strip for narrow layouts.
func (m *CardsModel) ViewCarousel(width int) string {
	if len(m.events) == 0 {
		return ""
	}

	slots := width / (carouselWidth + 1)
	if slots < 1 {
		slots = 1
	}
	m.viewportSlots = slots

	offset := m.centeredOffset(slots)
	var cards []string
	for i := offset; i < len(m.events) && i < offset+slots; i++ {
		cards = append(cards, m.renderCard(m.events[i], carouselWidth, i == m.cursor))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// ViewSkeleton renders placeholder cards while a load is pending.
func (m *CardsModel) ViewSkeleton(width, height int, horizontal bool) string {
	cardWidth := width
	if horizontal {
		cardWidth = carouselWidth
	}
	var cards []string
	for i := 0; i < SkeletonCardCount; i++ {
		cards = append(cards, renderSkeletonCard(cardWidth))
	}
	if horizontal {
		return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	list := lipgloss.JoinVertical(lipgloss.Left, cards...)
	return lipgloss.NewStyle().Height(height).Render(list)
}

func (m *CardsModel) centeredOffset(slots int) int {
	offset := m.cursor - slots/2
	if offset > len(m.events)-slots {
		offset = len(m.events) - slots
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (m *CardsModel) renderCard(e model.EventItem, width int, active bool) string {
	style := CardStyle
	if active {
		style = ActiveCardStyle
	}
	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	badge := BadgeStyle.Render(util.TruncateString(e.Category(), 12))
	rating := RatingStyle.Render(util.FormatRating(e.Rating))
	gap := inner - lipgloss.Width(badge) - lipgloss.Width(rating)
	if gap < 1 {
		gap = 1
	}
	topLine := badge + strings.Repeat(" ", gap) + rating

	titleStyle := NormalRowStyle.Bold(true)
	if active {
		titleStyle = titleStyle.Foreground(ColorAccent)
	}

	lines := []string{
		topLine,
		titleStyle.Render(util.TruncateString(e.Title, inner)),
		HelpDescStyle.Render(util.TruncateString(e.Description, inner)),
		StatusBarStyle.Padding(0).Render(util.TruncateString(util.FormatPlace(e.Distance, e.LocationName), inner)),
	}

	return style.Width(width - style.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}

func renderSkeletonCard(width int) string {
	inner := width - SkeletonStyle.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	bar := func(n int) string {
		if n > inner {
			n = inner
		}
		return strings.Repeat("░", n)
	}
	lines := []string{
		bar(inner / 3),
		bar(inner),
		bar(inner - 2),
		bar(inner / 2),
	}
	return SkeletonStyle.Width(width - SkeletonStyle.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}
