package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. Monochrome with warm accents, matching the card/map look.
var (
	ColorBase    = lipgloss.Color("#121212")
	ColorSurface = lipgloss.Color("#262626")
	ColorMuted   = lipgloss.Color("#8A8A8A")
	ColorText    = lipgloss.Color("#E8E4DC")
	ColorAccent  = lipgloss.Color("#F5F1E8")
	ColorGreen   = lipgloss.Color("#a6e3a1")
	ColorRed     = lipgloss.Color("#f38ba8")
	ColorAmber   = lipgloss.Color("#f9e2af")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	BrandStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	KickerStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Bold(true)

	CityStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Padding(0, 1)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	NormalRowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(2, 4)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	// Cards
	CardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	ActiveCardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)

	SkeletonStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSurface).
			Foreground(ColorSurface).
			Padding(0, 1)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(ColorBase).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	RatingStyle = lipgloss.NewStyle().
			Foreground(ColorAmber)

	// Map
	MapFrameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted)

	MapFrameFocusStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorAccent)

	MarkerActiveStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	MarkerInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MarkerUserStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	MapGridStyle = lipgloss.NewStyle().
			Foreground(ColorSurface)

	// Story overlay
	StoryFrameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 3)

	StoryProgressOn = lipgloss.NewStyle().
			Foreground(ColorAccent)

	StoryProgressOff = lipgloss.NewStyle().
				Foreground(ColorSurface)

	DeepLinkStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Underline(true)
)
