package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"aday/internal/model"
)

// RenderHelp renders the context-sensitive help footer.
func RenderHelp(focus model.Pane, width int) string {
	if focus == model.PaneMap {
		return renderMapHelp(width)
	}
	return renderCardsHelp(width)
}

func renderCardsHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("gg/G", "first/last"),
		helpKey("enter", "open story"),
		helpKey("tab", "focus map"),
		helpKey("?", "help"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderMapHelp(width int) string {
	keys := []string{
		helpKey("j/k", "cycle markers"),
		helpKey("tab", "focus cards"),
		helpKey("?", "help"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Browse"),
		helpSection([]helpItem{
			{"j / ↓", "Select next event"},
			{"k / ↑", "Select previous event"},
			{"h / l", "Previous / next event"},
			{"gg", "Jump to first event"},
			{"G", "Jump to last event"},
			{"tab", "Switch focus between cards and map"},
			{"enter", "Open story for selected event"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}),
		titleSection("Story"),
		helpSection([]helpItem{
			{"enter / l / space", "Next slide (closes after the last)"},
			{"h / ←", "Previous slide"},
			{"esc / q", "Close story"},
		}),
		titleSection("When things go wrong"),
		helpSection([]helpItem{
			{"r", "Retry loading (error screen)"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
