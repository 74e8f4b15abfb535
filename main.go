package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"aday/cmd"
	"aday/internal/events"
	"aday/internal/geo"
	"aday/internal/ui"
)

func main() {
	config, err := cmd.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(config.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	var client *events.Client
	if config.GeminiAPIKey != "" {
		client = events.NewClient(config.GeminiAPIKey)
	} else {
		fmt.Fprintln(os.Stderr, "ℹ  No GEMINI_API_KEY set — showing demo events")
	}

	app := ui.New(geo.NewResolver(), events.NewSource(client), config.PlanBaseURL)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
