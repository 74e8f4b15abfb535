package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	planBaseURL    = "https://aday.today/"
	planBaseURLDev = "http://localhost:8081/main/index.html"
)

// Config holds CLI configuration.
type Config struct {
	GeminiAPIKey string
	PlanBaseURL  string
	LogPath      string
	Dev          bool
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags() (*Config, error) {
	config := &Config{}

	// Load .env files first so env-based defaults work with existing flag parsing.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	flag.StringVar(&config.GeminiAPIKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY env var)")
	flag.StringVar(&config.LogPath, "log", "", "Path to log file (default: ~/.aday/aday.log)")
	flag.BoolVar(&config.Dev, "dev", false, "Point deep links at a local dev server")
	flag.Parse()

	if config.GeminiAPIKey == "" {
		config.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if config.GeminiAPIKey == "" {
		config.GeminiAPIKey = os.Getenv("API_KEY")
	}

	config.PlanBaseURL = planBaseURL
	if config.Dev {
		config.PlanBaseURL = planBaseURLDev
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(home, ".aday")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if config.LogPath == "" {
		config.LogPath = filepath.Join(configDir, "aday.log")
	}

	settings, err := loadOnboardingSettings(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding settings: %w", err)
	}

	if shouldRunOnboarding(settings, config.GeminiAPIKey) {
		settings, err = runOnboarding(configDir, config.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
	}

	if config.GeminiAPIKey == "" && settings.GeminiEnabled {
		secureKey, err := loadSecureAPIKey(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load stored API key: %w", err)
		}
		config.GeminiAPIKey = strings.TrimSpace(secureKey)
	}

	return config, nil
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		value = strings.Trim(value, `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
