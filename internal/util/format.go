package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatRating formats a rating as "4.5★".
func FormatRating(rating float64) string {
	return formatRatingNumber(rating) + "★"
}

// FormatRatingStars formats a 1-5 rating as stars (e.g., "★★★★☆").
func FormatRatingStars(rating float64) string {
	stars := int(math.Round(rating))
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

// FormatPlace joins distance and venue for the card footer ("2 km • Venue").
func FormatPlace(distance, locationName string) string {
	distance = strings.TrimSpace(distance)
	locationName = strings.TrimSpace(locationName)
	switch {
	case distance == "":
		return locationName
	case locationName == "":
		return distance
	default:
		return distance + " • " + locationName
	}
}

// FormatCoords formats coordinates for the map status line.
func FormatCoords(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func formatRatingNumber(v float64) string {
	// Keep one decimal at most, but avoid trailing .0 for whole values.
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s
}
