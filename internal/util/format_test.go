package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "4.5★", FormatRating(4.5))
	assert.Equal(t, "4★", FormatRating(4.0))
	assert.Equal(t, "3.7★", FormatRating(3.68))
}

func TestFormatRatingStars(t *testing.T) {
	assert.Equal(t, "★★★★★", FormatRatingStars(5))
	assert.Equal(t, "★★★★☆", FormatRatingStars(4.3))
	assert.Equal(t, "★★★★★", FormatRatingStars(4.5))
	assert.Equal(t, "★☆☆☆☆", FormatRatingStars(1))
	assert.Equal(t, "☆☆☆☆☆", FormatRatingStars(-2))
	assert.Equal(t, "★★★★★", FormatRatingStars(9))
}

func TestFormatPlace(t *testing.T) {
	assert.Equal(t, "2 km • Le Caveau", FormatPlace("2 km", "Le Caveau"))
	assert.Equal(t, "Le Caveau", FormatPlace("", "Le Caveau"))
	assert.Equal(t, "2 km", FormatPlace("2 km", ""))
	assert.Equal(t, "", FormatPlace("  ", " "))
}

func TestFormatCoords(t *testing.T) {
	assert.Equal(t, "48.8566, 2.3522", FormatCoords(48.8566, 2.3522))
	assert.Equal(t, "-34.6786, 33.0413", FormatCoords(-34.6786, 33.0413))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hello", TruncateString("hello", 5))
	assert.Equal(t, "he...", TruncateString("hello world", 5))
	assert.Equal(t, "he", TruncateString("hello", 2))
}
