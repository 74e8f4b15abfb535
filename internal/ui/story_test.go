package ui

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aday/internal/model"
)

func storyEvent() model.EventItem {
	return model.EventItem{
		ID:              "evt_1",
		Title:           "Jazz & Wine Night",
		Description:     "Live quartet by the river",
		FullDescription: "Doors at 8, first set at 9. Entry 10€.",
		Highlights:      []string{"MUSIC", "8:00 PM", "Live Band"},
		Latitude:        48.85,
		Longitude:       2.35,
		Rating:          4.5,
		Distance:        "2 km",
		LocationName:    "Le Caveau",
		ImageURL:        "https://example.com/img.jpg",
	}
}

func TestStoryStartsAtFirstSlide(t *testing.T) {
	s := NewStoryModel(storyEvent(), "https://aday.today/")
	assert.Equal(t, 0, s.Slide())

	// Reopening is a fresh story, not a resume.
	s.Advance()
	s2 := NewStoryModel(storyEvent(), "https://aday.today/")
	assert.Equal(t, 0, s2.Slide())
}

func TestStoryAdvanceAndBack(t *testing.T) {
	s := NewStoryModel(storyEvent(), "https://aday.today/")

	assert.True(t, s.Advance())
	assert.Equal(t, 1, s.Slide())
	assert.True(t, s.Advance())
	assert.Equal(t, 2, s.Slide())
	assert.False(t, s.Advance(), "past the last slide the story closes")
	assert.Equal(t, 2, s.Slide())

	s.Back()
	assert.Equal(t, 1, s.Slide())
	s.Back()
	s.Back()
	assert.Equal(t, 0, s.Slide(), "back stops at the first slide")
}

func TestDeepLinkCarriesEventJSON(t *testing.T) {
	s := NewStoryModel(storyEvent(), "https://aday.today/")

	link := s.DeepLink()
	require.True(t, strings.HasPrefix(link, "https://aday.today/#/main?event="))

	encoded := strings.TrimPrefix(link, "https://aday.today/#/main?event=")
	decoded, err := url.QueryUnescape(encoded)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(decoded), &payload))
	assert.Equal(t, "evt_1", payload["id"])
	assert.Equal(t, "Jazz & Wine Night", payload["title"])
	assert.Equal(t, "https://example.com/img.jpg", payload["imageUrl"])
	assert.Equal(t, "Le Caveau", payload["locationName"])
	assert.InDelta(t, 4.5, payload["rating"].(float64), 1e-9)
}

func TestDeepLinkDevBase(t *testing.T) {
	s := NewStoryModel(storyEvent(), "http://localhost:8081/main/index.html")
	assert.True(t, strings.HasPrefix(s.DeepLink(), "http://localhost:8081/main/index.html#/main?event="))
}

func TestStorySlidesRenderTheirContent(t *testing.T) {
	s := NewStoryModel(storyEvent(), "https://aday.today/")

	hero := s.View(100, 40)
	assert.Contains(t, hero, "Jazz & Wine Night")
	assert.Contains(t, hero, "HAPPENING TODAY")

	s.Advance()
	expect := s.View(100, 40)
	assert.Contains(t, expect, "What to Expect")
	assert.Contains(t, expect, "Doors at 8")
	assert.Contains(t, expect, "Live Band")

	s.Advance()
	plan := s.View(100, 40)
	assert.Contains(t, plan, "Le Caveau")
	assert.Contains(t, plan, "2 km away")
	assert.Contains(t, plan, "Plan Today")
}
