package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"aday/internal/model"
)

// Failure taxonomy for the AI event feed. All of these are absorbed into the
// fallback dataset before they reach the UI.
var (
	// ErrNoCredential means no API key is configured; no network attempt is made.
	ErrNoCredential = errors.New("no API credential configured")
	// ErrParse means the response contained no well-formed JSON array.
	ErrParse = errors.New("failed to parse event data from AI response")
	// ErrEmpty means the AI answered but found nothing for today.
	ErrEmpty = errors.New("nothing specific found for today")
)

const (
	maxAttempts    = 3
	baseRetryDelay = time.Second

	// Fallback events are scattered around the resolved location so their
	// markers do not stack on one point. Offset is within ±0.01 degrees.
	jitterSpread = 0.02
)

// categoryImages maps a category tag to a stock image. Matching is by
// substring containment against the uppercased tag, first match wins, so the
// order matters.
var categoryImages = []struct {
	Key string
	URL string
}{
	{"NEWS", "https://images.unsplash.com/photo-1586339949916-3e9457bef6d3?w=800&q=80"},
	{"CINEMA", "https://images.unsplash.com/photo-1489599849927-2ee91cede3ba?w=800&q=80"},
	{"CITY", "https://images.unsplash.com/photo-1517457373958-b7bdd4587205?w=800&q=80"},
	{"FOOD", "https://images.unsplash.com/photo-1555939594-58d7cb561ad1?w=800&q=80"},
	{"CULTURE", "https://images.unsplash.com/photo-1508997449629-303059a039c0?w=800&q=80"},
	{"BEAUTY", "https://images.unsplash.com/photo-1560750588-73207b1ef5b8?w=800&q=80"},
	{"MUSIC", "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=800&q=80"},
	{"COMMUNITY", "https://images.unsplash.com/photo-1529156069898-49953e39b3ac?w=800&q=80"},
	{"GAMES", "https://images.unsplash.com/photo-1511512578047-dfb367046420?w=800&q=80"},
	{"INTERNET", "https://images.unsplash.com/photo-1550751827-4bd374c3f58b?w=800&q=80"},
}

const defaultImage = "https://images.unsplash.com/photo-1492684223066-81342ee5ff30?w=800&q=80"

func imageForCategory(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	for _, c := range categoryImages {
		if strings.Contains(tag, c.Key) {
			return c.URL
		}
	}
	return defaultImage
}

// textGenerator is the slice of the Gemini client the source needs.
type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Source produces the event list for a location. The AI feed is untrusted:
// every record is normalized with explicit defaults, and every failure mode
// degrades to a fixed demo dataset instead of an error.
type Source struct {
	client textGenerator

	sleep  func(time.Duration)
	now    func() time.Time
	jitter func() float64
}

// NewSource creates an event source backed by the given client. A nil client
// means no credential is configured and only fallback data will be served.
func NewSource(client *Client) *Source {
	s := &Source{
		sleep:  time.Sleep,
		now:    time.Now,
		jitter: rand.Float64,
	}
	if client != nil {
		s.client = client
	}
	return s
}

// Fetch returns today's events near loc, in display order. It does not fail:
// when the live feed is unavailable the fixed fallback set is returned, with
// ids prefixed so callers can detect demo mode.
func (s *Source) Fetch(ctx context.Context, loc model.GeoLocation) ([]model.EventItem, error) {
	if s.client == nil {
		log.Warn().Msg("API key missing, using fallback events")
		return s.FallbackEvents(loc), nil
	}

	items, err := s.fetchLive(ctx, loc)
	if err != nil {
		if IsTransient(err) {
			log.Warn().Err(err).Msg("AI service unavailable, using fallback demo events")
		} else {
			log.Warn().Err(err).Msg("using fallback events")
		}
		return s.FallbackEvents(loc), nil
	}
	return items, nil
}

// fetchLive calls the AI collaborator with exponential backoff. Only
// transient-overload failures are retried; parse and validation failures
// propagate immediately.
func (s *Source) fetchLive(ctx context.Context, loc model.GeoLocation) ([]model.EventItem, error) {
	prompt := buildPrompt(loc, s.now())

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay << (attempt - 1)
			log.Info().
				Int("attempt", attempt+1).
				Int("max", maxAttempts).
				Dur("delay", delay).
				Msg("retrying event fetch")
			s.sleep(delay)
		}

		text, err := s.client.GenerateText(ctx, prompt)
		if err != nil {
			lastErr = err
			if IsTransient(err) {
				continue
			}
			return nil, err
		}
		return s.parseEvents(text, loc)
	}
	return nil, lastErr
}

// parseEvents extracts the first JSON array literal from the free-text AI
// response and normalizes each record.
func (s *Source) parseEvents(text string, loc model.GeoLocation) ([]model.EventItem, error) {
	open := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if open < 0 || end < open {
		return nil, ErrParse
	}

	dec := json.NewDecoder(strings.NewReader(text[open : end+1]))
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmpty, loc.City)
	}

	seen := make(map[string]bool, len(raw))
	items := make([]model.EventItem, 0, len(raw))
	for i, rec := range raw {
		items = append(items, s.normalize(rec, i, loc, seen))
	}
	return items, nil
}

// normalize applies the per-field defaults for one untrusted record. seen
// tracks ids already used so duplicates get disambiguated before insertion.
func (s *Source) normalize(rec map[string]any, index int, loc model.GeoLocation, seen map[string]bool) model.EventItem {
	id := stringField(rec, "id")
	if id == "" {
		id = fmt.Sprintf("evt_%d_%d", index, s.now().UnixMilli())
	}
	if seen[id] {
		id = id + "_" + uuid.NewString()[:8]
	}
	seen[id] = true

	title := stringField(rec, "title")
	if title == "" {
		title = "Local Event"
	}
	description := stringField(rec, "description")
	if description == "" {
		description = "Happening today."
	}
	fullDescription := stringField(rec, "fullDescription")
	if fullDescription == "" {
		fullDescription = description
	}

	highlights := stringSliceField(rec, "highlights")
	if len(highlights) == 0 {
		highlights = []string{"TODAY"}
	}

	lat, ok := floatField(rec, "latitude")
	if !ok || lat == 0 {
		lat = loc.Latitude
	}
	lon, ok := floatField(rec, "longitude")
	if !ok || lon == 0 {
		lon = loc.Longitude
	}

	rating, ok := floatField(rec, "rating")
	if !ok || rating == 0 {
		rating = 4.0
	}
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	locationName := stringField(rec, "locationName")
	if locationName == "" {
		locationName = loc.City
	}

	return model.EventItem{
		ID:              id,
		Title:           title,
		Description:     description,
		FullDescription: fullDescription,
		Highlights:      highlights,
		Latitude:        lat,
		Longitude:       lon,
		Rating:          rating,
		Distance:        stringField(rec, "distance"),
		LocationName:    locationName,
		ImageURL:        imageForCategory(highlights[0]),
	}
}

// FallbackEvents returns the fixed 4-item demo set, jittered around loc.
func (s *Source) FallbackEvents(loc model.GeoLocation) []model.EventItem {
	base := []model.EventItem{
		{
			ID:              model.FallbackIDPrefix + "1",
			Title:           "Local Coffee & Culture",
			Description:     "Discover hidden gems in your neighborhood",
			FullDescription: "Explore local cafes, galleries, and cultural spaces. Connect with your community and find what's happening around you.",
			Highlights:      []string{"CULTURE", "All Day", "Community"},
			Rating:          4.5,
			Distance:        "Nearby",
			LocationName:    loc.City,
			ImageURL:        imageForCategory("CULTURE"),
		},
		{
			ID:              model.FallbackIDPrefix + "2",
			Title:           "Evening Food Markets",
			Description:     "Fresh local produce and street food",
			FullDescription: "Visit evening markets featuring local vendors, fresh ingredients, and delicious street food. Perfect for dinner planning!",
			Highlights:      []string{"FOOD", "5:00 PM", "Fresh & Local"},
			Rating:          4.3,
			Distance:        "2 km",
			LocationName:    loc.City + " Market District",
			ImageURL:        imageForCategory("FOOD"),
		},
		{
			ID:              model.FallbackIDPrefix + "3",
			Title:           "City Parks & Recreation",
			Description:     "Outdoor activities and green spaces",
			FullDescription: "Enjoy public parks, walking trails, and outdoor activities. Perfect for exercise or relaxation in nature.",
			Highlights:      []string{"CITY", "All Day", "Outdoors"},
			Rating:          4.6,
			Distance:        "1.5 km",
			LocationName:    loc.City + " Central Park",
			ImageURL:        imageForCategory("CITY"),
		},
		{
			ID:              model.FallbackIDPrefix + "4",
			Title:           "Evening Cinema Showings",
			Description:     "Latest movies at local theaters",
			FullDescription: "Check out the latest films at nearby cinemas. Multiple showings available throughout the evening.",
			Highlights:      []string{"CINEMA", "7:00 PM", "New Releases"},
			Rating:          4.4,
			Distance:        "3 km",
			LocationName:    loc.City + " Cinema",
			ImageURL:        imageForCategory("CINEMA"),
		},
	}

	for i := range base {
		base[i].Latitude = loc.Latitude + (s.jitter()-0.5)*jitterSpread
		base[i].Longitude = loc.Longitude + (s.jitter()-0.5)*jitterSpread
	}
	return base
}

// buildPrompt asks for 8-12 verifiable events happening today in the resolved
// city, as a strict JSON array.
func buildPrompt(loc model.GeoLocation, now time.Time) string {
	categories := strings.Join([]string{
		"NEWS (public talks, rallies)",
		"CINEMA (showtimes today)",
		"CITY (active public spaces)",
		"FOOD (markets, openings)",
		"CULTURE (exhibits, plays)",
		"BEAUTY (pop-ups, specials)",
		"MUSIC (live shows tonight)",
		"COMMUNITY (meetups, volunteering)",
		"GAMES (tournaments, sports)",
		"INTERNET (tech meetups, lans)",
	}, ", ")

	todayStr := now.Format("Monday, January 2, 2006")

	return fmt.Sprintf(`You are a real-time local event finder. Find 8-12 REAL, VERIFIABLE events happening EXACTLY TODAY, %s, in %s, %s.

Focus on these categories: %s.

CRITICAL RULES:
1. TIME SENSITIVE: Must be confirmed for TODAY. Do not list generic "always open" businesses unless they have a specific event today.
2. REAL LOCATIONS: Must have a specific, mappable venue name.
3. NO HALLUCINATIONS: If a category has nothing TODAY, skip it. Quality over quantity.
4. FORMAT: 'highlights' must be an array starting with the CATEGORY name in ALL CAPS (e.g., ["MUSIC", "8:00 PM", "Live Band"]).

Return strictly a JSON array of objects:
[
  {
    "id": "unique_id_1",
    "title": "Short Catchy Title",
    "description": "Very brief summary (max 12 words).",
    "fullDescription": "Detailed info, including exact times, entry fees, and why it's worth going today.",
    "highlights": ["CATEGORY", "Time", "Vibe Tag"],
    "latitude": 12.3456 (number),
    "longitude": 67.8901 (number),
    "rating": 4.5 (number 1-5 based on predicted popularity),
    "distance": "approx distance string",
    "locationName": "Exact Venue Name"
  }
]`, todayStr, loc.City, loc.CountryName, categories)
}

// Loose field accessors for AI-authored records.

func stringField(rec map[string]any, key string) string {
	switch v := rec[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func floatField(rec map[string]any, key string) (float64, bool) {
	switch v := rec[key].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringSliceField(rec map[string]any, key string) []string {
	raw, ok := rec[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
