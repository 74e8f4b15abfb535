package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"aday/internal/model"
)

const ipAPIURL = "https://ipapi.co/json/"

// fallbackLocation is returned when the lookup fails outright.
var fallbackLocation = model.GeoLocation{
	City:        "Limassol",
	CountryName: "Cyprus",
	Latitude:    34.6786,
	Longitude:   33.0413,
}

// Field-level defaults applied when a successful response is missing
// coordinates. Distinct from fallbackLocation on purpose.
const (
	defaultLatitude  = 51.5074
	defaultLongitude = -0.1278
)

// Resolver wraps the IP-geolocation API.
type Resolver struct {
	apiURL     string
	httpClient *http.Client
}

// NewResolver creates a new geolocation resolver.
func NewResolver() *Resolver {
	return &Resolver{
		apiURL:     ipAPIURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Resolve returns the best-guess location for this session. It never fails:
// every error path collapses into a fixed fallback city, since location is a
// required input for everything downstream.
func (r *Resolver) Resolve(ctx context.Context) model.GeoLocation {
	loc, err := r.lookup(ctx)
	if err != nil {
		log.Warn().Err(err).
			Str("city", fallbackLocation.City).
			Msg("geo lookup failed, using fallback location")
		return fallbackLocation
	}
	return loc
}

func (r *Resolver) lookup(ctx context.Context) (model.GeoLocation, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", r.apiURL, nil)
	if err != nil {
		return model.GeoLocation{}, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return model.GeoLocation{}, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.GeoLocation{}, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.GeoLocation{}, fmt.Errorf("JSON decode error: %w", err)
	}

	loc := model.GeoLocation{
		City:        body.City,
		CountryName: body.CountryName,
		Latitude:    defaultLatitude,
		Longitude:   defaultLongitude,
	}
	if loc.City == "" {
		loc.City = "Unknown City"
	}
	if body.Latitude != nil && *body.Latitude != 0 {
		loc.Latitude = *body.Latitude
	}
	if body.Longitude != nil && *body.Longitude != 0 {
		loc.Longitude = *body.Longitude
	}
	return loc, nil
}

type ipAPIResponse struct {
	City        string   `json:"city"`
	CountryName string   `json:"country_name"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}
