package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(handler http.HandlerFunc) (*Resolver, func()) {
	srv := httptest.NewServer(handler)
	r := NewResolver()
	r.apiURL = srv.URL
	return r, srv.Close
}

func TestResolveSuccess(t *testing.T) {
	r, done := testResolver(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"city":"Lisbon","country_name":"Portugal","latitude":38.7223,"longitude":-9.1393}`))
	})
	defer done()

	loc := r.Resolve(context.Background())
	assert.Equal(t, "Lisbon", loc.City)
	assert.Equal(t, "Portugal", loc.CountryName)
	assert.InDelta(t, 38.7223, loc.Latitude, 1e-9)
	assert.InDelta(t, -9.1393, loc.Longitude, 1e-9)
}

func TestResolveServerErrorFallsBack(t *testing.T) {
	r, done := testResolver(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer done()

	loc := r.Resolve(context.Background())
	assert.Equal(t, "Limassol", loc.City)
	assert.Equal(t, "Cyprus", loc.CountryName)
	assert.InDelta(t, 34.6786, loc.Latitude, 1e-9)
	assert.InDelta(t, 33.0413, loc.Longitude, 1e-9)
}

func TestResolveNetworkErrorFallsBack(t *testing.T) {
	r, done := testResolver(func(w http.ResponseWriter, _ *http.Request) {})
	done() // closed server: connection refused

	loc := r.Resolve(context.Background())
	assert.Equal(t, "Limassol", loc.City)
}

func TestResolveGarbageBodyFallsBack(t *testing.T) {
	r, done := testResolver(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	})
	defer done()

	loc := r.Resolve(context.Background())
	assert.Equal(t, "Limassol", loc.City)
}

func TestResolveMissingCoordinatesUsesDefaults(t *testing.T) {
	r, done := testResolver(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"city":"Porto","country_name":"Portugal"}`))
	})
	defer done()

	loc := r.Resolve(context.Background())
	require.Equal(t, "Porto", loc.City)
	assert.InDelta(t, defaultLatitude, loc.Latitude, 1e-9)
	assert.InDelta(t, defaultLongitude, loc.Longitude, 1e-9)
}

func TestResolveZeroCoordinatesUsesDefaults(t *testing.T) {
	r, done := testResolver(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"city":"Accra","country_name":"Ghana","latitude":0,"longitude":0}`))
	})
	defer done()

	loc := r.Resolve(context.Background())
	assert.InDelta(t, defaultLatitude, loc.Latitude, 1e-9)
	assert.InDelta(t, defaultLongitude, loc.Longitude, 1e-9)
}

func TestResolveMissingCityGetsPlaceholder(t *testing.T) {
	r, done := testResolver(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"country_name":"France","latitude":48.85,"longitude":2.35}`))
	})
	defer done()

	loc := r.Resolve(context.Background())
	assert.Equal(t, "Unknown City", loc.City)
	assert.InDelta(t, 48.85, loc.Latitude, 1e-9)
}
