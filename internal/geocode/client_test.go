package geocode

import (
	"context"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattduff36/vostudiofinder-sub004/internal/httpclient"
)

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	hc := httpclient.New(nil)
	hc.SetTransport(transport)
	return NewClient(DefaultConfig(), hc), transport
}

func TestGeocode(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder("GET", `=~^https://nominatim\.openstreetmap\.org/search`,
		httpmock.NewStringResponder(200, `[{"lat": "51.5074", "lon": "-0.1278",
			"address": {"city": "London", "country": "United Kingdom"}}]`))

	result, err := client.Geocode(context.Background(), "1 High Street, London")
	require.NoError(t, err)

	assert.InDelta(t, 51.5074, result.Latitude, 1e-9)
	assert.InDelta(t, -0.1278, result.Longitude, 1e-9)
	assert.Equal(t, "London", result.City)
	assert.Equal(t, "United Kingdom", result.Country)
}

func TestGeocodeCaches(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder("GET", `=~^https://nominatim\.openstreetmap\.org/search`,
		httpmock.NewStringResponder(200, `[{"lat": "1", "lon": "2", "address": {}}]`))

	_, err := client.Geocode(context.Background(), "somewhere")
	require.NoError(t, err)
	_, err = client.Geocode(context.Background(), "somewhere")
	require.NoError(t, err)

	assert.Equal(t, 1, transport.GetTotalCallCount(), "repeated lookups must be served from cache")
}

func TestGeocodeCityFallback(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder("GET", `=~^https://nominatim\.openstreetmap\.org/search`,
		httpmock.NewStringResponder(200, `[{"lat": "1", "lon": "2",
			"address": {"town": "Skipton", "country": "United Kingdom"}}]`))

	result, err := client.Geocode(context.Background(), "Skipton")
	require.NoError(t, err)
	assert.Equal(t, "Skipton", result.City, "town fills in when city is absent")
}

func TestGeocodeNoResult(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder("GET", `=~^https://nominatim\.openstreetmap\.org/search`,
		httpmock.NewStringResponder(200, `[]`))

	_, err := client.Geocode(context.Background(), "nowhere at all")
	assert.Error(t, err)
}

func TestGeocodeServerError(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder("GET", `=~^https://nominatim\.openstreetmap\.org/search`,
		httpmock.NewStringResponder(503, "unavailable"))

	_, err := client.Geocode(context.Background(), "anywhere")
	assert.Error(t, err)
}
