// Package geocode provides address geocoding and the update-time
// reconciliation rules that decide when a studio edit triggers a lookup.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
	"github.com/mattduff36/vostudiofinder-sub004/internal/httpclient"
	"github.com/mattduff36/vostudiofinder-sub004/internal/logging"
)

// Package-level logger specific to the geocode service.
var (
	logger      *slog.Logger
	closeLogger func() error
)

func init() {
	var err error
	logFilePath := filepath.Join(logging.Dir(), "geocode.log")
	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "geocode", slog.LevelDebug)
	if err != nil {
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger = slog.New(fbHandler).With("service", "geocode")
		closeLogger = func() error { return nil }
	}
}

// Result is one successful geocode lookup.
type Result struct {
	Latitude  float64
	Longitude float64
	City      string
	Country   string
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Config for the HTTP geocoding client.
type Config struct {
	BaseURL  string
	Email    string // contact address sent per the provider's usage policy
	CacheTTL time.Duration
}

// DefaultConfig returns the standard provider settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://nominatim.openstreetmap.org",
		CacheTTL: 24 * time.Hour,
	}
}

// Client is a Nominatim-style geocoding client with result caching.
type Client struct {
	config Config
	http   *httpclient.Client
	cache  *cache.Cache
}

// NewClient creates a geocoding client.
func NewClient(config Config, http *httpclient.Client) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultConfig().CacheTTL
	}
	return &Client{
		config: config,
		http:   http,
		cache:  cache.New(config.CacheTTL, config.CacheTTL*2),
	}
}

type nominatimResult struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// Geocode resolves an address, serving repeated lookups from cache.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	if cached, found := c.cache.Get(address); found {
		result := cached.(Result)
		return &result, nil
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")
	if c.config.Email != "" {
		q.Set("email", c.config.Email)
	}

	resp, err := c.http.Get(ctx, c.config.BaseURL+"/search?"+q.Encode())
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryGeocoding).
			Component("geocode").
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, errors.Newf("geocoder returned status %d", resp.StatusCode).
			Category(errors.CategoryGeocoding).
			Component("geocode").
			Build()
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryGeocoding).
			Component("geocode").
			Build()
	}
	if len(results) == 0 {
		return nil, errors.Newf("no geocode result for address").
			Category(errors.CategoryGeocoding).
			Component("geocode").
			Context("address", address).
			Build()
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryGeocoding).Component("geocode").Build()
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryGeocoding).Component("geocode").Build()
	}

	city := results[0].Address.City
	if city == "" {
		city = results[0].Address.Town
	}
	if city == "" {
		city = results[0].Address.Village
	}

	result := Result{Latitude: lat, Longitude: lon, City: city, Country: results[0].Address.Country}
	c.cache.Set(address, result, cache.DefaultExpiration)
	logger.Debug("address geocoded", "lat", lat, "lon", lon, "city", city)
	return &result, nil
}
