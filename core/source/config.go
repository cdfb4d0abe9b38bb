package source

import (
	"time"
	// Reported timestamps are zone-local; slim images ship without zoneinfo.
	_ "time/tzdata"
)

// Config holds configuration for the upstream FuelCheck API.
type Config struct {
	// APIKey is the client id used for the token exchange and the apikey header.
	APIKey string `mapstructure:"api_key" default:""`
	// APISecret is the client secret used for the token exchange.
	APISecret string `mapstructure:"api_secret" default:""`
	// TokenURL is the OAuth2 client-credentials endpoint.
	TokenURL string `mapstructure:"token_url" default:"https://api.onegov.nsw.gov.au/oauth/client_credential/accesstoken"`
	// PricesURL is the fuel price endpoint.
	PricesURL string `mapstructure:"prices_url" default:"https://api.onegov.nsw.gov.au/FuelPriceCheck/v1/fuel/prices"`
	// FuelType restricts the upstream query to one fuel type.
	FuelType string `mapstructure:"fuel_type" default:"E10"`
	// Latitude is the centre of the queried area.
	Latitude float64 `mapstructure:"latitude" default:"-33.8688"`
	// Longitude is the centre of the queried area.
	Longitude float64 `mapstructure:"longitude" default:"151.2093"`
	// Radius is the search radius in kilometres.
	Radius float64 `mapstructure:"radius" default:"5"`
	// TimeoutSeconds bounds each upstream request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Timezone is the zone the upstream reports lastupdated in.
	Timezone string `mapstructure:"timezone" default:"Australia/Sydney"`
	// File makes the pipeline read a local payload instead of calling the API.
	File string `mapstructure:"file" default:""`
}

// Location resolves Timezone, falling back to UTC when it is empty or unknown.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
