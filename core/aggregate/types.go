package aggregate

import (
	"encoding/json"
	"time"
)

// NotAvailable is the display price of a station with no recent observation.
const NotAvailable = "N/A"

// FuelPrice is the current price of one fuel type at a station.
type FuelPrice struct {
	FuelType string     `json:"fuel_type"`
	Price    float64    `json:"price"`
	Updated  *time.Time `json:"updated"`
}

// DisplayPrice is a price that may be unavailable. It encodes as a JSON number or "N/A".
type DisplayPrice struct {
	Value float64
	Valid bool
}

// MarshalJSON encodes the price as a number, or "N/A" when not valid.
func (d DisplayPrice) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(d.Value)
}

// StationView is a station with its current prices, as drawn on the map.
type StationView struct {
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	Brand        string       `json:"brand"`
	Address      string       `json:"address"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	Prices       []FuelPrice  `json:"prices"`
	DisplayPrice DisplayPrice `json:"display_price"`
}

// RankedPrice is one entry of the cheapest ranking.
type RankedPrice struct {
	Price       float64   `json:"price"`
	FuelType    string    `json:"fuel_type"`
	StationCode string    `json:"station_code"`
	Station     string    `json:"station"`
	Address     string    `json:"address"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Ranking is the cheapest-N view for one fuel type.
type Ranking struct {
	Title        string        `json:"title"`
	FuelType     string        `json:"fuel_type"`
	Cheapest     []RankedPrice `json:"cheapest_5"`
	TotalRecords int64         `json:"total_records"`
	DataAsOf     *time.Time    `json:"data_as_of"`
}

// HistoryPoint is one observation in a station's history.
type HistoryPoint struct {
	Price      float64 `json:"price"`
	CapturedAt string  `json:"captured_at"`
	FuelType   string  `json:"fuel_type"`
}

// History is a station's recent price history.
type History struct {
	StationCode string         `json:"station_code"`
	History     []HistoryPoint `json:"history"`
}
