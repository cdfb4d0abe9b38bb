package source

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ReportedAtLayout is the upstream lastupdated format (DD/MM/YYYY HH:MM:SS, 24-hour).
const ReportedAtLayout = "02/01/2006 15:04:05"

// Payload is the upstream response body.
type Payload struct {
	Stations []PayloadStation `json:"stations"`
	Prices   []PayloadPrice   `json:"prices"`
}

// PayloadStation is one entry of the stations array.
type PayloadStation struct {
	Code     flexString      `json:"code"`
	Name     flexString      `json:"name"`
	Brand    flexString      `json:"brand"`
	Address  flexString      `json:"address"`
	Location PayloadLocation `json:"location"`
}

// PayloadLocation holds a station's coordinates. Non-numeric values decode as unknown.
type PayloadLocation struct {
	Latitude  optFloat `json:"latitude"`
	Longitude optFloat `json:"longitude"`
}

func (l *PayloadLocation) UnmarshalJSON(b []byte) error {
	type plain PayloadLocation
	var v plain
	// A location that is not an object leaves the coordinates unknown.
	if err := json.Unmarshal(b, &v); err != nil {
		*l = PayloadLocation{}
		return nil
	}
	*l = PayloadLocation(v)
	return nil
}

// PayloadPrice is one entry of the prices array.
type PayloadPrice struct {
	StationCode flexString `json:"stationcode"`
	FuelType    flexString `json:"fueltype"`
	Price       flexFloat  `json:"price"`
	LastUpdated flexString `json:"lastupdated"`
}

// StationRecord is a station as reported by the source, unvalidated.
type StationRecord struct {
	Code      string
	Name      string
	Brand     string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// PriceRecord is a price observation as reported by the source.
// ReportedAtRaw is left unparsed.
type PriceRecord struct {
	StationCode   string
	FuelType      string
	Price         float64
	ReportedAtRaw string
}

// Records is the semantic content of one payload.
type Records struct {
	Stations []StationRecord
	Prices   []PriceRecord
	// Malformed counts list entries that could not be decoded at all.
	Malformed int
}

// Empty reports whether the payload carried nothing.
func (r Records) Empty() bool {
	return len(r.Stations) == 0 && len(r.Prices) == 0
}

// rawPayload defers decoding so one bad entry cannot sink the document.
type rawPayload struct {
	Stations json.RawMessage `json:"stations"`
	Prices   json.RawMessage `json:"prices"`
}

// Adapt decodes a raw payload. Undecodable input yields empty records.
// Entries are decoded one by one; an entry that cannot be decoded is
// dropped and counted in Malformed while its neighbours survive.
func Adapt(raw []byte) Records {
	var doc rawPayload
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Records{Stations: []StationRecord{}, Prices: []PriceRecord{}}
	}

	stations, badStations := decodeEntries[PayloadStation](doc.Stations)
	prices, badPrices := decodeEntries[PayloadPrice](doc.Prices)

	records := AdaptPayload(Payload{Stations: stations, Prices: prices})
	records.Malformed = badStations + badPrices
	return records
}

// decodeEntries decodes a JSON array element by element. A value that is
// not an array counts as one malformed entry.
func decodeEntries[T any](list json.RawMessage) ([]T, int) {
	list = bytes.TrimSpace(list)
	if len(list) == 0 || bytes.Equal(list, []byte("null")) {
		return nil, 0
	}
	var items []json.RawMessage
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, 1
	}

	out := make([]T, 0, len(items))
	malformed := 0
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			malformed++
			continue
		}
		out = append(out, v)
	}
	return out, malformed
}

// AdaptPayload maps payload entries one to one onto records.
func AdaptPayload(p Payload) Records {
	out := Records{
		Stations: make([]StationRecord, 0, len(p.Stations)),
		Prices:   make([]PriceRecord, 0, len(p.Prices)),
	}

	for _, s := range p.Stations {
		out.Stations = append(out.Stations, StationRecord{
			Code:      string(s.Code),
			Name:      string(s.Name),
			Brand:     string(s.Brand),
			Address:   string(s.Address),
			Latitude:  s.Location.Latitude.Ptr(),
			Longitude: s.Location.Longitude.Ptr(),
		})
	}

	for _, pr := range p.Prices {
		out.Prices = append(out.Prices, PriceRecord{
			StationCode:   string(pr.StationCode),
			FuelType:      string(pr.FuelType),
			Price:         float64(pr.Price),
			ReportedAtRaw: string(pr.LastUpdated),
		})
	}

	return out
}

// flexString accepts a JSON string or number. The API sends codes and
// timestamps as either. Other values decode as empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = ""
	if len(b) == 0 {
		return nil
	}
	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	}
	return nil
}

// flexFloat accepts a JSON number or a numeric string. Anything else is zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var o optFloat
	if err := o.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = 0
	if o.v != nil {
		*f = flexFloat(*o.v)
	}
	return nil
}

// optFloat is a float that may be unknown. Numbers and numeric strings set
// it; null and anything else leave it unset.
type optFloat struct {
	v *float64
}

func (o *optFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	o.v = nil
	if len(b) == 0 {
		return nil
	}
	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			o.v = &v
		}
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		o.v = &v
	}
	return nil
}

// Ptr returns the value, or nil when unknown.
func (o optFloat) Ptr() *float64 {
	return o.v
}
