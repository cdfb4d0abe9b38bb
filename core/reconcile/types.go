package reconcile

import (
	"time"

	"fuel-dashboard/core/models"
)

// Config holds the admission and retention windows.
type Config struct {
	// StaleAfter rejects observations reported longer ago than this.
	StaleAfter time.Duration `mapstructure:"stale_after" default:"720h"`
	// RetainFor prunes observations captured longer ago than this.
	RetainFor time.Duration `mapstructure:"retain_for" default:"168h"`
}

// RejectReason explains why a price observation was not admitted.
type RejectReason string

const (
	// ReasonUnparseable marks a missing or malformed reported timestamp.
	ReasonUnparseable RejectReason = "unparseable_timestamp"
	// ReasonStale marks a reported timestamp older than the staleness threshold.
	ReasonStale RejectReason = "stale"
)

// Rejection records one skipped price observation. Rejections are reported, never stored.
type Rejection struct {
	StationCode   string       `json:"station_code"`
	FuelType      string       `json:"fuel_type"`
	ReportedAtRaw string       `json:"reported_at_raw"`
	Reason        RejectReason `json:"reason"`
}

// Plan is the staged outcome of one reconciliation cycle.
// Building a plan reads the store but never writes to it.
type Plan struct {
	// RunAt is the pipeline time; it becomes every admitted row's capture timestamp.
	RunAt time.Time `json:"run_at"`

	// Stations are the stations absent from the store, one per code.
	Stations []models.Station `json:"stations"`

	// Prices are the admitted observations.
	Prices []models.Price `json:"prices"`

	// Rejected lists the observations that were skipped.
	Rejected []Rejection `json:"rejected"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a reconciliation cycle.
type Summary struct {
	// IncomingStations is the number of station entries in the payload.
	IncomingStations int `json:"incoming_stations"`

	// NewStations counts stations staged for insertion.
	NewStations int `json:"new_stations"`

	// ExistingStations counts payload stations already in the store.
	ExistingStations int `json:"existing_stations"`

	// DuplicateStations counts repeated codes within the payload.
	DuplicateStations int `json:"duplicate_stations"`

	// InvalidStations counts station entries without a code.
	InvalidStations int `json:"invalid_stations"`

	// IncomingPrices is the number of price entries in the payload.
	IncomingPrices int `json:"incoming_prices"`

	// AcceptedPrices counts admitted observations.
	AcceptedPrices int `json:"accepted_prices"`

	// SkippedUnparseable counts observations with a missing or malformed timestamp.
	SkippedUnparseable int `json:"skipped_unparseable"`

	// SkippedStale counts observations past the staleness threshold.
	SkippedStale int `json:"skipped_stale"`

	// OrphanPrices counts admitted observations whose station is unknown.
	OrphanPrices int `json:"orphan_prices"`

	// MalformedRecords counts payload entries that could not be decoded.
	MalformedRecords int `json:"malformed_records"`
}

// Skipped returns the total number of rejected observations.
func (s Summary) Skipped() int {
	return s.SkippedUnparseable + s.SkippedStale
}

// Result reports what a cycle committed.
type Result struct {
	RunAt            time.Time `json:"run_at"`
	Summary          Summary   `json:"summary"`
	Pruned           int64     `json:"pruned"`
	StationsInserted int       `json:"stations_inserted"`
	PricesInserted   int       `json:"prices_inserted"`
}
