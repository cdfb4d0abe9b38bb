// Package stations serves the read API behind the map and ranking views.
//
// # Routes
//
//	GET /api/stations               stations with current prices
//	GET /api/stats?fuel_type=E10    five cheapest observations
//	GET /api/station/:code/history  last 7 days for one station
//
// Every view is computed from the store on request. A store failure turns
// into a 500 with an {"error": "..."} body for that request only.
package stations
