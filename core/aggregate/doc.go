// Package aggregate builds the read views served by the API.
//
// All views are pure functions of the store contents and the clock; nothing
// is materialized between calls.
//
//   - Stations: every station with its current price per fuel type (latest
//     observation captured in the last 24 hours, price above 1) and a single
//     display price, E10 when reported.
//   - Cheapest: the five cheapest observations of one fuel type priced above
//     10, with station names resolved in one batch, plus the total record
//     count and the newest capture time.
//   - History: one station's observations from the last 7 days.
//
// Views are computed from batch reads and grouped in memory; there is no
// per-station query.
package aggregate
