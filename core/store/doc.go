// Package store persists stations and price observations through GORM.
//
// Repository implements both the reconcile.Store and aggregate.Reader
// interfaces. It holds the connection pool only; each method acquires a
// session bound to the caller's context and releases it when done, so one
// API request or one pipeline step never shares a session with another.
//
// Writes are batched and transactional: InsertStations and InsertPrices each
// commit in a single transaction. Reads are batch queries; callers group rows
// in memory instead of querying per station.
package store
