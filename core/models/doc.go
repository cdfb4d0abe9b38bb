// Package models defines the GORM models for the fuel price store.
//
// Two tables are managed:
//   - stations: keyed by the provider-assigned station code
//   - prices: surrogate id, referencing stations.code by value only
//
// The reference from prices to stations is not enforced by a database
// constraint; observations for unknown stations are stored as-is.
package models
