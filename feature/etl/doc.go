// Package etl glues the ingestion pipeline together.
//
// A Pipeline run fetches one payload from a source.Source, optionally stores
// the raw bytes in object storage, adapts it into records and hands them to
// the reconciliation engine. The pipeline implements scheduler.Job so the
// scheduler can drive it, and it remembers the last run's report, served at
// GET /api/etl/status.
//
// # Archive
//
// Archived payloads are named
//
//	<prefix>/YYYY/MM/DD/<YYYYMMDDTHHMMSSZ>-<uuid>.json
//
// and expire after the retention window. source.ArchiveSource replays one.
package etl
