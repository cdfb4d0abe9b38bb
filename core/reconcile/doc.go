// Package reconcile decides what one pipeline cycle writes to the store.
//
// A cycle has three steps:
//
//  1. Station upsert: every payload station whose code is not stored yet is
//     staged once. Stored stations are never updated.
//  2. Price admission: observations with a missing or malformed reported
//     timestamp, or one older than the staleness window (30 days), are
//     skipped and counted. The rest are staged with the run time as their
//     capture timestamp. Observations for unknown stations are admitted and
//     counted as orphans.
//  3. Retention: observations captured before the retention window (7 days)
//     are deleted.
//
// Plan performs steps 1 and 2 without writing. Apply prunes, then commits the
// stations and the prices in separate transactions, stations first.
//
// # Usage
//
//	engine := reconcile.NewEngine(repo, logger, reconcile.DefaultOptions())
//	result, err := engine.Run(ctx, source.Adapt(raw))
package reconcile
