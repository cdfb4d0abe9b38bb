// Package scheduler triggers the ingestion pipeline on a jittered interval.
//
// A Scheduler owns a single-slot semaphore. A trigger that cannot take the
// slot is dropped and logged rather than queued, so at most one pipeline run
// is active per process. Trigger exposes the same guarded run for manual use
// and reports a skipped trigger as ErrRunInProgress.
package scheduler
