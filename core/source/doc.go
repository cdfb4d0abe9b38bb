// Package source obtains raw fuel price payloads and turns them into records.
//
// A Source returns the payload bytes for one pipeline run:
//   - Client calls the NSW FuelCheck API (client-credentials token, then a
//     GET with the apikey, transactionID and requestTimeStamp headers).
//   - FileSource reads a payload saved on disk.
//   - ArchiveSource replays a payload kept in object storage.
//
// Adapt maps a payload onto StationRecord and PriceRecord values without any
// validation. A payload that cannot be decoded becomes empty records; deciding
// what to keep is the reconcile package's job.
package source
