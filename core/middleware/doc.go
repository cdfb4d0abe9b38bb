// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - RayID: tags every request with an id, stored in the fiber locals under
//     "ray_id" and echoed in the X-Ray-ID response header. logger.WithRayID
//     reads it back so request logs can be correlated.
//
// The read API is public, so there is no authentication middleware.
package middleware
