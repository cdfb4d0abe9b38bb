// Package server holds the HTTP server configuration and the liveness route.
//
// The cmd package builds the fiber application; this package only defines
// the listen settings and the "/" liveness handler used by load balancers.
package server
