// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the sync trigger.
//   - rayid: a request id (RayID) for every incoming request, stored in the fiber locals
//     and echoed in the X-Ray-ID response header for tracing.
package middleware
