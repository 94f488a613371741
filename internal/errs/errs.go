// Package errs defines the error types shared by every layer of the service.
//
// Two families live here:
//   - Error: domain errors raised by the record access core (repository,
//     validation hooks, data manager). They carry a Kind so callers can branch
//     with errors.Is against the exported sentinels.
//   - HTTPError: the JSON error shape returned to API clients.
//
// ToHTTP bridges the two so handlers never build status codes by hand.
package errs
