// Package errs defines the error shapes returned to API clients.
//
// Every failure that reaches the HTTP layer ends up as an *HTTPError, so
// clients always receive the same JSON body:
//
//	{ "code": "...", "message": "...", "status": 400, "override": false, "errors": [...], "action": null }
//
// The store-facing taxonomy maps onto it as follows:
//   - not found (id-based reads, updates, deletes)  -> 404 NOT_FOUND
//   - validation (constraint violation on write)     -> 400 with field errors
//   - store connectivity (database unreachable)      -> 503 SERVICE_UNAVAILABLE
package errs
