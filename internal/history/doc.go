// Package history stores past retester runs in a SQLite database.
//
// Every run records the request, the full output (HTML report plus the
// structured evaluation) and a digest of the request, so a run can be shown
// again or re-evaluated later with `retester history`.
//
// The database is a single file (retester.db) opened through the CGO-free
// modernc.org/sqlite driver. Requests and outputs are stored as JSON columns.
package history
