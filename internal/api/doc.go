// Package api is the transport layer between lotwatch and the vehicle monitor
// HTTP API.
//
// # Endpoints
//
// All paths live under <base>/api:
//
//	GET  /vehicles/stats          aggregate counts
//	GET  /vehicles?page&per_page&status[&brand&model]
//	GET  /vehicles/recent         records first seen in the last day
//	GET  /vehicles/removed        records sold or removed in the last day
//	GET  /vehicles/search?q=      free-text search
//	GET  /vehicles/<id>           single record
//	GET  /vehicles/history/<id>   change history of a record
//	POST /scraper/run             start a scraping cycle
//	GET  /scraper/status          run-state of the scraping job
//
// # Failures
//
// Client.Call converts every problem into a *Failure whose Kind is one of
// FailureNetwork, FailureServer or FailureMalformed. Arguments the client
// refuses to send, such as a blank search, come back as FailureInvalid.
// Nothing panics past the client. Callers decide whether to surface the message; the client only logs.
//
// # Busy indicator
//
// Busy is a reference count rather than a flag. A status poll that overlaps a
// page load must not clear the indicator while the page load is still in
// flight, so each call holds its own reference and releases it on every exit
// path via defer.
//
// The client performs no retries, queuing or de-duplication. Callers that need
// to drop superseded responses tag their requests (see package view).
package api
