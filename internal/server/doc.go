// Package server exposes a read-only profile of the catalog over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order so the first one added is the outermost. [LogRequests]
// writes one structured log line per request and [Recover] turns panics into 500 responses.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. [NewProfileRouter] wires everything
// the serve command needs.
//
// # Endpoints
//
//   - GET /profile : profile name, KPIs, platform chart, filter facets and the first page of items
//   - GET /profile/items : just the items page, for "load more" style paging
//   - GET /health : liveness plus a catalog read check
//
// Both profile endpoints accept tab, q, platform, sort and limit, plus the advanced filters platforms,
// statuses and tags (comma separated or repeated) and price / metacritic ranges as "min-max".
// Invalid parameters get a 400 with a JSON error body.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
