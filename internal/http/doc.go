// Package http exposes page content and builder asset bundles over HTTP.
//
// Routes mount under a configurable base path (default /api):
//   - Pages: GET /pages, GET /pages/{id}
//   - Bundles: GET /pages/{id}/assets
//   - Documents: PUT /pages/{id}, DELETE /pages/{id}
//
// Host applications register the handlers on their own mux.
package http
