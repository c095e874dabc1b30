// Package server implements the gacor HTTP API.
//
// A single endpoint, /api/gacor, takes a "provider" query parameter:
//
//	providers  list the provider table
//	all        ask the client to aggregate per provider (no server-side fetch)
//	<key>      fetch that provider's RTP page and return its game tiles
//
// Unknown keys resolve to the "all" entry, which has nothing to fetch, and are
// answered with 400. Every response is a JSON envelope carrying an "ok" flag and
// a Cache-Control hint for the CDN in front of the service. The server also
// serves /healthz and Prometheus /metrics.
package server
