// Package cli implements the command-line interface for gacor.
//
// The cli package provides the Cobra-based CLI: "serve" runs the HTTP API,
// "scrape" fetches one provider (or every provider concurrently) and prints the
// game tiles as text or JSON, and "providers" lists the provider table. It wires
// config, logging, tracing, the scraper and the server together.
package cli
