// Package pokeapi provides a read-only HTTP client for the PokeAPI
// collection service.
//
// # Overview
//
// The package fetches paged windows of the collection and individual detail
// records, and projects detail records into a flat Summary for display.
//
// # Architecture
//
//   - client.go: HTTP client and request/response handling
//   - types.go: data structures mirroring the PokeAPI schema
//   - summary.go: display projection of a detail record
//   - errors.go: error taxonomy and the ErrorInfo display form
//   - id.go: numeric id extraction from reference URLs
//
// # Client Usage
//
//	client, err := pokeapi.NewClient(pokeapi.DefaultBaseURL)
//	if err != nil {
//	    return err
//	}
//	page, err := client.ListPage(ctx, 0, pokeapi.DefaultLimit)
//
// # Error Handling
//
// Every failure is one of TransportError, HTTPError, DecodeError or
// ValidationError. A 404 matches ErrNotFound via errors.Is. Info converts any
// of them into the message/status pair the UI renders.
package pokeapi
