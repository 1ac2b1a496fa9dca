// Package query is an in-process request cache keyed by logical query
// identity.
//
// A Cache holds one entry per Key. Fetch and Observe serve an entry from the
// cache while it is fresh (younger than Options.StaleTime) and otherwise run
// the supplied fetch function, sharing a single execution among all callers
// of the same key. Retries follow Options.Retry with exponential backoff and
// run inside that shared execution.
//
// Results are ordered by issue sequence, not completion: when two fetches for
// one key overlap, only the most recently issued one can replace the stored
// value. Set counts as an issue.
//
// Unobserved entries are evicted by Sweep (see Run) after
// Options.IdleRetention, and by the LRU bound set with WithMaxEntries.
package query
