// Package browse turns the paged collection API into the views the UI
// consumes: a page-indexed Pager, an accumulating Feed, and per-entry
// DetailQuery lookups. Every read goes through a shared query.Cache, so a
// page or record fetched by one view is reused by the others.
package browse
