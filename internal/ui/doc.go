// Package ui implements the terminal browser using Bubble Tea.
//
// The model owns one list controller at a time, either a browse.Pager for
// numbered pages or a browse.Feed for incremental scrolling, plus one
// browse.DetailQuery per visible row and one for the detail screen.
// Controllers report changes through a single buffered channel that the
// model drains as tea messages, so rendering always happens on the Bubble
// Tea goroutine.
//
// Rows outside the window around the cursor are unmounted and their card
// queries closed, which lets the query cache evict details nobody is looking
// at.
package ui
