// Package timeline merges the two conversation sources into one ordered
// view and renders every message part to terminal output.
//
// The streamed list belongs to the session; the synthetic list belongs to
// the Executor, which appends a user message the moment a side-channel
// command is accepted and an assistant message when the call settles. The
// merged view is recomputed on every render: streamed messages first, then
// synthetic messages, each in its own append order. Cross-source ordering
// is by source, never by wall clock.
package timeline
