// Package genapi implements the chatmux generation backend.
//
// The server exposes four POST endpoints:
//
//   - /api/chat   streams model tokens as Server-Sent Events
//   - /api/image  generates an image through a pluggable provider
//   - /api/task   produces a structured task list via model structured output
//   - /api/v0     generates a UI preview through the v0 platform
//
// The non-chat endpoints settle synchronously: the handler blocks until the
// upstream provider succeeds or fails, then answers with a single JSON body.
package genapi
