// Package server hosts the application's HTTP surface. The server
// resolves its own configuration from the shared snapshot stream on
// Start, binds its listener eagerly so bind failures surface at startup,
// and shuts down gracefully on Stop.
package server
