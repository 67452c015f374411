// Package root coordinates the lifecycle of the application's core
// services. A Root owns the logging service, the configuration service
// and the HTTP server; Start brings them up in order and Shutdown tears
// them down exactly once, no matter how many failure paths race into it.
//
// The logging service is reconfigured reactively: the "logging" sub-tree
// of every configuration snapshot is decoded and applied for as long as
// the Root lives. A snapshot whose logging sub-tree cannot be applied is
// fatal and shuts the Root down, after reporting the failure on stderr in
// case the logger itself was the casualty.
package root
