// Package config projects an application's stream of configuration
// snapshots onto schema-typed sub-streams.
//
// A Snapshot is one full configuration emission from the external source.
// Service.At (via the package-level At function) selects a dot-separated
// path inside each snapshot, decodes the sub-tree into the requested
// schema struct, validates it, and emits only when the decoded value
// actually changed. Decode or validation failures terminate the derived
// stream with an error; lifecycle owners treat that as fatal.
package config
