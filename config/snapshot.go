package config

import "strings"

// Snapshot is one emission of the external configuration stream: the full
// current configuration as an untyped tree, the way file sources such as
// viper hand it over.
type Snapshot map[string]any

// Env describes the environment the composed services run in. The
// coordinator passes it through to the services it constructs; this
// package does not interpret it.
type Env struct {
	// WorkingDir anchors relative paths such as log file directories.
	WorkingDir string
	// InstanceName identifies this process in logs and status output.
	InstanceName string
}

// At returns the sub-tree under the dot-separated path, or nil when any
// segment is missing or not a tree.
func (s Snapshot) At(path string) any {
	if path == "" {
		return map[string]any(s)
	}
	var node any = map[string]any(s)
	for _, seg := range strings.Split(path, ".") {
		tree, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = tree[seg]
		if !ok {
			return nil
		}
	}
	return node
}
