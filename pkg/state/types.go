package state

import "path/filepath"

// Paths is the canonical runtime folder layout under the viewer root.
type Paths struct {
	Root     string
	Snapshot string
	State    string
	Logs     string
	Report   string
	Tmp      string
	Crash    string // crash dumps written by shutdown
	Abort    string // machine-readable exit requests
}

func PathsFor(root string) Paths {
	statePath := filepath.Join(root, "state")
	return Paths{
		// base
		Root: root,

		// mains
		Snapshot: filepath.Join(root, "snapshot"),

		// state
		State:  statePath,
		Logs:   filepath.Join(statePath, "logs"),
		Report: filepath.Join(statePath, "report"),
		Tmp:    filepath.Join(statePath, "tmp"),
		Crash:  filepath.Join(statePath, "crash"),
		Abort:  filepath.Join(statePath, "abort"),
	}
}
