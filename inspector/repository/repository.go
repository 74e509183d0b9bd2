package repository

import "errors"

// ErrSideNotFound is returned when a client or server tree is missing under the project root
var ErrSideNotFound = errors.New("source tree not found")

// Project represents information about a detected project
type Project struct {
	Root   string // Absolute path to the project root directory
	Type   string // Marker kind that identified the root (sides, javascript, go, git)
	Name   string // Name of the project (extracted from config files)
	Origin string // git origin URL when available
}

// Side is one scanned source tree of a project
type Side struct {
	Name  string   // client or server
	Dir   string   // root-relative, slash separated
	Files []string // root-relative, slash separated, sorted
}
