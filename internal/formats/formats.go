// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package formats defines the reader/writer contracts shared by the
// course dialects and the input/output format detection used by the CLI.
package formats

import (
	"coursefmt/internal/units"
)

// Reader parses one source (file or directory) into a course tree.
type Reader interface {
	// Read returns the course. The root of the returned tree is always a
	// Course collection; anything else is a structural error.
	Read() (*units.Collection, error)
}

// Writer serializes a course tree. Write walks the tree depth-first and
// must handle every unit kind; WriteTo then persists the accumulated
// output to a file or directory.
type Writer interface {
	Write(course units.Unit) error
	WriteTo(path string) error
}

// AsCourse checks that u is the course root.
func AsCourse(u units.Unit) (*units.Collection, error) {
	course, ok := u.(*units.Collection)
	if !ok || course.Kind() != units.KindCourse {
		return nil, units.NewStructuralError(
			"failed to parse course: expected a top-level course, got %q", u.Kind())
	}
	return course, nil
}
