// Package manifest reads the XML manifest that enumerates the member projects
// of a super-repository.
//
// Decoding is lenient: unknown elements and attributes are ignored and optional
// project attributes stay absent rather than defaulting to empty strings.
// Remote and default elements are retained but not interpreted.
package manifest
