// Package filesystem exposes the small read-only file system surface shared by
// the super-repository locator and the manifest loader so tests can substitute
// in-memory fakes.
package filesystem
