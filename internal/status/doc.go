// Package status implements the status subcommand: it locates the super-repository root,
// loads its manifest, probes every project concurrently, and prints the combined report.
package status
