// Package dispatch decides whether an argument vector is handled in process or passed
// through to the external repo tool, and launches that tool with inherited standard streams.
package dispatch
