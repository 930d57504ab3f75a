// Package changes models the per-path divergence between HEAD, the index, and
// the working tree of a single member repository.
//
// Kind is a bit set mirroring the index-side and worktree-side states reported
// by a status Engine, Classify derives the two-character flag and color verdict
// printed in reports, and Engine is the capability boundary implemented by the
// gitstatus package.
package changes
