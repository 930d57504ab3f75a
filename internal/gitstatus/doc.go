// Package gitstatus implements changes.Engine for member repositories.
//
// GoGitEngine reads status in-process with go-git and is the default.
// GitCLIEngine shells out to `git status --porcelain=v1 -z` through execshell
// for checkouts that need full git semantics such as type-change detection.
package gitstatus
