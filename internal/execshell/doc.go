// Package execshell runs external tools on behalf of fastrepo.
//
// ShellExecutor wraps a CommandRunner with structured zap logging of each
// command's lifecycle, and OSCommandRunner is the os/exec backed runner used in
// production. The git CLI status engine is the only consumer today.
package execshell
