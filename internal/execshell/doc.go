// Package execshell centralizes external process execution for clipdiff.
// It wraps os/exec behind a CommandRunner interface, surfaces command
// lifecycle events to observers, and distinguishes non-zero exit codes
// from failures to launch the process at all.
package execshell
