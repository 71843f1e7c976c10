// Package preflight validates the filesystem and tool preconditions of a burn
// before any file is written.
//
// Checks return Result values so the CLI can render them as a status list;
// FirstFailure converts the first failing check into an error wrapping one of
// the package sentinels, which the CLI maps to a process exit code.
package preflight
