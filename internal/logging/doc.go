// Package logging builds the slog loggers captionburn writes to stderr and
// to the optional log file.
//
// Console output puts the run ID, component and event type in each line's
// header and trails it with the hint and impact of warnings. JSON output is
// plain slog with short keys.
package logging
