// Package services holds error helpers shared by the pipeline stages.
//
// Wrap tags a failure with a sentinel marker and stage context so the CLI can
// classify it with errors.Is and still print where the run stopped.
package services
