package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"captionburn/internal/burn"
	"captionburn/internal/captions"
	"captionburn/internal/preflight"
	"captionburn/internal/services"
)

const (
	exitOK             = 0
	exitFailure        = 1
	exitMissingFile    = 2
	exitMalformedInput = 3
	exitExternalTool   = 4
	exitInterrupted    = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !services.Cancelled(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case services.Cancelled(err):
		return exitInterrupted
	case errors.Is(err, captions.ErrMalformedInput):
		return exitMalformedInput
	case errors.Is(err, preflight.ErrMissingFile),
		errors.Is(err, preflight.ErrOutputExists),
		errors.Is(err, burn.ErrOutputBusy):
		return exitMissingFile
	case errors.Is(err, burn.ErrExternalTool),
		errors.Is(err, preflight.ErrDependencyMissing):
		return exitExternalTool
	default:
		return exitFailure
	}
}
