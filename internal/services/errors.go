package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks failures caused by invalid settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrCancelled marks work stopped by context cancellation.
	ErrCancelled = errors.New("cancelled")
)

// Wrap builds an error message that includes stage context while tagging it
// with marker for later classification. marker is usually a package sentinel
// such as captions.ErrMalformedInput; nil leaves the error untagged.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	switch {
	case marker != nil && err != nil:
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	case marker != nil:
		return fmt.Errorf("%w: %s", marker, detail)
	case err != nil:
		return fmt.Errorf("%s: %w", detail, err)
	default:
		return errors.New(detail)
	}
}

// Cancelled reports whether err stems from context cancellation or deadline.
func Cancelled(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
