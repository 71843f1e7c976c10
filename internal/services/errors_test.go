package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"captionburn/internal/services"
)

var errMarker = errors.New("marker")

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(errMarker, "burn", "ffmpeg", "failed", base)
	if !errors.Is(err, errMarker) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"burn", "ffmpeg", "failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerOrCause(t *testing.T) {
	if err := services.Wrap(nil, "", "", "", nil); err.Error() != "stage failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	base := errors.New("io")
	err := services.Wrap(nil, "convert", "", "write srt", base)
	if !errors.Is(err, base) || err.Error() != "convert: write srt: io" {
		t.Fatalf("unexpected error %v", err)
	}
	err = services.Wrap(errMarker, "preflight", "", "", nil)
	if !errors.Is(err, errMarker) || err.Error() != "marker: preflight" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCancelled(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{context.Canceled, true},
		{fmt.Errorf("ffmpeg interrupted: %w", context.DeadlineExceeded), true},
		{services.Wrap(services.ErrCancelled, "burn", "", "", nil), true},
		{errors.New("boom"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := services.Cancelled(tt.err); got != tt.want {
			t.Fatalf("Cancelled(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
