package burn

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"captionburn/internal/captions"
	"captionburn/internal/config"
	"captionburn/internal/logging"
	"captionburn/internal/media/ffprobe"
	"captionburn/internal/preflight"
	"captionburn/internal/testsupport"
)

const sampleCaptions = `{"events":[
  {"tStartMs":0,"dDurationMs":2000,"segs":[{"utf8":"Hello"}]},
  {"tStartMs":1500,"dDurationMs":1000,"segs":[{"utf8":"World"}]}
]}`

func probeJSON(duration string, withVideo bool) string {
	streams := `{"index":0,"codec_type":"audio","codec_name":"aac"}`
	if withVideo {
		streams = `{"index":0,"codec_type":"video","codec_name":"h264","width":1920,"height":1080},` +
			`{"index":1,"codec_type":"audio","codec_name":"aac"}`
	}
	return `{"streams":[` + streams + `],"format":{"duration":"` + duration + `"}}`
}

type serviceFixture struct {
	dir   string
	job   Job
	calls []recordedCall
}

func newServiceFixture(t *testing.T, captionsJSON string) *serviceFixture {
	t.Helper()
	dir := t.TempDir()
	f := &serviceFixture{
		dir: dir,
		job: Job{
			SourcePath:   filepath.Join(dir, "source.mp4"),
			CaptionsPath: filepath.Join(dir, "captions.json"),
			OutputPath:   filepath.Join(dir, "burned.mp4"),
		},
	}
	testsupport.WriteFile(t, f.job.SourcePath, "video")
	testsupport.WriteFile(t, f.job.CaptionsPath, captionsJSON)
	return f
}

func (f *serviceFixture) service(probeOutput string, probeErr error) *Service {
	cfg := config.Default()
	burner := NewBurner(&cfg, logging.NewNop())
	burner.WithCommandRunner(fakeFFmpeg(&f.calls, "burned"))
	prober := ffprobe.New("ffprobe").WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte(probeOutput), probeErr
	})
	return NewService(&cfg, logging.NewNop(), WithBurner(burner), WithProber(prober), WithoutDependencyCheck())
}

func TestServiceRunRemovesSidecarByDefault(t *testing.T) {
	f := newServiceFixture(t, sampleCaptions)
	report, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.OutputPath != f.job.OutputPath {
		t.Fatalf("unexpected output %q", report.OutputPath)
	}
	if report.SRTPath != filepath.Join(f.dir, "burned.srt") {
		t.Fatalf("unexpected sidecar %q", report.SRTPath)
	}
	if report.SRTKept {
		t.Fatal("sidecar should not be reported as kept")
	}
	if _, err := os.Stat(report.SRTPath); !os.IsNotExist(err) {
		t.Fatalf("sidecar should be removed, stat err = %v", err)
	}
	if report.Cues != 2 || report.Dropped != 0 {
		t.Fatalf("unexpected counts cues=%d dropped=%d", report.Cues, report.Dropped)
	}
	if report.VideoSeconds != 10 {
		t.Fatalf("unexpected video duration %v", report.VideoSeconds)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", report.Warnings)
	}
	if len(f.calls) != 1 {
		t.Fatalf("expected one ffmpeg call, got %d", len(f.calls))
	}
}

func TestServiceRunKeepsSidecar(t *testing.T) {
	f := newServiceFixture(t, sampleCaptions)
	f.job.KeepSRT = true
	report, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	data, err := os.ReadFile(report.SRTPath)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,490\nHello\n\n" +
		"2\n00:00:01,500 --> 00:00:02,500\nWorld\n\n"
	if string(data) != want {
		t.Fatalf("sidecar content:\n%q\nwant\n%q", data, want)
	}
	if !report.SRTKept {
		t.Fatal("expected sidecar kept")
	}
}

func TestServiceRunExplicitSRTPath(t *testing.T) {
	f := newServiceFixture(t, sampleCaptions)
	f.job.KeepSRT = true
	f.job.SRTPath = filepath.Join(f.dir, "custom.srt")
	report, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.SRTPath != f.job.SRTPath {
		t.Fatalf("unexpected sidecar %q", report.SRTPath)
	}
	if !strings.Contains(strings.Join(f.calls[0].args, " "), "custom.srt") {
		t.Fatalf("ffmpeg was not pointed at the custom srt: %v", f.calls[0].args)
	}
}

func TestServiceRunMalformedCaptions(t *testing.T) {
	f := newServiceFixture(t, `{"events":[{"segs":[{"utf8":"no start"}]}]}`)
	_, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
	if !errors.Is(err, captions.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if _, statErr := os.Stat(SidecarPath(f.job.OutputPath)); !os.IsNotExist(statErr) {
		t.Fatalf("no sidecar should be written, stat err = %v", statErr)
	}
	if len(f.calls) != 0 {
		t.Fatal("ffmpeg should not run for malformed captions")
	}
}

func TestServiceRunPreflightFailures(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		f := newServiceFixture(t, sampleCaptions)
		f.job.SourcePath = filepath.Join(f.dir, "absent.mp4")
		_, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
		if !errors.Is(err, preflight.ErrMissingFile) {
			t.Fatalf("expected ErrMissingFile, got %v", err)
		}
	})
	t.Run("existing output", func(t *testing.T) {
		f := newServiceFixture(t, sampleCaptions)
		testsupport.WriteFile(t, f.job.OutputPath, "old")
		_, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
		if !errors.Is(err, preflight.ErrOutputExists) {
			t.Fatalf("expected ErrOutputExists, got %v", err)
		}
	})
	t.Run("overwrite allowed", func(t *testing.T) {
		f := newServiceFixture(t, sampleCaptions)
		testsupport.WriteFile(t, f.job.OutputPath, "old")
		f.job.Overwrite = true
		if _, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		data, _ := os.ReadFile(f.job.OutputPath)
		if string(data) != "burned" {
			t.Fatalf("output not replaced: %q", data)
		}
	})
	t.Run("srt output rejected", func(t *testing.T) {
		f := newServiceFixture(t, sampleCaptions)
		f.job.OutputPath = filepath.Join(f.dir, "burned.srt")
		if _, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job); err == nil {
			t.Fatal("expected error for .srt output path")
		}
	})
}

func TestServiceRunProtectsInputsFromSidecar(t *testing.T) {
	tests := []struct {
		name  string
		input func(f *serviceFixture) string
	}{
		{"source video", func(f *serviceFixture) string { return f.job.SourcePath }},
		{"caption json", func(f *serviceFixture) string { return f.job.CaptionsPath }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newServiceFixture(t, sampleCaptions)
			target := tc.input(f)
			before, err := os.ReadFile(target)
			if err != nil {
				t.Fatal(err)
			}
			f.job.SRTPath = target
			f.job.Overwrite = true
			_, err = f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
			if !errors.Is(err, preflight.ErrOutputExists) {
				t.Fatalf("expected ErrOutputExists, got %v", err)
			}
			after, err := os.ReadFile(target)
			if err != nil {
				t.Fatalf("input was removed: %v", err)
			}
			if string(after) != string(before) {
				t.Fatalf("input was modified: %q", after)
			}
			if len(f.calls) != 0 {
				t.Fatal("ffmpeg should not run")
			}
		})
	}
}

func TestServiceRunExistingSidecar(t *testing.T) {
	t.Run("refused without overwrite", func(t *testing.T) {
		f := newServiceFixture(t, sampleCaptions)
		f.job.SRTPath = filepath.Join(f.dir, "mine.srt")
		testsupport.WriteFile(t, f.job.SRTPath, "hand edited")
		_, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
		if !errors.Is(err, preflight.ErrOutputExists) {
			t.Fatalf("expected ErrOutputExists, got %v", err)
		}
		data, err := os.ReadFile(f.job.SRTPath)
		if err != nil || string(data) != "hand edited" {
			t.Fatalf("existing srt changed: %q, %v", data, err)
		}
	})
	t.Run("replaced with overwrite", func(t *testing.T) {
		f := newServiceFixture(t, sampleCaptions)
		testsupport.WriteFile(t, SidecarPath(f.job.OutputPath), "stale")
		f.job.Overwrite = true
		f.job.KeepSRT = true
		report, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		data, _ := os.ReadFile(report.SRTPath)
		if !strings.HasPrefix(string(data), "1\n") {
			t.Fatalf("sidecar not regenerated: %q", data)
		}
	})
}

func TestServiceRunProbeFailures(t *testing.T) {
	t.Run("no video stream", func(t *testing.T) {
		f := newServiceFixture(t, sampleCaptions)
		_, err := f.service(probeJSON("10.0", false), nil).Run(context.Background(), f.job)
		if !errors.Is(err, ErrNoVideoStream) {
			t.Fatalf("expected ErrNoVideoStream, got %v", err)
		}
	})
	t.Run("ffprobe error", func(t *testing.T) {
		f := newServiceFixture(t, sampleCaptions)
		_, err := f.service("", errors.New("exit status 1")).Run(context.Background(), f.job)
		if !errors.Is(err, ErrExternalTool) {
			t.Fatalf("expected ErrExternalTool, got %v", err)
		}
	})
}

func TestServiceRunReportsValidationWarnings(t *testing.T) {
	f := newServiceFixture(t, `{"events":[{"tStartMs":20000,"dDurationMs":1000,"segs":[{"utf8":"late"}]}]}`)
	report, err := f.service(probeJSON("10.0", true), nil).Run(context.Background(), f.job)
	if err != nil {
		t.Fatalf("validation issues should not fail the run: %v", err)
	}
	if len(report.Warnings) == 0 || !strings.HasPrefix(report.Warnings[0], "duration_mismatch") {
		t.Fatalf("expected a duration_mismatch warning, got %v", report.Warnings)
	}
}

func TestServiceRunBurnFailureKeepsSidecar(t *testing.T) {
	f := newServiceFixture(t, sampleCaptions)
	svc := f.service(probeJSON("10.0", true), nil)
	svc.burner.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("Invalid data found when processing input"), errors.New("exit status 1")
	})
	_, err := svc.Run(context.Background(), f.job)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if _, statErr := os.Stat(SidecarPath(f.job.OutputPath)); statErr != nil {
		t.Fatalf("sidecar should be kept after a failed burn: %v", statErr)
	}
	if _, statErr := os.Stat(f.job.OutputPath); !os.IsNotExist(statErr) {
		t.Fatalf("output should not exist, stat err = %v", statErr)
	}
}

func TestServiceWithoutProbe(t *testing.T) {
	f := newServiceFixture(t, sampleCaptions)
	cfg := config.Default()
	burner := NewBurner(&cfg, logging.NewNop())
	burner.WithCommandRunner(fakeFFmpeg(&f.calls, "burned"))
	svc := NewService(&cfg, logging.NewNop(), WithBurner(burner), WithProber(nil), WithoutDependencyCheck())
	report, err := svc.Run(context.Background(), f.job)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.VideoSeconds != 0 {
		t.Fatalf("expected no probe duration, got %v", report.VideoSeconds)
	}
}

func TestSidecarPath(t *testing.T) {
	tests := map[string]string{
		"/v/out.mp4":       "/v/out.srt",
		"/v/out.final.mkv": "/v/out.final.srt",
		"/v/out":           "/v/out.srt",
	}
	for in, want := range tests {
		if got := SidecarPath(in); got != want {
			t.Errorf("SidecarPath(%q) = %q, want %q", in, got, want)
		}
	}
}
