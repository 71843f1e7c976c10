package preflight

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"

	"captionburn/internal/config"
	"captionburn/internal/deps"
)

var (
	// ErrMissingFile reports a required input path that is absent or unreadable,
	// or an output directory that cannot be written.
	ErrMissingFile = errors.New("required file missing")
	// ErrOutputExists reports an output that would be overwritten without consent.
	ErrOutputExists = errors.New("output already exists")
	// ErrDependencyMissing reports a required external binary that cannot be found.
	ErrDependencyMissing = errors.New("required dependency missing")
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Kind is the sentinel a failure maps to.
	Kind error
}

// BurnInputs names the paths involved in one burn. An empty SRTPath skips
// the sidecar check.
type BurnInputs struct {
	SourcePath   string
	CaptionsPath string
	OutputPath   string
	SRTPath      string
	Overwrite    bool
}

// CheckConvert runs the checks needed to turn a caption file into an SRT.
func CheckConvert(captionsPath, srtPath string) []Result {
	results := []Result{CheckInputFile("Caption JSON", captionsPath)}
	if srtPath != "" {
		results = append(results, CheckDirectoryAccess("SRT directory", filepath.Dir(srtPath)))
	}
	return results
}

// CheckBurn runs every check a burn depends on, including external binaries.
func CheckBurn(cfg *config.Config, in BurnInputs) []Result {
	results := []Result{
		CheckInputFile("Source video", in.SourcePath),
		CheckInputFile("Caption JSON", in.CaptionsPath),
		CheckDirectoryAccess("Output directory", filepath.Dir(in.OutputPath)),
		CheckOutputTarget("Output video", in.SourcePath, in.OutputPath, in.Overwrite),
	}
	if in.SRTPath != "" {
		results = append(results, CheckSidecarTarget("Subtitle sidecar", in.SRTPath, in.Overwrite,
			in.SourcePath, in.CaptionsPath, in.OutputPath))
	}
	if cfg == nil {
		return results
	}
	statuses := deps.CheckBinaries(deps.Requirements(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.FFmpeg.ProbeSource))
	for _, status := range statuses {
		results = append(results, dependencyResult(status))
	}
	return results
}

func dependencyResult(status deps.Status) Result {
	if status.Available {
		return Result{Name: status.Name, Passed: true, Detail: status.Command}
	}
	if status.Optional {
		return Result{Name: status.Name, Passed: true, Detail: "optional: " + status.Detail}
	}
	return Result{Name: status.Name, Detail: status.Detail, Kind: ErrDependencyMissing}
}

// Failures returns the checks that did not pass.
func Failures(results []Result) []Result {
	return lo.Filter(results, func(r Result, _ int) bool { return !r.Passed })
}

// FirstFailure returns an error for the first failing check, or nil.
func FirstFailure(results []Result) error {
	failed, ok := lo.Find(results, func(r Result) bool { return !r.Passed })
	if !ok {
		return nil
	}
	kind := failed.Kind
	if kind == nil {
		kind = ErrMissingFile
	}
	return fmt.Errorf("%w: %s: %s", kind, failed.Name, failed.Detail)
}
