package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// CheckInputFile verifies that path exists, is a regular file, and is readable.
func CheckInputFile(name, path string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "path not provided", Kind: ErrMissingFile}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s not found", path), Kind: ErrMissingFile}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err), Kind: ErrMissingFile}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is a directory", path), Kind: ErrMissingFile}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err), Kind: ErrMissingFile}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDirectoryAccess verifies that the directory exists and is writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path), Kind: ErrMissingFile}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err), Kind: ErrMissingFile}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path), Kind: ErrMissingFile}
	}
	if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err), Kind: ErrMissingFile}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (write ok)", path)}
}

// CheckOutputTarget rejects an output that is the source itself, and an
// existing output unless overwrite is set.
func CheckOutputTarget(name, sourcePath, outputPath string, overwrite bool) Result {
	outputPath = strings.TrimSpace(outputPath)
	if outputPath == "" {
		return Result{Name: name, Detail: "path not provided", Kind: ErrMissingFile}
	}
	if SameFile(sourcePath, outputPath) {
		return Result{Name: name, Detail: fmt.Sprintf("%s is the source video", outputPath), Kind: ErrOutputExists}
	}
	info, err := os.Stat(outputPath)
	switch {
	case err == nil && info.IsDir():
		return Result{Name: name, Detail: fmt.Sprintf("%s is a directory", outputPath), Kind: ErrOutputExists}
	case err == nil && !overwrite:
		return Result{Name: name, Detail: fmt.Sprintf("%s exists (use --overwrite to replace it)", outputPath), Kind: ErrOutputExists}
	case err == nil:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be replaced)", outputPath)}
	}
	return Result{Name: name, Passed: true, Detail: outputPath}
}

// CheckSidecarTarget rejects an SRT path that would clobber one of inputs,
// and an existing file unless overwrite is set.
func CheckSidecarTarget(name, srtPath string, overwrite bool, inputs ...string) Result {
	srtPath = strings.TrimSpace(srtPath)
	if srtPath == "" {
		return Result{Name: name, Detail: "path not provided", Kind: ErrMissingFile}
	}
	for _, input := range inputs {
		if SameFile(input, srtPath) {
			return Result{Name: name, Detail: fmt.Sprintf("%s is an input of this burn", srtPath), Kind: ErrOutputExists}
		}
	}
	info, err := os.Stat(srtPath)
	switch {
	case err == nil && info.IsDir():
		return Result{Name: name, Detail: fmt.Sprintf("%s is a directory", srtPath), Kind: ErrOutputExists}
	case err == nil && !overwrite:
		return Result{Name: name, Detail: fmt.Sprintf("%s exists (use --overwrite to replace it)", srtPath), Kind: ErrOutputExists}
	case err == nil:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be replaced)", srtPath)}
	}
	return Result{Name: name, Passed: true, Detail: srtPath}
}

// SameFile reports whether a and b name the same file, either by cleaned
// absolute path or by inode when both exist.
func SameFile(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
