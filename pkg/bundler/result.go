package bundler

import (
	"fmt"
	"time"
)

// CopiedFile records one reference copied into the bundle.
type CopiedFile struct {
	// Line is the source configuration line number.
	Line int

	// Key is the configuration key (tm, lm or weights-file).
	Key string

	// Source is the resolved path that was copied.
	Source string

	// Dest is the path inside the bundle.
	Dest string

	// Size is the number of bytes copied, summed over a directory tree.
	Size int64

	// Dir is true when the reference was a directory.
	Dir bool
}

// Result describes a generated bundle.
type Result struct {
	// OutputDir is the bundle directory.
	OutputDir string

	// Files lists every file written by the bundler other than copied references.
	Files []string

	// Copied lists the copied references in configuration order.
	Copied []CopiedFile

	// Size is the total number of bytes written, copies included.
	Size int64

	// Duration is the wall time of the run.
	Duration time.Duration

	// Success is set once every stage completed.
	Success bool

	// Errors holds non-fatal errors.
	Errors []string

	generatedAt time.Time
}

// NewResult creates an empty result for outputDir.
func NewResult(outputDir string) *Result {
	return &Result{
		OutputDir:   outputDir,
		Files:       make([]string, 0),
		Copied:      make([]CopiedFile, 0),
		Errors:      make([]string, 0),
		generatedAt: time.Now().UTC(),
	}
}

// AddFile records a written file.
func (r *Result) AddFile(path string, size int64) {
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddCopied records a copied reference.
func (r *Result) AddCopied(c CopiedFile) {
	r.Copied = append(r.Copied, c)
	r.Size += c.Size
}

// AddError records a non-fatal error. Nil errors are ignored.
func (r *Result) AddError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err.Error())
}

// MarkSuccess marks the bundle as complete.
func (r *Result) MarkSuccess() {
	r.Success = true
}

// GeneratedAt returns the creation time formatted as RFC3339.
func (r *Result) GeneratedAt() string {
	return r.generatedAt.Format(time.RFC3339)
}

// TotalFiles returns the number of written files plus copied references.
func (r *Result) TotalFiles() int {
	return len(r.Files) + len(r.Copied)
}

// Summary returns a one line human readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("bundled %d references into %s (%d files, %s) in %s",
		len(r.Copied), r.OutputDir, r.TotalFiles(), formatBytes(r.Size), r.Duration.Round(time.Millisecond))
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
