package bundler

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewResult(t *testing.T) {
	result := NewResult("/bundle")

	if result == nil {
		t.Fatal("NewResult() returned nil")
		return
	}

	if result.OutputDir != "/bundle" {
		t.Errorf("OutputDir = %s, want /bundle", result.OutputDir)
	}

	if result.Files == nil || result.Copied == nil || result.Errors == nil {
		t.Error("slices should be initialized")
	}

	if result.Success {
		t.Error("Success should be false initially")
	}
}

func TestResult_AddFileAndCopied(t *testing.T) {
	result := NewResult("/bundle")

	result.AddFile("/bundle/joshua.config", 100)
	result.AddCopied(CopiedFile{Key: "lm", Dest: "/bundle/lm.kenlm", Size: 200})

	if result.TotalFiles() != 2 {
		t.Errorf("TotalFiles() = %d, want 2", result.TotalFiles())
	}

	if result.Size != 300 {
		t.Errorf("Size = %d, want 300", result.Size)
	}
}

func TestResult_AddError(t *testing.T) {
	result := NewResult("/bundle")

	result.AddError(nil)
	if len(result.Errors) != 0 {
		t.Errorf("len(Errors) = %d, want 0", len(result.Errors))
	}

	result.AddError(errors.New("test error"))
	if len(result.Errors) != 1 || result.Errors[0] != "test error" {
		t.Errorf("Errors = %v, want [test error]", result.Errors)
	}
}

func TestResult_Summary(t *testing.T) {
	result := NewResult("/bundle")
	result.AddCopied(CopiedFile{Size: 5 * 1024 * 1024})
	result.AddFile("/bundle/joshua.config", 0)
	result.Duration = 2500 * time.Millisecond

	summary := result.Summary()

	for _, want := range []string{"1 references", "2 files", "5.0 MB", "2.5s"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() = %q, missing %q", summary, want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"bytes", 100, "100 B"},
		{"kilobytes", 1024, "1.0 KB"},
		{"megabytes", 1024 * 1024, "1.0 MB"},
		{"gigabytes", 1024 * 1024 * 1024, "1.0 GB"},
		{"mixed", 1536, "1.5 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatBytes(tt.bytes); got != tt.want {
				t.Errorf("formatBytes(%d) = %s, want %s", tt.bytes, got, tt.want)
			}
		})
	}
}
