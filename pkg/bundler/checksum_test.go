package bundler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestComputeChecksum(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{
			name:    "empty",
			content: []byte{},
			want:    "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:    "hello",
			content: []byte("hello"),
			want:    "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeChecksum(tt.content); got != tt.want {
				t.Errorf("ComputeChecksum() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFileChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FileChecksum(path)
	if err != nil {
		t.Fatalf("FileChecksum() error = %v", err)
	}
	if want := ComputeChecksum([]byte("hello")); got != want {
		t.Errorf("FileChecksum() = %s, want %s", got, want)
	}

	if _, err := FileChecksum(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("FileChecksum() expected error for missing file")
	}
}

func TestChecksumGenerator_Generate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), "tm = thrax pt 12 grammar\n")
	writeFile(t, filepath.Join(dir, "grammar.packed", "vocabulary"), "vocab")
	writeFile(t, filepath.Join(dir, ChecksumsFileName), "old checksums")

	content, err := NewChecksumGenerator(NewResult(dir)).Generate(dir)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !strings.HasPrefix(content, "# Joshua Bundle Checksums (SHA256)\n# Generated: ") {
		t.Errorf("unexpected header: %q", content)
	}

	wantLines := []string{
		ComputeChecksum([]byte("tm = thrax pt 12 grammar\n")) + "  " + ConfigFileName,
		ComputeChecksum([]byte("vocab")) + "  grammar.packed/vocabulary",
	}
	for _, want := range wantLines {
		if !strings.Contains(content, want+"\n") {
			t.Errorf("checksums missing line %q:\n%s", want, content)
		}
	}

	if strings.Contains(content, ChecksumsFileName) {
		t.Errorf("checksums file must not list itself:\n%s", content)
	}
}
