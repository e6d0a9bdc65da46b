package bundler

import (
	"testing"

	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
	"github.com/joshua-decoder/joshua-bundle/pkg/joshua"
)

const (
	lineAbs = "tm = thrax pt 12 /expts/haitian-creole-sms/runs/5/data/test/grammar.filtered.gz"
	lineRel = "lm = berkeleylm 5 false false 100 lm.berkeleylm"
)

func TestResolveSourcePath(t *testing.T) {
	tests := []struct {
		name      string
		originDir string
		line      string
		literal   bool
		want      string
		wantErr   bool
	}{
		{
			name:      "absolute passthrough with empty origin",
			originDir: "",
			line:      "tm = thrax pt 12 /a/b/grammar.gz",
			want:      "/a/b/grammar.gz",
		},
		{
			name:      "absolute passthrough",
			originDir: "/expts",
			line:      lineAbs,
			want:      "/expts/haitian-creole-sms/runs/5/data/test/grammar.filtered.gz",
		},
		{
			name:      "relative joined to origin",
			originDir: "/root",
			line:      lineRel,
			want:      "/root/lm.berkeleylm",
		},
		{
			name:      "relative with directories",
			originDir: "/expts/runs/5",
			line:      "weights-file = test/1/weights",
			want:      "/expts/runs/5/test/1/weights",
		},
		{
			name:      "relative origin already applied",
			originDir: "runs/5",
			line:      "weights-file = runs/5/test/1/weights",
			want:      "runs/5/test/1/weights",
		},
		{
			name:      "textual prefix is not containment",
			originDir: "runs/5",
			line:      "weights-file = runs/50/weights",
			want:      "runs/5/runs/50/weights",
		},
		{
			name:      "literal prefix accepts textual prefix",
			originDir: "runs/5",
			line:      "weights-file = runs/50/weights",
			literal:   true,
			want:      "runs/50/weights",
		},
		{
			name:      "literal prefix with empty origin",
			originDir: "",
			line:      lineRel,
			literal:   true,
			want:      "lm.berkeleylm",
		},
		{
			name:      "missing path token",
			originDir: "/root",
			line:      "lm",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PathResolver{LiteralPrefix: tt.literal}
			got, err := r.Source(tt.originDir, joshua.NewLine(1, tt.line))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Source() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
					t.Errorf("Source() error code = %s, want %s", errors.CodeOf(err), errors.ErrCodeInvalidConfig)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Source() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveSourcePath_Default(t *testing.T) {
	got, err := ResolveSourcePath("/root", joshua.NewLine(1, lineRel))
	if err != nil {
		t.Fatalf("ResolveSourcePath() error = %v", err)
	}
	if got != "/root/lm.berkeleylm" {
		t.Errorf("ResolveSourcePath() = %q, want /root/lm.berkeleylm", got)
	}
}

func TestResolveDestPath(t *testing.T) {
	tests := []struct {
		name    string
		destDir string
		line    string
		want    string
	}{
		{"relative file", "/dest", lineRel, "/dest/lm.berkeleylm"},
		{"absolute file", "newdir", lineAbs, "newdir/grammar.filtered.gz"},
		{"nested relative", "/dest", "weights-file = test/1/weights", "/dest/weights"},
		{"trailing slash directory", "/dest", "tm = packed pt 20 /models/grammar.packed/", "/dest/grammar.packed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDestPath(tt.destDir, joshua.NewLine(1, tt.line))
			if err != nil {
				t.Fatalf("ResolveDestPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveDestPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithinDir(t *testing.T) {
	tests := []struct {
		root string
		p    string
		want bool
	}{
		{"/a/b", "/a/b/c", true},
		{"/a/b", "/a/b", true},
		{"/a/b", "/a/bc", false},
		{"/a/b", "/a/b/../c", false},
		{"a", "a/x", true},
		{"a", "ab/x", false},
		{"", "x", true},
		{"", "../x", false},
		{"/a", "a/x", false},
	}

	for _, tt := range tests {
		t.Run(tt.root+"|"+tt.p, func(t *testing.T) {
			if got := withinDir(tt.root, tt.p); got != tt.want {
				t.Errorf("withinDir(%q, %q) = %v, want %v", tt.root, tt.p, got, tt.want)
			}
		})
	}
}
