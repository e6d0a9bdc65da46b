package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestStructuredError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodeInvalidRequest, "bad input"),
			want: "bad input",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInternal, "copy failed", stderrors.New("disk full")),
			want: "copy failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructuredError_Unwrap(t *testing.T) {
	err := Wrap(ErrCodeNotFound, "missing source", fs.ErrNotExist)
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false, want true")
	}
}

func TestWrapWithContext(t *testing.T) {
	err := WrapWithContext(ErrCodeInvalidConfig, "bad line", nil, map[string]any{"line": 3})
	if err.Context["line"] != 3 {
		t.Errorf("Context[line] = %v, want 3", err.Context["line"])
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"structured", New(ErrCodeAlreadyExists, "exists"), ErrCodeAlreadyExists},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrCodeTimeout, "slow")), ErrCodeTimeout},
		{"plain error", stderrors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	inner := New(ErrCodeAlreadyExists, "destination exists")
	outer := Wrap(ErrCodeInternal, "bundle failed", inner)

	if !HasCode(outer, ErrCodeAlreadyExists) {
		t.Error("HasCode(outer, ALREADY_EXISTS) = false, want true")
	}
	if !HasCode(outer, ErrCodeInternal) {
		t.Error("HasCode(outer, INTERNAL) = false, want true")
	}
	if HasCode(outer, ErrCodeTimeout) {
		t.Error("HasCode(outer, TIMEOUT) = true, want false")
	}
	if HasCode(nil, ErrCodeInternal) {
		t.Error("HasCode(nil) = true, want false")
	}
}
