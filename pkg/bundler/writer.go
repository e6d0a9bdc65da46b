package bundler

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"github.com/google/renameio/v2"
)

// TemplateRenderer renders named templates.
type TemplateRenderer struct {
	// templateGetter is a function that retrieves template content by name.
	templateGetter func(name string) (string, bool)
}

// NewTemplateRenderer creates a new template renderer with the given template getter.
func NewTemplateRenderer(getter func(name string) (string, bool)) *TemplateRenderer {
	return &TemplateRenderer{
		templateGetter: getter,
	}
}

// Render renders a template with the given data.
func (r *TemplateRenderer) Render(name string, data any) (string, error) {
	tmplContent, ok := r.templateGetter(name)
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// FileWriter writes bundle files and records them in a Result.
type FileWriter struct {
	result *Result
}

// NewFileWriter creates a new file writer with the given result tracker.
func NewFileWriter(result *Result) *FileWriter {
	return &FileWriter{
		result: result,
	}
}

// WriteFile atomically writes content to path with the given permissions and
// updates the result.
func (w *FileWriter) WriteFile(path string, content []byte, perm os.FileMode) error {
	if err := renameio.WriteFile(path, content, perm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	w.result.AddFile(path, int64(len(content)))

	slog.Debug("file written",
		"path", path,
		"size_bytes", len(content),
		"permissions", perm,
	)

	return nil
}

// WriteFileString writes string content to a file with the specified permissions.
func (w *FileWriter) WriteFileString(path, content string, perm os.FileMode) error {
	return w.WriteFile(path, []byte(content), perm)
}

// SetMode sets exact permission bits on path, bypassing the umask.
func (w *FileWriter) SetMode(path string, perm os.FileMode) error {
	if err := os.Chmod(path, perm); err != nil {
		w.result.AddError(fmt.Errorf("failed to set mode of %s: %w", filepath.Base(path), err))
		return err
	}
	return nil
}
