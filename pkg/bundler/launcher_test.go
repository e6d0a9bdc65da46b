package bundler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderLauncher(t *testing.T) {
	tests := []struct {
		name     string
		home     string
		options  string
		wantLast string
	}{
		{
			name:     "explicit home with options",
			home:     "/opt/joshua",
			options:  "-top-n 1 -output-format %S -mark-oovs false",
			wantLast: `"/opt/joshua"/joshua-decoder -c joshua.config -top-n 1 -output-format %S -mark-oovs false`,
		},
		{
			name:     "home from environment at launch",
			home:     "",
			options:  "-server-port 5674",
			wantLast: `"$JOSHUA"/joshua-decoder -c joshua.config -server-port 5674`,
		},
		{
			name:     "no options",
			home:     "/opt/joshua",
			options:  "",
			wantLast: `"/opt/joshua"/joshua-decoder -c joshua.config`,
		},
		{
			name:     "home containing spaces",
			home:     "/Volumes/Model Store/joshua",
			options:  "",
			wantLast: `"/Volumes/Model Store/joshua"/joshua-decoder -c joshua.config`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderLauncher(NewLauncherData(tt.home, tt.options))
			if err != nil {
				t.Fatalf("RenderLauncher() error = %v", err)
			}

			if !strings.HasPrefix(got, "#!/bin/bash\n") {
				t.Errorf("launcher missing shebang: %q", got)
			}
			if !strings.Contains(got, `cd "$bundledir"`) {
				t.Errorf("launcher does not change into its directory: %q", got)
			}

			lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
			if last := lines[len(lines)-1]; last != tt.wantLast {
				t.Errorf("command = %q, want %q", last, tt.wantLast)
			}
		})
	}
}

func TestWriteLauncher(t *testing.T) {
	dir := t.TempDir()
	result := NewResult(dir)

	path, err := WriteLauncher(NewFileWriter(result), dir, NewLauncherData("/opt/joshua", "-top-n 1"))
	if err != nil {
		t.Fatalf("WriteLauncher() error = %v", err)
	}

	if path != filepath.Join(dir, LauncherFileName) {
		t.Errorf("path = %s, want %s", path, filepath.Join(dir, LauncherFileName))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0555 {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(0555))
	}

	if len(result.Files) != 1 || result.Files[0] != path {
		t.Errorf("result.Files = %v, want [%s]", result.Files, path)
	}
}

func TestTemplateRenderer_Render(t *testing.T) {
	templates := map[string]string{
		"test": "Hello {{.Name}}!",
	}

	renderer := NewTemplateRenderer(func(name string) (string, bool) {
		tmpl, ok := templates[name]
		return tmpl, ok
	})

	tests := []struct {
		name     string
		tmplName string
		data     any
		want     string
		wantErr  bool
	}{
		{
			name:     "renders template",
			tmplName: "test",
			data:     map[string]any{"Name": "World"},
			want:     "Hello World!",
		},
		{
			name:     "missing key",
			tmplName: "test",
			data:     map[string]any{},
			wantErr:  true,
		},
		{
			name:     "template not found",
			tmplName: "missing",
			data:     map[string]any{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderer.Render(tt.tmplName, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("Render() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("Render() = %v, want %v", got, tt.want)
			}
		})
	}
}
