package bundler

import (
	"path/filepath"

	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
)

const (
	// ConfigFileName is the name of the rewritten configuration in a bundle.
	ConfigFileName = "joshua.config"

	// LauncherFileName is the name of the launcher script in a bundle.
	LauncherFileName = "bundle-runner.sh"

	// LauncherMode is read and execute for owner, group and other.
	LauncherMode = 0555

	// DecoderBinary is the decoder executable below the installation root.
	DecoderBinary = "joshua-decoder"

	// JoshuaHomeEnv names the variable the launcher falls back to when no
	// installation root was given.
	JoshuaHomeEnv = "JOSHUA"
)

const launcherTemplate = `#!/bin/bash
bundledir=$(dirname "$0")
cd "$bundledir" || exit 1
# relative paths are now safe
"{{ .JoshuaHome }}"/{{ .Decoder }} -c {{ .Config }}{{ if .Options }} {{ .Options }}{{ end }}
`

var templates = map[string]string{
	LauncherFileName: launcherTemplate,
}

// GetTemplate returns the named bundle template.
func GetTemplate(name string) (string, bool) {
	tmpl, ok := templates[name]
	return tmpl, ok
}

// LauncherData is rendered into the launcher script.
type LauncherData struct {
	// JoshuaHome is the decoder installation root, rendered in double quotes.
	// Empty renders $JOSHUA so the root is read from the environment when the
	// launcher runs.
	JoshuaHome string

	// Options are appended verbatim to the decoder command line.
	Options string

	Decoder string
	Config  string
}

// NewLauncherData returns launcher data for the standard bundle layout.
func NewLauncherData(joshuaHome, options string) LauncherData {
	if joshuaHome == "" {
		joshuaHome = "$" + JoshuaHomeEnv
	}
	return LauncherData{
		JoshuaHome: joshuaHome,
		Options:    options,
		Decoder:    DecoderBinary,
		Config:     ConfigFileName,
	}
}

// RenderLauncher renders the launcher script.
func RenderLauncher(data LauncherData) (string, error) {
	return NewTemplateRenderer(GetTemplate).Render(LauncherFileName, data)
}

// WriteLauncher writes the launcher script into destDir and makes it
// executable. It returns the script path.
func WriteLauncher(w *FileWriter, destDir string, data LauncherData) (string, error) {
	content, err := RenderLauncher(data)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to render launcher", err)
	}

	path := filepath.Join(destDir, LauncherFileName)
	if err := w.WriteFileString(path, content, LauncherMode); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to write launcher", err)
	}
	if err := w.SetMode(path, LauncherMode); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to make launcher executable", err)
	}
	return path, nil
}
