package bundler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	// ManifestFileName is the name of the manifest in a bundle.
	ManifestFileName = "bundle.yaml"

	// ManifestAPIVersion is the manifest schema version.
	ManifestAPIVersion = "joshua-bundle/v1alpha1"

	// ManifestKind is the manifest kind.
	ManifestKind = "BundleManifest"
)

// Manifest describes how a bundle was produced.
type Manifest struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`

	ID          string    `yaml:"id"`
	CreatedAt   time.Time `yaml:"createdAt"`
	ToolVersion string    `yaml:"toolVersion"`

	SourceConfig   string `yaml:"sourceConfig"`
	OriginDir      string `yaml:"originDir"`
	Config         string `yaml:"config"`
	Launcher       string `yaml:"launcher"`
	DecoderOptions string `yaml:"decoderOptions,omitempty"`

	Files []ManifestFile `yaml:"files"`
}

// ManifestFile describes one copied reference.
type ManifestFile struct {
	Name   string `yaml:"name"`
	Key    string `yaml:"key"`
	Line   int    `yaml:"line"`
	Source string `yaml:"source"`
	Size   int64  `yaml:"size"`
	Dir    bool   `yaml:"dir,omitempty"`
}

// NewManifest builds a manifest for a finished copy stage.
func NewManifest(version, sourceConfig, originDir, decoderOptions string, copied []CopiedFile) *Manifest {
	m := &Manifest{
		APIVersion:     ManifestAPIVersion,
		Kind:           ManifestKind,
		ID:             uuid.New().String(),
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
		ToolVersion:    version,
		SourceConfig:   sourceConfig,
		OriginDir:      originDir,
		Config:         ConfigFileName,
		Launcher:       LauncherFileName,
		DecoderOptions: decoderOptions,
		Files:          make([]ManifestFile, 0, len(copied)),
	}
	for _, c := range copied {
		m.Files = append(m.Files, ManifestFile{
			Name:   filepath.Base(c.Dest),
			Key:    c.Key,
			Line:   c.Line,
			Source: c.Source,
			Size:   c.Size,
			Dir:    c.Dir,
		})
	}
	return m
}

// Marshal serializes the manifest to YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize manifest: %w", err)
	}
	return data, nil
}

// ReadManifest loads a manifest from path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m.Kind != ManifestKind {
		return nil, fmt.Errorf("unexpected manifest kind %q in %s", m.Kind, path)
	}
	return &m, nil
}
