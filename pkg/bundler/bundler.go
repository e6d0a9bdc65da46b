package bundler

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joshua-decoder/joshua-bundle/pkg/bundler/config"
	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
	"github.com/joshua-decoder/joshua-bundle/pkg/joshua"
)

const (
	// ConfigFileMode is the mode of the rewritten configuration and other
	// generated text files.
	ConfigFileMode = 0644
)

// Bundler packages a Joshua configuration and the files it references into a
// relocatable directory.
type Bundler struct {
	config  *config.Config
	metrics *metrics
}

// New creates a Bundler from configuration options.
func New(opts ...config.Option) (*Bundler, error) {
	return NewWithConfig(config.NewConfig(opts...))
}

// NewWithConfig creates a Bundler with the given configuration. A nil config
// uses defaults.
func NewWithConfig(cfg *config.Config) (*Bundler, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid bundler configuration", err)
	}

	return &Bundler{
		config:  cfg,
		metrics: newMetrics(),
	}, nil
}

// Config returns the bundler configuration.
func (b *Bundler) Config() *config.Config {
	return b.config
}

// Make bundles the configuration at configPath into destDir. Relative paths
// in the configuration are resolved against originDir.
//
// Stages run in order: load, prepare destination, copy, rewrite, launcher,
// then the optional manifest and checksums. The first failure stops the run
// and whatever was already written stays in destDir.
func (b *Bundler) Make(ctx context.Context, configPath, originDir, destDir string) (result *Result, err error) {
	start := time.Now()
	result = NewResult(destDir)

	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		b.metrics.bundleTotal.WithLabelValues(status).Inc()
		b.metrics.bundleDuration.Observe(time.Since(start).Seconds())
	}()

	slog.Debug("generating bundle",
		"config", configPath,
		"origin_dir", originDir,
		"output_dir", destDir,
		"jobs", b.config.Jobs(),
	)

	cfg, err := joshua.Load(configPath)
	if err != nil {
		return result, err
	}

	for _, w := range cfg.SuspiciousKeys() {
		slog.Warn("unrecognized key looks like a file parameter and will not be bundled",
			"line", w.Line,
			"key", w.Key,
			"suggestion", w.Suggestion,
		)
	}

	if err := checkContext(ctx); err != nil {
		return result, err
	}

	if err := PrepareDestination(destDir, b.config.Force()); err != nil {
		return result, err
	}

	copied, err := CopyReferencedFiles(ctx, originDir, cfg, destDir, CopyOptions{
		Jobs:           b.config.Jobs(),
		BytesPerSecond: b.config.MaxCopyRate(),
		Resolver:       PathResolver{LiteralPrefix: b.config.LiteralPrefix()},
		observe:        b.observeCopy,
	})
	for _, c := range copied {
		result.AddCopied(c)
	}
	if err != nil {
		return result, err
	}

	if err := checkContext(ctx); err != nil {
		return result, err
	}

	fileWriter := NewFileWriter(result)

	rewritten := cfg.Rewrite()
	if err := fileWriter.WriteFile(filepath.Join(destDir, ConfigFileName), rewritten.Bytes(), ConfigFileMode); err != nil {
		return result, errors.Wrap(errors.ErrCodeInternal, "failed to write rewritten configuration", err)
	}

	if _, err := WriteLauncher(fileWriter, destDir, NewLauncherData(b.config.JoshuaHome(), b.config.DecoderOptions())); err != nil {
		return result, err
	}

	if b.config.IncludeManifest() {
		if err := b.generateManifest(ctx, configPath, originDir, destDir, copied, fileWriter); err != nil {
			return result, err
		}
	}

	// Checksums go last so they cover every other file.
	if b.config.IncludeChecksums() {
		if err := b.generateChecksums(ctx, destDir, result, fileWriter); err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(start)
	result.MarkSuccess()

	slog.Info("bundle generated",
		"output_dir", destDir,
		"references", len(result.Copied),
		"files", result.TotalFiles(),
		"size_bytes", result.Size,
		"duration", result.Duration.Round(time.Millisecond),
	)

	return result, nil
}

func (b *Bundler) observeCopy(c CopiedFile, d time.Duration) {
	b.metrics.copiedReferences.WithLabelValues(c.Key).Inc()
	b.metrics.copiedBytes.Add(float64(c.Size))
	b.metrics.copyDuration.Observe(d.Seconds())
}

func (b *Bundler) generateManifest(ctx context.Context, configPath, originDir, destDir string,
	copied []CopiedFile, fileWriter *FileWriter) error {

	if err := checkContext(ctx); err != nil {
		return err
	}

	m := NewManifest(b.config.Version(), configPath, originDir, b.config.DecoderOptions(), copied)
	data, err := m.Marshal()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to generate manifest", err)
	}

	if err := fileWriter.WriteFile(filepath.Join(destDir, ManifestFileName), data, ConfigFileMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write manifest", err)
	}
	return nil
}

func (b *Bundler) generateChecksums(ctx context.Context, dir string, result *Result, fileWriter *FileWriter) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	content, err := NewChecksumGenerator(result).Generate(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to generate checksums", err)
	}

	if err := fileWriter.WriteFileString(filepath.Join(dir, ChecksumsFileName), content, ConfigFileMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write checksums file", err)
	}
	return nil
}

// checkContext returns a timeout error once ctx is done.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeTimeout, "bundle generation cancelled", ctx.Err())
	default:
		return nil
	}
}
