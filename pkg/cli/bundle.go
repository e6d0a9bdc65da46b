package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/joshua-decoder/joshua-bundle/pkg/bundler"
	"github.com/joshua-decoder/joshua-bundle/pkg/bundler/config"
	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
	"github.com/joshua-decoder/joshua-bundle/pkg/oci"
)

const usageText = name + " [options] config origdir destdir [other_joshua_configs]"

func bundleCmd() *cli.Command {
	return &cli.Command{
		Usage:     "Package a Joshua decoder configuration and its models into a relocatable directory",
		UsageText: usageText,
		ArgsUsage: "config origdir destdir [other_joshua_configs]",
		Description: `Copies every file referenced by the tm, lm and weights-file lines of a
Joshua configuration into destdir, writes a rewritten joshua.config that refers
to the copies by base name, and adds an executable bundle-runner.sh that runs the
decoder from inside the bundle.

Relative paths in the configuration are resolved against origdir. The optional
fourth argument is appended verbatim to the decoder command line, even when it
starts with a dash. Options must come before config.

# Bundle Contents

  - joshua.config: the configuration with file paths reduced to base names
  - bundle-runner.sh: launcher script (mode 0555)
  - one file or directory per referenced model, named by its base name
  - bundle.yaml: build manifest (with --manifest)
  - checksums.txt: SHA256 of every bundle file (with --checksums)

# Examples

Bundle a tuned system:
  joshua-bundle runs/5/joshua.config runs/5 bundles/ht-en

Bundle with decoder options, replacing an earlier bundle:
  joshua-bundle --force runs/5/joshua.config runs/5 bundles/ht-en \
    "-top-n 1 -output-format %S -mark-oovs false"

Bundle, archive and push to a registry:
  joshua-bundle --manifest --checksums --archive ht-en.zip \
    --push --registry ghcr.io --repository joshua/ht-en --tag v1 \
    runs/5/joshua.config runs/5 bundles/ht-en

# Running a Bundle

  ./bundles/ht-en/bundle-runner.sh < input.txt > output.txt`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Replace destdir if it already exists",
			},
			&cli.StringFlag{
				Name:    "joshua-home",
				Usage:   "Decoder installation root written into the launcher (default: $JOSHUA at launch time)",
				Sources: cli.EnvVars(bundler.JoshuaHomeEnv),
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   config.DefaultJobs,
				Usage:   "Number of referenced files copied concurrently",
			},
			&cli.Int64Flag{
				Name:  "max-copy-rate",
				Usage: "Copy throughput cap in bytes per second (0: unlimited)",
			},
			&cli.BoolFlag{
				Name:  "literal-prefix",
				Usage: "Treat paths that start with the origdir string as already resolved",
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "Write checksums.txt with the SHA256 of every bundle file",
			},
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Write bundle.yaml describing the bundle",
			},
			&cli.StringFlag{
				Name:  "archive",
				Usage: "Also write the bundle as a zip archive to this path",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write bundle metrics in Prometheus text format to this path",
			},
			// OCI push flags
			&cli.BoolFlag{
				Name:  "push",
				Usage: "Push the bundle as an OCI artifact to a registry",
			},
			&cli.StringFlag{
				Name:  "registry",
				Usage: "OCI registry host (e.g., ghcr.io, localhost:5000)",
			},
			&cli.StringFlag{
				Name:  "repository",
				Usage: "OCI repository path (e.g., joshua/ht-en)",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "OCI image tag (default: latest)",
			},
			&cli.StringFlag{
				Name:    "registry-username",
				Usage:   "Registry user name (default: Docker credentials)",
				Sources: cli.EnvVars("REGISTRY_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "registry-password",
				Usage:   "Registry password or token",
				Sources: cli.EnvVars("REGISTRY_PASSWORD"),
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the OCI registry",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the OCI registry (for local development)",
			},
		},
		Action: runBundle,
	}
}

func runBundle(ctx context.Context, cmd *cli.Command) error {
	args, err := parseBundleArgs(cmd)
	if err != nil {
		return printUsageError(cmd, err)
	}
	if err := checkReadable(args.configPath); err != nil {
		return printUsageError(cmd, err)
	}

	pushEnabled := cmd.Bool("push")
	pushOpts := oci.PushOptions{
		SourceDir:   args.destDir,
		Registry:    cmd.String("registry"),
		Repository:  cmd.String("repository"),
		Tag:         cmd.String("tag"),
		PlainHTTP:   cmd.Bool("plain-http"),
		InsecureTLS: cmd.Bool("insecure-tls"),
		Username:    cmd.String("registry-username"),
		Password:    cmd.String("registry-password"),
	}
	if pushEnabled {
		// Fail before copying anything.
		if _, err := oci.TaggedReference(pushOpts.Registry, pushOpts.Repository, pushOpts.Tag); err != nil {
			return printUsageError(cmd, fmt.Errorf("invalid OCI reference: %w", err))
		}
	}

	cfg := config.NewConfig(
		config.WithVersion(version),
		config.WithForce(cmd.Bool("force")),
		config.WithJoshuaHome(cmd.String("joshua-home")),
		config.WithDecoderOptions(args.decoderOptions),
		config.WithJobs(cmd.Int("jobs")),
		config.WithMaxCopyRate(cmd.Int64("max-copy-rate")),
		config.WithLiteralPrefix(cmd.Bool("literal-prefix")),
		config.WithChecksums(cmd.Bool("checksums")),
		config.WithManifest(cmd.Bool("manifest")),
	)

	b, err := bundler.NewWithConfig(cfg)
	if err != nil {
		return printUsageError(cmd, err)
	}

	slog.Info("generating bundle",
		slog.String("config", args.configPath),
		slog.String("origin_dir", args.originDir),
		slog.String("output", args.destDir),
	)

	result, err := b.Make(ctx, args.configPath, args.originDir, args.destDir)

	if metricsFile := cmd.String("metrics-file"); metricsFile != "" {
		if werr := b.WriteMetrics(metricsFile); werr != nil {
			slog.Warn("failed to write metrics file", "path", metricsFile, "error", werr)
		}
	}

	if err != nil {
		if errors.HasCode(err, errors.ErrCodeAlreadyExists) {
			return errors.Wrap(errors.ErrCodeAlreadyExists,
				"refusing to overwrite an existing bundle (use --force to replace it)", err)
		}
		slog.Error("bundle generation failed", "error", err)
		return err
	}

	if archivePath := cmd.String("archive"); archivePath != "" {
		if err := bundler.WriteArchive(ctx, args.destDir, archivePath); err != nil {
			return err
		}
		slog.Info("bundle archived", "path", archivePath)
	}

	if pushEnabled {
		slog.Info("pushing bundle to OCI registry",
			"registry", pushOpts.Registry,
			"repository", pushOpts.Repository,
			"tag", pushOpts.Tag,
		)
		pushResult, err := oci.Push(ctx, pushOpts)
		if err != nil {
			return fmt.Errorf("failed to push OCI artifact to registry: %w", err)
		}
		slog.Info("OCI artifact pushed successfully",
			"reference", pushResult.Reference,
			"digest", pushResult.Digest,
		)
	}

	printBundleInstructions(cmd, result)
	return nil
}

// printBundleInstructions prints how to run the bundle.
func printBundleInstructions(cmd *cli.Command, result *bundler.Result) {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", result.Summary())
	_, _ = fmt.Fprintf(w, "\nTo translate:\n")
	_, _ = fmt.Fprintf(w, "  %s < input.txt\n", filepath.Join(result.OutputDir, bundler.LauncherFileName))
}
