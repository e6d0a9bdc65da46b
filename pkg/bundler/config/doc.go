// Package config provides configuration options for the bundler.
//
// This package defines the configuration structure and functional options pattern
// for customizing bundle generation. The bundler receives a Config instance that
// controls destination handling, the launcher, copying and optional outputs.
//
// # Configuration Options
//
//   - Force: replace an existing destination directory
//   - JoshuaHome: decoder installation root written into the launcher
//   - DecoderOptions: extra options appended to the decoder command line
//   - Jobs: number of references copied concurrently
//   - MaxCopyRate: copy throughput cap in bytes per second
//   - LiteralPrefix: origin containment by string prefix instead of path components
//   - IncludeChecksums: generate a SHA256 checksums.txt file
//   - IncludeManifest: generate a bundle.yaml manifest
//
// # Usage
//
// Create with defaults:
//
//	cfg := config.NewConfig()
//
// Customize with functional options:
//
//	cfg := config.NewConfig(
//	    config.WithForce(true),
//	    config.WithJoshuaHome("/opt/joshua"),
//	    config.WithDecoderOptions("-top-n 1 -output-format %S"),
//	    config.WithChecksums(true),
//	)
//
// # Default Values
//
//   - Force: false
//   - JoshuaHome: "" (the launcher reads $JOSHUA when it runs)
//   - Jobs: 1
//   - MaxCopyRate: 0 (unlimited)
//   - LiteralPrefix: false
//   - IncludeChecksums, IncludeManifest: false
//   - Version: "dev"
//
// # Thread Safety
//
// Config is immutable after creation and safe to share between goroutines.
package config
