// Package cli implements the command-line interface for joshua-bundle.
//
// # Overview
//
// joshua-bundle turns a tuned Joshua decoder configuration into a directory
// that can be copied to another machine and run there. It copies every
// model the configuration references, rewrites the configuration to point
// at the copies, and writes a launcher script.
//
// # Usage
//
//	joshua-bundle [options] config origdir destdir [other_joshua_configs]
//
// Relative paths in config are resolved against origdir. The optional
// fourth argument is appended verbatim to the decoder command line, even
// when it starts with a dash. Options must precede config:
//
//	joshua-bundle -f runs/5/joshua.config runs/5 bundles/ht-en "-top-n 1 -output-format %S"
//
// # Flags
//
//	--force, -f          Replace destdir if it exists
//	--joshua-home        Decoder root written into the launcher (env: JOSHUA)
//	--jobs, -j           Concurrent copies (default: 1)
//	--max-copy-rate      Copy throughput cap in bytes per second
//	--literal-prefix     Treat origdir as a plain string prefix when resolving paths
//	--checksums          Write checksums.txt
//	--manifest           Write bundle.yaml
//	--archive PATH       Also write a zip archive of the bundle
//	--metrics-file PATH  Write Prometheus text format metrics
//	--push               Push the bundle to an OCI registry (--registry, --repository, --tag)
//	--debug              Enable debug logging
//	--log-json           Output logs in JSON format
//	--log-level          Log level (env: LOG_LEVEL)
//
// # Exit Codes
//
//	0  Success
//	1  Bundling failed (missing file, I/O error, push failure)
//	2  Invalid arguments, or destdir exists and --force was not given
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/joshua-decoder/joshua-bundle/pkg/cli.version=1.0.0'"
package cli
