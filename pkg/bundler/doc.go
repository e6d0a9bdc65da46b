// Package bundler packages a Joshua decoder configuration into a
// self-contained, relocatable directory.
//
// A bundle holds the rewritten configuration (joshua.config), a launcher
// script (bundle-runner.sh) and a flat copy of every file or directory named
// by a file-bearing configuration line (tm, lm, weights-file). Copies are
// stored under their base name, so the rewritten configuration refers to
// them relative to the bundle and the directory can be moved anywhere.
//
// # Usage
//
//	b, err := bundler.New(
//	    config.WithJoshuaHome("/opt/joshua"),
//	    config.WithDecoderOptions("-top-n 1 -output-format %S"),
//	)
//	if err != nil {
//	    return err
//	}
//	result, err := b.Make(ctx, "runs/5/joshua.config", "runs/5", "bundles/fr-en")
//
// # Stages
//
// Make runs the stages in order and stops at the first failure:
//
//  1. Load and clean the configuration.
//  2. Prepare the destination. An existing directory is an error unless
//     Force is set, in which case its contents are removed first.
//  3. Copy every referenced file or directory.
//  4. Write the rewritten configuration.
//  5. Write the launcher with mode 0555.
//  6. Optionally write bundle.yaml and checksums.txt.
//
// Nothing is rolled back on failure.
//
// # Path Resolution
//
// A path token is used as is when it is absolute or already inside the
// origin directory, and joined with the origin directory otherwise.
// Containment is checked on path components; PathResolver.LiteralPrefix
// switches to a plain string prefix test.
//
// # Name Collisions
//
// Two references with the same base name map to the same bundle file. The
// later configuration line wins and a warning is logged.
//
// # Archives
//
// WriteArchive zips a finished bundle. Entries are stored under the bundle
// directory name and keep their modes.
package bundler
