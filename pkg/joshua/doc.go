// Package joshua reads, classifies and rewrites Joshua decoder configuration files.
//
// # Format
//
// A configuration is a sequence of lines of whitespace separated tokens. The
// first token is the key; the remaining tokens are the value:
//
//	tm = thrax pt 12 /expts/runs/5/data/test/grammar.filtered.gz
//	lm = berkeleylm 5 false false 100 lm.berkeleylm
//	weights-file = test/1/weights
//	top-n = 300
//
// Text from '#' to the end of a line is a comment. Comment-only and blank lines
// are dropped when a configuration is loaded; the order of the remaining lines
// is preserved because the decoder depends on it (grammar order, for one).
//
// # File-bearing Lines
//
// Lines keyed tm, lm or weights-file reference a file or directory through
// their last token. Every other token on such a line is opaque. Rewrite
// replaces that token with its base name so the configuration can sit next to
// flat copies of the referenced files.
package joshua
