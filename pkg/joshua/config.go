package joshua

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
)

const (
	// KeyTranslationModel names a grammar file or packed grammar directory.
	KeyTranslationModel = "tm"

	// KeyLanguageModel names a language model file.
	KeyLanguageModel = "lm"

	// KeyWeightsFile names the feature weights file.
	KeyWeightsFile = "weights-file"

	commentMarker = "#"

	// maxLineSize bounds a single configuration line.
	maxLineSize = 1 << 20
)

// FileParamKeys returns the keys whose last token is a path.
func FileParamKeys() []string {
	return []string{KeyTranslationModel, KeyLanguageModel, KeyWeightsFile}
}

// IsFileParam reports whether key names a file-bearing parameter.
func IsFileParam(key string) bool {
	switch key {
	case KeyTranslationModel, KeyLanguageModel, KeyWeightsFile:
		return true
	default:
		return false
	}
}

// Line is one cleaned configuration line.
type Line struct {
	// Number is the 1-based line number in the source, 0 if unknown.
	Number int

	// Raw is the cleaned text, written back verbatim for lines that are not rewritten.
	Raw string

	// Key is the first token.
	Key string

	// Values holds the tokens after the key.
	Values []string
}

// NewLine tokenizes cleaned text into a Line.
func NewLine(number int, text string) Line {
	l := Line{Number: number, Raw: text}
	tokens := strings.Fields(text)
	if len(tokens) > 0 {
		l.Key = tokens[0]
		l.Values = tokens[1:]
	}
	return l
}

// IsFileParam reports whether the line's key names a file-bearing parameter.
func (l Line) IsFileParam() bool {
	return IsFileParam(l.Key)
}

// PathIndex returns the index in Values of the path token, or -1 when the
// line is not file-bearing or carries no path.
func (l Line) PathIndex() int {
	if !l.IsFileParam() || len(l.Values) == 0 {
		return -1
	}
	last := len(l.Values) - 1
	if l.Values[last] == "=" {
		return -1
	}
	return last
}

// Path returns the path token of a file-bearing line.
func (l Line) Path() (string, error) {
	i := l.PathIndex()
	if i < 0 {
		return "", errors.WrapWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("line %d: %q does not reference a file", l.Number, l.Raw), nil,
			map[string]any{"line": l.Number, "key": l.Key})
	}
	return l.Values[i], nil
}

// Tokens returns the key followed by the values.
func (l Line) Tokens() []string {
	if l.Key == "" {
		return nil
	}
	tokens := make([]string, 0, len(l.Values)+1)
	tokens = append(tokens, l.Key)
	return append(tokens, l.Values...)
}

// WithPath returns a copy of a file-bearing line whose path token is replaced
// by p. Tokens are re-joined with single spaces. Lines without a path token are
// returned unchanged.
func (l Line) WithPath(p string) Line {
	i := l.PathIndex()
	if i < 0 {
		return l
	}
	values := make([]string, len(l.Values))
	copy(values, l.Values)
	values[i] = p

	out := Line{Number: l.Number, Key: l.Key, Values: values}
	out.Raw = strings.Join(out.Tokens(), " ")
	return out
}

// String returns the line text.
func (l Line) String() string {
	return l.Raw
}

// Config is an ordered sequence of cleaned configuration lines.
type Config struct {
	Lines []Line
}

// Clean strips comments and surrounding whitespace from raw lines and drops the
// ones left empty. Order is preserved and bytes other than the comment and
// whitespace are passed through untouched.
func Clean(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := cleanLine(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cleanLine(line string) string {
	if i := strings.Index(line, commentMarker); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Parse reads a configuration from r.
func Parse(r io.Reader) (*Config, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	cfg := &Config{}
	number := 0
	for scanner.Scan() {
		number++
		cfg.add(number, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "failed to read configuration", err)
	}
	return cfg, nil
}

// FromLines builds a configuration from raw text lines, numbered from 1.
func FromLines(lines []string) *Config {
	cfg := &Config{}
	for i, line := range lines {
		cfg.add(i+1, line)
	}
	return cfg
}

// add cleans raw and appends it as line number unless nothing is left.
func (c *Config) add(number int, raw string) {
	if text := cleanLine(raw); text != "" {
		c.Lines = append(c.Lines, NewLine(number, text))
	}
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, "configuration file not found", err)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to open configuration", err)
	}
	defer f.Close()

	return Parse(f)
}

// FileLines returns the file-bearing lines in order.
func (c *Config) FileLines() []Line {
	var out []Line
	for _, l := range c.Lines {
		if l.IsFileParam() {
			out = append(out, l)
		}
	}
	return out
}

// Strings returns the text of every line.
func (c *Config) Strings() []string {
	out := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		out[i] = l.Raw
	}
	return out
}

// Rewrite returns a new configuration whose file-bearing lines reference the
// base name of their path. Other lines are copied unchanged.
func (c *Config) Rewrite() *Config {
	return &Config{Lines: Rewrite(c.Lines)}
}

// Rewrite maps every file-bearing line to one that references only the base
// name of its path. Line count and order are preserved.
func Rewrite(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		p, err := l.Path()
		if err != nil {
			out[i] = l
			continue
		}
		out[i] = l.WithPath(filepath.Base(p))
	}
	return out
}

// WriteTo writes one line per entry, each terminated by a newline.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, l := range c.Lines {
		n, err := io.WriteString(w, l.Raw+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the serialized configuration.
func (c *Config) Bytes() []byte {
	var b strings.Builder
	_, _ = c.WriteTo(&b)
	return []byte(b.String())
}

// WriteFile atomically replaces path with the serialized configuration.
func (c *Config) WriteFile(path string, perm os.FileMode) error {
	if err := renameio.WriteFile(path, c.Bytes(), perm); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write configuration "+path, err)
	}
	return nil
}
