package joshua

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// KeyWarning flags a key that looks like a misspelled file-bearing key.
// Such lines are not bundled, so the file they name would be missing from
// the bundle.
type KeyWarning struct {
	Line       int
	Key        string
	Suggestion string
	Distance   int
}

// SuspiciousKeys returns a warning for every line whose key is not
// file-bearing but is within a small edit distance of one that is.
func (c *Config) SuspiciousKeys() []KeyWarning {
	var out []KeyWarning
	for _, l := range c.Lines {
		if l.Key == "" || l.IsFileParam() {
			continue
		}
		if w, ok := closestFileKey(l.Key); ok {
			w.Line = l.Number
			out = append(out, w)
		}
	}
	return out
}

func closestFileKey(key string) (KeyWarning, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(key, "_", "-"))

	best := KeyWarning{Key: key, Distance: -1}
	for _, candidate := range FileParamKeys() {
		d := levenshtein.ComputeDistance(normalized, candidate)
		if d > maxDistance(candidate) {
			continue
		}
		if best.Distance < 0 || d < best.Distance {
			best.Suggestion = candidate
			best.Distance = d
		}
	}
	return best, best.Distance >= 0
}

// maxDistance keeps two-letter keys strict; a distance of two from "tm"
// matches almost any short key.
func maxDistance(candidate string) int {
	if len(candidate) <= 2 {
		return 0
	}
	return 2
}
