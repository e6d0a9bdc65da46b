package joshua

import "testing"

func TestSuspiciousKeys(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantWarn   bool
		suggestion string
	}{
		{"missing letter", "weight-file = w", true, KeyWeightsFile},
		{"underscore", "weights_file = w", true, KeyWeightsFile},
		{"upper case tm", "TM = thrax pt 12 g", true, KeyTranslationModel},
		{"exact key", "weights-file = w", false, ""},
		{"unrelated key", "top-n = 300", false, ""},
		{"other short key", "tx = 1", false, ""},
		{"feature function", "feature_function = WordPenalty", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromLines([]string{tt.line})
			warnings := cfg.SuspiciousKeys()

			if tt.wantWarn != (len(warnings) == 1) {
				t.Fatalf("SuspiciousKeys() = %+v, wantWarn %v", warnings, tt.wantWarn)
			}
			if tt.wantWarn && warnings[0].Suggestion != tt.suggestion {
				t.Errorf("Suggestion = %s, want %s", warnings[0].Suggestion, tt.suggestion)
			}
			if tt.wantWarn && warnings[0].Line != 1 {
				t.Errorf("Line = %d, want 1", warnings[0].Line)
			}
		})
	}
}
