package status

import "testing"

func TestCompareToExpected(t *testing.T) {
	tests := []struct {
		installed string
		expected  string
		want      string
	}{
		{"1.0.0", "2.0.0", "older"},
		{"2.0.0", "1.0.0", "newer"},
		{"1.2.3", "1.2.3", "current"},
		{"1.2", "1.2.1", "older"},
		{"not-a-version", "1.0", "unknown"},
		{"1.0", "", "unknown"},
		{"", "1.0", "unknown"},
	}
	for _, tt := range tests {
		if got := CompareToExpected(tt.installed, tt.expected); got != tt.want {
			t.Errorf("CompareToExpected(%q, %q) = %q, want %q", tt.installed, tt.expected, got, tt.want)
		}
	}
}
