package blocking

import "testing"

func TestMatchesProcessName(t *testing.T) {
	tests := []struct {
		process string
		app     string
		want    bool
	}{
		{"KioskClient.exe", "KioskClient", true},
		{"kioskclient.exe", "KioskClient", true},
		{"KioskClient", "KioskClient", true},
		{"KioskClient.exe", "KioskClient.exe", true},
		{"KioskClientHelper.exe", "KioskClient", false},
		{"explorer.exe", "KioskClient", false},
	}
	for _, tt := range tests {
		if got := MatchesProcessName(tt.process, tt.app); got != tt.want {
			t.Errorf("MatchesProcessName(%q, %q) = %v, want %v", tt.process, tt.app, got, tt.want)
		}
	}
}
