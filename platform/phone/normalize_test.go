package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"922 33 444", "+4792233444"},
		{"+47 922 33 444", "+4792233444"},
		{"0047 92233444", "+4792233444"},
		{"  92233444  ", "+4792233444"},
		// Invalid numbers pass through trimmed.
		{"12", "12"},
		{"not-a-number", "not-a-number"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := NormalizeE164(tc.input); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
