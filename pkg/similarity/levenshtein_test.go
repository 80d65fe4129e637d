package similarity

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{
			name: "identical strings",
			a:    "M4A1-12345",
			b:    "M4A1-12345",
			want: 0,
		},
		{
			name: "empty against empty",
			a:    "",
			b:    "",
			want: 0,
		},
		{
			name: "empty against value",
			a:    "",
			b:    "SN123",
			want: 5,
		},
		{
			name: "single substitution",
			a:    "SN12345",
			b:    "SN12346",
			want: 1,
		},
		{
			name: "single insertion",
			a:    "SN1234",
			b:    "SN12345",
			want: 1,
		},
		{
			name: "single deletion",
			a:    "SN12345",
			b:    "SN1234",
			want: 1,
		},
		{
			name: "kitten sitting",
			a:    "kitten",
			b:    "sitting",
			want: 3,
		},
		{
			name: "completely different",
			a:    "ABC",
			b:    "XYZ",
			want: 3,
		},
		{
			name: "multibyte runes count once",
			a:    "SN-α1",
			b:    "SN-β1",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}

			// Distance is symmetric
			if rev := Distance(tt.b, tt.a); rev != got {
				t.Errorf("Distance(%q, %q) = %d, not symmetric with %d", tt.b, tt.a, rev, got)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name    string
		a       string
		b       string
		atLeast float64
		below   float64
	}{
		{
			name:    "identical serials score 1",
			a:       "W123456",
			b:       "W123456",
			atLeast: 1.0,
			below:   1.01,
		},
		{
			name:    "one character off on a long serial exceeds threshold",
			a:       "12345678",
			b:       "12345679",
			atLeast: 0.8,
			below:   1.0,
		},
		{
			name:    "unrelated serials score low",
			a:       "AAAAAAAA",
			b:       "ZZZZ",
			atLeast: 0.0,
			below:   0.2,
		},
		{
			name:    "both empty are identical",
			a:       "",
			b:       "",
			atLeast: 1.0,
			below:   1.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if got < tt.atLeast || got >= tt.below {
				t.Errorf("Ratio(%q, %q) = %f, want in [%f, %f)", tt.a, tt.b, got, tt.atLeast, tt.below)
			}
		})
	}

	// The documented duplicate threshold: serials differing by one
	// character must score strictly above 0.8.
	if got := Ratio("M4A88271", "M4A88272"); got <= 0.8 {
		t.Errorf("Ratio one-char-off = %f, want > 0.8", got)
	}
}

func TestFoldRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			name: "case folded",
			a:    "sn12345",
			b:    "SN12345",
			want: 1.0,
		},
		{
			name: "whitespace trimmed",
			a:    "  SN12345 ",
			b:    "SN12345",
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FoldRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("FoldRatio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
