package race

import (
	"errors"
	"testing"
)

func TestParseDuration_AcceptedForms(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"01:02:03", 3723},
		{"1:02:03", 3723},
		{"02:03", 123},
		{"45", 45},
		{"10:00:00", 36000},
		{"0:00:01", 1},
		{" 02:03 ", 123},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): unexpected error: %v", tc.in, err)
		}
		if !got.Valid {
			t.Fatalf("ParseDuration(%q): expected present value", tc.in)
		}
		if got.V != tc.want {
			t.Fatalf("ParseDuration(%q) = %d, want %d", tc.in, got.V, tc.want)
		}
	}
}

func TestParseDuration_NoData(t *testing.T) {
	// Empty cells and 00:00:00 mean "no time recorded", never zero seconds.
	for _, in := range []string{"", "00:00:00", "   "} {
		got, err := ParseDuration(in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): unexpected error: %v", in, err)
		}
		if got.Valid {
			t.Fatalf("ParseDuration(%q): expected absent value, got %d", in, got.V)
		}
	}
}

func TestParseDuration_Malformed(t *testing.T) {
	for _, in := range []string{"ab:cd", "1:2:3:4", "1:xx", "12h30", "-5", "1:-2"} {
		_, err := ParseDuration(in)
		if err == nil {
			t.Fatalf("ParseDuration(%q): expected error", in)
		}
		if !errors.Is(err, ErrMalformedDuration) {
			t.Fatalf("ParseDuration(%q): error %v is not ErrMalformedDuration", in, err)
		}
	}
}
