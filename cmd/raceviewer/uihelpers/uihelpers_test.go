package uihelpers

import "testing"

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 800},
		{799, 800},
		{800, 800},
		{1600, 1600},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 320 || h > 560 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestComputeChartDimensions_AspectRatio(t *testing.T) {
	w, h := ComputeChartDimensions(1200)
	if h != 480 {
		t.Fatalf("width %d => height %d, want 480", w, h)
	}
}
