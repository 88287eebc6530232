package plot

import (
	"testing"

	"github.com/DavidZechm/race-analyzer/src/analysis"
)

func TestYAxisRange_RankDescending(t *testing.T) {
	rng := yAxisRange(Chart{Reversed: true, AxisMax: 7})
	if !rng.Descending {
		t.Fatalf("rank axis must be descending (rank 1 on top)")
	}
	if rng.Min >= 1 || rng.Max <= 7 {
		t.Fatalf("rank range [%v,%v] clips ranks 1..7", rng.Min, rng.Max)
	}
}

func TestYAxisRange_GapDescending(t *testing.T) {
	rng := yAxisRange(Chart{Reversed: false, AxisMax: 320})
	if !rng.Descending {
		t.Fatalf("gap axis must run max-to-zero (leader on top)")
	}
	if rng.Min != 0 || rng.Max != 320 {
		t.Fatalf("gap range = [%v,%v], want [0,320]", rng.Min, rng.Max)
	}
}

func TestYAxisRange_DegenerateField(t *testing.T) {
	// A single athlete yields AxisMax 0 in gap mode; the axis still needs
	// a positive span.
	rng := yAxisRange(Chart{Reversed: false, AxisMax: 0})
	if rng.Max <= rng.Min {
		t.Fatalf("degenerate range [%v,%v] has no span", rng.Min, rng.Max)
	}
}

func TestYTicks_RankIntegers(t *testing.T) {
	ticks := yTicks(Chart{Reversed: true, AxisMax: 5})
	if len(ticks) != 5 {
		t.Fatalf("expected one tick per rank, got %d", len(ticks))
	}
	for i, tk := range ticks {
		if tk.Value != float64(i+1) {
			t.Fatalf("tick %d = %v, want %d", i, tk.Value, i+1)
		}
	}
}

func TestYTicks_RankLargeFieldStride(t *testing.T) {
	ticks := yTicks(Chart{Reversed: true, AxisMax: 100})
	if len(ticks) == 0 || len(ticks) > 14 {
		t.Fatalf("large field should stride ticks, got %d", len(ticks))
	}
}

func TestXAxisTicksMatchAnchors(t *testing.T) {
	xa := xAxis()
	if len(xa.Ticks) != len(XAnchors) {
		t.Fatalf("tick count = %d, want %d", len(xa.Ticks), len(XAnchors))
	}
	for i, tk := range xa.Ticks {
		if tk.Value != XAnchors[i] || tk.Label != XLabels[i] {
			t.Fatalf("tick %d = (%v,%q), want (%v,%q)", i, tk.Value, tk.Label, XAnchors[i], XLabels[i])
		}
	}
}

func TestRender_Smoke(t *testing.T) {
	view := analysis.ComputeView(testField(), analysis.ModePosition)
	ch := BuildSeries(view, "race.csv", "")
	img, err := Render(ch, 800, 320)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 800 || b.Dy() != 320 {
		t.Fatalf("rendered size %dx%d, want 800x320", b.Dx(), b.Dy())
	}
}
