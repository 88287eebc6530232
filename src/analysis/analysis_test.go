package analysis

import (
	"testing"

	"github.com/DavidZechm/race-analyzer/src/race"
)

// record builds a RaceRecord with the given splits; -1 marks a missing leg.
func record(first, last string, pos int, splits ...int) race.RaceRecord {
	r := race.RaceRecord{FirstName: first, LastName: last, Position: pos}
	for i, v := range splits {
		if v >= 0 {
			r.Splits[i] = race.Some(v)
		}
	}
	r.Cum = race.BuildCumulative(r.Splits)
	return r
}

// The three-athlete field used across tests: A fastest everywhere, B
// mid-pack, C missing the Bike split.
func testField() []race.RaceRecord {
	return []race.RaceRecord{
		record("Cara", "Cruz", 0, 720, 80, -1, 110, 2040),
		record("Alice", "Aalto", 1, 600, 60, 3600, 90, 1800),
		record("Bob", "Berg", 2, 660, 70, 3720, 100, 1920),
	}
}

func athleteByName(t *testing.T, view RaceView, name string) AthleteView {
	t.Helper()
	for _, a := range view.Athletes {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("athlete %q not in view", name)
	return AthleteView{}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]ViewMode{
		"position": ModePosition,
		"Position": ModePosition,
		"rank":     ModePosition,
		"time_gap": ModeTimeGap,
		"gap":      ModeTimeGap,
	} {
		got, err := ParseMode(in)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseMode("speed"); err == nil {
		t.Fatalf("ParseMode(\"speed\"): expected error")
	}
}

func TestComputeView_PositionRanks(t *testing.T) {
	view := ComputeView(testField(), ModePosition)
	if len(view.Athletes) != 3 {
		t.Fatalf("position mode must keep every athlete, got %d", len(view.Athletes))
	}
	if !view.Reversed {
		t.Fatalf("position mode axis must be reversed")
	}
	a := athleteByName(t, view, "Alice Aalto")
	b := athleteByName(t, view, "Bob Berg")
	c := athleteByName(t, view, "Cara Cruz")
	if a.Values[race.Swim] != 1 || b.Values[race.Swim] != 2 || c.Values[race.Swim] != 3 {
		t.Fatalf("swim ranks = %v %v %v, want 1 2 3",
			a.Values[race.Swim], b.Values[race.Swim], c.Values[race.Swim])
	}
	// Cara has no Bike cumulative: not present, but ranked after every
	// present value so the axis bound covers her.
	if c.Present[race.Bike] {
		t.Fatalf("Cara must not have a present Bike value")
	}
	if c.Values[race.Bike] != 3 {
		t.Fatalf("absent Bike rank = %v, want bottom rank 3", c.Values[race.Bike])
	}
	if a.Values[race.Run] != 1 || b.Values[race.Run] != 2 {
		t.Fatalf("run ranks = %v %v, want 1 2", a.Values[race.Run], b.Values[race.Run])
	}
	if view.AxisMax != 3 {
		t.Fatalf("AxisMax = %v, want 3", view.AxisMax)
	}
}

func TestComputeView_TiedRanksShareLowest(t *testing.T) {
	recs := []race.RaceRecord{
		record("A", "A", 1, 600, 60, 3600, 90, 1800),
		record("B", "B", 2, 600, 60, 3600, 90, 1900),
		record("C", "C", 3, 700, 60, 3600, 90, 1900),
	}
	view := ComputeView(recs, ModePosition)
	a := athleteByName(t, view, "A A")
	b := athleteByName(t, view, "B B")
	c := athleteByName(t, view, "C C")
	// A and B tie on the swim: both rank 1, C jumps to rank 3.
	if a.Values[race.Swim] != 1 || b.Values[race.Swim] != 1 {
		t.Fatalf("tied swim ranks = %v %v, want 1 1", a.Values[race.Swim], b.Values[race.Swim])
	}
	if c.Values[race.Swim] != 3 {
		t.Fatalf("post-tie rank = %v, want 3", c.Values[race.Swim])
	}
}

func TestComputeView_GapValues(t *testing.T) {
	view := ComputeView(testField(), ModeTimeGap)
	// Cara has no Run cumulative and is excluded from the gap view.
	if len(view.Athletes) != 2 {
		t.Fatalf("gap mode athletes = %d, want 2", len(view.Athletes))
	}
	for _, a := range view.Athletes {
		if a.Name == "Cara Cruz" {
			t.Fatalf("Cara must be excluded from the gap view")
		}
	}
	a := athleteByName(t, view, "Alice Aalto")
	b := athleteByName(t, view, "Bob Berg")
	for _, seg := range race.Segments {
		if a.Values[seg] != 0 {
			t.Fatalf("leader gap at %s = %v, want 0", seg, a.Values[seg])
		}
		if b.Values[seg] < 0 {
			t.Fatalf("negative gap at %s: %v", seg, b.Values[seg])
		}
	}
	// Bob's swim gap: 660-600; run gap: 6470-6150.
	if b.Values[race.Swim] != 60 {
		t.Fatalf("Bob swim gap = %v, want 60", b.Values[race.Swim])
	}
	if b.Values[race.Run] != 320 {
		t.Fatalf("Bob run gap = %v, want 320", b.Values[race.Run])
	}
	if view.AxisMax != 320 {
		t.Fatalf("AxisMax = %v, want 320", view.AxisMax)
	}
	if view.Reversed {
		t.Fatalf("gap mode axis must not set the rank-reversal flag")
	}
}

func TestComputeView_GapLeaderCanBeUnfinished(t *testing.T) {
	// Dana swims fastest but never finishes the bike; Eve drops out after a
	// very slow swim. Gaps are still measured against the whole field, so
	// Dana sets the swim and T1 pace and Eve stretches the axis, even
	// though neither appears in the emitted athlete set.
	recs := []race.RaceRecord{
		record("Dana", "Diaz", 0, 500, 60, -1, 110, 2040),
		record("Eve", "East", 0, 2000),
		record("Alice", "Aalto", 1, 600, 60, 3600, 90, 1800),
		record("Bob", "Berg", 2, 660, 70, 3720, 100, 1920),
	}
	view := ComputeView(recs, ModeTimeGap)
	if len(view.Athletes) != 2 {
		t.Fatalf("gap mode athletes = %d, want 2", len(view.Athletes))
	}
	a := athleteByName(t, view, "Alice Aalto")
	b := athleteByName(t, view, "Bob Berg")
	if a.Values[race.Swim] != 100 {
		t.Fatalf("Alice swim gap = %v, want 100 behind Dana", a.Values[race.Swim])
	}
	if b.Values[race.Swim] != 160 {
		t.Fatalf("Bob swim gap = %v, want 160 behind Dana", b.Values[race.Swim])
	}
	// T1 cumulative minimum is Dana's 560.
	if a.Values[race.T1] != 100 || b.Values[race.T1] != 170 {
		t.Fatalf("T1 gaps = %v %v, want 100 170", a.Values[race.T1], b.Values[race.T1])
	}
	// From the bike on Dana has no cumulative time and Alice leads again.
	if a.Values[race.Bike] != 0 || a.Values[race.Run] != 0 {
		t.Fatalf("Alice late gaps = %v %v, want 0 0", a.Values[race.Bike], a.Values[race.Run])
	}
	// Eve's swim gap (2000-500) widens the axis despite her exclusion.
	if view.AxisMax != 1500 {
		t.Fatalf("AxisMax = %v, want 1500", view.AxisMax)
	}
}

func TestComputeView_OrderByPosition(t *testing.T) {
	view := ComputeView(testField(), ModePosition)
	// Cara carries no position and must sort last despite being first in
	// the input.
	got := []string{view.Athletes[0].Name, view.Athletes[1].Name, view.Athletes[2].Name}
	want := []string{"Alice Aalto", "Bob Berg", "Cara Cruz"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draw order = %v, want %v", got, want)
		}
	}
}

func TestComputeView_DoesNotMutateRecords(t *testing.T) {
	recs := testField()
	before := make([]race.RaceRecord, len(recs))
	copy(before, recs)
	_ = ComputeView(recs, ModePosition)
	_ = ComputeView(recs, ModeTimeGap)
	for i := range recs {
		if recs[i] != before[i] {
			t.Fatalf("record %d mutated by ComputeView", i)
		}
	}
}
