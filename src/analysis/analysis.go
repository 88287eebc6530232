package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DavidZechm/race-analyzer/src/race"
)

// ViewMode selects how athlete progression is measured per segment.
type ViewMode string

const (
	// ModePosition ranks each athlete's cumulative time within the field.
	ModePosition ViewMode = "position"
	// ModeTimeGap measures each athlete's time behind the segment leader.
	ModeTimeGap ViewMode = "time_gap"
)

// ParseMode maps user-facing mode names onto a ViewMode.
func ParseMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "position", "rank":
		return ModePosition, nil
	case "time_gap", "timegap", "gap":
		return ModeTimeGap, nil
	}
	return "", fmt.Errorf("unknown view mode %q (want position or time_gap)", s)
}

// AxisTitle is the y-axis caption for the mode.
func (m ViewMode) AxisTitle() string {
	if m == ModePosition {
		return "Rank"
	}
	return "Time Gap to Leader (seconds)"
}

// AthleteView carries one athlete's derived per-segment values for a single
// render cycle: dense minimum ranks in position mode, leader gaps in
// time-gap mode. Present mirrors the athlete's cumulative-time presence;
// in position mode Values is still filled for absent segments (the
// bottom-of-field rank) so the axis bound can cover the whole field.
type AthleteView struct {
	Name     string
	Position int
	Values   [race.SegmentCount]float64
	Present  [race.SegmentCount]bool
}

// Finished reports whether the athlete has a value for the final segment.
func (a AthleteView) Finished() bool { return a.Present[race.Run] }

// RaceView is the derived table for one mode. It is rebuilt from the
// records on every call; nothing is cached or mutated in place, so two
// renders of the same records can never leak state into each other.
type RaceView struct {
	Mode     ViewMode
	Athletes []AthleteView
	// AxisMax is the largest value observed across all segments: the worst
	// rank in position mode, the widest gap in time-gap mode. Unfinished
	// athletes' lines are drawn flat to this bound.
	AxisMax  float64
	Reversed bool
}

// ComputeView derives per-athlete, per-segment values from the records.
//
// Position mode: for each cumulative column independently, the dense
// minimum rank. Ties share the lowest rank number; athletes without a
// cumulative time rank after every present value, all sharing the
// bottom rank. Every athlete appears.
//
// Time-gap mode: each value minus the column minimum over present values,
// so the segment leader's gap is zero. Minima and the axis bound are taken
// over the whole field; athletes without a Run cumulative time still set
// the pace in columns they lead, and their gaps still widen the axis, but
// they have no valid final gap and are dropped from the emitted athlete
// set afterwards.
//
// Both modes order athletes by official position ascending with unplaced
// athletes last; the order only affects draw stacking, never values.
func ComputeView(records []race.RaceRecord, mode ViewMode) RaceView {
	view := RaceView{
		Mode:     mode,
		Reversed: mode == ModePosition,
	}
	athletes := make([]AthleteView, len(records))
	for i, r := range records {
		athletes[i] = AthleteView{Name: r.Name(), Position: r.Position}
	}
	for _, seg := range race.Segments {
		present := make([]int, 0, len(records))
		for _, r := range records {
			if r.Cum[seg].Valid {
				present = append(present, r.Cum[seg].V)
			}
		}
		sort.Ints(present)
		for i, r := range records {
			c := r.Cum[seg]
			switch {
			case mode == ModePosition && c.Valid:
				athletes[i].Values[seg] = float64(rankOf(present, c.V))
				athletes[i].Present[seg] = true
			case mode == ModePosition:
				// Bottom rank, shared by every absent athlete. Counted
				// toward AxisMax but never drawn as a regular point.
				athletes[i].Values[seg] = float64(len(present) + 1)
			case c.Valid:
				athletes[i].Values[seg] = float64(c.V - present[0])
				athletes[i].Present[seg] = true
			}
			if mode == ModePosition || athletes[i].Present[seg] {
				if v := athletes[i].Values[seg]; v > view.AxisMax {
					view.AxisMax = v
				}
			}
		}
	}
	if mode == ModeTimeGap {
		view.Athletes = make([]AthleteView, 0, len(athletes))
		for _, a := range athletes {
			if a.Finished() {
				view.Athletes = append(view.Athletes, a)
			}
		}
	} else {
		view.Athletes = athletes
	}
	sort.SliceStable(view.Athletes, func(i, j int) bool {
		a, b := view.Athletes[i].Position, view.Athletes[j].Position
		if a == 0 {
			return false
		}
		if b == 0 {
			return true
		}
		return a < b
	})
	return view
}

// rankOf returns the minimum rank of v within the sorted present values:
// one plus the count of strictly smaller values, so ties share a rank.
func rankOf(sorted []int, v int) int {
	return sort.SearchInts(sorted, v) + 1
}
