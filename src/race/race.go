package race

import "fmt"

// Segment identifies one leg of a triathlon in canonical order.
type Segment int

const (
	Swim Segment = iota
	T1
	Bike
	T2
	Run
)

// SegmentCount is the number of timed legs (the Total column is not a leg).
const SegmentCount = 5

// Segments lists the legs in race order; cumulative times are only
// meaningful along this order.
var Segments = [SegmentCount]Segment{Swim, T1, Bike, T2, Run}

func (s Segment) String() string {
	switch s {
	case Swim:
		return "Swim"
	case T1:
		return "T1"
	case Bike:
		return "Bike"
	case T2:
		return "T2"
	case Run:
		return "Run"
	}
	return fmt.Sprintf("Segment(%d)", int(s))
}

// Seconds is an optional elapsed-seconds value. Valid=false means the
// athlete has no recorded time for that column (did not start or finish
// the leg), which is deliberately distinct from zero seconds.
type Seconds struct {
	V     int
	Valid bool
}

// Some wraps a present elapsed-seconds value.
func Some(v int) Seconds { return Seconds{V: v, Valid: true} }

// String renders a present value as H:MM:SS (or MM:SS below one hour) and
// an absent value as the empty string.
func (s Seconds) String() string {
	if !s.Valid {
		return ""
	}
	h := s.V / 3600
	m := (s.V % 3600) / 60
	sec := s.V % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// RaceRecord is one row of a timing export: one athlete.
type RaceRecord struct {
	FirstName string
	LastName  string
	// Position is the official finishing position; 0 when the export has
	// no position for this athlete (non-finishers sort last).
	Position int
	// Splits holds the per-leg durations indexed by Segment.
	Splits [SegmentCount]Seconds
	// Total is the export's own Total Time column, kept for the splits dump.
	Total Seconds
	// Cum holds running totals derived from Splits, see BuildCumulative.
	Cum [SegmentCount]Seconds
}

// Name returns the display name, first and last joined by a single space.
func (r RaceRecord) Name() string {
	return r.FirstName + " " + r.LastName
}

// BuildCumulative derives running totals from the five ordered split
// durations. A missing split makes that and every later cumulative value
// missing; splits are never zero-filled to keep a line going.
func BuildCumulative(splits [SegmentCount]Seconds) [SegmentCount]Seconds {
	var cum [SegmentCount]Seconds
	cum[0] = splits[0]
	for i := 1; i < SegmentCount; i++ {
		if cum[i-1].Valid && splits[i].Valid {
			cum[i] = Some(cum[i-1].V + splits[i].V)
		}
	}
	return cum
}
