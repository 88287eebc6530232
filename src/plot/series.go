package plot

import (
	"fmt"

	"github.com/DavidZechm/race-analyzer/src/analysis"
	"github.com/DavidZechm/race-analyzer/src/race"
)

// XAnchors are the fixed x positions for Start and the five segments. The
// spacing is deliberately non-uniform: transitions are narrow slots while
// the bike and run legs carry most of the width.
var XAnchors = [race.SegmentCount + 1]float64{0, 0.5, 0.6, 2.0, 2.1, 3.0}

// XLabels are the tick captions matching XAnchors.
var XLabels = [race.SegmentCount + 1]string{"Start", "Swim", "T1", "Bike", "T2", "Run"}

// Emphasis is a line's visual weight. Hovering an athlete highlights that
// one line and dims every other; with no hover all lines share the normal
// weight.
type Emphasis int

const (
	EmphasisNormal Emphasis = iota
	EmphasisHighlight
	EmphasisDim
)

// Opacity returns the stroke alpha for the emphasis level.
func (e Emphasis) Opacity() float64 {
	switch e {
	case EmphasisHighlight:
		return 1.0
	case EmphasisDim:
		return 0.2
	}
	return 0.6
}

// Line is one athlete's polyline: parallel Xs/Ys/Hover slices, one entry
// per drawn point.
type Line struct {
	Name     string
	Xs       []float64
	Ys       []float64
	Hover    []string
	Emphasis Emphasis
}

// Chart is the declarative description handed to the renderer: the series
// list plus the axis contract. Legends stay disabled; hover labels carry
// the athlete identity instead.
type Chart struct {
	Title     string
	AxisTitle string
	// Reversed asks for rank 1 at the top of the axis.
	Reversed bool
	AxisMax  float64
	Lines    []Line
}

// BuildSeries converts a derived view into polylines. Every line starts at
// the Start anchor with value zero and gains one point per segment until
// the first absent value; truncated lines are never interpolated or
// zero-filled. In position mode a truncated line gets one final point held
// at the view's max-rank bound, a visible flat "fell off the field" tail;
// in time-gap mode unfinished athletes were already excluded upstream.
//
// Re-invoking with a different highlighted name only changes emphasis
// levels; values are taken from the view as-is.
func BuildSeries(view analysis.RaceView, title, highlighted string) Chart {
	ch := Chart{
		Title:     title,
		AxisTitle: view.Mode.AxisTitle(),
		Reversed:  view.Reversed,
		AxisMax:   view.AxisMax,
		Lines:     make([]Line, 0, len(view.Athletes)),
	}
	for _, a := range view.Athletes {
		ln := Line{Name: a.Name}
		ln.push(XAnchors[0], 0, hoverLabel(a.Name, XLabels[0], ch.AxisTitle, 0))
		for i := 0; i < race.SegmentCount; i++ {
			if !a.Present[i] {
				break
			}
			ln.push(XAnchors[i+1], a.Values[i], hoverLabel(a.Name, XLabels[i+1], ch.AxisTitle, a.Values[i]))
		}
		if view.Mode == analysis.ModePosition && len(ln.Ys) < race.SegmentCount+1 {
			// The tail point reuses the truncation x so the drop reads as a
			// flat terminal segment, labeled with the segment that was missed.
			last := len(ln.Xs) - 1
			ln.push(ln.Xs[last], view.AxisMax, hoverLabel(a.Name, XLabels[len(ln.Ys)], ch.AxisTitle, view.AxisMax))
		}
		switch {
		case highlighted == "":
			ln.Emphasis = EmphasisNormal
		case a.Name == highlighted:
			ln.Emphasis = EmphasisHighlight
		default:
			ln.Emphasis = EmphasisDim
		}
		ch.Lines = append(ch.Lines, ln)
	}
	return ch
}

func (l *Line) push(x, y float64, hover string) {
	l.Xs = append(l.Xs, x)
	l.Ys = append(l.Ys, y)
	l.Hover = append(l.Hover, hover)
}

func hoverLabel(name, segment, axisTitle string, v float64) string {
	return fmt.Sprintf("%s\nSegment: %s, %s: %.0f", name, segment, axisTitle, v)
}
