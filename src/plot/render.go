package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart padding in image pixels. The hover overlay reconstructs plot-area
// geometry from these, so they live here next to the renderer that applies
// them.
const (
	PadTop    = 14
	PadLeft   = 16
	PadRight  = 12
	PadBottom = 28
)

// palette is a qualitative cycle for athlete lines, bold enough to stay
// readable when dimmed on hover.
var palette = []drawing.Color{
	{R: 0x7f, G: 0x3c, B: 0x8d, A: 0xff},
	{R: 0x11, G: 0xa5, B: 0x79, A: 0xff},
	{R: 0x39, G: 0x69, B: 0xac, A: 0xff},
	{R: 0xf2, G: 0xb7, B: 0x01, A: 0xff},
	{R: 0xe7, G: 0x3f, B: 0x74, A: 0xff},
	{R: 0x80, G: 0xba, B: 0x5a, A: 0xff},
	{R: 0xe6, G: 0x83, B: 0x10, A: 0xff},
	{R: 0x00, G: 0x86, B: 0x95, A: 0xff},
	{R: 0xcf, G: 0x1c, B: 0x90, A: 0xff},
	{R: 0xf9, G: 0x7b, B: 0x72, A: 0xff},
	{R: 0x4b, G: 0x4b, B: 0x8f, A: 0xff},
	{R: 0xa5, G: 0xaa, B: 0x99, A: 0xff},
}

// LineColor returns the palette color for the i-th line.
func LineColor(i int) drawing.Color { return palette[i%len(palette)] }

func lineStyle(i int, e Emphasis) chart.Style {
	c := LineColor(i)
	c.A = uint8(math.Round(255 * e.Opacity()))
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: c,
		DotWidth:    4,
		DotColor:    c,
	}
}

// xAxis builds the fixed segment axis: one tick per anchor, slightly padded
// so the Start and Run anchors are not glued to the plot border.
func xAxis() chart.XAxis {
	ticks := make([]chart.Tick, 0, len(XAnchors))
	for i, x := range XAnchors {
		ticks = append(ticks, chart.Tick{Value: x, Label: XLabels[i]})
	}
	return chart.XAxis{
		Name:  "Segment",
		Ticks: ticks,
		Range: &chart.ContinuousRange{Min: -0.1, Max: XAnchors[len(XAnchors)-1] + 0.1},
	}
}

// yAxisRange builds the value axis. Both modes draw descending so the
// leader sits at the top: rank 1 first, or gap zero first.
func yAxisRange(ch Chart) *chart.ContinuousRange {
	if ch.Reversed {
		// Rank axis: half-unit padding keeps rank 1 and the bottom rank
		// clear of the plot border.
		max := ch.AxisMax
		if max < 1 {
			max = 1
		}
		return &chart.ContinuousRange{Min: 0.5, Max: max + 0.5, Descending: true}
	}
	max := ch.AxisMax
	if max <= 0 {
		max = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: max, Descending: true}
}

// yTicks generates tick marks for the value axis: every integer rank (or a
// rounded stride once the field grows) in rank mode, nice increments for
// gaps.
func yTicks(ch Chart) []chart.Tick {
	if ch.Reversed {
		max := int(ch.AxisMax)
		if max < 1 {
			max = 1
		}
		step := 1
		for (max+step-1)/step > 12 {
			step *= 2
		}
		ticks := make([]chart.Tick, 0, max/step+1)
		for r := 1; r <= max; r += step {
			ticks = append(ticks, chart.Tick{Value: float64(r), Label: fmt.Sprintf("%d", r)})
		}
		return ticks
	}
	return niceTicks(0, ch.AxisMax, 6)
}

// niceTicks generates up to n tick marks between [min, max] using nice
// increments (1, 2, 2.5, 5 scaled by powers of ten).
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// Render draws the chart description to an image. Hover interactivity is
// the caller's concern; this only honors the emphasis already present in
// the lines.
func Render(ch Chart, w, h int) (image.Image, error) {
	series := make([]chart.Series, 0, len(ch.Lines))
	for i, ln := range ch.Lines {
		series = append(series, chart.ContinuousSeries{
			Name:    ln.Name,
			XValues: ln.Xs,
			YValues: ln.Ys,
			Style:   lineStyle(i, ln.Emphasis),
		})
	}
	c := chart.Chart{
		Title:      ch.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: PadTop, Left: PadLeft, Right: PadRight, Bottom: PadBottom}},
		XAxis:      xAxis(),
		YAxis:      chart.YAxis{Name: ch.AxisTitle, Range: yAxisRange(ch), Ticks: yTicks(ch)},
		Series:     series,
	}
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}
