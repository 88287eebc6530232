package main

import (
	"image/color"
	"math"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/DavidZechm/race-analyzer/src/plot"
)

// Approximate gutters go-chart adds around the plot area for axis labels
// and the title, in image pixel space. The crosshair only needs to land on
// the right anchor, not be pixel perfect.
const (
	axisLeftGutterPx   = float32(40)
	axisBottomGutterPx = float32(34)
	titleGutterPx      = float32(26)
)

// computeContainRect returns the drawn rectangle and scale of an image
// displayed with ImageFillContain inside a view of the given size.
func computeContainRect(imgW, imgH, viewW, viewH float32) (drawX, drawY, drawW, drawH, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, viewW, viewH, 1
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	drawW = imgW * scale
	drawH = imgH * scale
	drawX = (viewW - drawW) / 2
	drawY = (viewH - drawH) / 2
	return
}

// anchorCentersX maps the fixed segment anchors to overlay pixel positions.
func anchorCentersX(imgW, imgH, viewW, viewH float32) []float32 {
	drawX, _, _, _, scale := computeContainRect(imgW, imgH, viewW, viewH)
	leftPadImg := float32(plot.PadLeft) + axisLeftGutterPx
	rightPadImg := float32(plot.PadRight)
	plotWImg := imgW - leftPadImg - rightPadImg
	if plotWImg < 1 {
		plotWImg = imgW
	}
	xmin, xmax := float32(-0.1), float32(plot.XAnchors[len(plot.XAnchors)-1]+0.1)
	span := xmax - xmin
	out := make([]float32, len(plot.XAnchors))
	for i, a := range plot.XAnchors {
		pxImg := leftPadImg + plotWImg*(float32(a)-xmin)/span
		out[i] = drawX + pxImg*scale
	}
	return out
}

// nearestIndexFromCenters picks the center nearest to mouseX.
func nearestIndexFromCenters(centers []float32, mouseX float32) (int, float32) {
	if len(centers) == 0 {
		return 0, 0
	}
	best := 0
	bestD := float32(math.MaxFloat32)
	for i, c := range centers {
		d := float32(math.Abs(float64(mouseX - c)))
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best, centers[best]
}

// yValueAt converts an overlay Y position back into an axis value. Both
// chart modes draw descending, so the value grows downward from the range
// minimum at the top of the plot area.
func yValueAt(ch plot.Chart, mouseY, imgH, drawY, scale float32) float64 {
	topPadImg := float32(plot.PadTop) + titleGutterPx
	bottomPadImg := float32(plot.PadBottom) + axisBottomGutterPx
	plotHImg := imgH - topPadImg - bottomPadImg
	if plotHImg < 1 {
		plotHImg = imgH
	}
	yImg := (mouseY - drawY) / scale
	frac := float64((yImg - topPadImg) / plotHImg)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	var min, max float64
	if ch.Reversed {
		min, max = 0.5, ch.AxisMax+0.5
		if ch.AxisMax < 1 {
			max = 1.5
		}
	} else {
		min, max = 0, ch.AxisMax
		if max <= 0 {
			max = 1
		}
	}
	return min + frac*(max-min)
}

// nearestPointAt finds, among points drawn at the given anchor, the one
// closest to value. Padded rank points share the anchor of their line's
// last real segment and participate like any other point.
func nearestPointAt(ch plot.Chart, anchorIdx int, value float64) (lineIdx, ptIdx int, ok bool) {
	if anchorIdx < 0 || anchorIdx >= len(plot.XAnchors) {
		return 0, 0, false
	}
	ax := plot.XAnchors[anchorIdx]
	bestD := math.MaxFloat64
	for li, ln := range ch.Lines {
		for pi, x := range ln.Xs {
			if x != ax {
				continue
			}
			d := math.Abs(ln.Ys[pi] - value)
			if d < bestD {
				bestD = d
				lineIdx, ptIdx = li, pi
				ok = true
			}
		}
	}
	return
}

// hoverOverlay sits on top of the chart image, draws a crosshair, and
// highlights the athlete nearest to the cursor.
type hoverOverlay struct {
	widget.BaseWidget
	state    *uiState
	enabled  bool
	mouse    fyne.Position
	hovering bool
}

func newHoverOverlay(state *uiState) *hoverOverlay {
	o := &hoverOverlay{state: state, enabled: state != nil && state.crosshairEnabled}
	o.ExtendBaseWidget(o)
	return o
}

func (o *hoverOverlay) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{})
	lineV := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 220})
	lineV.StrokeWidth = 1
	lineH := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 220})
	lineH.StrokeWidth = 1
	dot := canvas.NewCircle(color.RGBA{R: 240, G: 240, B: 240, A: 220})
	label := widget.NewRichText()
	label.Wrapping = fyne.TextWrapOff
	labelBG := canvas.NewRectangle(color.RGBA{A: 170})
	objs := []fyne.CanvasObject{bg, lineV, lineH, dot, labelBG, label}
	return &hoverRenderer{o: o, bg: bg, lineV: lineV, lineH: lineH, dot: dot, labelBG: labelBG, label: label, objs: objs}
}

type hoverRenderer struct {
	o       *hoverOverlay
	bg      *canvas.Rectangle
	lineV   *canvas.Line
	lineH   *canvas.Line
	dot     *canvas.Circle
	labelBG *canvas.Rectangle
	label   *widget.RichText
	objs    []fyne.CanvasObject
}

func (r *hoverRenderer) Destroy() {}

func (r *hoverRenderer) hide() {
	r.lineV.Position1 = fyne.NewPos(-10, -10)
	r.lineV.Position2 = fyne.NewPos(-10, -10)
	r.lineH.Position1 = fyne.NewPos(-10, -10)
	r.lineH.Position2 = fyne.NewPos(-10, -10)
	r.dot.Move(fyne.NewPos(-10, -10))
	r.labelBG.Resize(fyne.NewSize(0, 0))
	r.labelBG.Move(fyne.NewPos(-1000, -1000))
	r.label.Move(fyne.NewPos(-1000, -1000))
}

func (r *hoverRenderer) Layout(size fyne.Size) {
	if r.o == nil {
		return
	}
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	st := r.o.state
	if !r.o.enabled || !r.o.hovering || st == nil || !st.visualized || len(st.chart.Lines) == 0 {
		r.hide()
		return
	}
	x := r.o.mouse.X
	y := r.o.mouse.Y
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x > size.Width {
		x = size.Width
	}
	if y > size.Height {
		y = size.Height
	}

	var imgW, imgH float32
	if st.chartCanvas != nil && st.chartCanvas.Image != nil {
		b := st.chartCanvas.Image.Bounds()
		imgW = float32(b.Dx())
		imgH = float32(b.Dy())
	}
	if imgW <= 0 || imgH <= 0 {
		imgW, imgH = size.Width, size.Height
	}
	drawX, drawY, drawW, drawH, scale := computeContainRect(imgW, imgH, size.Width, size.Height)
	if x < drawX || x > drawX+drawW || y < drawY || y > drawY+drawH {
		r.hide()
		return
	}

	centers := anchorCentersX(imgW, imgH, size.Width, size.Height)
	anchorIdx, _ := nearestIndexFromCenters(centers, x)
	value := yValueAt(st.chart, y, imgH, drawY, scale)
	var hoverText string
	if li, pi, ok := nearestPointAt(st.chart, anchorIdx, value); ok {
		ln := st.chart.Lines[li]
		hoverText = ln.Hover[pi]
		if st.highlighted != ln.Name {
			st.highlighted = ln.Name
			redrawChart(st)
		}
	}

	r.lineV.Position1 = fyne.NewPos(x, 0)
	r.lineV.Position2 = fyne.NewPos(x, size.Height)
	r.lineH.Position1 = fyne.NewPos(0, y)
	r.lineH.Position2 = fyne.NewPos(size.Width, y)
	r.dot.Resize(fyne.NewSize(6, 6))
	r.dot.Move(fyne.NewPos(x-3, y-3))

	if hoverText == "" {
		r.label.Segments = nil
	} else {
		r.label.Segments = []widget.RichTextSegment{&widget.TextSegment{Text: hoverText}}
	}
	r.label.Refresh()
	pad := float32(6)
	ts := r.label.MinSize()
	bgW := ts.Width + 2*pad
	bgH := ts.Height + 2*pad
	tx, ty := x+8, y+8
	if tx+bgW > size.Width {
		tx = size.Width - bgW
	}
	if ty+bgH > size.Height {
		ty = size.Height - bgH
	}
	if len(r.label.Segments) == 0 {
		r.labelBG.Resize(fyne.NewSize(0, 0))
		r.labelBG.Move(fyne.NewPos(-1000, -1000))
		r.label.Move(fyne.NewPos(-1000, -1000))
	} else {
		r.labelBG.Resize(fyne.NewSize(bgW, bgH))
		r.labelBG.Move(fyne.NewPos(tx, ty))
		r.label.Move(fyne.NewPos(tx+pad, ty+pad))
	}
}

func (r *hoverRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *hoverRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *hoverRenderer) Refresh() {
	r.Layout(r.o.Size())
	r.bg.Refresh()
	r.lineV.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.lineH.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.lineV.Refresh()
	r.lineH.Refresh()
	r.dot.Refresh()
	r.labelBG.Refresh()
	r.label.Refresh()
}

func (o *hoverOverlay) MouseMoved(ev *desktop.MouseEvent) {
	if !o.enabled {
		return
	}
	o.hovering = true
	o.mouse = ev.Position
	o.Refresh()
}

func (o *hoverOverlay) MouseIn(ev *desktop.MouseEvent) { o.hovering = true; o.Refresh() }

func (o *hoverOverlay) MouseOut() {
	o.hovering = false
	if o.state != nil && o.state.highlighted != "" {
		o.state.highlighted = ""
		redrawChart(o.state)
	}
	o.Refresh()
}

var _ desktop.Hoverable = (*hoverOverlay)(nil)
