package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/DavidZechm/race-analyzer/cmd/raceviewer/uihelpers"
	"github.com/DavidZechm/race-analyzer/src/analysis"
	"github.com/DavidZechm/race-analyzer/src/plot"
	"github.com/DavidZechm/race-analyzer/src/race"
)

const (
	labelModePosition = "Position-based"
	labelModeTimeGap  = "Time gap-based"
)

// modeFromLabel maps the radio caption onto the analysis mode.
func modeFromLabel(label string) (analysis.ViewMode, bool) {
	switch label {
	case labelModePosition:
		return analysis.ModePosition, true
	case labelModeTimeGap:
		return analysis.ModeTimeGap, true
	}
	return "", false
}

func labelForMode(m analysis.ViewMode) string {
	if m == analysis.ModeTimeGap {
		return labelModeTimeGap
	}
	return labelModePosition
}

type uiState struct {
	app      fyne.App
	window   fyne.Window
	filePath string

	records []race.RaceRecord
	mode    analysis.ViewMode
	// visualized gates chart rendering: the chart area stays hidden until
	// the user hits Visualize, and is hidden again after a load failure.
	visualized bool
	// highlighted is the hovered athlete's display name; empty means no
	// emphasis anywhere.
	highlighted string
	// chart is the last built series description; the hover overlay reads
	// it for hit-testing without re-deriving anything.
	chart plot.Chart

	// widgets
	statusLabel  *widget.Label
	visualizeBtn *widget.Button
	modeRadio    *widget.RadioGroup
	chartCanvas  *canvas.Image
	overlay      *hoverOverlay

	crosshairEnabled bool
	showHints        bool
}

func main() {
	var fileFlag string
	var logLevel string
	flag.StringVar(&fileFlag, "file", "", "Path to a race timing export (.csv or .html)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()
	race.SetLogLevel(logLevel)

	a := app.NewWithID("com.racesplits.viewer")
	w := a.NewWindow("Race Progression Viewer")
	w.Resize(fyne.NewSize(1100, 700))

	state := &uiState{
		app:      a,
		window:   w,
		filePath: fileFlag,
	}
	state.crosshairEnabled = a.Preferences().BoolWithFallback("crosshair", true)
	state.showHints = a.Preferences().BoolWithFallback("showHints", false)
	if state.filePath == "" {
		state.filePath = a.Preferences().StringWithFallback("lastFile", "")
	}
	if m, err := analysis.ParseMode(a.Preferences().StringWithFallback("mode", "")); err == nil {
		state.mode = m
	}

	fileLabel := widget.NewLabel(truncatePath(state.filePath, 60))
	state.statusLabel = widget.NewLabel("No file uploaded yet.")

	// Mode radio and Visualize button: the button stays disabled until a
	// file is loaded, a UI-only rule.
	state.modeRadio = widget.NewRadioGroup([]string{labelModePosition, labelModeTimeGap}, nil)
	state.modeRadio.Horizontal = true
	if state.mode != "" {
		state.modeRadio.Selected = labelForMode(state.mode)
	}
	state.visualizeBtn = widget.NewButton("Visualize", func() { visualize(state) })
	state.visualizeBtn.Disable()

	crosshairChk := widget.NewCheck("Crosshair", nil)
	crosshairChk.SetChecked(state.crosshairEnabled)
	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	// chart placeholder and hover overlay
	state.chartCanvas = canvas.NewImageFromImage(blank(100, 60))
	state.chartCanvas.FillMode = canvas.ImageFillContain
	state.chartCanvas.SetMinSize(fyne.NewSize(900, 420))
	state.overlay = newHoverOverlay(state)

	top := container.NewHBox(
		widget.NewButton("Open…", func() { openFileDialog(state, fileLabel) }),
		widget.NewButton("Reload", func() { loadAll(state, fileLabel) }),
		widget.NewLabel("Mode:"), state.modeRadio,
		state.visualizeBtn,
		crosshairChk, hintsChk,
		widget.NewLabel("File:"), fileLabel,
	)
	content := container.NewBorder(
		container.NewVBox(top, state.statusLabel), nil, nil, nil,
		container.NewStack(state.chartCanvas, state.overlay),
	)
	w.SetContent(content)

	// Redraw on window resize so the chart scales with width.
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() { redrawChart(state) })
					}
				}
			}
		}()
	}

	state.modeRadio.OnChanged = func(label string) {
		m, ok := modeFromLabel(label)
		if !ok {
			return
		}
		state.mode = m
		state.highlighted = ""
		savePrefs(state)
		redrawChart(state)
	}
	crosshairChk.OnChanged = func(b bool) {
		state.crosshairEnabled = b
		savePrefs(state)
		if state.overlay != nil {
			state.overlay.enabled = b
			state.overlay.Refresh()
		}
	}
	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		savePrefs(state)
		redrawChart(state)
	}

	buildMenus(state, fileLabel)
	if state.overlay != nil {
		state.overlay.enabled = state.crosshairEnabled
	}
	if state.filePath != "" {
		loadAll(state, fileLabel)
	}

	w.ShowAndRun()
}

func buildMenus(state *uiState, fileLabel *widget.Label) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() {
			state.filePath = f
			fileLabel.SetText(truncatePath(state.filePath, 60))
			savePrefs(state)
			loadAll(state, fileLabel)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state, fileLabel) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state, fileLabel) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state, fileLabel) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Chart PNG…", func() { exportChartPNG(state, state.chartCanvas, "race_chart.png") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadAll(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadAll(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

func openFileDialog(state *uiState, fileLabel *widget.Label) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		fileLabel.SetText(truncatePath(state.filePath, 60))
		addRecentFile(state, state.filePath)
		savePrefs(state)
		loadAll(state, fileLabel)
	}, state.window)
	d.Show()
}

// loadAll parses the current file and resets the render state. Any failure
// hides the chart area; a stale chart is never left behind a new file.
func loadAll(state *uiState, fileLabel *widget.Label) {
	if state.filePath == "" {
		return
	}
	defer race.TimeTrack(time.Now(), "load")
	records, err := race.Load(state.filePath)
	if err != nil {
		race.Errorf("load %s: %v", state.filePath, err)
		state.records = nil
		state.visualized = false
		state.highlighted = ""
		state.visualizeBtn.Disable()
		state.statusLabel.SetText(err.Error())
		hideChart(state)
		dialog.ShowError(err, state.window)
		return
	}
	race.Infof("loaded %d athletes from %s", len(records), state.filePath)
	state.records = records
	state.visualized = false
	state.highlighted = ""
	state.visualizeBtn.Enable()
	state.statusLabel.SetText(fmt.Sprintf(
		"File '%s' uploaded successfully. Select a calculation mode and click 'Visualize' to process and display the data.",
		filepath.Base(state.filePath)))
	hideChart(state)
}

func visualize(state *uiState) {
	if len(state.records) == 0 {
		return
	}
	if state.mode == "" {
		state.statusLabel.SetText("Select a calculation mode first.")
		return
	}
	state.visualized = true
	redrawChart(state)
	view := analysis.ComputeView(state.records, state.mode)
	finished := 0
	for _, a := range view.Athletes {
		if a.Finished() {
			finished++
		}
	}
	state.statusLabel.SetText(fmt.Sprintf("Showing %d athletes (%d finished) from '%s'.",
		len(view.Athletes), finished, filepath.Base(state.filePath)))
}

func hideChart(state *uiState) {
	if state.chartCanvas == nil {
		return
	}
	state.chart = plot.Chart{}
	state.chartCanvas.Image = blank(100, 60)
	state.chartCanvas.Refresh()
	if state.overlay != nil {
		state.overlay.Refresh()
	}
}

// redrawChart derives the view and renders it. Hover re-entry lands here
// too: the same records and mode, only the highlight parameter differs.
func redrawChart(state *uiState) {
	if state.chartCanvas == nil || !state.visualized || state.mode == "" {
		return
	}
	if len(state.records) == 0 {
		hideChart(state)
		return
	}
	view := analysis.ComputeView(state.records, state.mode)
	ch := plot.BuildSeries(view, "Visualizing: "+filepath.Base(state.filePath), state.highlighted)
	state.chart = ch
	cw, chh := chartSize(state)
	img, err := plot.Render(ch, cw, chh)
	if err != nil {
		race.Errorf("chart render: %v; showing blank fallback", err)
		img = blank(cw, chh)
	}
	if state.showHints {
		img = drawHint(img, "Hint: hover a line to spotlight that athlete; other lines dim.")
	}
	state.chartCanvas.Image = img
	state.chartCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
	state.chartCanvas.Refresh()
	if state.overlay != nil {
		state.overlay.Refresh()
	}
}

// chartSize uses ~95% of the window width with a bounded aspect ratio so
// the segment axis gets as much room as possible.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return 1100, 420
	}
	sz := state.window.Canvas().Size()
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.95) - 12)
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 250, G: 250, B: 250, A: 255})
		}
	}
	return img
}

// drawHint draws a small hint string onto the image near the bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil || img == nil || img.Image == nil || !state.visualized {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		_ = png.Encode(wc, img.Image)
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// recent files helpers
func recentFiles(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	list := recentFiles(state)
	filtered := []string{path}
	for _, f := range list {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	state.app.Preferences().SetString("recentFiles", strings.Join(filtered, "\n"))
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetString("mode", string(state.mode))
	prefs.SetBool("crosshair", state.crosshairEnabled)
	prefs.SetBool("showHints", state.showHints)
}

func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
