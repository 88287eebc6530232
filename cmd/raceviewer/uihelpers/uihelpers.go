package uihelpers

// ComputeChartDimensions applies the width/height clamp rules used for the
// progression chart. Input is the desired raw width (e.g. canvas width);
// returns clamped width and height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.4)
	if h < 320 {
		h = 320
	}
	if h > 560 {
		h = 560
	}
	return w, h
}
