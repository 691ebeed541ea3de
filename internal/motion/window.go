package motion

// peakWindow tracks displacement samples over a trailing time window and
// reports their peak-to-peak spread.
type peakWindow struct {
	span   float64
	times  []float64
	values []float64
}

func newPeakWindow(span float64) *peakWindow {
	if span <= 0 {
		span = 30
	}
	return &peakWindow{span: span}
}

func (w *peakWindow) push(t, v float64) {
	w.times = append(w.times, t)
	w.values = append(w.values, v)

	cut := 0
	for cut < len(w.times) && w.times[cut] < t-w.span {
		cut++
	}
	if cut > 0 {
		w.times = append(w.times[:0], w.times[cut:]...)
		w.values = append(w.values[:0], w.values[cut:]...)
	}
}

func (w *peakWindow) peakToPeak() float64 {
	if len(w.values) == 0 {
		return 0
	}
	min, max := w.values[0], w.values[0]
	for _, v := range w.values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

func (w *peakWindow) reset() {
	w.times = w.times[:0]
	w.values = w.values[:0]
}
