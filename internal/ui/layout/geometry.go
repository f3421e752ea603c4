// Package layout provides the viewport geometry shared by the chrome
// components: offset clamping, visibility progress, and content insets.
// All functions are pure; callers own any state.
package layout

// Metrics holds the fixed chrome dimensions for a browsing surface.
type Metrics struct {
	HeaderHeight    float64
	FooterHeight    float64
	StatusBarHeight float64
	ReaderBarHeight float64
}

// Insets is the padding applied to the page's scrollable area so content
// is not obscured by chrome. Recomputed on every offset or visibility
// change; never read stale.
type Insets struct {
	Top    float64
	Bottom float64
}

// Clamp saturates v into [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Progress returns the shown fraction of a chrome element in [0, 1]:
// 1 when the offset is zero (fully on screen), 0 at ±fullHeight.
// Translation and opacity are both derived from this single value so
// the two can never disagree mid-gesture.
func Progress(offset, fullHeight float64) float64 {
	if fullHeight <= 0 {
		return 1
	}
	mag := offset
	if mag < 0 {
		mag = -mag
	}
	return Clamp(1-mag/fullHeight, 0, 1)
}

// ComputeInsets derives content insets from the current chrome offsets.
// Top inset: status bar plus the partially shown header height, plus the
// reader affordance bar when visible. Bottom inset: the footer height not
// yet slid off screen.
func ComputeInsets(m Metrics, headerOffset, footerOffset float64, readerBarVisible bool) Insets {
	headerShown := Clamp(m.HeaderHeight+headerOffset, 0, m.HeaderHeight)
	footerShown := Clamp(m.FooterHeight-footerOffset, 0, m.FooterHeight)

	top := m.StatusBarHeight + headerShown
	if readerBarVisible {
		top += m.ReaderBarHeight
	}
	return Insets{Top: top, Bottom: footerShown}
}
