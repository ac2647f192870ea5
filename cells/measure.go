package cells

import "unicode/utf8"

// TextMeasurer resolves the extent of a text run for a given style and font
// size. Real renderers back this with their font machinery; the default is a
// deterministic monospace approximation so layout works headless.
type TextMeasurer interface {
	TextExtent(text string, style TextStyle, fontsize int) (width, height int)
}

// MeasureContext carries everything layout recomputation needs: the text
// measurer, a device scale and the image sizing policy.
type MeasureContext struct {
	Measurer TextMeasurer
	Scale    float64
	// MaxImageWidth caps embedded image width in layout units; images wider
	// than this are scaled down preserving aspect ratio. Zero means no cap.
	MaxImageWidth int
}

// NewMeasureContext returns a context with the monospace measurer at scale 1.
func NewMeasureContext() *MeasureContext {
	return &MeasureContext{Measurer: MonoMeasurer{}, Scale: 1.0}
}

// Px scales a layout constant by the device scale, rounding to nearest.
func (mc *MeasureContext) Px(v int) int {
	return int(float64(v)*mc.Scale + 0.5)
}

const (
	minFontSize = 8
	// exponents and indices drop this many points relative to their base
	expIndent = 4
	// padding inside composite cells
	cellPadding = 2
	lineGap     = 2
)

// smaller returns the font size used for child slots drawn reduced (indices,
// exponents, bounds), clamped to the readable minimum.
func smaller(fontsize int) int {
	if fontsize-expIndent < minFontSize {
		return minFontSize
	}
	return fontsize - expIndent
}

// MonoMeasurer measures text as a fixed-pitch grid. Width grows with the
// rune count, height with the font size only.
type MonoMeasurer struct{}

func (MonoMeasurer) TextExtent(text string, _ TextStyle, fontsize int) (int, int) {
	runes := utf8.RuneCountInString(text)
	w := runes * (fontsize/2 + 1)
	h := fontsize + fontsize/4
	return w, h
}
