package analytics

// This file sizes the charts for the viewport: narrow below the breakpoint,
// fixed wide dimensions otherwise.

// Default chart layout values.
const (
	DefaultNarrowBreakpoint = 768
	DefaultNarrowMargin     = 50
	DefaultNarrowHeight     = 200
	DefaultWideWidth        = 500
	DefaultWideHeight       = 300
)

// LayoutConfig holds the responsive chart sizing thresholds.
type LayoutConfig struct {
	NarrowBreakpoint int // viewports narrower than this use the narrow layout
	NarrowMargin     int // subtracted from the viewport width in the narrow layout
	NarrowHeight     int
	WideWidth        int
	WideHeight       int
}

// DefaultLayout returns the stock layout thresholds.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		NarrowBreakpoint: DefaultNarrowBreakpoint,
		NarrowMargin:     DefaultNarrowMargin,
		NarrowHeight:     DefaultNarrowHeight,
		WideWidth:        DefaultWideWidth,
		WideHeight:       DefaultWideHeight,
	}
}

// Dimensions is the computed chart size.
type Dimensions struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Narrow bool `json:"narrow"`
}

// Layout names the layout for metrics and templates.
func (d Dimensions) Layout() string {
	if d.Narrow {
		return "narrow"
	}
	return "wide"
}

// Dimensions computes chart size for a viewport width in CSS pixels.
// A non-positive width means the viewport is not known yet and yields the
// wide layout. Narrow widths never go below zero.
func (c LayoutConfig) Dimensions(viewportWidth int) Dimensions {
	if viewportWidth > 0 && viewportWidth < c.NarrowBreakpoint {
		return Dimensions{
			Width:  max(viewportWidth-c.NarrowMargin, 0),
			Height: c.NarrowHeight,
			Narrow: true,
		}
	}
	return Dimensions{
		Width:  c.WideWidth,
		Height: c.WideHeight,
	}
}
