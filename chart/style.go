package chart

import (
	"fmt"
	"image/color"
	"strings"
)

// Palette assigns colors to the categories of a scene.
type Palette struct {
	Series     [NumSeries]color.NRGBA
	Grid       color.NRGBA
	Label      color.NRGBA
	Background color.NRGBA
}

// DefaultPalette is used when callers don't supply their own colors.
var DefaultPalette = Palette{
	Series: [NumSeries]color.NRGBA{
		Total:      {R: 0x59, G: 0xcb, B: 0xb7, A: 0xff},
		Valid:      {R: 0xb7, G: 0xd4, B: 0x3f, A: 0xff},
		Unverified: {R: 0xff, G: 0x4f, B: 0x5e, A: 0xff},
	},
	Grid:       color.NRGBA{A: 0x33},
	Label:      color.NRGBA{R: 0x4a, G: 0x4a, B: 0x4a, A: 0xff},
	Background: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

func cssColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, formatFloat(float64(c.A)/0xff))
}

// Stylesheet renders CSS rules for the class names used in a scene.
func (p Palette) Stylesheet() string {
	var b strings.Builder
	fmt.Fprintf(&b, ".%s{fill:%s;font-size:12px;font-family:sans-serif}", TickLabelClass, cssColor(p.Label))
	for s := Series(0); s < NumSeries; s++ {
		c := cssColor(p.Series[s])
		fmt.Fprintf(&b, "path.%[1]s{stroke:%[2]s}circle.outer.%[1]s{stroke:%[2]s;stroke-width:%[3]d}circle.inner.%[1]s{fill:%[2]s}", s, c, StrokeWidth)
	}
	return b.String()
}
