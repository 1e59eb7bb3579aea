package main

import (
	"image/color"

	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/chart"
)

var errorColor = color.NRGBA{R: 150, A: 255}

// contributionColor is the accent of a contribution card.
func contributionColor(c backend.Contribution) color.NRGBA {
	if c == backend.Listen {
		return chart.DefaultPalette.Series[chart.Valid]
	}
	return chart.DefaultPalette.Series[chart.Total]
}

// fade returns c with its alpha scaled by f.
func fade(c color.NRGBA, f float32) color.NRGBA {
	c.A = uint8(float32(c.A) * f)
	return c
}
