package main

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/chart"
	"git.sr.ht/~whereswaldon/voicestats/l10n"
	"golang.org/x/exp/constraints"
)

// ClipsStats draws the clip statistics chart of the active dataset session.
type ClipsStats struct {
	viewport *chart.Viewport
	palette  chart.Palette
	loc      *l10n.Localizer

	sessions *stream.Stream[backend.Session]
	session  backend.Session

	Enabled  [chart.NumSeries]widget.Bool
	keyTable component.GridState
}

func NewClipsStats(ws backend.WindowState, loc *l10n.Localizer) *ClipsStats {
	c := &ClipsStats{
		viewport: chart.NewViewport(chart.Dataset{}, chart.WithDateFormatter(loc.FormatDate)),
		palette:  chart.DefaultPalette,
		loc:      loc,
		sessions: stream.New(ws.Controller, ws.Bundle.Datasource.Subscribe),
	}
	for i := range c.Enabled {
		c.Enabled[i].Value = true
	}
	return c
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func (c *ClipsStats) Update(gtx C) {
	if s, ok := c.sessions.ReadNew(gtx); ok {
		c.session = s
		c.viewport.SetDataset(s.Data)
	}
	for i := range c.Enabled {
		c.Enabled[i].Update(gtx)
	}
}

func (c *ClipsStats) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			l := material.Caption(th, c.session.Source)
			if c.session.Err != nil {
				l.Text = c.loc.Textf("fetch-failed", map[string]any{"Err": c.session.Err})
				l.Color = errorColor
			}
			return layout.UniformInset(4).Layout(gtx, l.Layout)
		}),
		layout.Rigid(func(gtx C) D {
			return c.layoutPlot(gtx, th)
		}),
		layout.Rigid(func(gtx C) D {
			return c.layoutKey(gtx, th)
		}),
	)
}

// layoutPlot renders the scene for the available width. Scene coordinates
// are in Dp.
func (c *ClipsStats) layoutPlot(gtx C, th *material.Theme) D {
	scene, _ := c.viewport.Resize(float64(gtx.Metric.PxToDp(gtx.Constraints.Max.X)))
	px := func(v float64) float32 {
		return float32(v) * gtx.Metric.PxPerDp
	}
	pt := func(p chart.Point) f32.Point {
		return f32.Pt(px(p.X), px(p.Y))
	}
	size := image.Pt(gtx.Constraints.Max.X, int(ceil(px(scene.Height))))

	lineWidth := max(gtx.Dp(1), 1)
	for _, g := range scene.Gridlines {
		y := int(px(g.Y))
		paint.FillShape(gtx.Ops, c.palette.Grid, clip.Rect{
			Min: image.Pt(int(px(g.X1)), y),
			Max: image.Pt(int(px(g.X2)), y+lineWidth),
		}.Op())
	}

	labelGtx := gtx
	labelGtx.Constraints.Min = image.Point{}
	for _, labels := range [][]chart.Text{scene.TickLabels, scene.DateLabels} {
		for _, t := range labels {
			l := material.Caption(th, t.Content)
			l.Color = c.palette.Label
			l.MaxLines = 1
			dims, call := rec(labelGtx, l.Layout)
			x := int(px(t.X))
			if t.Anchor == chart.AnchorEnd {
				x -= dims.Size.X
			}
			// Text positions are baselines unless vertically centered.
			y := int(px(t.Y)) - (dims.Size.Y - dims.Baseline)
			if t.Middle {
				y = int(px(t.Y)) - dims.Size.Y/2
			}
			stack := op.Offset(image.Pt(x, y)).Push(gtx.Ops)
			call.Add(gtx.Ops)
			stack.Pop()
		}
	}

	for _, plot := range scene.Plots {
		if !c.Enabled[plot.Series].Value || len(plot.Path) == 0 {
			continue
		}
		col := c.palette.Series[plot.Series]
		var p clip.Path
		p.Begin(gtx.Ops)
		for _, cmd := range plot.Path {
			switch cmd.Verb {
			case chart.MoveTo:
				p.MoveTo(pt(cmd.To))
			case chart.CubeTo:
				p.CubeTo(pt(cmd.Ctrl0), pt(cmd.Ctrl1), pt(cmd.To))
			}
		}
		paint.FillShape(gtx.Ops, col, clip.Stroke{
			Path:  p.End(),
			Width: px(chart.StrokeWidth),
		}.Op())
		if m := plot.Marker; m != nil {
			ring := px(chart.StrokeWidth) / 2
			fillCircle(gtx, pt(m.Outer.Center), px(m.Outer.Radius)+ring, col)
			fillCircle(gtx, pt(m.Outer.Center), px(m.Outer.Radius)-ring, c.palette.Background)
			fillCircle(gtx, pt(m.Inner.Center), px(m.Inner.Radius), col)
		}
	}
	return D{Size: size}
}

func fillCircle(gtx C, center f32.Point, radius float32, col color.NRGBA) {
	if radius <= 0 {
		return
	}
	paint.FillShape(gtx.Ops, col, clip.Ellipse{
		Min: image.Pt(int(floor(center.X-radius)), int(floor(center.Y-radius))),
		Max: image.Pt(int(ceil(center.X+radius)), int(ceil(center.Y+radius))),
	}.Op(gtx.Ops))
}

// layoutKey lists the series with their colors and latest values. Clicking a
// row toggles the series on the plot.
func (c *ClipsStats) layoutKey(gtx C, th *material.Theme) D {
	table := component.Table(th, &c.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	valueColWidth := gtx.Dp(100)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - valueColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		colorCol = iota
		seriesNameCol
		latestCol
		numCols
	)
	last, hasLast := c.session.Data.Last()
	gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, rowHeight*(int(chart.NumSeries)+1))
	return table.Layout(gtx, int(chart.NumSeries), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case seriesNameCol:
				size = nameColWidth
			case latestCol:
				size = valueColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "")
			case seriesNameCol:
				l = material.Body1(th, c.loc.Text("clips-stats"))
				l.Alignment = text.Middle
			default:
				date := ""
				if hasLast {
					date = c.loc.FormatDate(last.Timestamp)
				}
				l = material.Body1(th, date)
				l.Alignment = text.End
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			series := chart.DrawOrder[len(chart.DrawOrder)-1-row]
			enabled := c.Enabled[series].Value
			disabledAlpha := uint8(100)
			return layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				switch col {
				case colorCol:
					return c.Enabled[series].Layout(gtx, func(gtx C) D {
						return layout.Center.Layout(gtx, func(gtx C) D {
							sideLen := gtx.Dp(10)
							sz := image.Pt(sideLen, sideLen)
							fullColor := c.palette.Series[series]
							if !enabled {
								fullColor.A = disabledAlpha
							}
							paint.FillShape(gtx.Ops, fullColor, clip.Rect{Max: sz}.Op())
							return D{Size: sz}
						})
					})
				case seriesNameCol:
					l := material.Body2(th, c.loc.Text(series.String()))
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				default:
					value := "-"
					if hasLast {
						value = strconv.FormatFloat(last.Value(series), 'f', -1, 64)
					}
					l := material.Body2(th, value)
					if !enabled {
						l.Color.A = disabledAlpha
					}
					l.Alignment = text.End
					return l.Layout(gtx)
				}
			})
		})
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}
