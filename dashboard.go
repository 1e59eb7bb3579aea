package main

import (
	"image"
	"math"
	"strconv"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/l10n"
)

const (
	boardRecorded  = "recorded-clips"
	boardValidated = "validated-clips"
)

var boardKinds = map[string]backend.Kind{
	boardRecorded:  backend.KindClip,
	boardValidated: backend.KindVote,
}

var audiences = map[string]backend.Audience{
	backend.AudienceYou.String():      backend.AudienceYou,
	backend.AudienceEveryone.String(): backend.AudienceEveryone,
}

// Dashboard shows goal progress, contribution activity and the leaderboards
// for the selected contribution locale.
type Dashboard struct {
	ws      backend.WindowState
	loc     *l10n.Localizer
	locales []string
	state   backend.DashboardState

	localeTab   widget.Enum
	audienceTab widget.Enum
	boardTab    widget.Enum
	refreshBtn  widget.Clickable
	list        widget.List
	boardTable  component.GridState

	goals       *stream.Stream[backend.Result[backend.AllGoals]]
	goalsResult backend.Result[backend.AllGoals]

	activity       map[backend.Audience]*stream.Stream[backend.Result[[]backend.Activity]]
	activityResult map[backend.Audience]backend.Result[[]backend.Activity]

	boards      map[backend.Kind]*stream.Stream[backend.Result[[]backend.LeaderboardEntry]]
	boardResult map[backend.Kind]backend.Result[[]backend.LeaderboardEntry]
}

// NewDashboard builds the dashboard offering locales as filters in addition
// to every locale at once.
func NewDashboard(ws backend.WindowState, loc *l10n.Localizer, locales []string) *Dashboard {
	d := &Dashboard{
		ws:      ws,
		loc:     loc,
		locales: append([]string{l10n.AllLocales}, locales...),
		state:   backend.NewDashboardState(),
		list:    widget.List{List: layout.List{Axis: layout.Vertical}},
	}
	d.localeTab.Value = d.state.Locale
	d.audienceTab.Value = d.state.Audience.String()
	d.boardTab.Value = boardRecorded
	d.reload()
	return d
}

// reload replaces every stream with a fresh fetch for the current locale.
// Streams that are no longer read are swept, cancelling their fetches.
func (d *Dashboard) reload() {
	api := d.ws.Bundle.API
	locale := d.state.Locale
	d.goals = stream.New(d.ws.Controller, api.Goals(locale))
	d.goalsResult = backend.Result[backend.AllGoals]{}
	d.activity = map[backend.Audience]*stream.Stream[backend.Result[[]backend.Activity]]{}
	d.activityResult = map[backend.Audience]backend.Result[[]backend.Activity]{}
	for _, a := range audiences {
		d.activity[a] = stream.New(d.ws.Controller, api.ContributionActivity(a, locale))
	}
	d.boards = map[backend.Kind]*stream.Stream[backend.Result[[]backend.LeaderboardEntry]]{}
	d.boardResult = map[backend.Kind]backend.Result[[]backend.LeaderboardEntry]{}
	for _, k := range boardKinds {
		d.boards[k] = stream.New(d.ws.Controller, api.Leaderboard(locale, k))
	}
}

func (d *Dashboard) Update(gtx C) {
	if d.localeTab.Update(gtx) && d.state.SetLocale(d.localeTab.Value) {
		d.reload()
	}
	if d.refreshBtn.Clicked(gtx) {
		d.reload()
	}
	if d.audienceTab.Update(gtx) {
		d.state.Audience = audiences[d.audienceTab.Value]
	}
	if d.boardTab.Update(gtx) {
		d.state.Board = boardKinds[d.boardTab.Value]
	}
	if res, ok := d.goals.ReadNew(gtx); ok {
		d.goalsResult = res
	}
	// Only the visible tab's stream is read, so hidden ones are swept and
	// refetched when they are shown again.
	if res, ok := d.activity[d.state.Audience].ReadNew(gtx); ok {
		d.activityResult[d.state.Audience] = res
	}
	if res, ok := d.boards[d.state.Board].ReadNew(gtx); ok {
		d.boardResult[d.state.Board] = res
	}
}

func (d *Dashboard) Layout(gtx C, th *material.Theme) D {
	d.Update(gtx)
	sections := []layout.Widget{
		func(gtx C) D { return d.layoutLocales(gtx, th) },
		func(gtx C) D { return d.layoutProgress(gtx, th) },
		func(gtx C) D { return d.layoutActivity(gtx, th) },
		func(gtx C) D { return d.layoutBoard(gtx, th) },
	}
	return material.List(th, &d.list).Layout(gtx, len(sections), func(gtx C, index int) D {
		return layout.UniformInset(4).Layout(gtx, sections[index])
	})
}

func (d *Dashboard) localeName(locale string) string {
	if locale == l10n.AllLocales {
		return d.loc.Text("all-languages")
	}
	return locale
}

func (d *Dashboard) layoutLocales(gtx C, th *material.Theme) D {
	children := make([]layout.FlexChild, 0, len(d.locales)+1)
	for _, locale := range d.locales {
		children = append(children, layout.Flexed(1, Tab(th, &d.localeTab, locale, d.localeName(locale)).Layout))
	}
	children = append(children, layout.Rigid(func(gtx C) D {
		return layout.UniformInset(2).Layout(gtx, material.Button(th, &d.refreshBtn, d.loc.Text("refresh")).Layout)
	}))
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx, children...)
}

// card frames body below a title.
func card(gtx C, th *material.Theme, title string, body layout.Widget) D {
	border := widget.Border{
		Color:        fade(th.Fg, .3),
		Width:        1,
		CornerRadius: 4,
	}
	return border.Layout(gtx, func(gtx C) D {
		return layout.UniformInset(8).Layout(gtx, func(gtx C) D {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(material.H6(th, title).Layout),
				layout.Rigid(layout.Spacer{Height: 4}.Layout),
				layout.Rigid(body),
			)
		})
	})
}

func (d *Dashboard) layoutError(gtx C, th *material.Theme, err error) D {
	l := material.Body2(th, d.loc.Textf("fetch-failed", map[string]any{"Err": err}))
	l.Color = errorColor
	return l.Layout(gtx)
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (d *Dashboard) layoutProgress(gtx C, th *material.Theme) D {
	progress := func(c backend.Contribution) layout.FlexChild {
		return layout.Flexed(1, func(gtx C) D {
			return layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				return card(gtx, th, d.loc.Text(c.String()), func(gtx C) D {
					if d.goalsResult.Err != nil {
						return d.layoutError(gtx, th, d.goalsResult.Err)
					}
					current, goal, ok := backend.PersonalProgress(d.goalsResult, c)
					status := d.loc.Text("loading")
					var fraction float32
					if ok {
						if math.IsInf(goal, 1) {
							status = formatCount(current) + " · " + d.loc.Text("no-goal")
							fraction = 1
						} else {
							status = d.loc.Textf("progress", map[string]any{
								"Current": formatCount(current),
								"Goal":    formatCount(goal),
							})
							if goal > 0 {
								fraction = float32(min(current/goal, 1))
							}
						}
					}
					bar := material.ProgressBar(th, fraction)
					bar.Color = contributionColor(c)
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
						layout.Rigid(material.Caption(th, d.loc.Text(c.String()+"-goal")).Layout),
						layout.Rigid(material.Body1(th, status).Layout),
						layout.Rigid(bar.Layout),
					)
				})
			})
		})
	}
	return layout.Flex{}.Layout(gtx, progress(backend.Speak), progress(backend.Listen))
}

func (d *Dashboard) layoutActivity(gtx C, th *material.Theme) D {
	return card(gtx, th, d.loc.Text("contribution-activity"), func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				return layout.Flex{}.Layout(gtx,
					layout.Flexed(1, Tab(th, &d.audienceTab, backend.AudienceYou.String(), d.loc.Text("you")).Layout),
					layout.Flexed(1, Tab(th, &d.audienceTab, backend.AudienceEveryone.String(), d.loc.Text("everyone")).Layout),
				)
			}),
			layout.Rigid(func(gtx C) D {
				res := d.activityResult[d.state.Audience]
				switch {
				case res.Err != nil:
					return d.layoutError(gtx, th, res.Err)
				case !res.Loaded:
					return material.Body2(th, d.loc.Text("loading")).Layout(gtx)
				}
				return d.layoutActivityBars(gtx, th, res.Value)
			}),
		)
	})
}

// layoutActivityBars draws one bar per day scaled to the busiest day.
func (d *Dashboard) layoutActivityBars(gtx C, th *material.Theme, activity []backend.Activity) D {
	height := gtx.Dp(80)
	size := image.Pt(gtx.Constraints.Max.X, height)
	if len(activity) == 0 {
		return D{Size: size}
	}
	var peak float64
	for _, a := range activity {
		peak = max(peak, a.Value)
	}
	if peak == 0 {
		peak = 1
	}
	col := contributionColor(backend.Speak)
	barWidth := max(size.X/len(activity), 1)
	gap := min(gtx.Dp(2), barWidth/4)
	for i, a := range activity {
		barHeight := int(math.Round(a.Value / peak * float64(height)))
		paint.FillShape(gtx.Ops, col, clip.Rect{
			Min: image.Pt(i*barWidth+gap, height-barHeight),
			Max: image.Pt((i+1)*barWidth, height),
		}.Op())
	}
	first, last := activity[0], activity[len(activity)-1]
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D { return D{Size: size} }),
		layout.Rigid(func(gtx C) D {
			return layout.Flex{Spacing: layout.SpaceBetween}.Layout(gtx,
				layout.Rigid(material.Caption(th, d.loc.FormatDate(first.Date)).Layout),
				layout.Rigid(material.Caption(th, d.loc.FormatDate(last.Date)).Layout),
			)
		}),
	)
}

func (d *Dashboard) layoutBoard(gtx C, th *material.Theme) D {
	return card(gtx, th, d.loc.Text("top-contributors"), func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				return layout.Flex{}.Layout(gtx,
					layout.Flexed(1, Tab(th, &d.boardTab, boardRecorded, d.loc.Text(boardRecorded)).Layout),
					layout.Flexed(1, Tab(th, &d.boardTab, boardValidated, d.loc.Text(boardValidated)).Layout),
				)
			}),
			layout.Rigid(func(gtx C) D {
				res := d.boardResult[d.state.Board]
				switch {
				case res.Err != nil:
					return d.layoutError(gtx, th, res.Err)
				case !res.Loaded:
					return material.Body2(th, d.loc.Text("loading")).Layout(gtx)
				}
				return d.layoutBoardTable(gtx, th, res.Value)
			}),
		)
	})
}

func (d *Dashboard) layoutBoardTable(gtx C, th *material.Theme, entries []backend.LeaderboardEntry) D {
	table := component.Table(th, &d.boardTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	rankColWidth := gtx.Dp(60)
	countColWidth := gtx.Dp(90)
	nameColWidth := gtx.Constraints.Max.X - rankColWidth - 2*countColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		rankCol = iota
		nameCol
		totalCol
		validCol
		numCols
	)
	headings := [numCols]string{"rank", "contributor", "total", "valid"}
	gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, rowHeight*(len(entries)+1))
	return table.Layout(gtx, len(entries), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			switch index {
			case rankCol:
				return min(rankColWidth, constraint)
			case nameCol:
				return min(nameColWidth, constraint)
			default:
				return min(countColWidth, constraint)
			}
		},
		func(gtx C, index int) D {
			l := material.Body1(th, d.loc.Text(headings[index]))
			if index >= totalCol {
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
			entry := entries[row]
			var l material.LabelStyle
			switch col {
			case rankCol:
				l = material.Body2(th, strconv.Itoa(entry.Position))
			case nameCol:
				l = material.Body2(th, entry.Username)
			case totalCol:
				l = material.Body2(th, formatCount(entry.Total))
				l.Alignment = text.End
			default:
				l = material.Body2(th, formatCount(entry.Valid))
				l.Alignment = text.End
			}
			if entry.You {
				l.Font.Weight = font.SemiBold
			}
			dims = layout.UniformInset(2).Layout(gtx, l.Layout)
			if row&1 != 0 {
				paint.FillShape(gtx.Ops, fade(th.ContrastBg, .2), clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}
