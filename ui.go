package main

import (
	"image/color"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/l10n"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	tabDashboard  = "dashboard"
	tabClipsStats = "clips-stats"
)

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer
	loc  *l10n.Localizer
	log  logrus.FieldLogger

	dashboard   *Dashboard
	clipsStats  *ClipsStats
	tab         widget.Enum
	explorerBtn widget.Clickable

	th *material.Theme
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer, loc *l10n.Localizer, locales []string, log logrus.FieldLogger) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	return &UI{
		ws:         ws,
		th:         th,
		expl:       expl,
		loc:        loc,
		log:        log,
		tab:        widget.Enum{Value: tabDashboard},
		dashboard:  NewDashboard(ws, loc, locales),
		clipsStats: NewClipsStats(ws, loc),
	}
}

// Update the state of the UI.
func (ui *UI) Update(gtx C) {
	ui.tab.Update(gtx)
	if ui.explorerBtn.Clicked(gtx) {
		// The file chooser blocks until the user picks a file.
		go func() {
			id, err := ui.ws.Bundle.Datasource.LoadFromFile(ui.expl)
			if err != nil {
				ui.log.WithError(err).Warn("failed opening dataset")
				return
			}
			ui.log.WithField("session", id).Info("opened dataset")
		}()
		ui.tab.Value = tabClipsStats
	}
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	selected := state.Value == value
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width: 2,
			Color: th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	ts.label.MaxLines = 1
	if selected {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx C) D {
		return t.border.Layout(gtx, func(gtx C) D {
			return t.inset.Layout(gtx, func(gtx C) D {
				return t.state.Layout(gtx, t.value, func(gtx C) D {
					return layout.Background{}.Layout(gtx, func(gtx C) D {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) layoutHeader(gtx C) D {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, Tab(ui.th, &ui.tab, tabDashboard, ui.loc.Text(tabDashboard)).Layout),
		layout.Flexed(1, Tab(ui.th, &ui.tab, tabClipsStats, ui.loc.Text(tabClipsStats)).Layout),
		layout.Rigid(func(gtx C) D {
			btn := material.IconButton(ui.th, &ui.explorerBtn, openIcon, ui.loc.Text("open-dataset"))
			btn.Size = 20
			btn.Inset = layout.UniformInset(6)
			return layout.UniformInset(2).Layout(gtx, btn.Layout)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(ui.layoutHeader),
		layout.Rigid(func(gtx C) D {
			return layout.UniformInset(4).Layout(gtx, material.H5(ui.th, ui.loc.Text("stats")).Layout)
		}),
		layout.Flexed(1, func(gtx C) D {
			if ui.tab.Value == tabClipsStats {
				return ui.clipsStats.Layout(gtx, ui.th)
			}
			return ui.dashboard.Layout(gtx, ui.th)
		}),
	)
}
