package backend

import "git.sr.ht/~whereswaldon/voicestats/l10n"

// Contribution is a way of contributing to the corpus.
type Contribution uint8

const (
	// Speak is recording clips.
	Speak Contribution = iota
	// Listen is validating other people's clips.
	Listen
)

func (c Contribution) String() string {
	if c == Listen {
		return "listen"
	}
	return "speak"
}

// Kind returns the goal kind counting c.
func (c Contribution) Kind() Kind {
	if c == Listen {
		return KindVote
	}
	return KindClip
}

// PersonalProgress extracts the count and current goal for c. ok is false
// while the goals are loading or failed to load.
func PersonalProgress(goals Result[AllGoals], c Contribution) (current, goal float64, ok bool) {
	if !goals.Loaded || goals.Err != nil {
		return 0, 0, false
	}
	p := goals.Value.Progress(c.Kind())
	return p.Current, p.CurrentGoal(), true
}

// DashboardState is the user's selection on the dashboard.
type DashboardState struct {
	Locale string
	// Audience picks the contribution activity tab.
	Audience Audience
	// Board picks the top contributors tab.
	Board Kind
}

// NewDashboardState returns the state shown on first mount.
func NewDashboardState() DashboardState {
	return DashboardState{
		Locale:   l10n.AllLocales,
		Audience: AudienceYou,
		Board:    KindClip,
	}
}

// SetLocale stores locale and reports whether it differs from the previous
// one, in which case every locale-keyed fetch must be repeated.
func (s *DashboardState) SetLocale(locale string) bool {
	if locale == "" {
		locale = l10n.AllLocales
	}
	if locale == s.Locale {
		return false
	}
	s.Locale = locale
	return true
}
