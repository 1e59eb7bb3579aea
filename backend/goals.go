package backend

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Goal is one milestone of a contribution goal. Date is set once the goal
// has been reached.
type Goal struct {
	Date *time.Time `json:"date"`
	Goal float64    `json:"goal"`
}

// Reached reports whether the goal has been met.
func (g Goal) Reached() bool {
	return g.Date != nil
}

// Progress is the contributor's current count together with the ladder of
// goals. On the wire it is the two element array [current, goals].
type Progress struct {
	Current float64
	Goals   []Goal
}

func (p *Progress) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("failed decoding progress: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("progress has %d elements, expected 2", len(raw))
	}
	var out Progress
	if err := json.Unmarshal(raw[0], &out.Current); err != nil {
		return fmt.Errorf("failed decoding current count: %w", err)
	}
	if err := json.Unmarshal(raw[1], &out.Goals); err != nil {
		return fmt.Errorf("failed decoding goals: %w", err)
	}
	*p = out
	return nil
}

func (p Progress) MarshalJSON() ([]byte, error) {
	goals := p.Goals
	if goals == nil {
		goals = []Goal{}
	}
	return json.Marshal([]any{p.Current, goals})
}

// CurrentGoal is the first goal not yet reached, or +Inf if every goal has
// been reached.
func (p Progress) CurrentGoal() float64 {
	for _, g := range p.Goals {
		if !g.Reached() {
			return g.Goal
		}
	}
	return math.Inf(1)
}

// AllGoals holds the progress for both contribution kinds.
type AllGoals struct {
	Clips Progress `json:"clips"`
	Votes Progress `json:"votes"`
}

// Kind selects between recording and validating contributions.
type Kind uint8

const (
	KindClip Kind = iota
	KindVote
)

func (k Kind) String() string {
	switch k {
	case KindClip:
		return "clip"
	case KindVote:
		return "vote"
	default:
		return "unknown"
	}
}

// Progress picks the progress matching k.
func (a AllGoals) Progress(k Kind) Progress {
	if k == KindVote {
		return a.Votes
	}
	return a.Clips
}

// Audience selects whose contributions are counted.
type Audience uint8

const (
	AudienceYou Audience = iota
	AudienceEveryone
)

func (a Audience) String() string {
	switch a {
	case AudienceYou:
		return "you"
	case AudienceEveryone:
		return "everyone"
	default:
		return "unknown"
	}
}

// LeaderboardEntry is one ranked contributor.
type LeaderboardEntry struct {
	Position  int     `json:"position"`
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Total     float64 `json:"total"`
	Valid     float64 `json:"valid"`
	You       bool    `json:"you,omitempty"`
}

// Activity is the contribution count for one day.
type Activity struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
