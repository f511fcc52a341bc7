package engine

import (
	"slices"
	"time"

	"github.com/draftarena/tcg-draft-backend/internal/rules"
	"github.com/draftarena/tcg-draft-backend/pkg/types"
)

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseImmunity Phase = "immunity"
	PhaseMain     Phase = "main"
	PhaseDone     Phase = "done"
)

// Skipped is the sentinel logged when a side forfeits an immunity step.
const Skipped = "skipped"

// Ban is one entry in the draft-wide ban log. Immunity tags bans made during
// the preamble; those exclude a character from the immunity pool only.
type Ban struct {
	ID       string
	Team     rules.Team
	Immunity bool
}

// Player identifies one side. UserID is the stable identity used for
// reconnection; ConnID is the transient connection currently bound to it.
// ExternalID and Avatar ride along for persistence only.
type Player struct {
	UserID     string
	ConnID     string
	Name       string
	ExternalID string
	Avatar     string
	Ready      bool
}

// Session is the full state of one draft room. Values are passed and
// returned by Apply; the room actor owns the only live copy.
type Session struct {
	Room string
	Mode rules.Mode

	Phase          Phase
	Cursor         int // index into Mode.Sequence
	ImmunityCursor int // index into rules.Preamble

	Blue Player
	Red  Player

	Bans      []Ban
	BluePicks []string
	RedPicks  []string

	ImmunityPool []string // immunity picks, may contain Skipped
	ImmunityBans []string // immunity bans, may contain Skipped

	Results [3]types.GameResult

	LastActive time.Time
}

// NewSession seats the creator on the blue side and waits in the lobby.
func NewSession(room string, mode rules.Mode, creatorUserID, creatorName string) Session {
	return Session{
		Room:       room,
		Mode:       mode,
		Phase:      PhaseLobby,
		Blue:       Player{UserID: creatorUserID, Name: creatorName},
		LastActive: time.Now(),
	}
}

// Started reports whether the draft has left the lobby.
func (s Session) Started() bool { return s.Phase != PhaseLobby }

// Finished reports whether the draft reached its terminal state.
func (s Session) Finished() bool { return s.Phase == PhaseDone }

// CurrentStep returns the active descriptor, or ok=false outside the
// immunity/main phases.
func (s Session) CurrentStep() (rules.Step, bool) {
	switch s.Phase {
	case PhaseImmunity:
		return rules.Preamble[s.ImmunityCursor], true
	case PhaseMain:
		return s.Mode.Sequence[s.Cursor], true
	default:
		return rules.Step{}, false
	}
}

func (s Session) player(t rules.Team) Player {
	if t == rules.TeamBlue {
		return s.Blue
	}
	return s.Red
}

func (s Session) picks(t rules.Team) []string {
	if t == rules.TeamBlue {
		return s.BluePicks
	}
	return s.RedPicks
}

// Project builds the read-only snapshot broadcast to clients. Slices are
// copied so receivers can never reach back into live state.
func (s Session) Project() types.PublicState {
	p := types.PublicState{
		RoomID:              s.Room,
		DraftType:           s.Mode.Name,
		GameStarted:         s.Started(),
		Finished:            s.Finished(),
		StepIndex:           s.Cursor + 1,
		ImmunityPhaseActive: s.Phase == PhaseImmunity,
		ImmunityStepIndex:   s.ImmunityCursor,
		ImmunityPool:        slices.Clone(s.ImmunityPool),
		ImmunityBans:        slices.Clone(s.ImmunityBans),
		BluePicks:           slices.Clone(s.BluePicks),
		RedPicks:            slices.Clone(s.RedPicks),
		BlueName:            s.Blue.Name,
		RedName:             s.Red.Name,
		Ready:               types.ReadyFlags{Blue: s.Blue.Ready, Red: s.Red.Ready},
		MatchResults:        slices.Clone(s.Results[:]),
	}
	if p.ImmunityPool == nil {
		p.ImmunityPool = []string{}
	}
	if p.ImmunityBans == nil {
		p.ImmunityBans = []string{}
	}
	if p.BluePicks == nil {
		p.BluePicks = []string{}
	}
	if p.RedPicks == nil {
		p.RedPicks = []string{}
	}
	p.Bans = make([]types.BanEntry, len(s.Bans))
	for i, b := range s.Bans {
		p.Bans[i] = types.BanEntry{ID: b.ID, Team: string(b.Team), Immunity: b.Immunity}
	}
	if step, ok := s.CurrentStep(); ok {
		p.CurrentTeam = string(step.Team)
		p.CurrentAction = string(step.Action)
	}
	return p
}
