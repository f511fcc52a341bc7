package engine

import (
	"errors"
	"math/rand"
	"slices"

	"github.com/draftarena/tcg-draft-backend/internal/rules"
)

var (
	ErrNotStarted         = errors.New("draft not started")
	ErrCompleted          = errors.New("draft already completed")
	ErrWrongTurn          = errors.New("not this side's turn")
	ErrIllegalPick        = errors.New("illegal pick")
	ErrIllegalBan         = errors.New("illegal ban")
	ErrIllegalSkip        = errors.New("skip only allowed in immunity phase")
	ErrUnsupportedCommand = errors.New("unsupported command")
)

type CommandType string

const (
	CmdReady       CommandType = "Ready"
	CmdSubmit      CommandType = "Submit"
	CmdSkip        CommandType = "Skip"
	CmdAutoResolve CommandType = "AutoResolve"
)

type Command struct {
	Type        CommandType
	Team        rules.Team
	CharacterID string
	// Pool is the candidate id universe for CmdAutoResolve.
	Pool []string
}

type EventType string

const (
	EvtDraftStarted    EventType = "DraftStarted"
	EvtCharacterPicked EventType = "CharacterPicked"
	EvtCharacterBanned EventType = "CharacterBanned"
	EvtImmunityPicked  EventType = "ImmunityPicked"
	EvtImmunityBanned  EventType = "ImmunityBanned"
	EvtTurnSkipped     EventType = "TurnSkipped"
	EvtTurnAdvanced    EventType = "TurnAdvanced"
	EvtDraftCompleted  EventType = "DraftCompleted"
)

type Event struct {
	Type        EventType
	Team        rules.Team
	CharacterID string
}

// intn is swapped in tests to make auto-resolve deterministic.
var intn = rand.Intn

// Apply validates cmd against s and returns the emitted events plus the new
// session value. On error the returned session is s unchanged; the room
// actor treats errors as silent no-ops per the draft's forfeiting design.
func Apply(s Session, cmd Command) ([]Event, Session, error) {
	switch cmd.Type {
	case CmdReady:
		return applyReady(s, cmd.Team)
	case CmdSubmit:
		return applySubmit(s, cmd.Team, cmd.CharacterID)
	case CmdSkip:
		return applySkip(s, cmd.Team)
	case CmdAutoResolve:
		return applyAutoResolve(s, cmd.Pool)
	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func applyReady(s Session, team rules.Team) ([]Event, Session, error) {
	if s.Phase == PhaseDone {
		return nil, s, ErrCompleted
	}
	if s.Phase != PhaseLobby {
		// Already running; repeated ready signals are a no-op.
		return nil, s, nil
	}
	switch team {
	case rules.TeamBlue:
		if s.Blue.Ready {
			return nil, s, nil
		}
		s.Blue.Ready = true
	case rules.TeamRed:
		if s.Red.Ready {
			return nil, s, nil
		}
		s.Red.Ready = true
	default:
		return nil, s, ErrWrongTurn
	}
	if !s.Blue.Ready || !s.Red.Ready {
		return nil, s, nil
	}
	if s.Mode.Preamble {
		s.Phase = PhaseImmunity
		s.ImmunityCursor = 0
	} else {
		s.Phase = PhaseMain
		s.Cursor = 0
	}
	return []Event{{Type: EvtDraftStarted}}, s, nil
}

func applySubmit(s Session, team rules.Team, id string) ([]Event, Session, error) {
	step, err := turnOf(s, team)
	if err != nil {
		return nil, s, err
	}

	if s.Phase == PhaseImmunity {
		if slices.Contains(s.ImmunityBans, id) || slices.Contains(s.ImmunityPool, id) {
			if step.Action == rules.ActionImmunityBan {
				return nil, s, ErrIllegalBan
			}
			return nil, s, ErrIllegalPick
		}
		var evt Event
		if step.Action == rules.ActionImmunityBan {
			s.ImmunityBans = append(s.ImmunityBans, id)
			s.Bans = append(s.Bans, Ban{ID: id, Team: team, Immunity: true})
			evt = Event{Type: EvtImmunityBanned, Team: team, CharacterID: id}
		} else {
			s.ImmunityPool = append(s.ImmunityPool, id)
			evt = Event{Type: EvtImmunityPicked, Team: team, CharacterID: id}
		}
		next, rest := advance(s)
		return append([]Event{evt}, rest...), next, nil
	}

	switch step.Action {
	case rules.ActionPick:
		if err := canPick(s, team, id, step); err != nil {
			return nil, s, err
		}
		if team == rules.TeamBlue {
			s.BluePicks = append(s.BluePicks, id)
		} else {
			s.RedPicks = append(s.RedPicks, id)
		}
		next, rest := advance(s)
		return append([]Event{{Type: EvtCharacterPicked, Team: team, CharacterID: id}}, rest...), next, nil
	case rules.ActionBan:
		if err := canBan(s, id); err != nil {
			return nil, s, err
		}
		s.Bans = append(s.Bans, Ban{ID: id, Team: team})
		next, rest := advance(s)
		return append([]Event{{Type: EvtCharacterBanned, Team: team, CharacterID: id}}, rest...), next, nil
	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func applySkip(s Session, team rules.Team) ([]Event, Session, error) {
	step, err := turnOf(s, team)
	if err != nil {
		return nil, s, err
	}
	if s.Phase != PhaseImmunity {
		return nil, s, ErrIllegalSkip
	}
	if step.Action == rules.ActionImmunityBan {
		s.ImmunityBans = append(s.ImmunityBans, Skipped)
	} else {
		s.ImmunityPool = append(s.ImmunityPool, Skipped)
	}
	next, rest := advance(s)
	return append([]Event{{Type: EvtTurnSkipped, Team: team}}, rest...), next, nil
}

// applyAutoResolve is the forced move when a side's reserve runs out. It
// submits a uniformly random legal character; with none available it
// forfeits the turn like a skip.
func applyAutoResolve(s Session, pool []string) ([]Event, Session, error) {
	step, ok := s.CurrentStep()
	if !ok {
		if s.Phase == PhaseDone {
			return nil, s, ErrCompleted
		}
		return nil, s, ErrNotStarted
	}
	if s.Phase == PhaseImmunity {
		return applySkip(s, step.Team)
	}

	var legal []string
	for _, id := range pool {
		switch step.Action {
		case rules.ActionPick:
			if canPick(s, step.Team, id, step) == nil {
				legal = append(legal, id)
			}
		case rules.ActionBan:
			if canBan(s, id) == nil {
				legal = append(legal, id)
			}
		}
	}
	if len(legal) == 0 {
		next, rest := advance(s)
		return append([]Event{{Type: EvtTurnSkipped, Team: step.Team}}, rest...), next, nil
	}
	return applySubmit(s, step.Team, legal[intn(len(legal))])
}

// turnOf checks the shared submit/skip preconditions: session running, both
// sides bound, and team owning the current step.
func turnOf(s Session, team rules.Team) (rules.Step, error) {
	switch s.Phase {
	case PhaseLobby:
		return rules.Step{}, ErrNotStarted
	case PhaseDone:
		return rules.Step{}, ErrCompleted
	}
	if s.Blue.UserID == "" || s.Red.UserID == "" {
		return rules.Step{}, ErrNotStarted
	}
	step, _ := s.CurrentStep()
	if step.Team != team {
		return rules.Step{}, ErrWrongTurn
	}
	return step, nil
}

// advance moves the cursor past a resolved step and handles the
// immunity->main and main->done transitions.
func advance(s Session) (Session, []Event) {
	if s.Phase == PhaseImmunity {
		s.ImmunityCursor++
		if s.ImmunityCursor >= len(rules.Preamble) {
			s.Phase = PhaseMain
			s.Cursor = 0
		}
		return s, []Event{{Type: EvtTurnAdvanced}}
	}
	s.Cursor++
	if s.Cursor >= len(s.Mode.Sequence) {
		s.Phase = PhaseDone
		return s, []Event{{Type: EvtTurnAdvanced}, {Type: EvtDraftCompleted}}
	}
	return s, []Event{{Type: EvtTurnAdvanced}}
}

// globallyBanned ignores immunity-phase bans: those only keep a character
// out of the immunity pool.
func globallyBanned(s Session, id string) bool {
	for _, b := range s.Bans {
		if !b.Immunity && b.ID == id {
			return true
		}
	}
	return false
}

// isImmune reports whether id passed through the immunity pool and was not
// banned from it. The skip sentinel never grants immunity.
func isImmune(s Session, id string) bool {
	if id == Skipped {
		return false
	}
	return slices.Contains(s.ImmunityPool, id) && !slices.Contains(s.ImmunityBans, id)
}

func canPick(s Session, team rules.Team, id string, step rules.Step) error {
	if globallyBanned(s, id) {
		return ErrIllegalPick
	}
	if slices.Contains(s.picks(team), id) {
		return ErrIllegalPick
	}
	if slices.Contains(s.picks(team.Opponent()), id) {
		// Only an immunity-flagged step may take a character the opponent
		// holds, and only if it sits in the immunity pool.
		if !step.Immunity || !isImmune(s, id) {
			return ErrIllegalPick
		}
	}
	return nil
}

func canBan(s Session, id string) error {
	if globallyBanned(s, id) {
		return ErrIllegalBan
	}
	if isImmune(s, id) {
		return ErrIllegalBan
	}
	if slices.Contains(s.BluePicks, id) || slices.Contains(s.RedPicks, id) {
		return ErrIllegalBan
	}
	return nil
}

// ContainsEvent reports whether events carries an event of the given type.
func ContainsEvent(events []Event, t EventType) bool {
	for _, e := range events {
		if e.Type == t {
			return true
		}
	}
	return false
}
