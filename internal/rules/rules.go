package rules

import (
	"errors"
	"slices"
	"sort"
)

var ErrUnknownMode = errors.New("unknown draft mode")

type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

// Opponent returns the other drafting side.
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

type Action string

const (
	ActionBan          Action = "ban"
	ActionPick         Action = "pick"
	ActionImmunityBan  Action = "immunity_ban"
	ActionImmunityPick Action = "immunity_pick"
)

// Step is one entry in a resolved draft sequence. Immunity marks a pick
// step that may take a character the opponent already holds, provided the
// character passed through the immunity pool.
type Step struct {
	Team     Team   `json:"team"`
	Action   Action `json:"type"`
	Immunity bool   `json:"immunity,omitempty"`
}

// Mode is a registered draft variant. Sequence is fixed at process start
// and must be treated as read-only by callers.
type Mode struct {
	Name     string
	Preamble bool // run the 4-step immunity preamble before Sequence
	Sequence []Step
}

// Preamble is the fixed immunity phase: each side bans one character from
// the pool, then each side picks one into it.
var Preamble = [4]Step{
	{Team: TeamBlue, Action: ActionImmunityBan},
	{Team: TeamRed, Action: ActionImmunityBan},
	{Team: TeamBlue, Action: ActionImmunityPick},
	{Team: TeamRed, Action: ActionImmunityPick},
}

var classicSequence = []Step{
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionPick},
}

var gitcgSequence = []Step{
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamRed, Action: ActionPick},
}

var generals2Sequence = []Step{
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamBlue, Action: ActionBan},
	{Team: TeamBlue, Action: ActionPick},
	{Team: TeamRed, Action: ActionBan},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamRed, Action: ActionPick},
	{Team: TeamBlue, Action: ActionPick},
}

// cupSequence is the gitcg order with each side's closing pick marked
// immune, so each side gets one shot at a character from the immunity pool
// even when the opponent already drafted it.
func cupSequence() []Step {
	seq := slices.Clone(gitcgSequence)
	seq[25].Immunity = true
	seq[27].Immunity = true
	return seq
}

var modes = map[string]Mode{
	"classic":     {Name: "classic", Sequence: classicSequence},
	"gitcg":       {Name: "gitcg", Sequence: gitcgSequence},
	"generals_2":  {Name: "generals_2", Sequence: generals2Sequence},
	"gitcg_cup_2": {Name: "gitcg_cup_2", Preamble: true, Sequence: cupSequence()},
}

// Resolve returns the registered mode for name.
func Resolve(name string) (Mode, error) {
	m, ok := modes[name]
	if !ok {
		return Mode{}, ErrUnknownMode
	}
	return m, nil
}

// Names lists the registered mode names in stable order.
func Names() []string {
	out := make([]string, 0, len(modes))
	for name := range modes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
