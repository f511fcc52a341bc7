package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_UnknownMode(t *testing.T) {
	_, err := Resolve("ranked_5s")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestSequenceLengths(t *testing.T) {
	cases := []struct {
		mode     string
		length   int
		preamble bool
	}{
		{"classic", 10, false},
		{"gitcg", 28, false},
		{"generals_2", 18, false},
		{"gitcg_cup_2", 28, true},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			m, err := Resolve(tc.mode)
			require.NoError(t, err)
			require.Len(t, m.Sequence, tc.length)
			require.Equal(t, tc.preamble, m.Preamble)
		})
	}
}

func TestClassicSequence_Snapshot(t *testing.T) {
	m, err := Resolve("classic")
	require.NoError(t, err)
	want := []Step{
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
	require.Equal(t, want, m.Sequence)
}

func TestPreamble_FixedOrder(t *testing.T) {
	want := [4]Step{
		{Team: TeamBlue, Action: ActionImmunityBan},
		{Team: TeamRed, Action: ActionImmunityBan},
		{Team: TeamBlue, Action: ActionImmunityPick},
		{Team: TeamRed, Action: ActionImmunityPick},
	}
	require.Equal(t, want, Preamble)
}

func TestCupMode_ImmunityFlags(t *testing.T) {
	cup, err := Resolve("gitcg_cup_2")
	require.NoError(t, err)
	base, err := Resolve("gitcg")
	require.NoError(t, err)

	for i, step := range cup.Sequence {
		switch i {
		case 25, 27:
			require.True(t, step.Immunity, "step %d must be immunity-flagged", i)
			require.Equal(t, ActionPick, step.Action)
		default:
			require.False(t, step.Immunity, "step %d must not be immunity-flagged", i)
		}
		require.Equal(t, base.Sequence[i].Team, step.Team)
		require.Equal(t, base.Sequence[i].Action, step.Action)
	}

	// Composing the cup mode must not flag the base table.
	for i, step := range base.Sequence {
		require.False(t, step.Immunity, "gitcg step %d flagged", i)
	}
}

func TestBanPickCardinalities(t *testing.T) {
	counts := func(seq []Step) (bans, picks int) {
		for _, s := range seq {
			switch s.Action {
			case ActionBan:
				bans++
			case ActionPick:
				picks++
			}
		}
		return
	}

	gitcg, _ := Resolve("gitcg")
	bans, picks := counts(gitcg.Sequence)
	require.Equal(t, 10, bans)
	require.Equal(t, 18, picks)

	generals, _ := Resolve("generals_2")
	bans, picks = counts(generals.Sequence)
	require.Equal(t, 12, bans)
	require.Equal(t, 6, picks)

	classic, _ := Resolve("classic")
	bans, picks = counts(classic.Sequence)
	require.Equal(t, 4, bans)
	require.Equal(t, 6, picks)
}

func TestNames_StableOrder(t *testing.T) {
	require.Equal(t, []string{"classic", "generals_2", "gitcg", "gitcg_cup_2"}, Names())
}
