package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/draftarena/tcg-draft-backend/internal/engine"
	"github.com/draftarena/tcg-draft-backend/internal/rules"
	"github.com/draftarena/tcg-draft-backend/pkg/types"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name     string
		results  []types.GameResult
		blue     int
		red      int
	}{
		{name: "empty", results: nil},
		{
			name: "blue sweep",
			results: []types.GameResult{
				{Winner: "blue"}, {Winner: "blue"}, {},
			},
			blue: 2,
		},
		{
			name: "split with unset row",
			results: []types.GameResult{
				{Winner: "blue"}, {Winner: "red"}, {Winner: ""},
			},
			blue: 1,
			red:  1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blue, red := Score(tc.results)
			require.Equal(t, tc.blue, blue)
			require.Equal(t, tc.red, red)
		})
	}
}

func TestRecord_FlattensSession(t *testing.T) {
	m, err := rules.Resolve("gitcg_cup_2")
	require.NoError(t, err)

	s := engine.NewSession("ROOM42", m, "u-blue", "Alice")
	s.Blue.ExternalID = "discord-1"
	s.Red = engine.Player{UserID: "u-red", Name: "Bob", ExternalID: "discord-2"}
	s.Phase = engine.PhaseDone
	s.Bans = []engine.Ban{
		{ID: "nahida", Team: rules.TeamBlue, Immunity: true},
		{ID: "venti", Team: rules.TeamRed},
	}
	s.BluePicks = []string{"ganyu", "zhongli"}
	s.RedPicks = []string{"raiden"}
	s.ImmunityPool = []string{"zhongli", engine.Skipped}
	s.ImmunityBans = []string{"nahida", engine.Skipped}
	s.Results[0] = types.GameResult{Winner: "blue", BlueChar: "ganyu", RedChar: "raiden"}
	s.Results[1] = types.GameResult{Winner: "blue"}

	rec := Record(s)
	require.Equal(t, "ROOM42", rec.RoomID)
	require.Equal(t, "gitcg_cup_2", rec.DraftType)
	require.Equal(t, "Alice", rec.BlueName)
	require.Equal(t, "discord-2", rec.RedExternalID)
	require.Equal(t, 2, rec.BlueScore)
	require.Equal(t, 0, rec.RedScore)

	var bans []types.BanEntry
	require.NoError(t, json.Unmarshal(rec.Bans, &bans))
	require.Equal(t, []types.BanEntry{
		{ID: "nahida", Team: "blue", Immunity: true},
		{ID: "venti", Team: "red"},
	}, bans)

	var pool []string
	require.NoError(t, json.Unmarshal(rec.ImmunityPool, &pool))
	require.Equal(t, []string{"zhongli", "skipped"}, pool, "skip sentinel survives persistence")

	var picks []string
	require.NoError(t, json.Unmarshal(rec.BluePicks, &picks))
	require.Equal(t, []string{"ganyu", "zhongli"}, picks)
}

func TestRecord_EmptyLogsMarshalAsArrays(t *testing.T) {
	m, err := rules.Resolve("classic")
	require.NoError(t, err)
	s := engine.NewSession("ROOM43", m, "u-blue", "Alice")
	s.Red = engine.Player{UserID: "u-red", Name: "Bob"}
	s.Phase = engine.PhaseDone

	rec := Record(s)
	require.JSONEq(t, `[]`, string(rec.Bans))
	require.JSONEq(t, `[]`, string(rec.BluePicks))
	require.JSONEq(t, `[]`, string(rec.ImmunityPool))
}
