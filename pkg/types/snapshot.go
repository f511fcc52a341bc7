package types

// BanEntry is one entry in the draft-wide ban log. Immunity marks bans made
// during the immunity preamble; those only block the immunity pool, not
// regular picks.
type BanEntry struct {
	ID       string `json:"id"`
	Team     string `json:"team"`
	Immunity bool   `json:"immunity,omitempty"`
}

type ReadyFlags struct {
	Blue bool `json:"blue"`
	Red  bool `json:"red"`
}

// GameResult is one row of the post-draft best-of-3 summary.
type GameResult struct {
	BlueChar string `json:"blueChar,omitempty"`
	RedChar  string `json:"redChar,omitempty"`
	Winner   string `json:"winner,omitempty"`
}

// PublicState is the read-only projection broadcast to every connection in
// a room. It never exposes connection ids or timer internals.
type PublicState struct {
	RoomID              string       `json:"roomId"`
	DraftType           string       `json:"draftType"`
	GameStarted         bool         `json:"gameStarted"`
	Finished            bool         `json:"finished"`
	StepIndex           int          `json:"stepIndex"` // 1-based for display
	CurrentTeam         string       `json:"currentTeam"`
	CurrentAction       string       `json:"currentAction"`
	ImmunityPhaseActive bool         `json:"immunityPhaseActive"`
	ImmunityStepIndex   int          `json:"immunityStepIndex"`
	ImmunityPool        []string     `json:"immunityPool"`
	ImmunityBans        []string     `json:"immunityBans"`
	Bans                []BanEntry   `json:"bans"`
	BluePicks           []string     `json:"bluePicks"`
	RedPicks            []string     `json:"redPicks"`
	BlueName            string       `json:"blueName"`
	RedName             string       `json:"redName"`
	Ready               ReadyFlags   `json:"ready"`
	MatchResults        []GameResult `json:"matchResults"`
}
