package types

// Client -> Server message kinds.
const (
	MsgReady         = "Ready"
	MsgSubmit        = "Submit"
	MsgSkip          = "Skip"
	MsgUpdateResults = "UpdateResults"
)

// Server -> Client message kinds.
const (
	MsgInit     = "Init"
	MsgState    = "State"
	MsgStarted  = "Started"
	MsgFinished = "Finished"
	MsgTick     = "Tick"
	MsgError    = "Error"
)

// Error codes carried on MsgError.
const (
	CodeSessionExpired = "session_expired"
	CodeBadMessage     = "bad_message"
)

type ClientMessage struct {
	Type        string `json:"type"`
	CharacterID string `json:"character_id,omitempty"`
	GameIndex   int    `json:"game_index,omitempty"`
	Field       string `json:"field,omitempty"`
	Value       string `json:"value,omitempty"`
}

type ServerMessage struct {
	Type  string                     `json:"type"`
	Role  string                     `json:"role,omitempty"`
	State *PublicState               `json:"state,omitempty"`
	Chars map[string][]CharacterInfo `json:"chars,omitempty"`
	Tick  *TickPayload               `json:"tick,omitempty"`
	Code  string                     `json:"code,omitempty"`
	Error string                     `json:"error,omitempty"`
}

// TickPayload carries the current turn clock plus both reserve banks,
// in whole seconds.
type TickPayload struct {
	Main        int `json:"main"`
	BlueReserve int `json:"blueReserve"`
	RedReserve  int `json:"redReserve"`
}

type CharacterInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Element string `json:"element"`
}
