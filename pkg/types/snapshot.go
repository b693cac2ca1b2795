package types

// Observation is the payload the game server pushes whenever it is the local
// player's turn, and once more at game end with only Event set.
//
//	info:           board state parsed from the server's text rendering
//	actions:        { key: Action } legal moves for this turn
//	last_action:    { player_id: -1 } before anyone has acted
//	player_id:      optional local seat
//	current_player: optional seat whose turn it is
//	event:          "game end with score N"
type Observation struct {
	Info          *Info             `json:"info,omitempty"`
	Actions       map[string]Action `json:"actions,omitempty"`
	LastAction    *LastAction       `json:"last_action,omitempty"`
	PlayerID      *int              `json:"player_id,omitempty"`
	CurrentPlayer *int              `json:"current_player,omitempty"`
	Event         string            `json:"event,omitempty"`
}

type Info struct {
	LifeTokens int            `json:"life_tokens"`
	InfoTokens int            `json:"info_tokens"`
	Fireworks  map[string]int `json:"fireworks"`
	Hands      Hands          `json:"hands"`
	DeckSize   int            `json:"deck_size"`
	Discards   []string       `json:"discards"`
}

type Hands struct {
	CurPlayer []OwnCard   `json:"cur_player"`
	Others    []OtherCard `json:"others"`
}

// OwnCard deliberately has no "card" field. The server masks it as "XX"
// anyway, but the decoder never reads it.
type OwnCard struct {
	Index int      `json:"index"`
	Info  string   `json:"info"`
	Col   []string `json:"col"`
	Rank  []string `json:"rank"`
}

type OtherCard struct {
	Index int      `json:"index"`
	Card  string   `json:"card"`
	Info  string   `json:"info"`
	Col   []string `json:"col"`
	Rank  []string `json:"rank"`
}

type Action struct {
	ActionType   string `json:"action_type"`
	CardIndex    int    `json:"card_index,omitempty"`
	TargetOffset int    `json:"target_offset,omitempty"`
	Color        string `json:"color,omitempty"`
	Rank         int    `json:"rank,omitempty"`
}

type LastAction struct {
	PlayerID int     `json:"player_id"`
	Action   *Action `json:"action,omitempty"`
}
