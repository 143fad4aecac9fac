package protocol

import "encoding/json"

// Cell content types.
const (
	ContentFood = "food"
	ContentBot  = "bot"
)

// Coord is an [x,y] board coordinate; it marshals as a two-element array.
type Coord [2]int

// UpdateMsg is one inbound bot tick (bot -> server).
//
// Energy is decoded but ignored: the server value is authoritative and is
// echoed back in the reply. Path and Remembered are client-supplied and
// stored verbatim; the server does not reconcile them against its own
// position history. This is a documented trust boundary.
type UpdateMsg struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Nickname   string  `json:"nickname"`
	Energy     *int    `json:"energy,omitempty"`
	Path       []Coord `json:"path,omitempty"`
	Remembered []Coord `json:"remembered,omitempty"`
	TargetFood *Coord  `json:"target_food,omitempty"`
}

func DecodeUpdate(b []byte) (UpdateMsg, error) {
	var m UpdateMsg
	err := json.Unmarshal(b, &m)
	return m, err
}

// Content tags what occupies a surroundings cell. A nil *Content means
// the cell holds nothing (including off-board cells).
type Content struct {
	Type  string `json:"type"`
	Value int    `json:"value,omitempty"`
}

func FoodContent(value int) *Content { return &Content{Type: ContentFood, Value: value} }
func BotContent() *Content           { return &Content{Type: ContentBot} }

// SurroundingsCell is one of the 24 radius-2 cells around a bot.
type SurroundingsCell struct {
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Content *Content `json:"content"`
}

// TickReply answers one bot tick (server -> bot).
type TickReply struct {
	Positions []SurroundingsCell `json:"positions"`
	Energy    int                `json:"energy"`
}

// DeadReply is the terminal reply sent before the server closes the
// session: empty positions, zero energy.
func DeadReply() TickReply {
	return TickReply{Positions: []SurroundingsCell{}, Energy: 0}
}

// ErrorReply reports a recoverable validation failure; the session stays
// open.
type ErrorReply struct {
	Error string `json:"error"`
}
