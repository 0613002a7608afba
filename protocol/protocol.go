package protocol

// InboundMessage is a message from a participant to the game process
type InboundMessage struct {
	Command Cmd    `json:"command"`
	Text    string `json:"text"`
}

// OutboundMessage is a message from the game process to a participant
type OutboundMessage struct {
	Command  Cmd      `json:"command"`
	Message  string   `json:"message,omitempty"`
	Player   string   `json:"player,omitempty"`
	Hand     string   `json:"hand,omitempty"`
	Pool     string   `json:"pool,omitempty"`
	Question string   `json:"question,omitempty"`
	Max      int      `json:"max,omitempty"`
	Options  []string `json:"options,omitempty"`
	GameOver bool     `json:"gameOver,omitempty"`
}

// IsPrompt reports whether the participant is expected to answer
func (m OutboundMessage) IsPrompt() bool {
	return m.Command == Prompt
}

// Ends reports whether the participant's session is over after this message
func (m OutboundMessage) Ends() bool {
	switch m.Command {
	case Won, WinnerAnnouncement:
		return true
	case Lost:
		return m.GameOver
	}
	return false
}

type Cmd int

const (
	Null Cmd = iota
	Ack
	PlainText
	Turn
	Wait
	HandSnapshot       // the receiver's own hand
	PublicHand         // another player's hand after their move
	PoolSnapshot       // undealt cards, values hidden
	ThirdPartySnapshot // the opponent picked for a guess
	Prompt
	Lost
	Won
	WinnerAnnouncement
	Answer
	Error
)

var CmdNames = map[Cmd]string{
	Null:               "Null",
	Ack:                "Ack",
	PlainText:          "PlainText",
	Turn:               "Turn",
	Wait:               "Wait",
	HandSnapshot:       "HandSnapshot",
	PublicHand:         "PublicHand",
	PoolSnapshot:       "PoolSnapshot",
	ThirdPartySnapshot: "ThirdPartySnapshot",
	Prompt:             "Prompt",
	Lost:               "Lost",
	Won:                "Won",
	WinnerAnnouncement: "WinnerAnnouncement",
	Answer:             "Answer",
	Error:              "Error",
}

var NameToCmd = map[string]Cmd{
	"Null":               Null,
	"Ack":                Ack,
	"PlainText":          PlainText,
	"Turn":               Turn,
	"Wait":               Wait,
	"HandSnapshot":       HandSnapshot,
	"PublicHand":         PublicHand,
	"PoolSnapshot":       PoolSnapshot,
	"ThirdPartySnapshot": ThirdPartySnapshot,
	"Prompt":             Prompt,
	"Lost":               Lost,
	"Won":                Won,
	"WinnerAnnouncement": WinnerAnnouncement,
	"Answer":             Answer,
	"Error":              Error,
}

func (c Cmd) String() string {
	return CmdNames[c]
}
