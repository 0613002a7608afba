package game

// State represents the lifecycle of a game.
// It only ever moves forward: Init -> Running -> End
type State int

const (
	Init State = iota
	Running
	End
)

var stateNames = map[State]string{
	Init:    "Init",
	Running: "Running",
	End:     "End",
}

func (s State) String() string {
	return stateNames[s]
}

// PlayerStatus represents where a player is in the game
type PlayerStatus int

const (
	PlayerInit PlayerStatus = iota
	Playing
	Lost
	Won
)

var playerStatusNames = map[PlayerStatus]string{
	PlayerInit: "Init",
	Playing:    "Playing",
	Lost:       "Lost",
	Won:        "Won",
}

func (s PlayerStatus) String() string {
	return playerStatusNames[s]
}
