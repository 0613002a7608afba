package protocol

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var ErrProtocolViolation = errors.New("invalid answer")

const (
	InitToken = "init"

	// TurnMarker is carried by every prompt and nothing else
	TurnMarker = "It's your turn"

	Yes = "yes"
	No  = "no"

	QuestionDraw       = "Enter card number to draw it"
	QuestionWantGuess  = "Would you like to make a guess?"
	QuestionOpponent   = "Pick current opponent for this guess"
	QuestionTargetCard = "Which card would you like to guess"
	QuestionGuessValue = "Enter your guess: value between"
	QuestionGuessAgain = "Would you like to make another guess?"
	MsgInitSuccessful  = "Init successful"
	MsgYouStart        = "You start the game."
	MsgNoCardsLeft     = "No more cards avail. Only guessing now."
	MsgWrongGuess      = "You made a wrong guess, I'm revealing your card."
	MsgKeepHidden      = "Okay, saving your side card as hidden."
	MsgCorrectGuess    = "Correct guess!"
	MsgAlreadyRevealed = "That card is already revealed, pick another one."
	MsgWon             = "You won! Congrats!"
	MsgLost            = "You lost. Sorry"
	MsgDuplicateName   = "Another player already uses that name."
	MsgTableAborted    = "The game could not start."
	MsgOpponentLeft    = "left the game."
)

func NewAck() OutboundMessage {
	return OutboundMessage{Command: Ack, Message: MsgInitSuccessful}
}

func NewPlainText(format string, args ...any) OutboundMessage {
	return OutboundMessage{Command: PlainText, Message: fmt.Sprintf(format, args...)}
}

func NewTurn() OutboundMessage {
	return OutboundMessage{Command: Turn, Message: MsgYouStart}
}

func NewWait(current string) OutboundMessage {
	return OutboundMessage{
		Command: Wait,
		Player:  current,
		Message: fmt.Sprintf("Wait for your turn, %s is playing.", current),
	}
}

func NewHandSnapshot(hand string) OutboundMessage {
	return OutboundMessage{Command: HandSnapshot, Hand: hand}
}

func NewPublicHand(player, hand string) OutboundMessage {
	return OutboundMessage{Command: PublicHand, Player: player, Hand: hand}
}

func NewPoolSnapshot(pool string) OutboundMessage {
	return OutboundMessage{Command: PoolSnapshot, Pool: pool}
}

func NewThirdPartySnapshot(player, hand string) OutboundMessage {
	return OutboundMessage{Command: ThirdPartySnapshot, Player: player, Hand: hand}
}

// NewNumberPrompt asks for an integer in [0, max]
func NewNumberPrompt(question string, max int) OutboundMessage {
	return OutboundMessage{Command: Prompt, Question: question, Max: max}
}

// NewChoicePrompt asks for one of two literal options
func NewChoicePrompt(question, a, b string) OutboundMessage {
	return OutboundMessage{Command: Prompt, Question: question, Options: []string{a, b}}
}

func NewLost(gameOver bool) OutboundMessage {
	return OutboundMessage{Command: Lost, Message: MsgLost, GameOver: gameOver}
}

func NewWon() OutboundMessage {
	return OutboundMessage{Command: Won, Message: MsgWon}
}

func NewWinnerAnnouncement(winner string) OutboundMessage {
	return OutboundMessage{Command: WinnerAnnouncement, Player: winner}
}

func NewError(msg string) OutboundMessage {
	return OutboundMessage{Command: Error, Message: msg}
}

// ParseUint reads a plain integer in [0, max]
func ParseUint(answer string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 0 || n > max {
		return 0, fmt.Errorf("%w: %q is not a number between 0 and %d", ErrProtocolViolation, answer, max)
	}
	return n, nil
}

// ParseChoice matches the answer against the literal options
func ParseChoice(answer string, options []string) (string, error) {
	answer = strings.TrimSpace(answer)
	if slices.Contains(options, answer) {
		return answer, nil
	}
	return "", fmt.Errorf("%w: %q is not one of %s", ErrProtocolViolation, answer, strings.Join(options, "/"))
}

// Parse validates an answer to this prompt
func (m OutboundMessage) Parse(answer string) (string, error) {
	if len(m.Options) > 0 {
		return ParseChoice(answer, m.Options)
	}

	n, err := ParseUint(answer, m.Max)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n), nil
}
