package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Markers wrapping the structured parts of the text format
const (
	HandMarker       = "##"
	PoolMarker       = "**"
	ThirdPartyMarker = "++"
	WinnerMarker     = "||"
	ExitMarker       = "__exiting__."

	yourDeck    = "Your deck "
	allCards    = "All avail cards: "
	theirDeck   = "Their deck ("
	waitPrefix  = "Wait for your turn, "
	waitSuffix  = " is playing."
	errorPrefix = "Error: "
)

// FormatText renders a message as a single line of the text format
func FormatText(msg OutboundMessage) string {
	var s string

	switch msg.Command {
	case HandSnapshot:
		s = yourDeck + wrap(HandMarker, msg.Hand)
	case PublicHand:
		s = fmt.Sprintf("%s's deck: %s", msg.Player, wrap(ThirdPartyMarker, msg.Hand))
	case ThirdPartySnapshot:
		s = fmt.Sprintf("%s%s): %s", theirDeck, msg.Player, wrap(ThirdPartyMarker, msg.Hand))
	case PoolSnapshot:
		s = allCards + wrap(PoolMarker, msg.Pool)
	case WinnerAnnouncement:
		s = fmt.Sprintf("%s won. %s", wrap(WinnerMarker, msg.Player), ExitMarker)
	case Prompt:
		s = fmt.Sprintf("%s: %s (%s)", TurnMarker, msg.Question, answerHint(msg))
	case Lost:
		s = msg.Message
		if msg.GameOver {
			s += " " + ExitMarker
		}
	case Error:
		s = errorPrefix + msg.Message
	default:
		s = msg.Message
	}

	return strings.ReplaceAll(s, "\n", " ")
}

func wrap(marker, s string) string {
	return marker + s + marker
}

func answerHint(msg OutboundMessage) string {
	if len(msg.Options) > 0 {
		return strings.Join(msg.Options, "/")
	}
	return fmt.Sprintf("0-%d", msg.Max)
}

// ParseText classifies received text line by line
func ParseText(text string) []OutboundMessage {
	msgs := []OutboundMessage{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msgs = append(msgs, parseLine(line))
	}

	return msgs
}

func parseLine(line string) OutboundMessage {
	if strings.Contains(line, TurnMarker) {
		return parsePrompt(line)
	}

	if name, ok := between(line, WinnerMarker); ok {
		return NewWinnerAnnouncement(name)
	}

	if hand, ok := between(line, HandMarker); ok {
		return NewHandSnapshot(hand)
	}

	if pool, ok := between(line, PoolMarker); ok {
		return NewPoolSnapshot(pool)
	}

	if hand, ok := between(line, ThirdPartyMarker); ok {
		prefix, _, _ := strings.Cut(line, ThirdPartyMarker)

		if strings.HasPrefix(prefix, theirDeck) && strings.HasSuffix(prefix, "): ") {
			name := strings.TrimSuffix(strings.TrimPrefix(prefix, theirDeck), "): ")
			return NewThirdPartySnapshot(name, hand)
		}
		if name, ok := strings.CutSuffix(prefix, "'s deck: "); ok {
			return NewPublicHand(name, hand)
		}
	}

	switch {
	case strings.HasPrefix(line, "You won"):
		return OutboundMessage{Command: Won, Message: line}
	case strings.HasPrefix(line, "You lost"):
		msg, gameOver := strings.CutSuffix(line, ExitMarker)
		return OutboundMessage{Command: Lost, Message: strings.TrimSpace(msg), GameOver: gameOver}
	case strings.HasPrefix(line, waitPrefix):
		name := strings.TrimSuffix(strings.TrimPrefix(line, waitPrefix), waitSuffix)
		return OutboundMessage{Command: Wait, Player: name, Message: line}
	case strings.HasPrefix(line, MsgInitSuccessful):
		return OutboundMessage{Command: Ack, Message: line}
	case line == MsgYouStart:
		return OutboundMessage{Command: Turn, Message: line}
	case strings.HasPrefix(line, errorPrefix):
		return NewError(strings.TrimPrefix(line, errorPrefix))
	}

	return OutboundMessage{Command: PlainText, Message: line}
}

// parsePrompt reads "<marker>: <question> (0-<max>)" or "(<a>/<b>)"
func parsePrompt(line string) OutboundMessage {
	rest := strings.TrimSpace(strings.TrimLeft(line[strings.Index(line, TurnMarker)+len(TurnMarker):], ":!"))
	msg := OutboundMessage{Command: Prompt, Question: rest}

	open := strings.LastIndex(rest, " (")
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return msg
	}
	hint := rest[open+2 : len(rest)-1]

	if a, b, ok := strings.Cut(hint, "/"); ok {
		msg.Question = rest[:open]
		msg.Options = []string{a, b}
		return msg
	}

	if lo, hi, ok := strings.Cut(hint, "-"); ok && lo == "0" {
		if n, err := strconv.Atoi(hi); err == nil {
			msg.Question = rest[:open]
			msg.Max = n
		}
	}

	return msg
}

func between(line, marker string) (string, bool) {
	_, rest, ok := strings.Cut(line, marker)
	if !ok {
		return "", false
	}
	inner, _, ok := strings.Cut(rest, marker)
	return inner, ok
}
