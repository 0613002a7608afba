package protocol

import (
	"bufio"
	"strings"
	"testing"

	utils "github.com/minaorangina/davinci/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var everyMessage = []OutboundMessage{
	NewAck(),
	NewPlainText("%s drew a card", "ann"),
	NewTurn(),
	NewWait("ann"),
	NewHandSnapshot("0: B1, 1: W4"),
	NewPublicHand("ann", "0: B?, 1: W4"),
	NewPoolSnapshot("0: B?, 1: W?"),
	NewThirdPartySnapshot("bob", "0: W?, 1: B7"),
	NewNumberPrompt(QuestionGuessValue, 11),
	NewNumberPrompt(QuestionDraw, 0),
	NewChoicePrompt(QuestionWantGuess, Yes, No),
	NewLost(false),
	NewLost(true),
	NewWon(),
	NewWinnerAnnouncement("ann"),
	NewError("table is full"),
}

func TestCmdNames(t *testing.T) {
	for cmd, name := range CmdNames {
		utils.AssertEqual(t, NameToCmd[name], cmd)
		utils.AssertEqual(t, cmd.String(), name)
	}
	utils.AssertEqual(t, len(CmdNames), len(NameToCmd))
}

func TestTextFormat(t *testing.T) {
	t.Run("markers", func(t *testing.T) {
		utils.AssertEqual(t, FormatText(NewHandSnapshot("0: B1")), "Your deck ##0: B1##")
		utils.AssertEqual(t, FormatText(NewPoolSnapshot("0: B?")), "All avail cards: **0: B?**")
		utils.AssertEqual(t, FormatText(NewThirdPartySnapshot("bob", "0: W?")), "Their deck (bob): ++0: W?++")
		utils.AssertEqual(t, FormatText(NewWinnerAnnouncement("ann")), "||ann|| won. __exiting__.")
	})

	t.Run("prompts carry the turn marker", func(t *testing.T) {
		utils.AssertEqual(t,
			FormatText(NewNumberPrompt(QuestionGuessValue, 11)),
			"It's your turn: Enter your guess: value between (0-11)")
		utils.AssertEqual(t,
			FormatText(NewChoicePrompt(QuestionWantGuess, Yes, No)),
			"It's your turn: Would you like to make a guess? (yes/no)")
	})

	t.Run("only prompts carry the turn marker", func(t *testing.T) {
		for _, msg := range everyMessage {
			utils.AssertEqual(t, strings.Contains(FormatText(msg), TurnMarker), msg.IsPrompt())
		}
	})

	t.Run("every message round trips", func(t *testing.T) {
		for _, msg := range everyMessage {
			t.Run(msg.Command.String(), func(t *testing.T) {
				got := ParseText(FormatText(msg))
				require.Len(t, got, 1)

				want := msg
				if msg.Command == Wait {
					want.Message = FormatText(msg)
				}
				assert.Equal(t, want, got[0])
			})
		}
	})

	t.Run("coalesced writes are split by line", func(t *testing.T) {
		var text strings.Builder
		codec := TextCodec{}
		for _, msg := range everyMessage {
			frame, err := codec.EncodeOutbound(msg)
			require.NoError(t, err)
			text.Write(frame)
		}

		got, err := codec.DecodeOutbound([]byte(text.String()))
		require.NoError(t, err)
		assert.Len(t, got, len(everyMessage))
	})

	t.Run("legacy acknowledgement", func(t *testing.T) {
		got := ParseText("Init successfull")
		utils.AssertEqual(t, got[0].Command, Ack)
	})

	t.Run("newlines in free text stay on one line", func(t *testing.T) {
		got := ParseText(FormatText(NewPlainText("a\nb")))
		require.Len(t, got, 1)
		utils.AssertEqual(t, got[0].Message, "a b")
	})
}

func TestParseAnswers(t *testing.T) {
	t.Run("numbers within bounds", func(t *testing.T) {
		n, err := ParseUint(" 11\n", 11)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, n, 11)

		for _, answer := range []string{"12", "-1", "", "one", "1.5"} {
			_, err := ParseUint(answer, 11)
			utils.AssertErrorIs(t, err, ErrProtocolViolation)
		}
	})

	t.Run("choices are literal", func(t *testing.T) {
		got, err := ParseChoice("yes\n", []string{Yes, No})
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, got, Yes)

		for _, answer := range []string{"Yes", "y", "", "maybe"} {
			_, err := ParseChoice(answer, []string{Yes, No})
			utils.AssertErrorIs(t, err, ErrProtocolViolation)
		}
	})

	t.Run("prompts validate their own answers", func(t *testing.T) {
		got, err := NewNumberPrompt(QuestionDraw, 3).Parse("2")
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, got, "2")

		_, err = NewNumberPrompt(QuestionDraw, 3).Parse("4")
		utils.AssertErrorIs(t, err, ErrProtocolViolation)

		_, err = NewChoicePrompt(QuestionGuessAgain, Yes, No).Parse("2")
		utils.AssertErrorIs(t, err, ErrProtocolViolation)
	})
}

func TestCodecs(t *testing.T) {
	t.Run("lookup by name", func(t *testing.T) {
		for _, name := range []string{"", TextCodecName, JSONCodecName} {
			_, err := NewCodec(name)
			utils.AssertNoError(t, err)
		}
		_, err := NewCodec("xml")
		utils.AssertErrorIs(t, err, ErrUnknownCodec)
	})

	t.Run("json frames are lines", func(t *testing.T) {
		codec := JSONCodec{}
		var stream strings.Builder
		for _, msg := range everyMessage {
			frame, err := codec.EncodeOutbound(msg)
			require.NoError(t, err)
			stream.Write(frame)
		}

		r := bufio.NewReader(strings.NewReader(stream.String()))
		for _, want := range everyMessage {
			frame, err := codec.ReadFrame(r)
			require.NoError(t, err)

			got, err := codec.DecodeOutbound(frame)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, want, got[0])
		}
	})

	t.Run("json answers", func(t *testing.T) {
		codec := JSONCodec{}
		frame, err := codec.EncodeInbound(InboundMessage{Command: Answer, Text: " bob "})
		require.NoError(t, err)

		got, err := codec.DecodeInbound(frame)
		require.NoError(t, err)
		utils.AssertEqual(t, got, InboundMessage{Command: Answer, Text: "bob"})

		_, err = codec.DecodeInbound([]byte("bob"))
		utils.AssertErrored(t, err)
	})

	t.Run("text reads are bounded", func(t *testing.T) {
		codec := TextCodec{}
		r := bufio.NewReaderSize(strings.NewReader(strings.Repeat("a", 3000)), 4096)

		frame, err := codec.ReadFrame(r)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(frame), ReadBufferSize)
	})

	t.Run("text answers are trimmed", func(t *testing.T) {
		got, err := TextCodec{}.DecodeInbound([]byte(" init \r\n"))
		require.NoError(t, err)
		utils.AssertEqual(t, got.Text, InitToken)
	})
}
