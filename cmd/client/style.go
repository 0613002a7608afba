package main

import (
	"strings"

	"github.com/minaorangina/davinci/protocol"
	"github.com/pterm/pterm"
)

// display renders server messages as boxes and status lines
type display struct {
	name string
}

func (d *display) Show(msg protocol.OutboundMessage) {
	switch msg.Command {
	case protocol.HandSnapshot:
		pterm.Println(handBox(pterm.LightGreen("|YOUR DECK|"), msg.Hand))
	case protocol.PublicHand, protocol.ThirdPartySnapshot:
		pterm.Println(handBox(pterm.LightCyan(msg.Player), msg.Hand))
	case protocol.PoolSnapshot:
		pterm.Println(handBox(pterm.LightYellow("|POOL|"), msg.Pool))
	case protocol.Prompt:
		pterm.Info.Println(protocol.FormatText(msg))
	case protocol.Wait:
		pterm.Info.Println(msg.Message)
	case protocol.Won:
		pterm.Success.Println(msg.Message)
	case protocol.Lost:
		pterm.Warning.Println(msg.Message)
	case protocol.Error:
		pterm.Error.Println(msg.Message)
	case protocol.WinnerAnnouncement:
		title := pterm.LightRed("|WINNER|")
		if msg.Player == d.name {
			title = pterm.LightGreen("|WINNER|")
		}
		pterm.Println(box(title).Sprintf("%s won the game", pterm.LightCyan(msg.Player)))
	default:
		pterm.Println(msg.Message)
	}
}

func box(title string) *pterm.BoxPrinter {
	return pterm.DefaultBox.WithHorizontalPadding(4).WithTitle(title).WithTitleTopLeft()
}

// handBox puts one card per column
func handBox(title, hand string) string {
	cards := strings.Split(hand, ", ")
	if hand == "" {
		cards = []string{"(empty)"}
	}
	return box(title).Sprint(pterm.BgGreen.Sprint(" " + strings.Join(cards, "  ") + " "))
}
