package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/minaorangina/davinci/game"
	"github.com/minaorangina/davinci/protocol"
	"github.com/sirupsen/logrus"
)

// playTurn runs one player's turn: draw, decide, guess, commit.
// Only transport and contract failures are returned.
func (e *Engine) playTurn(ctx context.Context, name string) error {
	p, ok := e.game.FindPlayer(name)
	if !ok {
		return fmt.Errorf("%w: %q", game.ErrUnknownPlayer, name)
	}
	log := e.log.WithField("player", name)

	if err := e.tell(name, protocol.NewHandSnapshot(p.Render(false))); err != nil {
		return err
	}
	if err := e.showTable(p); err != nil {
		return err
	}

	e.game.Shuffle()
	pool := e.game.Pool()

	if len(pool) == 0 {
		if err := e.tell(name, protocol.NewPlainText(protocol.MsgNoCardsLeft)); err != nil {
			return err
		}
		return e.guessLoop(ctx, p)
	}

	if err := e.tell(name, protocol.NewPoolSnapshot(pool.Render(true))); err != nil {
		return err
	}

	i, err := e.askNumber(ctx, name, protocol.QuestionDraw, len(pool)-1)
	if err != nil {
		return err
	}

	drawn, err := e.game.Draw(name, i)
	if err != nil {
		return fmt.Errorf("drawing for %q: %w", name, err)
	}
	log.WithField("card", drawn.String()).Debug("card drawn")

	if err := e.tell(name, protocol.NewPlainText("You drew %s.", drawn)); err != nil {
		return err
	}
	e.broadcast(protocol.NewPlainText("%s drew a card.", name), name)

	guess, err := e.askChoice(ctx, name, protocol.QuestionWantGuess)
	if err != nil {
		return err
	}
	if guess == protocol.No {
		return e.commit(p, false)
	}

	return e.guessLoop(ctx, p)
}

func (e *Engine) guessLoop(ctx context.Context, p *game.Player) error {
	log := e.log.WithField("player", p.Name)

	for {
		if e.evaluate() || !e.game.IsActive(p.Name) {
			return nil
		}

		opponents := e.game.Opponents(p.Name)
		if len(opponents) == 0 {
			return nil
		}

		target := opponents[0]
		if len(opponents) > 1 {
			if err := e.tell(p.Name, protocol.NewPlainText("Opponents: %s", listNames(opponents))); err != nil {
				return err
			}

			i, err := e.askNumber(ctx, p.Name, protocol.QuestionOpponent, len(opponents)-1)
			if err != nil {
				return err
			}
			target = opponents[i]
		}

		if err := e.tell(p.Name, protocol.NewThirdPartySnapshot(target.Name, target.Render(true))); err != nil {
			return err
		}

		slot, err := e.askNumber(ctx, p.Name, protocol.QuestionTargetCard, target.HandSize()-1)
		if err != nil {
			return err
		}

		actual, hidden := target.PeekHiddenValue(slot)
		if !hidden {
			if err := e.tell(p.Name, protocol.NewPlainText(protocol.MsgAlreadyRevealed)); err != nil {
				return err
			}
			continue
		}

		value, err := e.askNumber(ctx, p.Name, protocol.QuestionGuessValue, e.cardMaxValue)
		if err != nil {
			return err
		}

		guessLog := log.WithFields(logrus.Fields{"target": target.Name, "slot": slot, "guess": value})

		if value != actual {
			guessLog.Info("wrong guess")
			e.broadcast(protocol.NewPlainText("%s guessed %d for %s's card %d and missed.", p.Name, value, target.Name, slot), p.Name)

			if _, drew := p.SideCard(); !drew {
				return e.tell(p.Name, protocol.NewPlainText("Wrong guess."))
			}
			if err := e.tell(p.Name, protocol.NewPlainText(protocol.MsgWrongGuess)); err != nil {
				return err
			}
			return e.commit(p, true)
		}

		guessLog.Info("correct guess")
		if _, err := target.RevealAt(slot); err != nil {
			return fmt.Errorf("revealing %q card %d: %w", target.Name, slot, err)
		}

		if err := e.tell(p.Name, protocol.NewPlainText(protocol.MsgCorrectGuess)); err != nil {
			return err
		}
		e.tell(target.Name, protocol.NewPlainText("%s guessed your card %d.", p.Name, slot))
		e.tell(target.Name, protocol.NewHandSnapshot(target.Render(false)))
		e.broadcast(protocol.NewPublicHand(target.Name, target.Render(true)), target.Name)

		if e.evaluate() {
			return nil
		}

		again, err := e.askChoice(ctx, p.Name, protocol.QuestionGuessAgain)
		if err != nil {
			return err
		}
		if again == protocol.No {
			if _, drew := p.SideCard(); !drew {
				return nil
			}
			return e.commit(p, false)
		}
	}
}

// commit adds the drawn card to the hand and shows everyone the result
func (e *Engine) commit(p *game.Player, reveal bool) error {
	if err := p.CommitSideCard(reveal); err != nil {
		return fmt.Errorf("committing for %q: %w", p.Name, err)
	}

	if !reveal {
		if err := e.tell(p.Name, protocol.NewPlainText(protocol.MsgKeepHidden)); err != nil {
			return err
		}
	}
	if err := e.tell(p.Name, protocol.NewHandSnapshot(p.Render(false))); err != nil {
		return err
	}
	if err := e.tell(p.Name, protocol.NewPublicHand(p.Name, p.Render(true))); err != nil {
		return err
	}
	e.broadcast(protocol.NewPublicHand(p.Name, p.Render(true)), p.Name)

	return nil
}

// showTable shows the acting player every opponent's public hand
// and what the opponents see of theirs
func (e *Engine) showTable(p *game.Player) error {
	for _, o := range e.game.Opponents(p.Name) {
		if err := e.tell(p.Name, protocol.NewPublicHand(o.Name, o.Render(true))); err != nil {
			return err
		}
	}
	return e.tell(p.Name, protocol.NewPublicHand(p.Name, p.Render(true)))
}

func (e *Engine) askNumber(ctx context.Context, name, question string, max int) (int, error) {
	answer, err := e.ask(ctx, name, protocol.NewNumberPrompt(question, max))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(answer)
}

func (e *Engine) askChoice(ctx context.Context, name, question string) (string, error) {
	return e.ask(ctx, name, protocol.NewChoicePrompt(question, protocol.Yes, protocol.No))
}

// ask sends the prompt until the answer fits it
func (e *Engine) ask(ctx context.Context, name string, prompt protocol.OutboundMessage) (string, error) {
	seat, ok := e.seats.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", game.ErrUnknownPlayer, name)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if err := e.tell(name, prompt); err != nil {
			return "", err
		}

		raw, err := seat.Conn.Receive()
		if errors.Is(err, protocol.ErrProtocolViolation) {
			e.log.WithError(err).WithField("player", name).Debug("asking again")
			continue
		}
		if err != nil {
			return "", err
		}

		answer, err := prompt.Parse(raw)
		if err != nil {
			e.log.WithError(err).WithField("player", name).Debug("asking again")
			continue
		}

		return answer, nil
	}
}

func listNames(players []*game.Player) string {
	names := []string{}
	for i, p := range players {
		names = append(names, fmt.Sprintf("%d: %s", i, p.Name))
	}
	return strings.Join(names, ", ")
}
