package main

import (
	"fmt"
	"strings"

	"github.com/lazharichir/multiboard/domain"
	"github.com/lazharichir/multiboard/domain/events"
	"github.com/pterm/pterm"
)

// describe renders an event as one log line, or "" to skip it
func describe(event events.Event) string {
	switch e := event.(type) {
	case events.HandStarted:
		return fmt.Sprintf("hand #%d, dealer %s, blinds %d/%d", e.HandNumber, e.DealerID, e.SmallBlind, e.BigBlind)
	case events.BlindPosted:
		return fmt.Sprintf("%s posts the %s blind of %d", e.PlayerID, e.Blind, e.Amount)
	case events.CommunityCardsDealt:
		return fmt.Sprintf("board %d, stage %d: %s", e.BoardIndex, e.Stage, e.Cards)
	case events.PlayerFolded:
		return fmt.Sprintf("%s folds board %d", e.PlayerID, e.BoardIndex)
	case events.PlayerChecked:
		return fmt.Sprintf("%s checks board %d", e.PlayerID, e.BoardIndex)
	case events.PlayerCalled:
		line := fmt.Sprintf("%s calls %d on board %d", e.PlayerID, e.Amount, e.BoardIndex)
		if e.AllIn {
			line += pterm.LightRed(" (all in)")
		}
		return line
	case events.PlayerRaised:
		return fmt.Sprintf("%s raises %d on board %d, to %d", e.PlayerID, e.Amount, e.BoardIndex, e.TableBet)
	case events.ChipsReturned:
		return fmt.Sprintf("%d returned to %s from board %d", e.Amount, e.PlayerID, e.BoardIndex)
	case events.PotAwarded:
		return fmt.Sprintf("%s wins %d on board %d", pterm.LightCyan(e.PlayerID), e.Amount, e.BoardIndex)
	case events.HandVoided:
		return pterm.LightRed("hand voided: " + e.Reason)
	}
	return ""
}

// printHand renders the boards, the players and the result of a hand
func printHand(snapshot domain.TableSnapshot) error {
	hand := snapshot.Hand
	if hand == nil {
		return nil
	}

	pbox := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).WithTopPadding(0).WithBottomPadding(0)

	var boards []pterm.Panel
	for b, community := range hand.CommunityCards {
		winners := "-"
		if b < len(hand.Winners) && len(hand.Winners[b]) > 0 {
			winners = strings.Join(hand.Winners[b], ", ")
		}
		body := pterm.Sprintfln("%s\nPot: %d\nWinners: %s", pterm.BgGreen.Sprint(" "+community.String()+" "), hand.Pot[b], pterm.LightGreen(winners))
		title := pterm.LightYellow(fmt.Sprintf("|BOARD %d|", b))
		boards = append(boards, pterm.Panel{Data: pbox.WithTitle(title).WithTitleTopCenter().Sprint(body)})
	}

	rows := [][]string{{"Player", "Cards", "Chips", "Net", "Hands"}}
	for _, p := range snapshot.Players {
		var names []string
		for b := range hand.HandNames {
			if name, ok := hand.HandNames[b][p.ID]; ok {
				names = append(names, fmt.Sprintf("%d: %s", b, name))
			}
		}
		rows = append(rows, []string{
			p.ID,
			p.HoleCards.String(),
			fmt.Sprint(p.Chips),
			fmt.Sprintf("%+d", p.Chips-p.SessionStartChips),
			strings.Join(names, " | "),
		})
	}

	if err := pterm.DefaultPanel.WithPanels([][]pterm.Panel{boards}).Render(); err != nil {
		return err
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
