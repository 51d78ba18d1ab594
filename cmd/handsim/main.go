// Command handsim deals and auto-plays hands at a local table and prints the
// action and the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lazharichir/multiboard/config"
	"github.com/lazharichir/multiboard/domain"
	"github.com/lazharichir/multiboard/domain/cards"
	"github.com/lazharichir/multiboard/domain/events"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	players := flag.Int("players", 4, "number of players")
	hands := flag.Int("hands", 1, "number of hands to play")
	boards := flag.Int("boards", cfg.Settings.NumBoards, "boards per hand")
	holeCards := flag.Int("cards", cfg.Settings.NumPlayerCards, "hole cards per player")
	decks := flag.Int("decks", cfg.Settings.DeckCount, "decks in the shoe")
	stages := flag.String("stages", joinInts(cfg.Settings.CardsPerStage), "community cards per stage, comma separated")
	seed := flag.Int64("seed", cfg.Rules.Seed, "shuffle seed, 0 for random")
	quiet := flag.Bool("quiet", false, "only print results")
	flag.Parse()

	perStage, err := parseInts(*stages)
	if err != nil {
		pterm.Error.Printfln("invalid -stages %q: %v", *stages, err)
		os.Exit(2)
	}

	settings := domain.Settings{
		DeckCount:      *decks,
		NumBoards:      *boards,
		NumPlayerCards: *holeCards,
		CardsPerStage:  perStage,
	}
	if err := settings.Validate(); err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Multi", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("board", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}

	rules := cfg.Rules
	rules.Seed = *seed
	rules.TurnTimeout = 0

	manager := domain.NewTableManager(nil)
	table := manager.CreateTable("handsim", rules)
	for i := 1; i <= *players; i++ {
		id := fmt.Sprintf("p%d", i)
		if err := manager.SeatPlayer(table.ID, id, id, 0); err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
	}

	if !*quiet {
		table.RegisterEventHandler(func(event events.Event) {
			if line := describe(event); line != "" {
				pterm.Info.Println(line)
			}
		})
	}

	s := strategy{rng: cards.NewRandomSource(*seed), foldRate: 0.1, raiseRate: 0.15}
	for i := 0; i < *hands; i++ {
		actions, err := playHand(table, settings, s, 10_000)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}

		pterm.DefaultSection.Printfln("Hand %d, %d actions", i+1, actions)
		if err := printHand(table.Snapshot()); err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
	}
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
