package main

import (
	"fmt"
	"sort"
	"strings"

	"holdem-fair/card"
	"holdem-fair/holdem"
	"holdem-fair/internal/table"
	"holdem-fair/replay"

	"github.com/pterm/pterm"
)

func cardsString(cs []card.Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.Revealed().String()
	}
	return strings.Join(parts, " ")
}

func renderDeal(gs holdem.GameState) {
	data := pterm.TableData{{"Seat", "Player", "Role", "Stack", "Hole cards"}}
	for _, p := range gs.Players {
		role := ""
		switch p.Position {
		case gs.DealerPosition:
			role = "BTN"
		case gs.SmallBlindPosition:
			role = "SB"
		case gs.BigBlindPosition:
			role = "BB"
		}
		if p.Position == gs.DealerPosition && p.Position == gs.SmallBlindPosition {
			role = "BTN/SB"
		}
		data = append(data, []string{
			fmt.Sprint(p.Position), p.ID, role, fmt.Sprint(p.Stack()), cardsString(p.HoleCards()),
		})
	}
	pterm.DefaultSection.Printfln("Hand %d", gs.HandNumber)
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	board := pterm.DefaultBox.WithTitle("|BOARD|").WithTitleTopCenter().WithHorizontalPadding(4)
	board.Println(cardsString(gs.CommunityCards))
	pterm.Info.Printfln("commitment: %s", gs.ServerSeedHash)
}

func renderDealOrder(order []card.Card) {
	rows := pterm.TableData{{"#", "Card"}}
	for i, c := range order {
		rows = append(rows, []string{fmt.Sprint(i + 1), c.String()})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func renderTape(tape *replay.Tape) {
	rows := pterm.TableData{{"Seq", "Kind", "Round", "Player", "Action", "Amount", "Pot", "Board"}}
	for _, s := range tape.Steps {
		rows = append(rows, []string{
			fmt.Sprint(s.Seq), s.Kind, s.Round, s.PlayerID, s.Action,
			fmt.Sprint(s.Amount), fmt.Sprint(s.Pot), strings.Join(s.Board, " "),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	if tape.Complete {
		renderStacks(tape.FinalStacks())
	}
}

func renderHandEnd(info table.HandEndInfo) {
	var b strings.Builder
	for _, r := range info.Result.PlayerResults {
		if !r.IsWinner {
			continue
		}
		if r.Hand != nil {
			b.WriteString(pterm.Sprintfln("%s won %d with %s (%s)",
				pterm.LightCyan(r.PlayerID), r.WinAmount, r.Hand.Ranking, cardsString(r.HoleCards)))
		} else {
			b.WriteString(pterm.Sprintfln("%s won %d taking down the pot", pterm.LightCyan(r.PlayerID), r.WinAmount))
		}
	}
	title := pterm.LightYellow(fmt.Sprintf("|HAND %d|", info.HandNumber))
	if info.Result.Showdown {
		title = pterm.LightGreen(fmt.Sprintf("|HAND %d SHOWDOWN|", info.HandNumber))
	}
	pterm.DefaultBox.WithTitle(title).WithTitleTopCenter().WithHorizontalPadding(4).Println(strings.TrimRight(b.String(), "\n"))
	pterm.Debug.Printfln("hand %s seed %s", info.HandID, info.Record.ServerSeed)
}

func renderStacks(stacks map[string]int64) {
	ids := make([]string, 0, len(stacks))
	for id := range stacks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	bars := make(pterm.Bars, 0, len(ids))
	for _, id := range ids {
		bars = append(bars, pterm.Bar{Label: "player " + id, Value: int(stacks[id])})
	}
	pterm.DefaultSection.Println("Stacks")
	_ = pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Render()
}
