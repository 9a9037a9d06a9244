package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"holdem-fair/holdem"
	"holdem-fair/replay"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		serverSeed string
		clientSeed string
		hash       string
		specFile   string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a revealed seed against its commitment, or re-run a recorded hand",
		RunE: func(_ *cobra.Command, _ []string) error {
			if specFile != "" {
				return verifySpec(specFile)
			}
			if serverSeed == "" || hash == "" {
				return errors.New("--server-seed and --hash are required without --spec")
			}
			if err := holdem.VerifyDeal(serverSeed, clientSeed, hash, nil); err != nil {
				return err
			}
			pterm.Success.Println("server seed matches the commitment")
			renderDealOrder(holdem.DealOrder(serverSeed, clientSeed))
			return nil
		},
	}
	cmd.Flags().StringVar(&serverSeed, "server-seed", "", "revealed server seed")
	cmd.Flags().StringVar(&clientSeed, "client-seed", "", "client seed")
	cmd.Flags().StringVar(&hash, "hash", "", "commitment published before the deal")
	cmd.Flags().StringVar(&specFile, "spec", "", "JSON hand spec to replay")
	return cmd
}

func verifySpec(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var spec replay.HandSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	tape, err := replay.Run(spec)
	if err != nil {
		var re *replay.ReplayError
		if errors.As(err, &re) && re.Expected != nil {
			pterm.Warning.Printfln("expected %s to act in %s, legal: %v",
				re.Expected.PlayerID, re.Expected.Round, re.Expected.LegalActions)
		}
		return err
	}
	renderTape(tape)
	pterm.Success.Printfln("hand replays: %d steps, complete=%v", len(tape.Steps), tape.Complete)
	return nil
}
