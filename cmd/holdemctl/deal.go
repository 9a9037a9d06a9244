package main

import (
	"holdem-fair/holdem"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newDealCmd(a *app) *cobra.Command {
	var (
		serverSeed string
		clientSeed string
		dealer     int
	)
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Deal one hand and print the commitment, the cards and the revealed seed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.EngineConfig()
			if cmd.Flags().Changed("client-seed") {
				cfg.ClientSeed = clientSeed
			}
			if cmd.Flags().Changed("dealer") {
				cfg.ForcedDealer = &dealer
			}
			var opts []holdem.Option
			opts = append(opts, holdem.WithLogger(a.logger))
			if serverSeed != "" {
				opts = append(opts, holdem.WithServerSeeds(serverSeed))
			}
			engine, err := holdem.NewGameEngine(cfg, opts...)
			if err != nil {
				return err
			}

			pterm.Info.Printfln("commitment for the next hand: %s", engine.NextServerSeedHash())
			if err := engine.StartNewHand(); err != nil {
				return err
			}
			gs := engine.GameState()
			renderDeal(gs)
			pterm.Success.Printfln("server seed: %s", engine.RevealServerSeed())
			pterm.Success.Printfln("client seed: %q", engine.ClientSeed())
			return nil
		},
	}
	cmd.Flags().StringVar(&serverSeed, "server-seed", "", "server seed (generated when empty)")
	cmd.Flags().StringVar(&clientSeed, "client-seed", "", "client seed mixed into the shuffle")
	cmd.Flags().IntVar(&dealer, "dealer", 0, "button seat")
	return cmd
}
