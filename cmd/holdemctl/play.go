package main

import (
	"fmt"
	"time"

	"holdem-fair/holdem/npc"
	"holdem-fair/internal/ledger"
	"holdem-fair/internal/table"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		hands int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Let bots play a series of hands and record them to the ledger",
		RunE: func(_ *cobra.Command, _ []string) error {
			if hands <= 0 {
				return fmt.Errorf("--hands must be positive")
			}
			store, mode, err := openLedger(a)
			if err != nil {
				return err
			}
			defer store.Close()

			bots, err := newBots(a, seed)
			if err != nil {
				return err
			}
			engineCfg := a.cfg.EngineConfig()
			engineCfg.Seed = seed
			tbl, err := table.New("cli", table.Config{
				Engine:        engineCfg,
				ActionTimeout: a.cfg.ActionTimeout,
				AutoStart:     true,
				InstantBots:   true,
			}, store, bots, a.logger)
			if err != nil {
				return err
			}
			defer tbl.Stop()

			ended := make(chan table.HandEndInfo, hands)
			tbl.AddHandEndHook(func(info table.HandEndInfo) { ended <- info })
			for _, p := range tbl.Snapshot().Game.Players {
				if err := tbl.SeatBot(p.ID, ""); err != nil {
					return err
				}
			}
			pterm.Info.Printfln("ledger: %s, commitment for hand 1: %s", mode, tbl.Snapshot().Game.NextServerSeedHash)
			if err := tbl.StartHand(); err != nil {
				return err
			}

			var last table.HandEndInfo
			for played := 0; played < hands; played++ {
				select {
				case last = <-ended:
				case <-time.After(30 * time.Second):
					return fmt.Errorf("hand %d stalled", played+1)
				}
				renderHandEnd(last)
				if fundedCount(last.Stacks) < 2 {
					pterm.Warning.Println("only one player has chips left")
					break
				}
			}
			renderStacks(last.Stacks)
			return nil
		},
	}
	cmd.Flags().IntVar(&hands, "hands", 10, "number of hands to play")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for bots and the first button (0 => time-based)")
	return cmd
}

func openLedger(a *app) (ledger.Service, string, error) {
	return ledger.NewService(ledger.Options{
		Mode:        a.cfg.LedgerMode,
		SQLitePath:  a.cfg.SQLitePath,
		DatabaseURL: a.cfg.DatabaseURL,
		Logger:      a.logger,
	})
}

func newBots(a *app, seed int64) (*npc.Manager, error) {
	registry := npc.NewDefaultRegistry()
	if a.cfg.PersonasFile != "" {
		if err := registry.LoadFromFile(a.cfg.PersonasFile); err != nil {
			return nil, fmt.Errorf("load personas: %w", err)
		}
		a.logger.Info("personas loaded", zap.String("file", a.cfg.PersonasFile), zap.Int("count", registry.Count()))
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return npc.NewManager(registry, seed, a.logger), nil
}

func fundedCount(stacks map[string]int64) int {
	n := 0
	for _, s := range stacks {
		if s > 0 {
			n++
		}
	}
	return n
}
