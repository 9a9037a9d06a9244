package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holdem-fair/internal/gateway"
	"holdem-fair/internal/ledger"
	"holdem-fair/internal/lobby"
	"holdem-fair/internal/table"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		withBots bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve websocket tables and the hand audit API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.HTTPAddr
			}
			store, mode, err := openLedger(a)
			if err != nil {
				return err
			}
			defer store.Close()
			a.logger.Info("ledger ready", zap.String("mode", mode))

			lby := lobby.New(store, a.logger)
			defer lby.StopAll()
			gw := gateway.New(lby, a.logger)

			if _, err := lby.Create("table-1", table.Config{
				Engine:        a.cfg.EngineConfig(),
				ActionTimeout: a.cfg.ActionTimeout,
			}, nil); err != nil {
				return err
			}
			if withBots {
				if err := startBotTable(a, lby); err != nil {
					return err
				}
			}

			r := chi.NewRouter()
			gw.Mount(r)
			r.Mount("/", ledger.NewHTTPHandler(store, a.logger).Routes())

			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening", zap.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&withBots, "bots", false, "also run a table of bots that records hands")
	return cmd
}

func startBotTable(a *app, lby *lobby.Lobby) error {
	bots, err := newBots(a, 0)
	if err != nil {
		return err
	}
	tbl, err := lby.Create("bots-1", table.Config{
		Engine:        a.cfg.EngineConfig(),
		ActionTimeout: a.cfg.ActionTimeout,
		HandDelay:     2 * time.Second,
		AutoStart:     true,
	}, bots)
	if err != nil {
		return err
	}
	for _, p := range tbl.Snapshot().Game.Players {
		if err := tbl.SeatBot(p.ID, ""); err != nil {
			return err
		}
	}
	return tbl.StartHand()
}
