package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/buttonpot/buttond/cmd/buttond/shared"
	"github.com/buttonpot/buttond/internal/auth"
	"github.com/buttonpot/buttond/internal/server"
)

// ServeCmd runs the game server.
type ServeCmd struct {
	Config            string `kong:"default='buttond.hcl',help='Path to HCL config file'"`
	Addr              string `kong:"help='Server address (overrides config)'"`
	Countdown         string `kong:"help='Countdown window, e.g. 24h (overrides config)'"`
	MinStake          int64  `kong:"help='Minimum stake per press (overrides config)'"`
	TerminateOnPayout bool   `kong:"help='End the game after the first payout'"`
	Holder            string `kong:"help='Seed the initial holder account'"`
	AuthURL           string `kong:"help='Token validation endpoint (empty disables auth)'"`
	Debug             bool   `kong:"help='Enable debug logging'"`
	JSONLogs          bool   `kong:"name='json-logs',help='Emit structured JSON logs'"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	if c.JSONLogs {
		logger = shared.SetupStructuredLogger(c.Debug)
	}

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	// Flags override file settings.
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.Countdown != "" {
		cfg.Game.Countdown = c.Countdown
	}
	if c.MinStake != 0 {
		cfg.Game.MinStake = c.MinStake
	}
	if c.TerminateOnPayout {
		cfg.Game.TerminateOnPayout = true
	}
	if c.Holder != "" {
		cfg.Game.Holder = c.Holder
	}
	if c.AuthURL != "" {
		cfg.Server.AuthURL = c.AuthURL
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	svc, err := server.NewGameService(cfg.Game, quartz.NewReal(), logger)
	if err != nil {
		return err
	}

	var validator auth.Validator = auth.NewNoopValidator()
	if cfg.Server.AuthURL != "" {
		validator = auth.NewHTTPValidator(cfg.Server.AuthURL)
	}

	s := server.NewServer(cfg.Server.Addr, svc, validator, logger)

	logger.Info("Starting button game server",
		"address", cfg.Server.Addr,
		"countdown", cfg.Game.Countdown,
		"min_stake", cfg.Game.MinStake,
		"terminate_on_payout", cfg.Game.TerminateOnPayout,
		"auth", cfg.Server.AuthURL != "")

	ctx := shared.SetupSignalHandler(logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
