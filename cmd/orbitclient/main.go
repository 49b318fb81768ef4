// Command orbitclient drives a single arena connection headlessly: it dials
// the configured server, submits input on a fixed 60 Hz ticker, and samples
// the render loop until interrupted or the session ends.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orbit/client/internal/config"
	"orbit/client/internal/logging"
	"orbit/client/internal/session"
	"orbit/client/internal/wire"
)

func main() {
	name := flag.String("name", "orbitclient", "player name to join with")
	colorIndex := flag.Uint("color", 0, "cosmetic color index")
	spectate := flag.Bool("spectate", false, "join as a spectator")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize structured logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller := session.New(cfg, logger)
	controller.OnConnectionError(func(err error) {
		logger.Error("connection error", logging.Error(err))
		stop()
	})
	controller.OnTerminal(func(err error) {
		logger.Warn("session terminated", logging.Error(err))
		stop()
	})

	logger.Info("dialing arena server", logging.String("address", cfg.ServerURL))
	if err := controller.Connect(ctx, *name, uint8(*colorIndex), *spectate); err != nil {
		logger.Fatal("failed to connect", logging.Error(err))
	}
	defer controller.Disconnect()

	runLoop(ctx, controller, logger)
}

// runLoop paces input submission and render sampling to the server's 60 Hz
// tick rate until ctx is cancelled.
func runLoop(ctx context.Context, controller *session.Controller, logger *logging.Logger) {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	var sequence uint64
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			sequence++
			input := wire.PlayerInput{Sequence: sequence, ClientTime: uint64(nowMillis())}
			if err := controller.SendInput(input); err != nil {
				logger.Warn("send input failed", logging.Error(err))
			}
			if state, ok := controller.Render(nowMillis()); ok {
				logger.Debug("rendered frame",
					logging.Int64("tick", int64(state.Tick)),
					logging.Int("players", len(state.Players)),
				)
			}
		}
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
