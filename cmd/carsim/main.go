// Carsim — simulated RC car endpoint.
//
// The process registers a room code with a signaling server, waits for a
// remote controller to join, negotiates a WebRTC session (offer/answer +
// ICE over the signaling channel), then streams a synthetic test-pattern
// video track while routing inbound "control" data-channel commands to a
// command sink. It runs until interrupted.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/carsim/carsim/internal/app"
	"github.com/carsim/carsim/internal/config"
	"github.com/carsim/carsim/internal/util"
)

var version = "dev"

var debugMode bool

var rootCmd = &cobra.Command{
	Use:     "carsim [room-code] [signaling-url]",
	Short:   "Simulated RC car served over a WebRTC session",
	Args:    cobra.MaximumNArgs(2),
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		if debugMode {
			util.EnableDebug()
		}

		var roomCode, signalingURL string
		if len(args) > 0 {
			roomCode = args[0]
		}
		if len(args) > 1 {
			signalingURL = args[1]
		}
		cfg := config.Load(roomCode, signalingURL)

		printBanner(cfg)

		// Root context — cancelled on Ctrl+C. Teardown must finish on
		// every exit path, so the interrupt only cancels; app.Run owns
		// the cleanup.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := app.Run(ctx, cfg); err != nil {
			return err
		}
		util.LogInfo("stopped by user")
		return nil
	},
}

func printBanner(cfg *config.Config) {
	pterm.Info.Printfln("Carsim — v%s", version)
	pterm.Println()
	pterm.Info.Printfln("Room Code:        %s", cfg.RoomCode)
	pterm.Info.Printfln("Signaling Server: %s", cfg.SignalingURL)
	pterm.Info.Printfln("Video:            %dx%d @ %dfps", cfg.Width, cfg.Height, cfg.FPS)
	pterm.Println()
	pterm.Info.Println("Connect from the controller by selecting this car. Press Ctrl+C to stop.")
	pterm.Println()
}

func main() {
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil && !errors.Is(err, context.Canceled) {
		util.LogError("%v", err)
		os.Exit(1)
	}
}
