// Package app contains the top-level orchestration of the car process.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/carsim/carsim/internal/config"
	"github.com/carsim/carsim/internal/control"
	"github.com/carsim/carsim/internal/rtc"
	"github.com/carsim/carsim/internal/signaling"
	"github.com/carsim/carsim/internal/util"
	"github.com/carsim/carsim/internal/video"
)

// idleTick is how often the supervisor wakes while the session is alive.
const idleTick = time.Second

// Run executes the full car lifecycle:
//  1. Wire the negotiator to the signaling client's events
//  2. Connect to the signaling server and register the room (fatal on failure)
//  3. Idle until interrupted or the signaling connection is lost
//  4. Tear down the session and the transport on every exit path
//
// A cancelled ctx (operator interrupt) returns nil; losing the signaling
// connection returns an error.
func Run(ctx context.Context, cfg *config.Config) error {
	client := signaling.NewClient(cfg.SignalingURL, cfg.RoomCode)
	neg := rtc.NewNegotiator(
		cfg.RoomCode,
		client,
		control.LogSink{},
		func() (rtc.PeerConnection, error) {
			return rtc.NewPeerConnection(cfg.STUNServers)
		},
		trackFactory(ctx, cfg),
	)

	defer func() {
		util.LogInfo("cleaning up...")
		if err := neg.Shutdown(); err != nil {
			util.LogWarning("session shutdown: %v", err)
		}
		client.Disconnect()
		util.LogInfo("cleanup complete")
	}()

	// Signaling reactions. Negotiation and decode failures are logged at
	// this boundary and never crash the process; recovery relies on the
	// controller re-sending.
	client.On(signaling.EventControllerJoined, func(json.RawMessage) {
		util.LogInfo("controller joined the room")
		if err := neg.CreateOffer(); err != nil {
			util.LogError("failed to create offer: %v", err)
		}
	})
	client.On(signaling.EventAnswer, func(data json.RawMessage) {
		if err := neg.HandleAnswer(data); err != nil {
			util.LogError("failed to handle answer: %v", err)
		}
	})
	client.On(signaling.EventICECandidate, func(data json.RawMessage) {
		if err := neg.HandleCandidate(data); err != nil {
			util.LogError("failed to handle ICE candidate: %v", err)
		}
	})

	if err := client.Connect(ctx); err != nil {
		return err
	}

	util.StartStatsReporter(ctx)
	util.LogInfo("waiting for controller to join...")

	ticker := time.NewTicker(idleTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("shutting down...")
			return nil
		case <-client.Done():
			return fmt.Errorf("signaling connection lost")
		case <-ticker.C:
			// idle; all work happens on event callbacks
		}
	}
}

// trackFactory returns the injected video-track constructor: a sample
// track backed by the test-pattern generator, pumped at the configured
// frame rate for as long as ctx lives.
func trackFactory(ctx context.Context, cfg *config.Config) rtc.TrackFactory {
	return func() (webrtc.TrackLocal, error) {
		track, err := video.NewTrack()
		if err != nil {
			return nil, err
		}

		gen := video.NewGenerator(cfg.Width, cfg.Height)
		go video.Pump(ctx, track, gen, cfg.FPS)

		util.LogInfo("test pattern video track initialized: %dx%d @ %dfps",
			cfg.Width, cfg.Height, cfg.FPS)
		return track, nil
	}
}
