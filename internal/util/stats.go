package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// ──────────────────────────────────────────────────────────────────────────────
// Global stats singleton
// ──────────────────────────────────────────────────────────────────────────────

// Stats is the process-wide session counter.
var Stats = &stats{}

type stats struct {
	FramesProduced atomic.Int64 // cumulative frames rendered by the test pattern
	CommandsRecv   atomic.Int64 // cumulative control commands decoded from the data channel
	CandidatesSent atomic.Int64 // cumulative local ICE candidates emitted over signaling
	CandidatesRecv atomic.Int64 // cumulative remote ICE candidates applied
}

func (s *stats) AddFrame()         { s.FramesProduced.Add(1) }
func (s *stats) AddCommand()       { s.CommandsRecv.Add(1) }
func (s *stats) AddCandidateSent() { s.CandidatesSent.Add(1) }
func (s *stats) AddCandidateRecv() { s.CandidatesRecv.Add(1) }

// ──────────────────────────────────────────────────────────────────────────────
// Periodic reporter
// ──────────────────────────────────────────────────────────────────────────────

// StartStatsReporter launches a goroutine that logs session statistics
// every 10 seconds while there is activity. It stops when ctx is cancelled.
func StartStatsReporter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		var prevFrames, prevCmds int64
		for {
			select {
			case <-ticker.C:
				frames := Stats.FramesProduced.Load()
				cmds := Stats.CommandsRecv.Load()
				dFrames := frames - prevFrames
				dCmds := cmds - prevCmds

				if dFrames > 0 || dCmds > 0 {
					pterm.DefaultLogger.Info(formatStats(dFrames, dCmds,
						Stats.CandidatesSent.Load(), Stats.CandidatesRecv.Load()))
				}

				prevFrames = frames
				prevCmds = cmds

			case <-ctx.Done():
				return
			}
		}
	}()
}

// formatStats returns a formatted string of the current stats for display in the logger.
func formatStats(frames, cmds, candSent, candRecv int64) string {
	return fmt.Sprintf("Frames: %4.1f/s | Cmds: %4.1f/s | ICE: %2d↑ %2d↓",
		float64(frames)/10.0,
		float64(cmds)/10.0,
		candSent,
		candRecv,
	)
}
