// Package config holds the process configuration.
package config

import (
	"os"
	"strings"
)

// Default values used when neither positional arguments nor environment
// variables override them.
const (
	DefaultRoomCode     = "CAR001"
	DefaultSignalingURL = "wss://rc-signaling-serv-816336414350.europe-west1.run.app"

	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultFPS    = 30
)

// defaultSTUNServers are the public STUN servers used for ICE gathering.
// Two servers for redundancy; no TURN — the simulator targets direct
// connectivity with zero infrastructure cost.
var defaultSTUNServers = []string{
	"stun:stun.l.google.com:19302",
	"stun:stun1.l.google.com:19302",
}

// Config stores everything the car process needs to run one session.
type Config struct {
	RoomCode     string // pairing room registered with the signaling server
	SignalingURL string // WebSocket URL of the signaling server

	STUNServers []string

	Width  int // test pattern width in pixels
	Height int // test pattern height in pixels
	FPS    int // target frame rate of the video track
}

// Load builds a Config with the following priority:
//  1. positional arguments (roomCode, signalingURL) — highest
//  2. environment variables (CARSIM_SIGNALING_URL, CARSIM_STUN_SERVERS)
//  3. hardcoded defaults — lowest
func Load(roomCode, signalingURL string) *Config {
	cfg := &Config{
		RoomCode:     DefaultRoomCode,
		SignalingURL: DefaultSignalingURL,
		STUNServers:  defaultSTUNServers,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		FPS:          DefaultFPS,
	}

	if v := os.Getenv("CARSIM_SIGNALING_URL"); v != "" {
		cfg.SignalingURL = v
	}
	if v := os.Getenv("CARSIM_STUN_SERVERS"); v != "" {
		cfg.STUNServers = splitList(v)
	}

	if roomCode != "" {
		cfg.RoomCode = roomCode
	}
	if signalingURL != "" {
		cfg.SignalingURL = signalingURL
	}

	return cfg
}

// splitList parses a comma-separated list, trimming blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
