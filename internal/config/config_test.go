package config

import (
	"testing"
)

// TestLoadDefaults verifies the zero-argument configuration matches the
// documented defaults.
func TestLoadDefaults(t *testing.T) {
	cfg := Load("", "")

	if cfg.RoomCode != DefaultRoomCode {
		t.Fatalf("RoomCode = %q, want %q", cfg.RoomCode, DefaultRoomCode)
	}
	if cfg.SignalingURL != DefaultSignalingURL {
		t.Fatalf("SignalingURL = %q, want %q", cfg.SignalingURL, DefaultSignalingURL)
	}
	if cfg.Width != 640 || cfg.Height != 480 || cfg.FPS != 30 {
		t.Fatalf("video config = %dx%d @ %d, want 640x480 @ 30", cfg.Width, cfg.Height, cfg.FPS)
	}
	if len(cfg.STUNServers) < 2 {
		t.Fatalf("STUN servers = %d, want at least 2 for redundancy", len(cfg.STUNServers))
	}
}

// TestLoadPriority verifies positional arguments beat environment
// variables, which beat defaults.
func TestLoadPriority(t *testing.T) {
	t.Setenv("CARSIM_SIGNALING_URL", "wss://env.example/ws")

	cfg := Load("GARAGE", "")
	if cfg.RoomCode != "GARAGE" {
		t.Fatalf("RoomCode = %q, want GARAGE", cfg.RoomCode)
	}
	if cfg.SignalingURL != "wss://env.example/ws" {
		t.Fatalf("SignalingURL = %q, want env override", cfg.SignalingURL)
	}

	cfg = Load("GARAGE", "wss://arg.example/ws")
	if cfg.SignalingURL != "wss://arg.example/ws" {
		t.Fatalf("SignalingURL = %q, want argument override", cfg.SignalingURL)
	}
}

// TestSTUNServerListParsing verifies the comma-separated override format.
func TestSTUNServerListParsing(t *testing.T) {
	t.Setenv("CARSIM_STUN_SERVERS", "stun:a.example:3478, stun:b.example:3478 ,")

	cfg := Load("", "")
	want := []string{"stun:a.example:3478", "stun:b.example:3478"}
	if len(cfg.STUNServers) != len(want) {
		t.Fatalf("STUN servers = %v, want %v", cfg.STUNServers, want)
	}
	for i := range want {
		if cfg.STUNServers[i] != want[i] {
			t.Fatalf("STUN server %d = %q, want %q", i, cfg.STUNServers[i], want[i])
		}
	}
}
