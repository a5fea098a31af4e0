package control

import (
	"testing"
)

// TestDecodeCommand covers the tolerance rules of the control wire
// contract: missing fields default to zero, unknown fields are ignored,
// anything else is a decode error.
func TestDecodeCommand(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		want    Command
		wantErr bool
	}{
		{
			name: "both axes present",
			data: `{"w": 0.75, "a": -0.5}`,
			want: Command{Throttle: 0.75, Steering: -0.5},
		},
		{
			name: "empty object defaults to zero",
			data: `{}`,
			want: Command{},
		},
		{
			name: "missing steering defaults to zero",
			data: `{"w": 1}`,
			want: Command{Throttle: 1},
		},
		{
			name: "extra fields are ignored",
			data: `{"w": 0.1, "a": 0.2, "brake": true, "seq": 42}`,
			want: Command{Throttle: 0.1, Steering: 0.2},
		},
		{
			name:    "not JSON",
			data:    `w=1;a=0`,
			wantErr: true,
		},
		{
			name:    "non-numeric axis",
			data:    `{"w": "full", "a": 0}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeCommand([]byte(tc.data))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected decode error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeCommand failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("DecodeCommand = %+v, want %+v", got, tc.want)
			}
		})
	}
}

// TestLogSinkHandlesZeroCommand verifies the logging sink accepts a
// command with every field at its default.
func TestLogSinkHandlesZeroCommand(t *testing.T) {
	var sink Sink = LogSink{}
	sink.Process(Command{}) // must not panic
}
