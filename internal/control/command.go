// Package control defines the control-command wire format and the sink
// interface that consumes decoded commands.
package control

import (
	"encoding/json"
	"fmt"
)

// Command is one steering message from the controller. Throttle maps to
// the controller's W/S axis, Steering to A/D; both are roughly [-1, 1].
type Command struct {
	Throttle float64 `json:"w"`
	Steering float64 `json:"a"`
}

// DecodeCommand parses one data-channel message. Missing fields default
// to 0.0 and unknown fields are ignored; anything that is not a JSON
// object with numeric w/a is an error and the message is dropped by the
// caller.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decode control command: %w", err)
	}
	return cmd, nil
}
