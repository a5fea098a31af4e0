package control

import (
	"github.com/carsim/carsim/internal/util"
)

// Sink consumes decoded control commands. Implementations are selected at
// startup via injection; a real actuator driver implements the same
// interface as the logging stand-in.
type Sink interface {
	Process(cmd Command)
}

// LogSink logs every command instead of driving hardware.
type LogSink struct{}

func (LogSink) Process(cmd Command) {
	util.LogInfo("CONTROL INPUT: W/S: %.2f | A/D: %.2f", cmd.Throttle, cmd.Steering)
}
