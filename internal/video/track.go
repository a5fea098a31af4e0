package video

import (
	"context"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"

	"github.com/carsim/carsim/internal/util"
)

// Source produces exactly one fresh frame per pull.
type Source interface {
	NextFrame() *Frame
}

// NewTrack creates the local sample track the negotiator attaches to the
// peer connection. Frame payloads are carried raw; codec negotiation and
// packetization belong to the transport library.
func NewTrack() (*webrtc.TrackLocalStaticSample, error) {
	return webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8},
		"video",
		"carsim",
	)
}

// Pump is the single-writer loop feeding src into track at the given
// frame rate. Samples written before the track is bound are dropped by
// the transport; write failures are logged and skipped, never fatal.
// Pump returns when ctx is cancelled.
func Pump(ctx context.Context, track *webrtc.TrackLocalStaticSample, src Source, fps int) {
	pacer := NewPacer(fps)
	defer pacer.Stop()

	for {
		duration, err := pacer.Next(ctx)
		if err != nil {
			return
		}

		frame := src.NextFrame()
		util.Stats.AddFrame()

		if err := track.WriteSample(media.Sample{Data: frame.Data, Duration: duration}); err != nil {
			util.LogWarning("failed to write video sample (frame %d): %v", frame.Seq, err)
		}
	}
}
