package rtc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/carsim/carsim/internal/control"
	"github.com/carsim/carsim/internal/signaling"
	"github.com/carsim/carsim/internal/util"
)

// controlChannelLabel is the data channel name the controller expects.
const controlChannelLabel = "control"

// Emitter sends a named event with a structured payload back through the
// signaling transport.
type Emitter interface {
	Emit(event string, payload any) error
}

// PeerFactory builds the peer connection on the first negotiation trigger.
type PeerFactory func() (PeerConnection, error)

// TrackFactory builds the outbound video track attached to the peer
// connection. It decouples the negotiator from any specific frame source.
type TrackFactory func() (webrtc.TrackLocal, error)

// State is the observable lifecycle of the single session.
type State int

const (
	StateIdle        State = iota // no controller yet
	StateNegotiating              // offer sent, awaiting answer
	StateConnected                // data channel open
	StateClosed                   // shut down
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiating:
		return "negotiating"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Negotiator owns the session and implements the offer/answer/ICE
// exchange plus data-channel wiring. It holds at most one session per
// process, created lazily on the first controller-joined event.
//
// Signaling handlers and transport callbacks interleave on different
// goroutines, so session state is guarded by a mutex.
type Negotiator struct {
	room     string
	emitter  Emitter
	sink     control.Sink
	newPeer  PeerFactory
	newTrack TrackFactory

	mu    sync.Mutex
	pc    PeerConnection
	dc    DataChannel
	state State
}

// NewNegotiator wires a negotiator for one room. Nothing is allocated
// until the first negotiation trigger.
func NewNegotiator(room string, emitter Emitter, sink control.Sink, newPeer PeerFactory, newTrack TrackFactory) *Negotiator {
	return &Negotiator{
		room:     room,
		emitter:  emitter,
		sink:     sink,
		newPeer:  newPeer,
		newTrack: newTrack,
		state:    StateIdle,
	}
}

// State returns the last observed session state.
func (n *Negotiator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *Negotiator) setState(s State) {
	n.mu.Lock()
	n.state = s
	n.mu.Unlock()
}

// ensureSession lazily builds the peer connection, data channel, and
// video track, and registers the local-event reactions. Idempotent: a
// second call on a live session does nothing. Must be called with n.mu
// held.
func (n *Negotiator) ensureSession() error {
	if n.pc != nil {
		return nil
	}

	pc, err := n.newPeer()
	if err != nil {
		return fmt.Errorf("create peer connection: %w", err)
	}

	dc, err := pc.CreateDataChannel(controlChannelLabel)
	if err != nil {
		pc.Close()
		return fmt.Errorf("create data channel: %w", err)
	}
	util.LogInfo("data channel %q created", dc.Label())

	dc.OnMessage(n.handleControlMessage)
	dc.OnOpen(func() {
		n.setState(StateConnected)
		util.LogInfo("data channel is open and ready for commands")
	})

	pc.OnICECandidate(n.sendLocalCandidate)
	pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		util.LogInfo("ICE connection state: %s", s)
	})
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		util.LogInfo("connection state: %s", s)
	})

	track, err := n.newTrack()
	if err != nil {
		pc.Close()
		return fmt.Errorf("create video track: %w", err)
	}
	if err := pc.AddTrack(track); err != nil {
		pc.Close()
		return fmt.Errorf("attach video track: %w", err)
	}
	util.LogInfo("video track attached")

	n.pc = pc
	n.dc = dc
	return nil
}

// CreateOffer builds the session if needed, generates an offer, sets it
// as the local description, and emits it tagged with the room code.
// Called once per controller-joined event; a failure leaves the session
// open for a future retry trigger.
func (n *Negotiator) CreateOffer() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == StateClosed {
		return fmt.Errorf("create offer: session closed")
	}
	if err := n.ensureSession(); err != nil {
		return err
	}

	offer, err := n.pc.CreateOffer()
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	if err := n.pc.SetLocalDescription(offer); err != nil {
		return fmt.Errorf("set local description: %w", err)
	}

	raw, err := signaling.EncodeDescription(signaling.Description{
		Type: offer.Type.String(),
		SDP:  offer.SDP,
	})
	if err != nil {
		return err
	}
	if err := n.emitter.Emit(signaling.EventOffer, signaling.OfferPayload{
		RoomCode: n.room,
		Offer:    raw,
	}); err != nil {
		return fmt.Errorf("emit offer: %w", err)
	}

	if n.state == StateIdle {
		n.state = StateNegotiating
	}
	util.LogInfo("offer sent for room %s", n.room)
	return nil
}

// HandleAnswer applies the controller's remote description. Malformed or
// out-of-order payloads are errors for the caller to log; the session
// state is left untouched on any decode failure.
func (n *Negotiator) HandleAnswer(data json.RawMessage) error {
	var payload signaling.AnswerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse answer payload: %w", err)
	}
	desc, err := signaling.DecodeDescription(payload.Answer)
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pc == nil {
		return fmt.Errorf("answer received before any offer was made")
	}
	if err := n.pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.NewSDPType(desc.Type),
		SDP:  desc.SDP,
	}); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	util.LogInfo("remote description set")
	return nil
}

// HandleCandidate adds one remote ICE candidate. Candidates may arrive in
// any order, even before the remote description is set; validity is the
// underlying transport's call.
func (n *Negotiator) HandleCandidate(data json.RawMessage) error {
	var payload signaling.CandidatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse candidate payload: %w", err)
	}
	cand, err := signaling.DecodeCandidate(payload.Candidate)
	if err != nil {
		return fmt.Errorf("candidate: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pc == nil {
		return fmt.Errorf("candidate received before any session exists")
	}
	if err := n.pc.AddICECandidate(webrtc.ICECandidateInit{
		Candidate:     cand.Candidate,
		SDPMid:        cand.SDPMid,
		SDPMLineIndex: cand.SDPMLineIndex,
	}); err != nil {
		return fmt.Errorf("add ICE candidate: %w", err)
	}
	util.Stats.AddCandidateRecv()
	return nil
}

// Shutdown closes the peer connection if one exists. Idempotent and safe
// when no session was ever initialized.
func (n *Negotiator) Shutdown() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == StateClosed {
		return nil
	}
	n.state = StateClosed

	if n.pc == nil {
		return nil
	}
	err := n.pc.Close()
	n.pc = nil
	n.dc = nil
	return err
}

// handleControlMessage decodes one data-channel message and forwards it
// to the command sink. A malformed command is logged and dropped, never
// propagated — it must not crash the session.
func (n *Negotiator) handleControlMessage(data []byte) {
	cmd, err := control.DecodeCommand(data)
	if err != nil {
		util.LogError("failed to parse control data: %v", err)
		return
	}
	util.Stats.AddCommand()
	n.sink.Process(cmd)
}

// sendLocalCandidate serializes a gathered local candidate and emits it
// immediately. A nil candidate marks end-of-gathering and is dropped
// silently. Emit failures are best-effort: logged, never fatal.
func (n *Negotiator) sendLocalCandidate(c *webrtc.ICECandidate) {
	if c == nil {
		return
	}

	init := c.ToJSON()
	raw, err := signaling.EncodeCandidate(signaling.Candidate{
		Candidate:     init.Candidate,
		SDPMid:        init.SDPMid,
		SDPMLineIndex: init.SDPMLineIndex,
	})
	if err != nil {
		util.LogError("failed to serialize ICE candidate: %v", err)
		return
	}

	if err := n.emitter.Emit(signaling.EventICECandidate, signaling.CandidatePayload{
		RoomCode:  n.room,
		Candidate: raw,
	}); err != nil {
		util.LogError("failed to send ICE candidate: %v", err)
		return
	}
	util.Stats.AddCandidateSent()
}
