// Package signaling implements the WebSocket client for the external
// signaling server: room registration, named-event dispatch, and emit.
package signaling

import (
	"encoding/json"
	"fmt"
)

// Event names on the signaling wire.
const (
	EventRegisterCar      = "register-car"      // out: room code
	EventControllerJoined = "controller-joined" // in: opaque, ignored
	EventOffer            = "offer"             // out: OfferPayload
	EventAnswer           = "answer"            // in: AnswerPayload
	EventICECandidate     = "ice-candidate"     // out/in: CandidatePayload
)

// Envelope is the JSON structure exchanged over the WebSocket. Every
// message is a named event with an opaque data payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// OfferPayload carries a locally created session description to the
// controller. Offer is the serialized Description, not a nested object —
// the signaling server never inspects it.
type OfferPayload struct {
	RoomCode string `json:"roomCode"`
	Offer    string `json:"offer"`
}

// AnswerPayload carries the controller's session description back.
type AnswerPayload struct {
	Answer string `json:"answer"`
}

// CandidatePayload carries one serialized ICE candidate in either direction.
// RoomCode is set on outbound candidates only.
type CandidatePayload struct {
	RoomCode  string `json:"roomCode,omitempty"`
	Candidate string `json:"candidate"`
}

// Description is the transport-agnostic form of an SDP offer or answer.
type Description struct {
	Type string `json:"type"`
	SDP  string `json:"sdp"`
}

// Candidate is the transport-agnostic form of one ICE candidate.
type Candidate struct {
	Candidate     string  `json:"candidate"`
	SDPMid        *string `json:"sdpMid"`
	SDPMLineIndex *uint16 `json:"sdpMLineIndex"`
}

// EncodeDescription serializes a Description to the opaque text form
// carried inside Offer/Answer payloads.
func EncodeDescription(d Description) (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode description: %w", err)
	}
	return string(raw), nil
}

// DecodeDescription parses the opaque text form back into a Description.
// A description without an SDP body is rejected here so callers never
// hand an empty description to the peer connection.
func DecodeDescription(raw string) (Description, error) {
	var d Description
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Description{}, fmt.Errorf("decode description: %w", err)
	}
	if d.SDP == "" {
		return Description{}, fmt.Errorf("decode description: missing sdp body")
	}
	return d, nil
}

// EncodeCandidate serializes a Candidate to the opaque text form carried
// inside CandidatePayload.
func EncodeCandidate(c Candidate) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode candidate: %w", err)
	}
	return string(raw), nil
}

// DecodeCandidate parses the opaque text form back into a Candidate.
func DecodeCandidate(raw string) (Candidate, error) {
	var c Candidate
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Candidate{}, fmt.Errorf("decode candidate: %w", err)
	}
	return c, nil
}
