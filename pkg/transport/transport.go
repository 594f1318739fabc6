// Package transport holds the collaborator interfaces the rest of this
// module is written against but does not implement: login/session
// establishment, reliable resend/ack, zero-code decompression, sequence
// numbering (§1 "Surrounding collaborators — explicitly out of scope but
// referenced as interfaces in §6").
package transport

import "github.com/runZeroInc/lludp/pkg/frame"

// FrameSender emits an outbound frame. The texture pipeline and any other
// core subsystem that needs to talk back to the simulator is written
// against this interface, never against a concrete socket type (§6
// "Downward (to transport)... produces (frame_type, payload_bytes)
// requests"; Design Notes §9 "avoid back-pointers by having subsystems
// communicate via message channels or by returning outbound frames from
// pure handler functions").
type FrameSender interface {
	Send(f frame.Frame) error
}

// FrameSenderFunc adapts a plain function to FrameSender.
type FrameSenderFunc func(f frame.Frame) error

func (fn FrameSenderFunc) Send(f frame.Frame) error { return fn(f) }

// FrameSource is the inbound half: something that hands decoded frames to
// a handler as they arrive off the wire. The transport guarantees
// per-frame integrity but not ordering (§6).
type FrameSource interface {
	Frames() <-chan frame.Frame
}
