package frame

import "github.com/runZeroInc/lludp/pkg/wire"

// Frame is a decoded datagram handed up from the transport: a message
// number plus the undifferentiated payload bytes that follow it (§6
// "the core consumes a stream of (frame_type, payload_bytes) pairs").
// Framing itself — sequence numbers, reliability flags, zero-code
// decompression — is the transport's job and happens before a Frame
// reaches this package.
type Frame struct {
	Number  MessageNumber
	Payload []byte
}

// Decode parses f.Payload into its typed Payload per §4.2. It validates
// that declared lengths fit within the payload and that terminated
// strings actually terminate; any inconsistency yields a *Malformed
// wrapping the offset the cursor had reached. Decode never reads past the
// end of f.Payload.
func Decode(f Frame) (Payload, error) {
	factory, ok := decoders[f.Number]
	if !ok {
		return nil, &Malformed{Context: "Frame", Offset: 0, Reason: "unknown message number"}
	}
	p := factory()
	r := wire.NewReader(f.Payload)
	if err := p.Unmarshal(r); err != nil {
		return nil, wrapCursor(payloadName(f.Number), r.Offset(), err)
	}
	return p, nil
}

// Encode emits a Frame in wire layout for an outbound payload.
func Encode(p Payload) Frame {
	return Frame{Number: p.MessageNumber(), Payload: p.Marshal()}
}

func payloadName(n MessageNumber) string {
	if name, ok := messageNames[n]; ok {
		return name
	}
	return "UnknownMessage"
}
