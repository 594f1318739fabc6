package frame

import "github.com/runZeroInc/lludp/pkg/wire"

// NewRequestImage builds the outbound request a texture worker emits on
// promotion or on a refresh-timer priority bump (§4.4).
func NewRequestImage(id wire.AssetId, kind ImageKind, discard int8, priority float32, resumePacket uint32) *RequestImage {
	return &RequestImage{
		TextureID:        id,
		Kind:             kind,
		DiscardLevel:     discard,
		DownloadPriority: priority,
		Packet:           resumePacket,
	}
}

// NewCancelRequestImage builds the wire's "cancel" escape: priority 0.0
// and discard level -1 (§4.4 "Cancellation", §4.4 "Wire priorities").
func NewCancelRequestImage(id wire.AssetId, kind ImageKind) *RequestImage {
	return NewRequestImage(id, kind, -1, 0.0, 0)
}
