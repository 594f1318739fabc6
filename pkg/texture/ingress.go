package texture

import (
	"time"

	"github.com/runZeroInc/lludp/pkg/frame"
)

// HandleImageData processes the header packet of a transfer (§4.4
// "HeaderPacket"): it fixes the buffer's total size and packet count,
// stores the leading chunk, and unblocks any body packet already waiting
// on WaitHeader.
func (p *Pipeline) HandleImageData(msg *frame.ImageData) {
	req, ok := p.registry.Get(msg.TextureID)
	if !ok {
		return
	}

	t := req.Transfer
	t.mu.Lock()
	t.TotalSize = msg.Size
	t.Codec = msg.Codec
	t.PacketCount = msg.Packets
	t.InitialChunkSize = uint32(len(msg.Data))
	if uint32(len(t.Data)) < t.TotalSize {
		t.Data = make([]byte, t.TotalSize)
	}
	copy(t.Data, msg.Data)
	t.Transferred = uint32(len(msg.Data))
	t.PacketsSeen[0] = struct{}{}
	complete := t.Transferred >= t.TotalSize
	if complete {
		t.Success = true
	}
	snapshot := append([]byte(nil), t.Data[:t.Transferred]...)
	transferred, total := t.Transferred, t.TotalSize
	t.mu.Unlock()
	t.signalHeaderArrived()

	req.mu.Lock()
	if !req.State.Terminal() {
		req.State = StateInProgress
	}
	req.LastPacketAt = time.Now()
	req.mu.Unlock()

	p.reportProgressOrFinish(req, complete, snapshot, transferred, total)
}

// HandleImagePacket processes a body packet (§4.4 "BodyPacket"): it waits
// for the header to have arrived (bounded by DefaultHeaderWait) so the
// buffer's layout is known, places the packet's bytes at their offset, and
// completes the transfer once the bytes counted from distinct packets reach
// the header's total size.
func (p *Pipeline) HandleImagePacket(msg *frame.ImagePacket) {
	req, ok := p.registry.Get(msg.TextureID)
	if !ok {
		return
	}

	t := req.Transfer
	if !t.WaitHeader(DefaultHeaderWait) {
		return
	}

	t.mu.Lock()
	offset := t.bodyOffset(msg.Packet)
	end := offset + len(msg.Data)
	if offset < 0 || end > len(t.Data) {
		t.mu.Unlock()
		return
	}
	copy(t.Data[offset:end], msg.Data)
	if _, seen := t.PacketsSeen[msg.Packet]; !seen {
		t.PacketsSeen[msg.Packet] = struct{}{}
		t.Transferred += uint32(len(msg.Data))
	}
	complete := t.Transferred >= t.TotalSize
	if complete {
		t.Success = true
	}
	snapshot := append([]byte(nil), t.Data[:t.Transferred]...)
	transferred, total := t.Transferred, t.TotalSize
	t.mu.Unlock()

	req.mu.Lock()
	req.LastPacketAt = time.Now()
	req.mu.Unlock()

	p.reportProgressOrFinish(req, complete, snapshot, transferred, total)
}

// HandleImageNotInDatabase finalizes a request as StateNotFound (§4.4
// "NotFound").
func (p *Pipeline) HandleImageNotInDatabase(msg *frame.ImageNotInDatabase) {
	req, ok := p.registry.TryRemove(msg.TextureID)
	if !ok {
		return
	}
	p.finalize(req, Result{State: StateNotFound})
}

// reportProgressOrFinish fires a Progress result for progressive requests,
// or the terminal Finished result and registry removal once the transfer
// is complete (§4.4 "atomic completion path").
func (p *Pipeline) reportProgressOrFinish(req *Request, complete bool, data []byte, transferred, total uint32) {
	if complete {
		p.registry.TryRemove(req.AssetID)
		p.finalize(req, Result{State: StateFinished, Transferred: transferred, Total: total, Data: data})
		return
	}

	req.mu.Lock()
	progressive := req.Progressive
	req.mu.Unlock()
	if !progressive {
		return
	}
	req.fireCallbacks(Result{State: StateInProgress, Transferred: transferred, Total: total, Data: data}, func(rec any) {
		p.log.WithField("asset_id", req.AssetID).Errorf("texture progress callback panicked: %v", rec)
	})
}
