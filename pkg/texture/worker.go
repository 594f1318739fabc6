package texture

import (
	"context"
	"time"

	"github.com/runZeroInc/lludp/pkg/frame"
)

// dispatch sends the initial RequestImage frame for req and blocks, holding
// its admission slot, until req reaches a terminal state: through an
// ingress handler completing the transfer, AbortTexture, the refresh sweep
// timing it out, or ctx being cancelled (§4.4 "a slot is held until the
// request reaches a terminal state").
func (p *Pipeline) dispatch(ctx context.Context, req *Request) {
	req.mu.Lock()
	if req.State == StatePending {
		req.State = StateStarted
	}
	req.StartedAt = time.Now()
	req.LastPacketAt = req.StartedAt
	id, kind, discard, priority := req.AssetID, req.Kind, req.DiscardLevel, req.Priority
	transfer := req.Transfer
	req.mu.Unlock()

	msg := frame.NewRequestImage(id, kind, discard, priority, transfer.firstGap())
	if err := p.sender.Send(frame.Encode(msg)); err != nil {
		p.log.WithError(err).WithField("asset_id", id).Warn("failed to send initial texture request")
	}

	select {
	case <-req.Done:
	case <-req.Cancel.C():
		<-req.Done
	case <-ctx.Done():
		p.AbortTexture(id)
	}
}
