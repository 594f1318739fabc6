package texture

import (
	"context"
	"time"

	"github.com/runZeroInc/lludp/pkg/frame"
)

// runRefresh scans the registry every refreshInterval. A non-terminal
// request with no packet (or, before any packet, no dispatch) for longer
// than requestTimeout is finalized as StateTimeout; one idle for longer than
// idleBumpThreshold has its priority multiplied by DefaultPriorityBumpRate
// and is re-requested from its first missing packet. A request with neither
// StartedAt nor LastPacketAt set is neither bumped nor timed out.
func (p *Pipeline) runRefresh(ctx context.Context) error {
	ticker := time.NewTicker(p.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.stop:
			return nil
		case <-ticker.C:
			p.sweep()
		}
	}
}

// idleBumpThreshold is the §4.4 "now - last_packet_at > 5s" gate: a request
// only gets re-requested at a bumped priority once it has gone quiet for
// this long, distinct from (and shorter than) the 45s timeout threshold.
const idleBumpThreshold = 5 * time.Second

func (p *Pipeline) sweep() {
	now := time.Now()
	for id, req := range p.registry.Snapshot() {
		req.mu.Lock()
		state := req.State
		lastPacket := req.LastPacketAt
		if lastPacket.IsZero() {
			lastPacket = req.StartedAt
		}
		req.mu.Unlock()

		if state.Terminal() {
			continue
		}

		idle := now.Sub(lastPacket)
		if !lastPacket.IsZero() && idle > p.requestTimeout {
			if removed, ok := p.registry.TryRemove(id); ok {
				p.finalize(removed, Result{State: StateTimeout})
			}
			continue
		}

		if !lastPacket.IsZero() && idle > idleBumpThreshold {
			p.bumpPriority(req)
		}
	}
}

func (p *Pipeline) bumpPriority(req *Request) {
	req.mu.Lock()
	req.Priority *= DefaultPriorityBumpRate
	id, kind, discard, priority := req.AssetID, req.Kind, req.DiscardLevel, req.Priority
	transfer := req.Transfer
	req.mu.Unlock()

	msg := frame.NewRequestImage(id, kind, discard, priority, transfer.firstGap())
	if err := p.sender.Send(frame.Encode(msg)); err != nil {
		p.log.WithError(err).WithField("asset_id", id).Warn("failed to send priority-bump texture request")
	}
}
