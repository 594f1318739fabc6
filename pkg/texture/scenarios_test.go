package texture

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/runZeroInc/lludp/pkg/frame"
	"github.com/runZeroInc/lludp/pkg/wire"
)

// Scenario B (§8): reordered and duplicated body packets still land at
// their wire-assigned offset, and a duplicate delivery leaves the buffer
// bit-identical.
var _ = Describe("Scenario B: reordered and duplicated body", func() {
	It("assembles bytes in offset order regardless of arrival order", func() {
		cache := newMemCache()
		assetID := wire.AssetId{2, 0, 2}
		sender := &recordingSender{}
		pipeline := NewPipeline(cache, sender, WithMaxConcurrent(1))

		results := make(chan Result, 1)
		pipeline.RequestTexture(assetID, frame.ImageKindNormal, 1.0, -1, false, func(r Result) {
			if r.State.Terminal() {
				results <- r
			}
		})

		h := bytesOf(1000, 0x48) // "H"
		b1 := bytesOf(1000, 0x31)
		b2 := bytesOf(1000, 0x32)

		pipeline.HandleImageData(&frame.ImageData{
			TextureID: assetID,
			Codec:     frame.ImageCodecJ2C,
			Size:      3000,
			Packets:   3,
			Data:      h,
		})
		pipeline.HandleImagePacket(&frame.ImagePacket{TextureID: assetID, Packet: 2, Data: b2})
		pipeline.HandleImagePacket(&frame.ImagePacket{TextureID: assetID, Packet: 1, Data: b1})
		pipeline.HandleImagePacket(&frame.ImagePacket{TextureID: assetID, Packet: 1, Data: b1})

		var r Result
		Eventually(results, 2*time.Second).Should(Receive(&r))

		Expect(r.State).To(Equal(StateFinished))
		Expect(r.Transferred).To(Equal(uint32(3000)))
		Expect(r.Data[:1000]).To(Equal(h))
		Expect(r.Data[1000:2000]).To(Equal(b1))
		Expect(r.Data[2000:3000]).To(Equal(b2))
	})
})

// Scenario C (§8): a request that stalls after its first body packet gets
// a priority-bumped re-request once it has been idle for idleBumpThreshold,
// then times out if the simulator never replies. The first RequestImage
// recorded is the initial one at priority 1.0; the bump is the second.
var _ = Describe("Scenario C: missing packet triggers bump then timeout", func() {
	It("re-requests at a higher priority before finally timing out", func() {
		cache := newMemCache()
		assetID := wire.AssetId{3}

		var mu sync.Mutex
		var bumps []float32
		sender := &recordingSender{}
		sender.onMsg = func(f frame.Frame) {
			if f.Number != frame.MsgRequestImage {
				return
			}
			msg, err := frame.Decode(f)
			if err != nil {
				return
			}
			ri, ok := msg.(*frame.RequestImage)
			if !ok {
				return
			}
			mu.Lock()
			bumps = append(bumps, ri.DownloadPriority)
			mu.Unlock()
		}

		pipeline := NewPipeline(cache, sender,
			WithMaxConcurrent(1),
			WithRefreshInterval(30*time.Millisecond),
			WithRequestTimeout(idleBumpThreshold+500*time.Millisecond),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go pipeline.Run(ctx)

		results := make(chan Result, 1)
		pipeline.RequestTexture(assetID, frame.ImageKindNormal, 1.0, -1, false, func(r Result) {
			if r.State.Terminal() {
				results <- r
			}
		})

		pipeline.HandleImageData(&frame.ImageData{
			TextureID: assetID,
			Codec:     frame.ImageCodecJ2C,
			Size:      3000,
			Packets:   3,
			Data:      bytesOf(1000, 0x48),
		})
		pipeline.HandleImagePacket(&frame.ImagePacket{TextureID: assetID, Packet: 1, Data: bytesOf(1000, 0x31)})

		Eventually(func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(bumps)
		}, idleBumpThreshold+time.Second).Should(BeNumerically(">=", 2))

		mu.Lock()
		firstBump := bumps[1]
		mu.Unlock()
		Expect(firstBump).To(BeNumerically(">", 1.0))

		var r Result
		Eventually(results, 2*time.Second).Should(Receive(&r))
		Expect(r.State).To(Equal(StateTimeout))
	})
})

func bytesOf(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
