// Command texture-fetch fetches one texture asset from a simulator over
// LLUDP and reports progress, the same "small main gluing library pieces
// together and logging the result" shape as the teacher's cmd/get (there,
// an HTTP client wrapped for socket stats; here, a UDP socket wrapped the
// same way, driving a texture.Pipeline).
package main

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"net"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/runZeroInc/lludp"
	"github.com/runZeroInc/lludp/pkg/frame"
	"github.com/runZeroInc/lludp/pkg/texture"
	"github.com/runZeroInc/lludp/pkg/texture/cachestore"
	"github.com/runZeroInc/lludp/pkg/transport"
	"github.com/runZeroInc/lludp/pkg/wire"
)

func main() {
	if len(os.Args) < 3 {
		logrus.Fatalf("usage: texture-fetch <sim-host:port> <asset-id-hex>")
	}
	simAddr, idHex := os.Args[1], os.Args[2]

	var assetID wire.AssetId
	raw, err := hex.DecodeString(idHex)
	if err != nil || len(raw) != len(assetID) {
		logrus.Fatalf("asset id must be %d hex bytes", len(assetID))
	}
	copy(assetID[:], raw)

	remote, err := net.ResolveUDPAddr("udp", simAddr)
	if err != nil {
		logrus.Fatalf("resolve: %v", err)
	}
	pc, err := net.ListenUDP("udp", nil)
	if err != nil {
		logrus.Fatalf("listen: %v", err)
	}
	conn := transport.WrapPacketConn(pc, remote, reportConnStats)

	cacheDir, err := os.MkdirTemp("", "texture-fetch-cache-*")
	if err != nil {
		logrus.Fatalf("cache dir: %v", err)
	}
	store, err := cachestore.NewLocalStore(cacheDir)
	if err != nil {
		logrus.Fatalf("cache store: %v", err)
	}
	defer store.Close()

	svc := lludp.NewServices(store, conn, "lludp_texture", prometheus.Labels{"sim": simAddr})
	defer svc.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	go svc.Texture.Run(ctx)
	go readLoop(ctx, pc, svc.Texture)

	done := make(chan struct{})
	svc.Texture.RequestTexture(assetID, frame.ImageKindNormal, 1.0, -1, true, func(r texture.Result) {
		if !r.State.Terminal() {
			logrus.Infof("progress: %d/%d bytes", r.Transferred, r.Total)
			return
		}
		logrus.Infof("complete: state=%d transferred=%d total=%d", r.State, r.Transferred, r.Total)
		close(done)
	})

	select {
	case <-done:
	case <-ctx.Done():
		logrus.Warn("timed out waiting for texture transfer")
	}
}

// readLoop decodes inbound datagrams against the same framing Send uses
// (pkg/transport.DiagConn.Send) and dispatches them to the pipeline.
func readLoop(ctx context.Context, pc net.PacketConn, pipeline *texture.Pipeline) {
	buf := make([]byte, 65536)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		pc.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			continue
		}
		if n < 4 {
			continue
		}
		f := frame.Frame{
			Number:  frame.MessageNumber(binary.BigEndian.Uint32(buf[:4])),
			Payload: append([]byte(nil), buf[4:n]...),
		}
		payload, err := frame.Decode(f)
		if err != nil {
			logrus.WithError(err).Warn("malformed frame")
			continue
		}
		switch p := payload.(type) {
		case *frame.ImageData:
			pipeline.HandleImageData(p)
		case *frame.ImagePacket:
			pipeline.HandleImagePacket(p)
		case *frame.ImageNotInDatabase:
			pipeline.HandleImageNotInDatabase(p)
		}
	}
}

func reportConnStats(c *transport.DiagConn, state int) {
	logrus.Infof("%s: txBytes=%d rxBytes=%d", transport.StateMap[state], c.TxBytes, c.RxBytes)
}
