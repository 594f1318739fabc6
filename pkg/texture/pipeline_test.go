package texture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/runZeroInc/lludp/pkg/frame"
	"github.com/runZeroInc/lludp/pkg/wire"
)

type memCache struct {
	mu   sync.Mutex
	data map[wire.AssetId][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[wire.AssetId][]byte)} }

func (m *memCache) Has(id wire.AssetId) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[id]
	return ok
}

func (m *memCache) Get(id wire.AssetId) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[id]
	return v, ok
}

func (m *memCache) Put(id wire.AssetId, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = data
	return nil
}

type recordingSender struct {
	mu    sync.Mutex
	sent  []frame.Frame
	onMsg func(f frame.Frame)
}

func (s *recordingSender) Send(f frame.Frame) error {
	s.mu.Lock()
	s.sent = append(s.sent, f)
	cb := s.onMsg
	s.mu.Unlock()
	if cb != nil {
		cb(f)
	}
	return nil
}

func TestPipelineSinglePacketTransferCompletes(t *testing.T) {
	cache := newMemCache()
	assetID := wire.AssetId{1, 2, 3}
	var pipeline *Pipeline

	sender := &recordingSender{}
	pipeline = NewPipeline(cache, sender, WithMaxConcurrent(2))

	sender.onMsg = func(f frame.Frame) {
		if f.Number != frame.MsgRequestImage {
			return
		}
		body := []byte("hello texture")
		pipeline.HandleImageData(&frame.ImageData{
			TextureID: assetID,
			Codec:     frame.ImageCodecJ2C,
			Size:      uint32(len(body)),
			Packets:   1,
			Data:      body,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pipeline.Run(ctx)

	done := make(chan Result, 1)
	pipeline.RequestTexture(assetID, frame.ImageKindNormal, 1.0, -1, false, func(r Result) {
		if r.State.Terminal() {
			done <- r
		}
	})

	select {
	case r := <-done:
		if r.State != StateFinished {
			t.Fatalf("expected StateFinished, got %v", r.State)
		}
		if string(r.Data) != "hello texture" {
			t.Fatalf("unexpected data: %q", r.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for texture transfer to complete")
	}

	if !cache.Has(assetID) {
		t.Fatal("expected completed transfer to be persisted to cache")
	}
	if pipeline.InFlightCount() != 0 {
		t.Fatalf("expected registry to be empty after completion, got %d", pipeline.InFlightCount())
	}
}

func TestPipelineCacheHitShortCircuitsSynchronously(t *testing.T) {
	cache := newMemCache()
	assetID := wire.AssetId{9, 9}
	cache.Put(assetID, []byte("cached bytes"))

	sender := &recordingSender{}
	pipeline := NewPipeline(cache, sender, WithMaxConcurrent(1))

	var got Result
	pipeline.RequestTexture(assetID, frame.ImageKindNormal, 1.0, -1, false, func(r Result) {
		got = r
	})

	if got.State != StateFinished {
		t.Fatalf("expected synchronous StateFinished, got %v", got.State)
	}
	if len(sender.sent) != 0 {
		t.Fatal("expected no outbound RequestImage frame on a cache hit")
	}
	if pipeline.InFlightCount() != 0 {
		t.Fatal("expected cache hit to never touch the registry")
	}
}

func TestPipelineAbortFinalizesAsAborted(t *testing.T) {
	cache := newMemCache()
	assetID := wire.AssetId{5}
	sender := &recordingSender{}
	pipeline := NewPipeline(cache, sender, WithMaxConcurrent(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pipeline.Run(ctx)

	done := make(chan Result, 1)
	pipeline.RequestTexture(assetID, frame.ImageKindNormal, 1.0, -1, false, func(r Result) {
		if r.State.Terminal() {
			done <- r
		}
	})
	pipeline.AbortTexture(assetID)

	select {
	case r := <-done:
		if r.State != StateAborted {
			t.Fatalf("expected StateAborted, got %v", r.State)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for abort to finalize")
	}
}
