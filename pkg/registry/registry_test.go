package registry

import (
	"sync"
	"testing"

	"github.com/runZeroInc/lludp/pkg/wire"
)

type entry struct {
	calls int
}

func TestGetOrInsertCoalescesConcurrentCallers(t *testing.T) {
	r := New[entry]()
	id := wire.AssetId{1}

	const n = 64
	var wg sync.WaitGroup
	results := make([]*entry, n)
	inserted := make([]bool, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			v, ins := r.GetOrInsert(id, func() *entry { return &entry{} })
			results[i] = v
			inserted[i] = ins
		}()
	}
	wg.Wait()

	insertedCount := 0
	for i := 0; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("expected all callers to observe the same entry (I1: at most one TextureRequest per asset_id)")
		}
		if inserted[i] {
			insertedCount++
		}
	}
	if insertedCount != 1 {
		t.Fatalf("expected exactly one inserter, got %d", insertedCount)
	}
	if r.Len() != 1 {
		t.Fatalf("expected registry to contain exactly one entry, got %d", r.Len())
	}
}

func TestTryRemoveIsIdempotent(t *testing.T) {
	r := New[entry]()
	id := wire.AssetId{2}
	r.GetOrInsert(id, func() *entry { return &entry{} })

	v, ok := r.TryRemove(id)
	if !ok || v == nil {
		t.Fatal("expected first remove to succeed")
	}
	if _, ok := r.TryRemove(id); ok {
		t.Fatal("expected second remove to be a no-op")
	}
}

func TestWithValueUnknownIDIsNoOp(t *testing.T) {
	r := New[entry]()
	called := false
	ok := r.WithValue(wire.AssetId{9}, func(v *entry) { called = true })
	if ok || called {
		t.Fatal("expected WithValue on unknown id to be a no-op")
	}
}

func TestSnapshotIsPointInTime(t *testing.T) {
	r := New[entry]()
	for i := 0; i < 8; i++ {
		id := wire.AssetId{byte(i)}
		r.GetOrInsert(id, func() *entry { return &entry{} })
	}
	snap := r.Snapshot()
	if len(snap) != 8 {
		t.Fatalf("expected 8 entries, got %d", len(snap))
	}
	r.TryRemove(wire.AssetId{0})
	if len(snap) != 8 {
		t.Fatalf("snapshot mutated after registry change")
	}
}

func TestDistinctKeysConcurrentInsertsAllLand(t *testing.T) {
	r := New[entry]()
	const n = 256
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		id := wire.AssetId{byte(i), byte(i >> 8)}
		go func(id wire.AssetId) {
			defer wg.Done()
			r.GetOrInsert(id, func() *entry { return &entry{} })
		}(id)
	}
	wg.Wait()
	if r.Len() != n {
		t.Fatalf("expected %d entries, got %d", n, r.Len())
	}
}
