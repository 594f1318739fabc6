package texture

import (
	"sync"

	cuckoo "github.com/seiflotfy/cuckoofilter"
	"github.com/runZeroInc/lludp/pkg/wire"
)

// CacheStore is the asset cache collaborator (§6 "Downward (to asset
// cache)"): two operations plus a write, all synchronous from the
// pipeline's perspective and expected to complete quickly. Concrete
// backends live in pkg/texture/cachestore.
type CacheStore interface {
	Has(id wire.AssetId) bool
	Get(id wire.AssetId) ([]byte, bool)
	Put(id wire.AssetId, data []byte) error
}

// negativeCache gates cache Has()/Get() lookups with a cuckoo filter of
// asset ids known NOT to be present, so a pipeline fielding many requests
// for assets the cache has already told it "no" about doesn't repeat an
// expensive backend lookup (disk stat, S3 HeadObject, ...) for each one.
// A filter hit is reported as absent without asking the store, so a filter
// false positive, or an asset written to the store other than through this
// wrapper's Put, reads as a cache miss.
type negativeCache struct {
	mu     sync.Mutex
	filter *cuckoo.Filter
}

func newNegativeCache(capacity uint) *negativeCache {
	return &negativeCache{filter: cuckoo.NewFilter(capacity)}
}

func (n *negativeCache) MightBeAbsent(id wire.AssetId) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.filter.Lookup(id[:])
}

func (n *negativeCache) MarkAbsent(id wire.AssetId) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.filter.InsertUnique(id[:])
}

func (n *negativeCache) MarkPresent(id wire.AssetId) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.filter.Delete(id[:])
}

// gatedCache wraps a CacheStore with the negative-cache short-circuit.
type gatedCache struct {
	store CacheStore
	neg   *negativeCache
}

func newGatedCache(store CacheStore, capacity uint) *gatedCache {
	return &gatedCache{store: store, neg: newNegativeCache(capacity)}
}

func (g *gatedCache) Has(id wire.AssetId) bool {
	if g.neg.MightBeAbsent(id) {
		return false
	}
	ok := g.store.Has(id)
	if !ok {
		g.neg.MarkAbsent(id)
	}
	return ok
}

func (g *gatedCache) Get(id wire.AssetId) ([]byte, bool) {
	if g.neg.MightBeAbsent(id) {
		return nil, false
	}
	data, ok := g.store.Get(id)
	if !ok {
		g.neg.MarkAbsent(id)
	}
	return data, ok
}

func (g *gatedCache) Put(id wire.AssetId, data []byte) error {
	err := g.store.Put(id, data)
	if err == nil {
		g.neg.MarkPresent(id)
	}
	return err
}
