// Package cachestore implements texture.CacheStore against a local
// lz4-compressed flat-file store indexed by buntdb.
package cachestore

import (
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/karrick/godirwalk"
	"github.com/pierrec/lz4/v3"
	"github.com/tidwall/buntdb"
	"golang.org/x/crypto/blake2b"

	"github.com/runZeroInc/lludp/internal/platform"
	"github.com/runZeroInc/lludp/pkg/wire"
)

const indexFileName = "index.db"

// LocalStore is an on-disk texture.CacheStore: bytes are lz4-compressed
// into a two-level directory layout keyed by asset id, a buntdb index holds
// each entry's blake2b-256 content hash, and a godirwalk scan rebuilds the
// index from the directory tree if it is ever missing (fresh directory, or
// the index file was lost independently of the data files it describes).
type LocalStore struct {
	dir string
	db  *buntdb.DB

	mu sync.Mutex
}

// NewLocalStore opens (creating if necessary) a LocalStore rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := buntdb.Open(filepath.Join(dir, indexFileName))
	if err != nil {
		return nil, err
	}
	s := &LocalStore{dir: dir, db: db}
	if err := s.rebuildIfEmpty(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// rebuildIfEmpty repopulates the buntdb index from the files actually on
// disk when the index holds nothing, so a lost or corrupted index.db
// doesn't strand an otherwise-intact cache directory.
func (s *LocalStore) rebuildIfEmpty() error {
	empty := true
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("", func(_, _ string) bool {
			empty = false
			return false
		})
	})
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	return godirwalk.Walk(s.dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() || filepath.Base(path) == indexFileName {
				return nil
			}
			id, ok := assetIDFromPath(path)
			if !ok {
				return nil
			}
			return s.recordHashFromDisk(id, path)
		},
	})
}

func (s *LocalStore) recordHashFromDisk(id wire.AssetId, path string) error {
	data, err := s.readCompressed(path)
	if err != nil {
		return err
	}
	sum := blake2b.Sum256(data)
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(idKey(id), hex.EncodeToString(sum[:]), nil)
		return err
	})
}

func idKey(id wire.AssetId) string { return hex.EncodeToString(id[:]) }

func assetIDFromPath(path string) (wire.AssetId, bool) {
	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]
	raw, err := hex.DecodeString(name)
	if err != nil || len(raw) != len(wire.AssetId{}) {
		return wire.AssetId{}, false
	}
	var id wire.AssetId
	copy(id[:], raw)
	return id, true
}

func (s *LocalStore) pathFor(id wire.AssetId) string {
	hexID := idKey(id)
	return filepath.Join(s.dir, hexID[:2], hexID+".lz4")
}

func (s *LocalStore) Has(id wire.AssetId) bool {
	var found bool
	s.db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get(idKey(id))
		found = err == nil
		return nil
	})
	return found
}

func (s *LocalStore) Get(id wire.AssetId) ([]byte, bool) {
	var wantHash string
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(idKey(id))
		wantHash = v
		return err
	})
	if err != nil {
		return nil, false
	}

	data, err := s.readCompressed(s.pathFor(id))
	if err != nil {
		return nil, false
	}
	sum := blake2b.Sum256(data)
	if hex.EncodeToString(sum[:]) != wantHash {
		return nil, false
	}
	return data, true
}

func (s *LocalStore) readCompressed(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(lz4.NewReader(f))
}

func (s *LocalStore) Put(id wire.AssetId, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(id)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	zw := lz4.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	// Land the compressed file atomically. Two writers racing on the same
	// asset id write identical bytes (content-addressed by id), so a
	// RENAME_NOREPLACE failure here just means another Put already won;
	// the losing temp file is discarded either way.
	if platform.SupportsRenameNoReplace {
		if err := renameNoReplace(tmp, path); err != nil {
			os.Remove(tmp)
			if !errors.Is(err, fs.ErrExist) {
				return err
			}
		}
	} else {
		if err := os.Rename(tmp, path); err != nil {
			os.Remove(tmp)
			return err
		}
	}

	sum := blake2b.Sum256(data)
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(idKey(id), hex.EncodeToString(sum[:]), nil)
		return err
	})
}

// Close releases the underlying buntdb handle.
func (s *LocalStore) Close() error { return s.db.Close() }
