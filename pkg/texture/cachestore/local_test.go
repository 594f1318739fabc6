package cachestore

import (
	"os"
	"testing"

	"github.com/runZeroInc/lludp/pkg/wire"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "cachestore-local-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	id := wire.AssetId{0xaa, 0xbb, 0xcc}
	if store.Has(id) {
		t.Fatal("expected fresh store to not have the asset")
	}

	want := []byte("texture bytes, compressed on disk")
	if err := store.Put(id, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !store.Has(id) {
		t.Fatal("expected Has to report true after Put")
	}
	got, ok := store.Get(id)
	if !ok {
		t.Fatal("expected Get to succeed after Put")
	}
	if string(got) != string(want) {
		t.Fatalf("round-tripped bytes differ: got %q want %q", got, want)
	}
}

func TestLocalStoreRebuildsIndexFromDisk(t *testing.T) {
	dir, err := os.MkdirTemp("", "cachestore-local-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	id := wire.AssetId{1, 2, 3, 4}
	if err := store.Put(id, []byte("payload")); err != nil {
		t.Fatal(err)
	}
	store.Close()

	if err := os.Remove(dir + "/" + indexFileName); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewLocalStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if !reopened.Has(id) {
		t.Fatal("expected rebuilt index to recognize the asset already on disk")
	}
}
