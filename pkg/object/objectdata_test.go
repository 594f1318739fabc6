package object

import (
	"bytes"
	"testing"

	"github.com/runZeroInc/lludp/pkg/wire"
)

func TestObjectDataTreeSpecies(t *testing.T) {
	d, err := DecodeObjectData([]byte{42})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Kind != ObjectDataTreeSpecies || d.TreeSpecies != 42 {
		t.Fatalf("unexpected decode: %+v", d)
	}
	if !bytes.Equal(EncodeObjectData(d), []byte{42}) {
		t.Fatalf("round trip mismatch")
	}
}

func TestObjectData60ByteRoundTrip(t *testing.T) {
	in := FullObjectData{
		Kind:            ObjectDataFull,
		Position:        wire.Vec3{1, 2, 3},
		Velocity:        wire.Vec3{4, 5, 6},
		Acceleration:    wire.Vec3{7, 8, 9},
		Rotation:        wire.Quat{0, 0, 0, 1},
		AngularVelocity: wire.Vec3{0, 0, 0},
	}
	encoded := EncodeObjectData(in)
	if len(encoded) != 60 {
		t.Fatalf("expected 60 bytes, got %d", len(encoded))
	}
	out, err := DecodeObjectData(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Kind != ObjectDataFull || out.Position != in.Position {
		t.Fatalf("mismatch: %+v", out)
	}
}

func TestObjectData76ByteRoundTrip(t *testing.T) {
	in := FullObjectData{
		Kind:           ObjectDataFullWithCollisionPlane,
		CollisionPlane: wire.Vec4{0, 0, 1, -1},
		Position:       wire.Vec3{1, 2, 3},
		Rotation:       wire.Quat{0, 0, 0, 1},
	}
	encoded := EncodeObjectData(in)
	if len(encoded) != 76 {
		t.Fatalf("expected 76 bytes, got %d", len(encoded))
	}
	out, err := DecodeObjectData(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Kind != ObjectDataFullWithCollisionPlane || out.CollisionPlane != in.CollisionPlane {
		t.Fatalf("mismatch: %+v", out)
	}
}

func TestObjectDataUnknownLengthIsNotAnError(t *testing.T) {
	weird := []byte{1, 2, 3, 4, 5}
	d, err := DecodeObjectData(weird)
	if err != nil {
		t.Fatalf("unexpected error for unrecognized length: %v", err)
	}
	if d.Kind != ObjectDataUnknown || !bytes.Equal(d.Raw, weird) {
		t.Fatalf("expected opaque passthrough, got %+v", d)
	}
}
