package object

import (
	"bytes"
	"testing"

	"github.com/runZeroInc/lludp/pkg/wire"
)

func TestTerseUpdateRoundTrip(t *testing.T) {
	in := TerseUpdate{
		LocalID:         7,
		State:           1,
		IsAvatar:        false,
		Position:        wire.Vec3{1, 2, 3},
		Velocity:        wire.Vec3{10, -10, 0},
		Acceleration:    wire.Vec3{1, 1, 1},
		Rotation:        wire.Quat{0, 0, 0, 1},
		AngularVelocity: wire.Vec3{0, 0, 0},
	}
	encoded := EncodeTerseUpdate(in)
	out, err := DecodeTerseUpdate(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.LocalID != in.LocalID || out.State != in.State || out.IsAvatar != in.IsAvatar {
		t.Fatalf("header mismatch: %+v", out)
	}
	reencoded := EncodeTerseUpdate(out)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip not bit-exact")
	}
}

func TestTerseUpdateAvatarCollisionPlane(t *testing.T) {
	plane := wire.Vec4{0, 0, 1, -5}
	in := TerseUpdate{
		LocalID:        9,
		IsAvatar:       true,
		CollisionPlane: &plane,
		Position:       wire.Vec3{1, 1, 1},
	}
	encoded := EncodeTerseUpdate(in)
	out, err := DecodeTerseUpdate(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.CollisionPlane == nil || *out.CollisionPlane != plane {
		t.Fatalf("expected collision plane %+v, got %+v", plane, out.CollisionPlane)
	}
}

func TestTerseUpdateRejectsShortBuffer(t *testing.T) {
	_, err := DecodeTerseUpdate([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for short terse update")
	}
}
