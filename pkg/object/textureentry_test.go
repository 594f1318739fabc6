package object

import (
	"bytes"
	"testing"

	"github.com/runZeroInc/lludp/pkg/wire"
)

func TestTextureEntryDefaultOnlyRoundTrip(t *testing.T) {
	te := TextureEntry{
		DefaultTextureID: wire.AssetId{1, 2, 3},
		DefaultColor:     [4]byte{255, 255, 255, 255},
		DefaultRepeatU:   1.0,
		DefaultRepeatV:   1.0,
	}
	encoded := EncodeTextureEntry(te)
	out, err := DecodeTextureEntry(wire.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	reencoded := EncodeTextureEntry(out)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip not bit-exact")
	}
}

// TestTextureEntryMultiByteFaceMask exercises Design Notes §9's explicit
// requirement: a face mask reaching face 20, which at 7 mask bits per byte
// takes three mask bytes, the first two carrying the continuation bit.
func TestTextureEntryMultiByteFaceMask(t *testing.T) {
	te := TextureEntry{
		DefaultTextureID: wire.AssetId{1},
		DefaultColor:     [4]byte{0, 0, 0, 255},
		TextureIDOverrides: []TextureIDOverride{
			{Mask: 1<<20 | 1<<3, Value: wire.AssetId{9, 9}},
		},
	}
	encoded := EncodeTextureEntry(te)
	out, err := DecodeTextureEntry(wire.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.TextureIDOverrides) != 1 || out.TextureIDOverrides[0].Mask != (1<<20|1<<3) {
		t.Fatalf("mask round trip failed: %+v", out.TextureIDOverrides)
	}
	if out.FaceTextureID(3) != (wire.AssetId{9, 9}) {
		t.Fatalf("expected face 3 override to apply")
	}
	if out.FaceTextureID(4) != te.DefaultTextureID {
		t.Fatalf("expected face 4 to use default")
	}
	reencoded := EncodeTextureEntry(out)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip not bit-exact for multi-byte mask")
	}
}

func TestTextureEntryAllAttributeChainsRoundTrip(t *testing.T) {
	te := TextureEntry{
		DefaultTextureID:   wire.AssetId{1},
		DefaultColor:       [4]byte{1, 2, 3, 4},
		DefaultRepeatU:     2.0,
		DefaultRepeatV:     3.0,
		DefaultOffsetU:     -0.5,
		DefaultOffsetV:     0.5,
		DefaultRotation:    1.57,
		DefaultMaterial:    2,
		DefaultMedia:       1,
		DefaultGlow:        0.3,
		DefaultMaterialsID: wire.AssetId{2},
		TextureIDOverrides: []TextureIDOverride{{Mask: 0x01, Value: wire.AssetId{3}}},
		ColorOverrides:     []ColorOverride{{Mask: 0x02, Value: [4]byte{9, 9, 9, 9}}},
		RepeatUOverrides:   []FloatOverride{{Mask: 0x04, Value: 5.0}},
		RotationOverrides:  []FloatOverride{{Mask: 0x08, Value: 0.1}},
		MaterialOverrides:  []ByteOverride{{Mask: 0x10, Value: 7}},
	}
	encoded := EncodeTextureEntry(te)
	out, err := DecodeTextureEntry(wire.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	reencoded := EncodeTextureEntry(out)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip not bit-exact:\n first=% x\nsecond=% x", encoded, reencoded)
	}
}
