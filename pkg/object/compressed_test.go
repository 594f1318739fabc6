package object

import (
	"bytes"
	"testing"

	"github.com/runZeroInc/lludp/pkg/wire"
)

func minimalSnapshot() ObjectSnapshot {
	return ObjectSnapshot{
		LocalID:     42,
		FullID:      wire.AssetId{1, 2, 3, 4},
		PCode:       namePCode(9),
		State:       0,
		CRC:         0xAABBCCDD,
		Material:    nameMaterial(1),
		ClickAction: nameClickAction(0),
		Scale:       wire.Vec3{1, 1, 1},
		Position:    wire.Vec3{128, 128, 25},
		Rotation:    wire.Quat{0, 0, 0, 1},
		Extra:       &ExtraParams{},
		TextureEntry: &TextureEntry{
			DefaultTextureID: wire.AssetId{9, 9, 9},
			DefaultColor:     [4]byte{255, 255, 255, 255},
		},
	}
}

func TestCompressedUpdateRoundTrip(t *testing.T) {
	in := minimalSnapshot()
	encoded := EncodeCompressedUpdate(in)
	out, err := DecodeCompressedUpdate(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	reencoded := EncodeCompressedUpdate(out)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip not bit-exact:\n  first=% x\n second=% x", encoded, reencoded)
	}
	if out.LocalID != in.LocalID || out.FullID != in.FullID || out.CRC != in.CRC {
		t.Fatalf("decoded snapshot mismatch: %+v", out)
	}
}

// TestScenarioF mirrors §8 Scenario F: a compressed update with
// HasText|HasParent|TextureAnimation decodes with those optional fields
// populated and angular velocity, media URL, particles and sound absent,
// and re-encodes to identical bytes.
func TestScenarioF(t *testing.T) {
	in := minimalSnapshot()
	parent := uint32(77)
	in.ParentID = &parent
	in.FloatingText = &FloatingText{Text: "hello", Color: [4]byte{255, 0, 0, 255}}
	in.TextureAnimation = &TextureAnimation{Raw: []byte{1, 2, 3, 4}}

	encoded := EncodeCompressedUpdate(in)
	out, err := DecodeCompressedUpdate(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if out.ParentID == nil || *out.ParentID != 77 {
		t.Fatalf("expected ParentID=77, got %+v", out.ParentID)
	}
	if out.FloatingText == nil || out.FloatingText.Text != "hello" {
		t.Fatalf("expected floating text, got %+v", out.FloatingText)
	}
	if out.TextureAnimation == nil || !bytes.Equal(out.TextureAnimation.Raw, []byte{1, 2, 3, 4}) {
		t.Fatalf("expected texture animation bytes, got %+v", out.TextureAnimation)
	}
	if out.AngularVelocity != nil {
		t.Fatalf("expected no angular velocity, got %+v", out.AngularVelocity)
	}
	if out.MediaURL != nil {
		t.Fatalf("expected no media url, got %+v", out.MediaURL)
	}
	if out.Particles != nil {
		t.Fatalf("expected no particles, got %+v", out.Particles)
	}
	if out.SoundInfo != nil {
		t.Fatalf("expected no sound, got %+v", out.SoundInfo)
	}

	reencoded := EncodeCompressedUpdate(out)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("scenario F round trip not bit-exact")
	}
}

func TestScratchPadAndTreeAreMutuallyExclusive(t *testing.T) {
	in := minimalSnapshot()
	in.ScratchPad = []byte{0xDE, 0xAD, 0xBE, 0xEF}

	encoded := EncodeCompressedUpdate(in)
	out, err := DecodeCompressedUpdate(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TreeSpecies != nil {
		t.Fatalf("expected no tree species when scratchpad present, got %+v", out.TreeSpecies)
	}
	if !bytes.Equal(out.ScratchPad, in.ScratchPad) {
		t.Fatalf("scratchpad mismatch: got % x want % x", out.ScratchPad, in.ScratchPad)
	}
}

func TestCompressedUpdateRejectsTruncatedBuffer(t *testing.T) {
	in := minimalSnapshot()
	encoded := EncodeCompressedUpdate(in)
	_, err := DecodeCompressedUpdate(encoded[:10])
	if err == nil {
		t.Fatal("expected error decoding truncated compressed update")
	}
}
