package frame

import (
	"bytes"
	"testing"

	"github.com/runZeroInc/lludp/pkg/wire"
)

func TestImageDataRoundTrip(t *testing.T) {
	id := wire.AssetId{1, 2, 3}
	in := &ImageData{
		TextureID: id,
		Codec:     ImageCodecJ2C,
		Size:      1500,
		Packets:   2,
		Data:      []byte("header-chunk"),
	}
	got, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, ok := got.(*ImageData)
	if !ok {
		t.Fatalf("wrong type %T", got)
	}
	if out.TextureID != in.TextureID || out.Codec != in.Codec || out.Size != in.Size ||
		out.Packets != in.Packets || !bytes.Equal(out.Data, in.Data) {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestImagePacketRoundTrip(t *testing.T) {
	in := &ImagePacket{TextureID: wire.AssetId{9}, Packet: 3, Data: []byte("body-bytes")}
	got, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := got.(*ImagePacket)
	if out.Packet != in.Packet || !bytes.Equal(out.Data, in.Data) {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestRequestImageCancelEscape(t *testing.T) {
	in := NewCancelRequestImage(wire.AssetId{1}, ImageKindNormal)
	if in.DiscardLevel != -1 || in.DownloadPriority != 0.0 {
		t.Fatalf("cancel escape not encoded: %+v", in)
	}
	got, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := got.(*RequestImage)
	if out.DiscardLevel != -1 || out.DownloadPriority != 0.0 {
		t.Fatalf("round trip lost cancel escape: %+v", out)
	}
}

func TestObjectUpdateCompressedBlocksRoundTrip(t *testing.T) {
	in := &ObjectUpdateCompressed{
		RegionHandle: 0x1122334455667788,
		TimeDilation: 0xBEEF,
		Blocks:       [][]byte{[]byte("block-one"), []byte("block-two-longer")},
	}
	got, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := got.(*ObjectUpdateCompressed)
	if out.RegionHandle != in.RegionHandle || out.TimeDilation != in.TimeDilation || len(out.Blocks) != len(in.Blocks) {
		t.Fatalf("header mismatch: got %+v want %+v", out, in)
	}
	for i := range in.Blocks {
		if !bytes.Equal(out.Blocks[i], in.Blocks[i]) {
			t.Fatalf("block %d mismatch: got %x want %x", i, out.Blocks[i], in.Blocks[i])
		}
	}
}

func TestDecodeUnknownMessageNumber(t *testing.T) {
	_, err := Decode(Frame{Number: MessageNumber(0xFFFF), Payload: nil})
	if err == nil {
		t.Fatal("expected error for unknown message number")
	}
}

func TestDecodeTruncatedPayloadIsMalformed(t *testing.T) {
	f := Encode(&ImageData{TextureID: wire.AssetId{1}, Data: []byte("xx")})
	f.Payload = f.Payload[:len(f.Payload)-1]
	_, err := Decode(f)
	if err == nil {
		t.Fatal("expected Malformed for truncated payload")
	}
	if _, ok := err.(*Malformed); !ok {
		t.Fatalf("expected *Malformed, got %T", err)
	}
}
