package frame

import "github.com/runZeroInc/lludp/pkg/wire"

// MessageNumber identifies a payload's fixed schema for the dispatch table
// in decode.go. Values are this implementation's own assignment, not a
// transcription of any particular grid's numeric message IDs: nothing
// downstream depends on the literal value beyond looking itself up again in
// the dispatch table.
type MessageNumber uint32

const (
	MsgRequestImage MessageNumber = iota + 1
	MsgImageData
	MsgImagePacket
	MsgImageNotInDatabase
	MsgObjectUpdate
	MsgObjectUpdateCompressed
	MsgImprovedTerseObjectUpdate
	MsgKillObject
)

// Payload is a typed, framed message body: a fixed schema of blocks with a
// fixed schema of fields per block (§4.2). Each concrete type owns its own
// wire layout; the dispatch table in decode.go maps a MessageNumber to a Go
// type for decoding, and each type's MessageNumber method gives the number
// it encodes under.
type Payload interface {
	MessageNumber() MessageNumber
	Marshal() []byte
	Unmarshal(r *wire.Reader) error
}

// ImageCodec names the compression format of a texture asset's bytes.
type ImageCodec uint8

const (
	ImageCodecInvalid ImageCodec = 0
	ImageCodecJ2C     ImageCodec = 1
	ImageCodecTGA     ImageCodec = 2
	ImageCodecRGBA    ImageCodec = 3
	ImageCodecJPEG    ImageCodec = 4
	ImageCodecDXT     ImageCodec = 5
)

// ImageData is the header packet for a multi-packet texture transfer: it
// carries the asset's total size, packet count and codec, plus the first
// chunk of image bytes (§4.4 "HeaderPacket").
type ImageData struct {
	TextureID  wire.AssetId
	Codec      ImageCodec
	Size       uint32
	Packets    uint16
	Data       []byte
}

func (p *ImageData) MessageNumber() MessageNumber { return MsgImageData }

func (p *ImageData) Marshal() []byte {
	w := wire.NewWriter(16 + 1 + 4 + 2 + 2 + len(p.Data))
	w.PutAssetId(p.TextureID)
	w.PutU8(uint8(p.Codec))
	w.PutU32(p.Size)
	w.PutU16(p.Packets)
	w.PutU16(uint16(len(p.Data)))
	w.PutBytes(p.Data)
	return w.Bytes()
}

func (p *ImageData) Unmarshal(r *wire.Reader) error {
	id, err := r.ReadAssetId("ImageData.TextureID")
	if err != nil {
		return err
	}
	codec, err := r.U8("ImageData.Codec")
	if err != nil {
		return err
	}
	size, err := r.U32("ImageData.Size")
	if err != nil {
		return err
	}
	packets, err := r.U16("ImageData.Packets")
	if err != nil {
		return err
	}
	n, err := r.U16("ImageData.DataLength")
	if err != nil {
		return err
	}
	data, err := r.CopyBytes("ImageData.Data", int(n))
	if err != nil {
		return err
	}
	p.TextureID = id
	p.Codec = ImageCodec(codec)
	p.Size = size
	p.Packets = packets
	p.Data = data
	return nil
}

// ImagePacket is a body packet in a multi-packet texture transfer (§4.4
// "BodyPacket"). Packet is 1-indexed; packet 0 is the ImageData header.
type ImagePacket struct {
	TextureID wire.AssetId
	Packet    uint16
	Data      []byte
}

func (p *ImagePacket) MessageNumber() MessageNumber { return MsgImagePacket }

func (p *ImagePacket) Marshal() []byte {
	w := wire.NewWriter(16 + 2 + 2 + len(p.Data))
	w.PutAssetId(p.TextureID)
	w.PutU16(p.Packet)
	w.PutU16(uint16(len(p.Data)))
	w.PutBytes(p.Data)
	return w.Bytes()
}

func (p *ImagePacket) Unmarshal(r *wire.Reader) error {
	id, err := r.ReadAssetId("ImagePacket.TextureID")
	if err != nil {
		return err
	}
	idx, err := r.U16("ImagePacket.Packet")
	if err != nil {
		return err
	}
	n, err := r.U16("ImagePacket.DataLength")
	if err != nil {
		return err
	}
	data, err := r.CopyBytes("ImagePacket.Data", int(n))
	if err != nil {
		return err
	}
	p.TextureID = id
	p.Packet = idx
	p.Data = data
	return nil
}

// ImageNotInDatabase is the server's terminal "no such asset" reply (§4.4
// "NotFound").
type ImageNotInDatabase struct {
	TextureID wire.AssetId
}

func (p *ImageNotInDatabase) MessageNumber() MessageNumber { return MsgImageNotInDatabase }

func (p *ImageNotInDatabase) Marshal() []byte {
	w := wire.NewWriter(16)
	w.PutAssetId(p.TextureID)
	return w.Bytes()
}

func (p *ImageNotInDatabase) Unmarshal(r *wire.Reader) error {
	id, err := r.ReadAssetId("ImageNotInDatabase.TextureID")
	if err != nil {
		return err
	}
	p.TextureID = id
	return nil
}

// ImageKind distinguishes ordinary inventory textures from server-baked
// avatar composites (§3 TextureRequest.image_kind).
type ImageKind uint8

const (
	ImageKindNormal ImageKind = iota
	ImageKindBaked
	ImageKindServerBaked
)

// RequestImage is the outbound request a texture worker emits to ask the
// simulator for (more of) an asset (§4.4). DiscardLevel -1 together with
// Priority 0 is the wire's cancel escape (§4.4 "Cancellation").
type RequestImage struct {
	TextureID     wire.AssetId
	Kind          ImageKind
	DiscardLevel  int8
	DownloadPriority float32
	Packet        uint32
}

func (p *RequestImage) MessageNumber() MessageNumber { return MsgRequestImage }

func (p *RequestImage) Marshal() []byte {
	w := wire.NewWriter(16 + 1 + 1 + 4 + 4)
	w.PutAssetId(p.TextureID)
	w.PutU8(uint8(p.Kind))
	w.PutI8(p.DiscardLevel)
	w.PutF32(p.DownloadPriority)
	w.PutU32(p.Packet)
	return w.Bytes()
}

func (p *RequestImage) Unmarshal(r *wire.Reader) error {
	id, err := r.ReadAssetId("RequestImage.TextureID")
	if err != nil {
		return err
	}
	kind, err := r.U8("RequestImage.Kind")
	if err != nil {
		return err
	}
	discard, err := r.I8("RequestImage.DiscardLevel")
	if err != nil {
		return err
	}
	prio, err := r.F32("RequestImage.DownloadPriority")
	if err != nil {
		return err
	}
	packet, err := r.U32("RequestImage.Packet")
	if err != nil {
		return err
	}
	p.TextureID = id
	p.Kind = ImageKind(kind)
	p.DiscardLevel = discard
	p.DownloadPriority = prio
	p.Packet = packet
	return nil
}

// KillObject notifies a subscriber that a previously-updated object no
// longer exists (§6 "explicit kill_object(local_id) notifications").
type KillObject struct {
	LocalID uint32
}

func (p *KillObject) MessageNumber() MessageNumber { return MsgKillObject }

func (p *KillObject) Marshal() []byte {
	w := wire.NewWriter(4)
	w.PutU32(p.LocalID)
	return w.Bytes()
}

func (p *KillObject) Unmarshal(r *wire.Reader) error {
	id, err := r.U32("KillObject.LocalID")
	if err != nil {
		return err
	}
	p.LocalID = id
	return nil
}

// ObjectUpdateCompressed carries one or more raw compressed object-update
// blocks (§4.3.1); each block's bytes are handed to pkg/object for
// decoding, not parsed here (§9 "the bit-level decoding rules live in C3;
// the top-level packet codec is a simple dispatch table").
type ObjectUpdateCompressed struct {
	RegionHandle uint64
	TimeDilation uint16
	Blocks       [][]byte
}

func (p *ObjectUpdateCompressed) MessageNumber() MessageNumber { return MsgObjectUpdateCompressed }

func (p *ObjectUpdateCompressed) Marshal() []byte {
	w := wire.NewWriter(8 + 2 + 1)
	w.PutU64(p.RegionHandle)
	w.PutU16(p.TimeDilation)
	w.PutU8(uint8(len(p.Blocks)))
	for _, b := range p.Blocks {
		w.PutU32(uint32(len(b)))
		w.PutBytes(b)
	}
	return w.Bytes()
}

func (p *ObjectUpdateCompressed) Unmarshal(r *wire.Reader) error {
	handle, err := r.U64("ObjectUpdateCompressed.RegionHandle")
	if err != nil {
		return err
	}
	dilation, err := r.U16("ObjectUpdateCompressed.TimeDilation")
	if err != nil {
		return err
	}
	count, err := r.U8("ObjectUpdateCompressed.BlockCount")
	if err != nil {
		return err
	}
	blocks := make([][]byte, 0, count)
	for i := 0; i < int(count); i++ {
		n, err := r.U32("ObjectUpdateCompressed.Block.Length")
		if err != nil {
			return err
		}
		b, err := r.CopyBytes("ObjectUpdateCompressed.Block.Data", int(n))
		if err != nil {
			return err
		}
		blocks = append(blocks, b)
	}
	p.RegionHandle = handle
	p.TimeDilation = dilation
	p.Blocks = blocks
	return nil
}

// ImprovedTerseObjectUpdate carries one or more raw terse object-update
// blocks (§4.3.2); parsed in pkg/object.
type ImprovedTerseObjectUpdate struct {
	RegionHandle uint64
	TimeDilation uint16
	Blocks       [][]byte
}

func (p *ImprovedTerseObjectUpdate) MessageNumber() MessageNumber {
	return MsgImprovedTerseObjectUpdate
}

func (p *ImprovedTerseObjectUpdate) Marshal() []byte {
	w := wire.NewWriter(8 + 2 + 1)
	w.PutU64(p.RegionHandle)
	w.PutU16(p.TimeDilation)
	w.PutU8(uint8(len(p.Blocks)))
	for _, b := range p.Blocks {
		w.PutU16(uint16(len(b)))
		w.PutBytes(b)
	}
	return w.Bytes()
}

func (p *ImprovedTerseObjectUpdate) Unmarshal(r *wire.Reader) error {
	handle, err := r.U64("ImprovedTerseObjectUpdate.RegionHandle")
	if err != nil {
		return err
	}
	dilation, err := r.U16("ImprovedTerseObjectUpdate.TimeDilation")
	if err != nil {
		return err
	}
	count, err := r.U8("ImprovedTerseObjectUpdate.BlockCount")
	if err != nil {
		return err
	}
	blocks := make([][]byte, 0, count)
	for i := 0; i < int(count); i++ {
		n, err := r.U16("ImprovedTerseObjectUpdate.Block.Length")
		if err != nil {
			return err
		}
		b, err := r.CopyBytes("ImprovedTerseObjectUpdate.Block.Data", int(n))
		if err != nil {
			return err
		}
		blocks = append(blocks, b)
	}
	p.RegionHandle = handle
	p.TimeDilation = dilation
	p.Blocks = blocks
	return nil
}

// ObjectUpdate carries one or more raw full ObjectData blocks (§4.3.3);
// parsed in pkg/object. Unlike the compressed/terse variants each block
// here also carries the handful of fixed leading fields a full update
// always sends (names kept to what pkg/object needs, not a full
// transcription of the grid's ObjectData schema).
type ObjectUpdate struct {
	RegionHandle uint64
	TimeDilation uint16
	Blocks       []ObjectUpdateBlock
}

// ObjectUpdateBlock is one object's entry within an ObjectUpdate message.
type ObjectUpdateBlock struct {
	LocalID     uint32
	PCode       uint8
	State       uint8
	FullID      wire.AssetId
	CRC         uint32
	Data        []byte
	TextureEntry []byte
}

func (p *ObjectUpdate) MessageNumber() MessageNumber { return MsgObjectUpdate }

func (p *ObjectUpdate) Marshal() []byte {
	w := wire.NewWriter(8 + 2 + 1)
	w.PutU64(p.RegionHandle)
	w.PutU16(p.TimeDilation)
	w.PutU8(uint8(len(p.Blocks)))
	for _, b := range p.Blocks {
		w.PutU32(b.LocalID)
		w.PutU8(b.PCode)
		w.PutU8(b.State)
		w.PutAssetId(b.FullID)
		w.PutU32(b.CRC)
		w.PutU16(uint16(len(b.Data)))
		w.PutBytes(b.Data)
		w.PutU32(uint32(len(b.TextureEntry)))
		w.PutBytes(b.TextureEntry)
	}
	return w.Bytes()
}

func (p *ObjectUpdate) Unmarshal(r *wire.Reader) error {
	handle, err := r.U64("ObjectUpdate.RegionHandle")
	if err != nil {
		return err
	}
	dilation, err := r.U16("ObjectUpdate.TimeDilation")
	if err != nil {
		return err
	}
	count, err := r.U8("ObjectUpdate.BlockCount")
	if err != nil {
		return err
	}
	blocks := make([]ObjectUpdateBlock, 0, count)
	for i := 0; i < int(count); i++ {
		localID, err := r.U32("ObjectUpdate.Block.LocalID")
		if err != nil {
			return err
		}
		pcode, err := r.U8("ObjectUpdate.Block.PCode")
		if err != nil {
			return err
		}
		state, err := r.U8("ObjectUpdate.Block.State")
		if err != nil {
			return err
		}
		fullID, err := r.ReadAssetId("ObjectUpdate.Block.FullID")
		if err != nil {
			return err
		}
		crc, err := r.U32("ObjectUpdate.Block.CRC")
		if err != nil {
			return err
		}
		dataLen, err := r.U16("ObjectUpdate.Block.DataLength")
		if err != nil {
			return err
		}
		data, err := r.CopyBytes("ObjectUpdate.Block.Data", int(dataLen))
		if err != nil {
			return err
		}
		teLen, err := r.U32("ObjectUpdate.Block.TextureEntryLength")
		if err != nil {
			return err
		}
		te, err := r.CopyBytes("ObjectUpdate.Block.TextureEntry", int(teLen))
		if err != nil {
			return err
		}
		blocks = append(blocks, ObjectUpdateBlock{
			LocalID:      localID,
			PCode:        pcode,
			State:        state,
			FullID:       fullID,
			CRC:          crc,
			Data:         data,
			TextureEntry: te,
		})
	}
	p.RegionHandle = handle
	p.TimeDilation = dilation
	p.Blocks = blocks
	return nil
}
