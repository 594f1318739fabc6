package object

import "github.com/runZeroInc/lludp/pkg/wire"

// TextureIDOverride, ColorOverride, FloatOverride and ByteOverride are one
// per-face override record: a face bitmask plus the value it selects
// (§4.3.5). Mask bit i selects face i; more than 8 faces requires more than
// one bitmask byte (Design Notes §9).
type TextureIDOverride struct {
	Mask  uint32
	Value wire.AssetId
}

type ColorOverride struct {
	Mask  uint32
	Value [4]byte
}

type FloatOverride struct {
	Mask  uint32
	Value float32
}

type ByteOverride struct {
	Mask  uint32
	Value uint8
}

// TextureEntry is the per-face surface-material block carried in an object
// update: a default value per attribute plus zero or more per-face
// overrides selected by a variable-length bitmask (§3, §4.3.5). Attribute
// order on the wire is fixed: texture id, color, repeat-u, repeat-v,
// offset-u, offset-v, rotation, material, media, glow, materials id.
type TextureEntry struct {
	DefaultTextureID   wire.AssetId
	DefaultColor       [4]byte
	DefaultRepeatU     float32
	DefaultRepeatV     float32
	DefaultOffsetU     float32
	DefaultOffsetV     float32
	DefaultRotation    float32
	DefaultMaterial    uint8
	DefaultMedia       uint8
	DefaultGlow        float32
	DefaultMaterialsID wire.AssetId

	TextureIDOverrides   []TextureIDOverride
	ColorOverrides       []ColorOverride
	RepeatUOverrides     []FloatOverride
	RepeatVOverrides     []FloatOverride
	OffsetUOverrides     []FloatOverride
	OffsetVOverrides     []FloatOverride
	RotationOverrides    []FloatOverride
	MaterialOverrides    []ByteOverride
	MediaOverrides       []ByteOverride
	GlowOverrides        []FloatOverride
	MaterialsIDOverrides []TextureIDOverride
}

// readFaceBitmask reads one variable-length face bitmask. A lone 0x00 byte
// means "no more overrides for this attribute" (terminator); otherwise
// bytes with the high bit set continue the mask into the next byte, seven
// bits at a time (§4.3.5, Design Notes §9).
func readFaceBitmask(r *wire.Reader, context string) (mask uint32, terminator bool, err error) {
	b, err := r.U8(context)
	if err != nil {
		return 0, false, err
	}
	if b == 0x00 {
		return 0, true, nil
	}
	mask = uint32(b & 0x7f)
	shift := uint(7)
	for b&0x80 != 0 {
		b, err = r.U8(context)
		if err != nil {
			return 0, false, err
		}
		mask |= uint32(b&0x7f) << shift
		shift += 7
	}
	return mask, false, nil
}

// writeFaceBitmask writes mask in the minimal canonical number of
// continuation bytes.
func writeFaceBitmask(w *wire.Writer, mask uint32) {
	for {
		b := byte(mask & 0x7f)
		mask >>= 7
		if mask != 0 {
			w.PutU8(b | 0x80)
			continue
		}
		w.PutU8(b)
		return
	}
}

func decodeTextureIDChain(r *wire.Reader, context string) ([]TextureIDOverride, error) {
	var out []TextureIDOverride
	for {
		mask, term, err := readFaceBitmask(r, context)
		if err != nil {
			return nil, err
		}
		if term {
			return out, nil
		}
		id, err := r.ReadAssetId(context)
		if err != nil {
			return nil, err
		}
		out = append(out, TextureIDOverride{Mask: mask, Value: id})
	}
}

func decodeColorChain(r *wire.Reader, context string) ([]ColorOverride, error) {
	var out []ColorOverride
	for {
		mask, term, err := readFaceBitmask(r, context)
		if err != nil {
			return nil, err
		}
		if term {
			return out, nil
		}
		c, err := r.ReadRGBA(context)
		if err != nil {
			return nil, err
		}
		out = append(out, ColorOverride{Mask: mask, Value: c})
	}
}

func decodeFloatChain(r *wire.Reader, context string) ([]FloatOverride, error) {
	var out []FloatOverride
	for {
		mask, term, err := readFaceBitmask(r, context)
		if err != nil {
			return nil, err
		}
		if term {
			return out, nil
		}
		f, err := r.F32(context)
		if err != nil {
			return nil, err
		}
		out = append(out, FloatOverride{Mask: mask, Value: f})
	}
}

func decodeByteChain(r *wire.Reader, context string) ([]ByteOverride, error) {
	var out []ByteOverride
	for {
		mask, term, err := readFaceBitmask(r, context)
		if err != nil {
			return nil, err
		}
		if term {
			return out, nil
		}
		b, err := r.U8(context)
		if err != nil {
			return nil, err
		}
		out = append(out, ByteOverride{Mask: mask, Value: b})
	}
}

func encodeTextureIDChain(w *wire.Writer, chain []TextureIDOverride) {
	for _, o := range chain {
		writeFaceBitmask(w, o.Mask)
		w.PutAssetId(o.Value)
	}
	w.PutU8(0x00)
}

func encodeColorChain(w *wire.Writer, chain []ColorOverride) {
	for _, o := range chain {
		writeFaceBitmask(w, o.Mask)
		w.PutRGBA(o.Value)
	}
	w.PutU8(0x00)
}

func encodeFloatChain(w *wire.Writer, chain []FloatOverride) {
	for _, o := range chain {
		writeFaceBitmask(w, o.Mask)
		w.PutF32(o.Value)
	}
	w.PutU8(0x00)
}

func encodeByteChain(w *wire.Writer, chain []ByteOverride) {
	for _, o := range chain {
		writeFaceBitmask(w, o.Mask)
		w.PutU8(o.Value)
	}
	w.PutU8(0x00)
}

// DecodeTextureEntry parses the full texture-entry block: one default value
// per attribute followed by that attribute's override chain, in the fixed
// attribute order the wire uses (§4.3.5).
func DecodeTextureEntry(r *wire.Reader) (TextureEntry, error) {
	var te TextureEntry
	var err error

	if te.DefaultTextureID, err = r.ReadAssetId("TextureEntry.DefaultTextureID"); err != nil {
		return te, err
	}
	if te.TextureIDOverrides, err = decodeTextureIDChain(r, "TextureEntry.TextureIDOverrides"); err != nil {
		return te, err
	}
	if te.DefaultColor, err = r.ReadRGBA("TextureEntry.DefaultColor"); err != nil {
		return te, err
	}
	if te.ColorOverrides, err = decodeColorChain(r, "TextureEntry.ColorOverrides"); err != nil {
		return te, err
	}
	if te.DefaultRepeatU, err = r.F32("TextureEntry.DefaultRepeatU"); err != nil {
		return te, err
	}
	if te.RepeatUOverrides, err = decodeFloatChain(r, "TextureEntry.RepeatUOverrides"); err != nil {
		return te, err
	}
	if te.DefaultRepeatV, err = r.F32("TextureEntry.DefaultRepeatV"); err != nil {
		return te, err
	}
	if te.RepeatVOverrides, err = decodeFloatChain(r, "TextureEntry.RepeatVOverrides"); err != nil {
		return te, err
	}
	if te.DefaultOffsetU, err = r.F32("TextureEntry.DefaultOffsetU"); err != nil {
		return te, err
	}
	if te.OffsetUOverrides, err = decodeFloatChain(r, "TextureEntry.OffsetUOverrides"); err != nil {
		return te, err
	}
	if te.DefaultOffsetV, err = r.F32("TextureEntry.DefaultOffsetV"); err != nil {
		return te, err
	}
	if te.OffsetVOverrides, err = decodeFloatChain(r, "TextureEntry.OffsetVOverrides"); err != nil {
		return te, err
	}
	if te.DefaultRotation, err = r.F32("TextureEntry.DefaultRotation"); err != nil {
		return te, err
	}
	if te.RotationOverrides, err = decodeFloatChain(r, "TextureEntry.RotationOverrides"); err != nil {
		return te, err
	}
	if te.DefaultMaterial, err = r.U8("TextureEntry.DefaultMaterial"); err != nil {
		return te, err
	}
	if te.MaterialOverrides, err = decodeByteChain(r, "TextureEntry.MaterialOverrides"); err != nil {
		return te, err
	}
	if te.DefaultMedia, err = r.U8("TextureEntry.DefaultMedia"); err != nil {
		return te, err
	}
	if te.MediaOverrides, err = decodeByteChain(r, "TextureEntry.MediaOverrides"); err != nil {
		return te, err
	}
	if te.DefaultGlow, err = r.F32("TextureEntry.DefaultGlow"); err != nil {
		return te, err
	}
	if te.GlowOverrides, err = decodeFloatChain(r, "TextureEntry.GlowOverrides"); err != nil {
		return te, err
	}
	if te.DefaultMaterialsID, err = r.ReadAssetId("TextureEntry.DefaultMaterialsID"); err != nil {
		return te, err
	}
	if te.MaterialsIDOverrides, err = decodeTextureIDChain(r, "TextureEntry.MaterialsIDOverrides"); err != nil {
		return te, err
	}
	return te, nil
}

// EncodeTextureEntry is the inverse of DecodeTextureEntry. Round-trip
// equality (§8 invariant 5) holds because both sides walk the same fixed
// attribute order and the override chains are written back exactly as
// decoded, not normalized.
func EncodeTextureEntry(te TextureEntry) []byte {
	w := wire.NewWriter(256)
	w.PutAssetId(te.DefaultTextureID)
	encodeTextureIDChain(w, te.TextureIDOverrides)
	w.PutRGBA(te.DefaultColor)
	encodeColorChain(w, te.ColorOverrides)
	w.PutF32(te.DefaultRepeatU)
	encodeFloatChain(w, te.RepeatUOverrides)
	w.PutF32(te.DefaultRepeatV)
	encodeFloatChain(w, te.RepeatVOverrides)
	w.PutF32(te.DefaultOffsetU)
	encodeFloatChain(w, te.OffsetUOverrides)
	w.PutF32(te.DefaultOffsetV)
	encodeFloatChain(w, te.OffsetVOverrides)
	w.PutF32(te.DefaultRotation)
	encodeFloatChain(w, te.RotationOverrides)
	w.PutU8(te.DefaultMaterial)
	encodeByteChain(w, te.MaterialOverrides)
	w.PutU8(te.DefaultMedia)
	encodeByteChain(w, te.MediaOverrides)
	w.PutF32(te.DefaultGlow)
	encodeFloatChain(w, te.GlowOverrides)
	w.PutAssetId(te.DefaultMaterialsID)
	encodeTextureIDChain(w, te.MaterialsIDOverrides)
	return w.Bytes()
}

// FaceTextureID resolves the effective texture id for a given face,
// applying the last matching override over the default.
func (te TextureEntry) FaceTextureID(face int) wire.AssetId {
	id := te.DefaultTextureID
	bit := uint32(1) << uint(face)
	for _, o := range te.TextureIDOverrides {
		if o.Mask&bit != 0 {
			id = o.Value
		}
	}
	return id
}
