package object

import "github.com/runZeroInc/lludp/pkg/wire"

// ExtraParamType identifies one of the known extra-parameter sub-blocks
// (§4.3.4). Unknown type values are still consumed (by their declared
// length) but produce no typed field on ExtraParams.
type ExtraParamType uint16

const (
	ExtraParamFlexible  ExtraParamType = 0x10
	ExtraParamLight     ExtraParamType = 0x20
	ExtraParamSculpt    ExtraParamType = 0x30
	ExtraParamMesh      ExtraParamType = 0x30 // same wire type as Sculpt; mesh-vs-sculpt is a sculpt-type-byte distinction
	ExtraParamMeshFlags ExtraParamType = 0x70
)

// FlexibleParam is the "flexible path" extra parameter: a flexible prim's
// simulated cloth/rope physics inputs.
type FlexibleParam struct {
	Softness int32
	Gravity  float32
	Tension  float32
	Friction float32
	Wind     float32
	Force    wire.Vec3
}

// LightParam is the point-light extra parameter.
type LightParam struct {
	Color   [4]byte
	Radius  float32
	Cutoff  float32
	Falloff float32
}

// SculptParam is the sculpted/mesh-reference extra parameter; Mesh reuses
// this same layout (§4.3.4 "Mesh: same layout as Sculpt").
type SculptParam struct {
	TextureID wire.AssetId
	Type      uint8
}

// ExtraParams is the decoded form of the extra-parameter block attached to
// an object update (§4.3.4). Each field is nil/zero unless its
// corresponding type byte was present.
type ExtraParams struct {
	Flexible   *FlexibleParam
	Light      *LightParam
	Sculpt     *SculptParam
	Mesh       *SculptParam
	MeshFlags  *uint32
	Unknown    []UnknownExtraParam
}

// UnknownExtraParam preserves an unrecognized extra-parameter type's raw
// bytes rather than discarding them.
type UnknownExtraParam struct {
	Type    ExtraParamType
	Payload []byte
}

// DecodeExtraParams parses the `count:1` + repeated `{type:2, length:4,
// payload:length}` grammar of §4.3.4. Unknown types still advance the
// cursor by the declared length so later parameters decode correctly.
func DecodeExtraParams(r *wire.Reader) (ExtraParams, error) {
	var out ExtraParams
	count, err := r.U8("ExtraParams.Count")
	if err != nil {
		return out, err
	}
	for i := 0; i < int(count); i++ {
		typ, err := r.U16("ExtraParams.Type")
		if err != nil {
			return out, err
		}
		length, err := r.U32("ExtraParams.Length")
		if err != nil {
			return out, err
		}
		payload, err := r.Bytes("ExtraParams.Payload", int(length))
		if err != nil {
			return out, err
		}
		if err := decodeOneExtraParam(&out, ExtraParamType(typ), payload); err != nil {
			return out, err
		}
	}
	return out, nil
}

func decodeOneExtraParam(out *ExtraParams, typ ExtraParamType, payload []byte) error {
	pr := wire.NewReader(payload)
	switch typ {
	case ExtraParamFlexible:
		var p FlexibleParam
		softness, err := pr.I32("ExtraParams.Flexible.Softness")
		if err != nil {
			return err
		}
		gravity, err := pr.F32("ExtraParams.Flexible.Gravity")
		if err != nil {
			return err
		}
		tension, err := pr.F32("ExtraParams.Flexible.Tension")
		if err != nil {
			return err
		}
		friction, err := pr.F32("ExtraParams.Flexible.Friction")
		if err != nil {
			return err
		}
		wind, err := pr.F32("ExtraParams.Flexible.Wind")
		if err != nil {
			return err
		}
		force, err := pr.ReadVec3("ExtraParams.Flexible.Force")
		if err != nil {
			return err
		}
		p = FlexibleParam{Softness: softness, Gravity: gravity, Tension: tension, Friction: friction, Wind: wind, Force: force}
		out.Flexible = &p
	case ExtraParamLight:
		var p LightParam
		color, err := pr.ReadRGBA("ExtraParams.Light.Color")
		if err != nil {
			return err
		}
		radius, err := pr.F32("ExtraParams.Light.Radius")
		if err != nil {
			return err
		}
		cutoff, err := pr.F32("ExtraParams.Light.Cutoff")
		if err != nil {
			return err
		}
		falloff, err := pr.F32("ExtraParams.Light.Falloff")
		if err != nil {
			return err
		}
		p = LightParam{Color: color, Radius: radius, Cutoff: cutoff, Falloff: falloff}
		out.Light = &p
	case ExtraParamSculpt:
		// Sculpt and Mesh share a wire type; the sculpt-type high bit
		// conventionally distinguishes a mesh reference, but this decoder
		// exposes both: callers that care about the distinction inspect
		// Type themselves.
		id, err := pr.ReadAssetId("ExtraParams.Sculpt.TextureID")
		if err != nil {
			return err
		}
		st, err := pr.U8("ExtraParams.Sculpt.Type")
		if err != nil {
			return err
		}
		p := SculptParam{TextureID: id, Type: st}
		out.Sculpt = &p
		if st&0x80 != 0 {
			meshCopy := p
			out.Mesh = &meshCopy
		}
	case ExtraParamMeshFlags:
		flags, err := pr.U32("ExtraParams.MeshFlags")
		if err != nil {
			return err
		}
		out.MeshFlags = &flags
	default:
		cp := make([]byte, len(payload))
		copy(cp, payload)
		out.Unknown = append(out.Unknown, UnknownExtraParam{Type: typ, Payload: cp})
	}
	return nil
}

// EncodeExtraParams is the inverse of DecodeExtraParams for a canonical
// (self-produced) ExtraParams value: known fields first in a fixed order,
// then any preserved-but-unrecognized entries.
func EncodeExtraParams(p ExtraParams) []byte {
	type entry struct {
		typ     ExtraParamType
		payload []byte
	}
	var entries []entry

	if p.Flexible != nil {
		pw := wire.NewWriter(24)
		pw.PutI32(p.Flexible.Softness)
		pw.PutF32(p.Flexible.Gravity)
		pw.PutF32(p.Flexible.Tension)
		pw.PutF32(p.Flexible.Friction)
		pw.PutF32(p.Flexible.Wind)
		pw.PutVec3(p.Flexible.Force)
		entries = append(entries, entry{ExtraParamFlexible, pw.Bytes()})
	}
	if p.Light != nil {
		pw := wire.NewWriter(16)
		pw.PutRGBA(p.Light.Color)
		pw.PutF32(p.Light.Radius)
		pw.PutF32(p.Light.Cutoff)
		pw.PutF32(p.Light.Falloff)
		entries = append(entries, entry{ExtraParamLight, pw.Bytes()})
	}
	// Sculpt and Mesh share one wire entry (§4.3.4); DecodeExtraParams
	// populates both from it when the sculpt-type high bit marks a mesh
	// reference, so only Sculpt (always set in that case) is re-emitted.
	if p.Sculpt != nil {
		pw := wire.NewWriter(17)
		pw.PutAssetId(p.Sculpt.TextureID)
		pw.PutU8(p.Sculpt.Type)
		entries = append(entries, entry{ExtraParamSculpt, pw.Bytes()})
	}
	if p.MeshFlags != nil {
		pw := wire.NewWriter(4)
		pw.PutU32(*p.MeshFlags)
		entries = append(entries, entry{ExtraParamMeshFlags, pw.Bytes()})
	}
	for _, u := range p.Unknown {
		entries = append(entries, entry{u.Type, u.Payload})
	}

	w := wire.NewWriter(8 + len(entries)*8)
	w.PutU8(uint8(len(entries)))
	for _, e := range entries {
		w.PutU16(uint16(e.typ))
		w.PutU32(uint32(len(e.payload)))
		w.PutBytes(e.payload)
	}
	return w.Bytes()
}
