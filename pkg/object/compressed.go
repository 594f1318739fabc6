package object

import "github.com/runZeroInc/lludp/pkg/wire"

// CompressedFlags is the `u32` bitmask selecting which optional sub-blocks
// follow in a compressed object update (§3 "Compressed flags", §4.3.1).
// Bit positions are this decoder's own assignment: the grammar names the
// flags symbolically only, and original_source carries no reference build
// to transcribe numeric positions from, so encode/decode agreeing with
// itself is what §8 invariant 4 actually requires.
type CompressedFlags uint32

const (
	FlagScratchPad CompressedFlags = 1 << iota
	FlagTree
	FlagText
	FlagParticles
	FlagSound
	FlagParent
	FlagTextureAnimation
	FlagAngularVelocity
	FlagNameValues
	FlagMediaURL
	FlagParticlesNew
	FlagDataGlow
	FlagDataBlend
)

// DecodeCompressedUpdate parses one object's compressed-update block per
// the §4.3.1 grammar. `Tree` and `ScratchPad` are mutually exclusive
// (`else if` in the grammar); the `ScratchPad` length byte is consumed
// before its payload, per Design Notes §9's corrected grammar (the source
// bug read the length byte without advancing past it).
func DecodeCompressedUpdate(block []byte) (ObjectSnapshot, error) {
	r := wire.NewReader(block)
	var s ObjectSnapshot

	fullID, err := r.ReadAssetId("CompressedUpdate.FullID")
	if err != nil {
		return s, err
	}
	localID, err := r.U32("CompressedUpdate.LocalID")
	if err != nil {
		return s, err
	}
	pcode, err := r.U8("CompressedUpdate.PCode")
	if err != nil {
		return s, err
	}
	state, err := r.U8("CompressedUpdate.State")
	if err != nil {
		return s, err
	}
	crc, err := r.U32("CompressedUpdate.CRC")
	if err != nil {
		return s, err
	}
	material, err := r.U8("CompressedUpdate.Material")
	if err != nil {
		return s, err
	}
	clickAction, err := r.U8("CompressedUpdate.ClickAction")
	if err != nil {
		return s, err
	}
	scale, err := r.ReadVec3("CompressedUpdate.Scale")
	if err != nil {
		return s, err
	}
	position, err := r.ReadVec3("CompressedUpdate.Position")
	if err != nil {
		return s, err
	}
	rotation, err := r.ReadImpliedQuat("CompressedUpdate.Rotation")
	if err != nil {
		return s, err
	}
	flagsRaw, err := r.U32("CompressedUpdate.Flags")
	if err != nil {
		return s, err
	}
	flags := CompressedFlags(flagsRaw)
	ownerID, err := r.ReadAssetId("CompressedUpdate.OwnerID")
	if err != nil {
		return s, err
	}

	s.LocalID = localID
	s.FullID = fullID
	s.PCode = namePCode(pcode)
	s.State = state
	s.CRC = crc
	s.Material = nameMaterial(material)
	s.ClickAction = nameClickAction(clickAction)
	s.Scale = scale
	s.Position = position
	s.Rotation = rotation
	if !ownerID.IsZero() {
		oid := ownerID
		s.OwnerID = &oid
	}

	if flags&FlagAngularVelocity != 0 {
		av, err := r.ReadVec3("CompressedUpdate.AngularVelocity")
		if err != nil {
			return s, err
		}
		s.AngularVelocity = &av
	}
	if flags&FlagParent != 0 {
		pid, err := r.U32("CompressedUpdate.ParentID")
		if err != nil {
			return s, err
		}
		s.ParentID = &pid
	}
	if flags&FlagTree != 0 {
		species, err := r.U8("CompressedUpdate.TreeSpecies")
		if err != nil {
			return s, err
		}
		s.TreeSpecies = &species
	} else if flags&FlagScratchPad != 0 {
		n, err := r.U8("CompressedUpdate.ScratchPadLen")
		if err != nil {
			return s, err
		}
		data, err := r.CopyBytes("CompressedUpdate.ScratchPad", int(n))
		if err != nil {
			return s, err
		}
		s.ScratchPad = data
	}
	if flags&FlagText != 0 {
		text, err := r.CString("CompressedUpdate.Text")
		if err != nil {
			return s, err
		}
		color, err := r.ReadRGBA("CompressedUpdate.TextColor")
		if err != nil {
			return s, err
		}
		s.FloatingText = &FloatingText{Text: text, Color: color}
	}
	if flags&FlagMediaURL != 0 {
		url, err := r.CString("CompressedUpdate.MediaURL")
		if err != nil {
			return s, err
		}
		s.MediaURL = &url
	}
	if flags&FlagParticles != 0 {
		ps, err := DecodeParticleSystemLegacy(r)
		if err != nil {
			return s, err
		}
		s.Particles = &ps
	}

	extra, err := DecodeExtraParams(r)
	if err != nil {
		return s, err
	}
	s.Extra = &extra

	if flags&FlagSound != 0 {
		id, err := r.ReadAssetId("CompressedUpdate.SoundID")
		if err != nil {
			return s, err
		}
		gain, err := r.F32("CompressedUpdate.SoundGain")
		if err != nil {
			return s, err
		}
		sflags, err := r.U8("CompressedUpdate.SoundFlags")
		if err != nil {
			return s, err
		}
		radius, err := r.F32("CompressedUpdate.SoundRadius")
		if err != nil {
			return s, err
		}
		s.SoundInfo = &Sound{ID: id, Gain: gain, Flags: sflags, Radius: radius}
	}
	if flags&FlagNameValues != 0 {
		nv, err := r.CString("CompressedUpdate.NameValues")
		if err != nil {
			return s, err
		}
		s.NameValues = ParseNameValues(nv)
	}

	pathCurve, err := r.U8("CompressedUpdate.PathCurve")
	if err != nil {
		return s, err
	}
	pathBeginRaw, err := r.U16("CompressedUpdate.PathBegin")
	if err != nil {
		return s, err
	}
	pathEndRaw, err := r.U16("CompressedUpdate.PathEnd")
	if err != nil {
		return s, err
	}
	pathScaleX, err := r.U8("CompressedUpdate.PathScaleX")
	if err != nil {
		return s, err
	}
	pathScaleY, err := r.U8("CompressedUpdate.PathScaleY")
	if err != nil {
		return s, err
	}
	pathShearX, err := r.I8("CompressedUpdate.PathShearX")
	if err != nil {
		return s, err
	}
	pathShearY, err := r.I8("CompressedUpdate.PathShearY")
	if err != nil {
		return s, err
	}
	pathTwist, err := r.I8("CompressedUpdate.PathTwist")
	if err != nil {
		return s, err
	}
	pathTwistBegin, err := r.I8("CompressedUpdate.PathTwistBegin")
	if err != nil {
		return s, err
	}
	pathRadiusOffset, err := r.I8("CompressedUpdate.PathRadiusOffset")
	if err != nil {
		return s, err
	}
	pathTaperX, err := r.I8("CompressedUpdate.PathTaperX")
	if err != nil {
		return s, err
	}
	pathTaperY, err := r.I8("CompressedUpdate.PathTaperY")
	if err != nil {
		return s, err
	}
	pathRevolutions, err := r.U8("CompressedUpdate.PathRevolutions")
	if err != nil {
		return s, err
	}
	pathSkew, err := r.I8("CompressedUpdate.PathSkew")
	if err != nil {
		return s, err
	}
	profileCurve, err := r.U8("CompressedUpdate.ProfileCurve")
	if err != nil {
		return s, err
	}
	profileBeginRaw, err := r.U16("CompressedUpdate.ProfileBegin")
	if err != nil {
		return s, err
	}
	profileEndRaw, err := r.U16("CompressedUpdate.ProfileEnd")
	if err != nil {
		return s, err
	}
	profileHollowRaw, err := r.U16("CompressedUpdate.ProfileHollow")
	if err != nil {
		return s, err
	}

	s.PathCurve = pathCurve
	s.PathBegin = wire.UnpackCut(pathBeginRaw)
	s.PathEnd = wire.UnpackCut(pathEndRaw)
	s.PathScaleX = wire.UnpackPathScale(pathScaleX)
	s.PathScaleY = wire.UnpackPathScale(pathScaleY)
	s.PathShearX = wire.UnpackPathShear(pathShearX)
	s.PathShearY = wire.UnpackPathShear(pathShearY)
	s.PathTwist = wire.UnpackPathTwist(pathTwist)
	s.PathTwistBegin = wire.UnpackPathTwist(pathTwistBegin)
	s.PathRadiusOffset = wire.UnpackPathRadiusOffset(pathRadiusOffset)
	s.PathTaperX = wire.UnpackPathTaper(pathTaperX)
	s.PathTaperY = wire.UnpackPathTaper(pathTaperY)
	s.PathRevolutions = wire.UnpackPathRevolutions(pathRevolutions)
	s.PathSkew = wire.UnpackPathSkew(pathSkew)
	s.ProfileCurve = profileCurve
	s.ProfileBegin = wire.UnpackCut(profileBeginRaw)
	s.ProfileEnd = wire.UnpackCut(profileEndRaw)
	s.ProfileHollow = wire.UnpackCut(profileHollowRaw)

	teLen, err := r.U32("CompressedUpdate.TextureEntryLength")
	if err != nil {
		return s, err
	}
	teBytes, err := r.Bytes("CompressedUpdate.TextureEntry", int(teLen))
	if err != nil {
		return s, err
	}
	te, err := DecodeTextureEntry(wire.NewReader(teBytes))
	if err != nil {
		return s, err
	}
	s.TextureEntry = &te

	if flags&FlagTextureAnimation != 0 {
		// The grammar's "skip:4" is this implementation's length prefix for
		// the variable-length block that follows, consistent with the
		// texture_entry_len/texture_entry pattern used just above.
		animLen, err := r.U32("CompressedUpdate.TextureAnimationLength")
		if err != nil {
			return s, err
		}
		animBytes, err := r.CopyBytes("CompressedUpdate.TextureAnimation", int(animLen))
		if err != nil {
			return s, err
		}
		s.TextureAnimation = &TextureAnimation{Raw: animBytes}
	}
	if flags&FlagParticlesNew != 0 {
		ps, err := DecodeParticleSystemExtended(r, flags&FlagDataGlow != 0, flags&FlagDataBlend != 0)
		if err != nil {
			return s, err
		}
		s.Particles = &ps
	}

	return s, nil
}

// EncodeCompressedUpdate is the inverse of DecodeCompressedUpdate, used by
// §8 invariant 4's round-trip property and by test/replay tooling. It
// derives the flags word from which optional fields are populated, so
// callers never pass a flags value out of step with the snapshot's
// contents.
func EncodeCompressedUpdate(s ObjectSnapshot) []byte {
	flags := compressedFlagsFor(s)

	w := wire.NewWriter(256)
	w.PutAssetId(s.FullID)
	w.PutU32(s.LocalID)
	w.PutU8(s.PCode.Value)
	w.PutU8(s.State)
	w.PutU32(s.CRC)
	w.PutU8(s.Material.Value)
	w.PutU8(s.ClickAction.Value)
	w.PutVec3(s.Scale)
	w.PutVec3(s.Position)
	w.PutImpliedQuat(s.Rotation)
	w.PutU32(uint32(flags))
	if s.OwnerID != nil {
		w.PutAssetId(*s.OwnerID)
	} else {
		w.PutAssetId(wire.ZeroAssetId)
	}

	if s.AngularVelocity != nil {
		w.PutVec3(*s.AngularVelocity)
	}
	if s.ParentID != nil {
		w.PutU32(*s.ParentID)
	}
	if s.TreeSpecies != nil {
		w.PutU8(*s.TreeSpecies)
	} else if s.ScratchPad != nil {
		w.PutU8(uint8(len(s.ScratchPad)))
		w.PutBytes(s.ScratchPad)
	}
	if s.FloatingText != nil {
		w.PutCString(s.FloatingText.Text)
		w.PutRGBA(s.FloatingText.Color)
	}
	if s.MediaURL != nil {
		w.PutCString(*s.MediaURL)
	}
	if s.Particles != nil && flags&FlagParticles != 0 {
		w.PutBytes(EncodeParticleSystemLegacy(*s.Particles))
	}

	if s.Extra != nil {
		w.PutBytes(EncodeExtraParams(*s.Extra))
	} else {
		w.PutU8(0)
	}

	if s.SoundInfo != nil {
		w.PutAssetId(s.SoundInfo.ID)
		w.PutF32(s.SoundInfo.Gain)
		w.PutU8(s.SoundInfo.Flags)
		w.PutF32(s.SoundInfo.Radius)
	}
	if len(s.NameValues) > 0 {
		lines := make([]string, 0, len(s.NameValues))
		for _, nv := range s.NameValues {
			lines = append(lines, nv.String())
		}
		w.PutCString(joinLines(lines))
	}

	w.PutU8(s.PathCurve)
	w.PutU16(wire.PackCut(s.PathBegin))
	w.PutU16(wire.PackCut(s.PathEnd))
	w.PutU8(wire.PackPathScale(s.PathScaleX))
	w.PutU8(wire.PackPathScale(s.PathScaleY))
	w.PutI8(wire.PackPathShear(s.PathShearX))
	w.PutI8(wire.PackPathShear(s.PathShearY))
	w.PutI8(wire.PackPathTwist(s.PathTwist))
	w.PutI8(wire.PackPathTwist(s.PathTwistBegin))
	w.PutI8(wire.PackPathRadiusOffset(s.PathRadiusOffset))
	w.PutI8(wire.PackPathTaper(s.PathTaperX))
	w.PutI8(wire.PackPathTaper(s.PathTaperY))
	w.PutU8(wire.PackPathRevolutions(s.PathRevolutions))
	w.PutI8(wire.PackPathSkew(s.PathSkew))
	w.PutU8(s.ProfileCurve)
	w.PutU16(wire.PackCut(s.ProfileBegin))
	w.PutU16(wire.PackCut(s.ProfileEnd))
	w.PutU16(wire.PackCut(s.ProfileHollow))

	if s.TextureEntry != nil {
		te := EncodeTextureEntry(*s.TextureEntry)
		w.PutU32(uint32(len(te)))
		w.PutBytes(te)
	} else {
		w.PutU32(0)
	}

	if s.TextureAnimation != nil {
		w.PutU32(uint32(len(s.TextureAnimation.Raw)))
		w.PutBytes(s.TextureAnimation.Raw)
	}
	if s.Particles != nil && flags&FlagParticlesNew != 0 {
		w.PutBytes(EncodeParticleSystemExtended(*s.Particles))
	}

	return w.Bytes()
}

func compressedFlagsFor(s ObjectSnapshot) CompressedFlags {
	var flags CompressedFlags
	if s.AngularVelocity != nil {
		flags |= FlagAngularVelocity
	}
	if s.ParentID != nil {
		flags |= FlagParent
	}
	if s.TreeSpecies != nil {
		flags |= FlagTree
	} else if s.ScratchPad != nil {
		flags |= FlagScratchPad
	}
	if s.FloatingText != nil {
		flags |= FlagText
	}
	if s.MediaURL != nil {
		flags |= FlagMediaURL
	}
	if s.SoundInfo != nil {
		flags |= FlagSound
	}
	if len(s.NameValues) > 0 {
		flags |= FlagNameValues
	}
	if s.TextureAnimation != nil {
		flags |= FlagTextureAnimation
	}
	if s.Particles != nil {
		if s.Particles.Extended {
			flags |= FlagParticlesNew
			if s.Particles.Glow != nil {
				flags |= FlagDataGlow
			}
			if s.Particles.Blend != nil {
				flags |= FlagDataBlend
			}
		} else {
			flags |= FlagParticles
		}
	}
	return flags
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
