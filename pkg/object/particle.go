package object

import "github.com/runZeroInc/lludp/pkg/wire"

// Exact envelope sizes for the two particle-system wire variants (§4.3.6).
const (
	particleSystemLegacyLen   = 86
	particleSystemExtendedLen = 94
)

// ParticleSystem is the decoded legacy or extended particle-system block.
// The grammar (§4.3.1) fixes only the overall envelope size; the handful of
// leading fields reproduced here (CRC, flags, pattern) are stable across
// both variants, and the remainder is kept as an opaque Tail so the exact
// byte count still round-trips without asserting an unverified internal
// layout for bytes this decoder doesn't need to interpret.
type ParticleSystem struct {
	Extended  bool
	CRC       uint32
	PartFlags uint32
	Pattern   uint8
	Tail      []byte

	// Glow and Blend are present only on the extended variant, gated by the
	// DataGlow/DataBlend bits in the flags that selected HasParticlesNew
	// (§4.3.1).
	Glow  *[2]byte
	Blend *[2]byte
}

func decodeParticleSystemEnvelope(r *wire.Reader, totalLen int) (ParticleSystem, error) {
	var ps ParticleSystem
	crc, err := r.U32("ParticleSystem.CRC")
	if err != nil {
		return ps, err
	}
	flags, err := r.U32("ParticleSystem.PartFlags")
	if err != nil {
		return ps, err
	}
	pattern, err := r.U8("ParticleSystem.Pattern")
	if err != nil {
		return ps, err
	}
	tail, err := r.CopyBytes("ParticleSystem.Tail", totalLen-9)
	if err != nil {
		return ps, err
	}
	ps.CRC, ps.PartFlags, ps.Pattern, ps.Tail = crc, flags, pattern, tail
	return ps, nil
}

// DecodeParticleSystemLegacy decodes the 86-byte legacy layout
// (`HasParticles`).
func DecodeParticleSystemLegacy(r *wire.Reader) (ParticleSystem, error) {
	return decodeParticleSystemEnvelope(r, particleSystemLegacyLen)
}

// DecodeParticleSystemExtended decodes the 94-byte extended layout
// (`HasParticlesNew`), consuming the optional glow/blend extensions when
// their data-flag bits are set.
func DecodeParticleSystemExtended(r *wire.Reader, dataGlow, dataBlend bool) (ParticleSystem, error) {
	ps, err := decodeParticleSystemEnvelope(r, particleSystemExtendedLen)
	if err != nil {
		return ps, err
	}
	ps.Extended = true
	if dataGlow {
		b, err := r.Bytes("ParticleSystem.Glow", 2)
		if err != nil {
			return ps, err
		}
		var g [2]byte
		copy(g[:], b)
		ps.Glow = &g
	}
	if dataBlend {
		b, err := r.Bytes("ParticleSystem.Blend", 2)
		if err != nil {
			return ps, err
		}
		var bl [2]byte
		copy(bl[:], b)
		ps.Blend = &bl
	}
	return ps, nil
}

func encodeParticleSystemEnvelope(w *wire.Writer, ps ParticleSystem) {
	w.PutU32(ps.CRC)
	w.PutU32(ps.PartFlags)
	w.PutU8(ps.Pattern)
	w.PutBytes(ps.Tail)
}

// EncodeParticleSystemLegacy is the inverse of DecodeParticleSystemLegacy.
func EncodeParticleSystemLegacy(ps ParticleSystem) []byte {
	w := wire.NewWriter(particleSystemLegacyLen)
	encodeParticleSystemEnvelope(w, ps)
	return w.Bytes()
}

// EncodeParticleSystemExtended is the inverse of
// DecodeParticleSystemExtended.
func EncodeParticleSystemExtended(ps ParticleSystem) []byte {
	w := wire.NewWriter(particleSystemExtendedLen + 4)
	encodeParticleSystemEnvelope(w, ps)
	if ps.Glow != nil {
		w.PutBytes(ps.Glow[:])
	}
	if ps.Blend != nil {
		w.PutBytes(ps.Blend[:])
	}
	return w.Bytes()
}
