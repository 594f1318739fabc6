package object

import "github.com/runZeroInc/lludp/pkg/wire"

// FloatingText is the optional hovering-text block (§3 "floating_text").
type FloatingText struct {
	Text  string
	Color [4]byte
}

// Sound is the optional attached-sound block (§3 "sound").
type Sound struct {
	ID     wire.AssetId
	Gain   float32
	Flags  uint8
	Radius float32
}

// TextureAnimation is the optional scrolling/rotating texture animation
// block selected by `TextureAnimation` in the compressed-update flags.
// The grammar (§4.3.1) only fixes that the block is variable-length; this
// decoder keeps it as opaque bytes since no further structure is specified.
type TextureAnimation struct {
	Raw []byte
}

// ObjectSnapshot is the output of the object-state decoder: a flat record
// of a single simulator object's decoded attributes for a single update
// (§3 "ObjectSnapshot"). Presence of each optional field is determined
// solely by the compressed-flags bitmask (or, for terse/full updates, by
// which variant arrived); the decoder reads the bytes for each present
// block and only those bytes.
type ObjectSnapshot struct {
	LocalID  uint32
	FullID   wire.AssetId
	ParentID *uint32

	PCode           NamedValue
	State           uint8
	Material        NamedValue
	ClickAction     NamedValue
	AttachmentPoint NamedValue
	CRC             uint32

	Scale            wire.Vec3
	Position         wire.Vec3
	Rotation         wire.Quat
	Velocity         wire.Vec3
	Acceleration     wire.Vec3
	AngularVelocity  *wire.Vec3
	CollisionPlane   *wire.Vec4

	PathCurve       uint8
	PathBegin       float32
	PathEnd         float32
	PathScaleX      float32
	PathScaleY      float32
	PathShearX      float32
	PathShearY      float32
	PathTwist       float32
	PathTwistBegin  float32
	PathRadiusOffset float32
	PathTaperX      float32
	PathTaperY      float32
	PathRevolutions float32
	PathSkew        float32
	ProfileCurve    uint8
	ProfileBegin    float32
	ProfileEnd      float32
	ProfileHollow   float32

	OwnerID      *wire.AssetId
	TreeSpecies  *uint8
	ScratchPad   []byte
	FloatingText *FloatingText
	MediaURL     *string
	Particles    *ParticleSystem
	Extra        *ExtraParams
	SoundInfo    *Sound
	NameValues   []NameValue

	TextureEntry     *TextureEntry
	TextureAnimation *TextureAnimation
}
