package object

import "github.com/runZeroInc/lludp/pkg/wire"

// TerseUpdate is the fixed-layout high-frequency movement block (§4.3.2).
// Unlike the compressed/full variants it carries no identity or shape
// fields — only the kinematic state a simulator resends every frame — so it
// is kept distinct from ObjectSnapshot and merged into one by the caller
// that tracks per-object state across updates.
type TerseUpdate struct {
	LocalID         uint32
	State           uint8
	IsAvatar        bool
	CollisionPlane  *wire.Vec4
	Position        wire.Vec3
	Velocity        wire.Vec3
	Acceleration    wire.Vec3
	Rotation        wire.Quat
	AngularVelocity wire.Vec3
}

// DecodeTerseUpdate parses one terse-update block (§4.3.2). Velocity,
// acceleration, rotation and angular velocity are quantized u16s, not raw
// floats — bit-exact with the ranges in §4.1/§6.
func DecodeTerseUpdate(block []byte) (TerseUpdate, error) {
	r := wire.NewReader(block)
	var t TerseUpdate

	localID, err := r.U32("TerseUpdate.LocalID")
	if err != nil {
		return t, err
	}
	state, err := r.U8("TerseUpdate.State")
	if err != nil {
		return t, err
	}
	isAvatar, err := r.U8("TerseUpdate.IsAvatar")
	if err != nil {
		return t, err
	}
	t.LocalID = localID
	t.State = state
	t.IsAvatar = isAvatar != 0

	if t.IsAvatar {
		cp, err := r.ReadVec4("TerseUpdate.CollisionPlane")
		if err != nil {
			return t, err
		}
		t.CollisionPlane = &cp
	}

	position, err := r.ReadVec3("TerseUpdate.Position")
	if err != nil {
		return t, err
	}
	velocity, err := wire.DequantizeVec3(r, "TerseUpdate.Velocity", wire.VelocityRange)
	if err != nil {
		return t, err
	}
	acceleration, err := wire.DequantizeVec3(r, "TerseUpdate.Acceleration", wire.AccelerationRange)
	if err != nil {
		return t, err
	}
	rotation, err := wire.DequantizeQuat(r, "TerseUpdate.Rotation")
	if err != nil {
		return t, err
	}
	angularVelocity, err := wire.DequantizeVec3(r, "TerseUpdate.AngularVelocity", wire.AngularVelocityRange)
	if err != nil {
		return t, err
	}

	t.Position = position
	t.Velocity = velocity
	t.Acceleration = acceleration
	t.Rotation = rotation
	t.AngularVelocity = angularVelocity
	return t, nil
}

// EncodeTerseUpdate is the inverse of DecodeTerseUpdate.
func EncodeTerseUpdate(t TerseUpdate) []byte {
	w := wire.NewWriter(64)
	w.PutU32(t.LocalID)
	w.PutU8(t.State)
	if t.IsAvatar {
		w.PutU8(1)
	} else {
		w.PutU8(0)
	}
	if t.CollisionPlane != nil {
		w.PutVec4(*t.CollisionPlane)
	}
	w.PutVec3(t.Position)
	w.PutQuantizedVec3(t.Velocity, wire.VelocityRange)
	w.PutQuantizedVec3(t.Acceleration, wire.AccelerationRange)
	w.PutQuantizedQuat(t.Rotation)
	w.PutQuantizedVec3(t.AngularVelocity, wire.AngularVelocityRange)
	return w.Bytes()
}
