package object

import "github.com/runZeroInc/lludp/pkg/wire"

// ObjectDataKind distinguishes the three legal lengths of a full
// ObjectData block, plus an escape for anything else (§4.3.3).
type ObjectDataKind uint8

const (
	ObjectDataTreeSpecies ObjectDataKind = iota
	ObjectDataFull
	ObjectDataFullWithCollisionPlane
	ObjectDataUnknown
)

// FullObjectData is the decoded form of an ObjectUpdate message's
// ObjectData field (§4.3.3). Only the fields relevant to Kind are
// populated; callers encountering ObjectDataUnknown get the raw bytes back
// and are responsible for logging the length mismatch (the decoder itself
// never fails on it — an unrecognized length is not malformed, §4.3.3
// "should be surfaced as opaque bytes plus a warning").
type FullObjectData struct {
	Kind            ObjectDataKind
	TreeSpecies     uint8
	CollisionPlane  wire.Vec4
	Position        wire.Vec3
	Velocity        wire.Vec3
	Acceleration    wire.Vec3
	Rotation        wire.Quat
	AngularVelocity wire.Vec3
	Raw             []byte
}

// DecodeObjectData dispatches on len(b): 1 byte is a bare tree species, 60
// is position/velocity/acceleration/rotation/angular_velocity, 76 is the
// same with a leading 16-byte collision plane. Any other length decodes to
// ObjectDataUnknown carrying the raw bytes.
func DecodeObjectData(b []byte) (FullObjectData, error) {
	switch len(b) {
	case 1:
		r := wire.NewReader(b)
		species, err := r.U8("ObjectData.TreeSpecies")
		if err != nil {
			return FullObjectData{}, err
		}
		return FullObjectData{Kind: ObjectDataTreeSpecies, TreeSpecies: species}, nil
	case 60:
		return decodeFullObjectData(b, false)
	case 76:
		return decodeFullObjectData(b, true)
	default:
		raw := make([]byte, len(b))
		copy(raw, b)
		return FullObjectData{Kind: ObjectDataUnknown, Raw: raw}, nil
	}
}

func decodeFullObjectData(b []byte, withCollisionPlane bool) (FullObjectData, error) {
	var d FullObjectData
	r := wire.NewReader(b)
	if withCollisionPlane {
		cp, err := r.ReadVec4("ObjectData.CollisionPlane")
		if err != nil {
			return d, err
		}
		d.CollisionPlane = cp
		d.Kind = ObjectDataFullWithCollisionPlane
	} else {
		d.Kind = ObjectDataFull
	}
	position, err := r.ReadVec3("ObjectData.Position")
	if err != nil {
		return d, err
	}
	velocity, err := r.ReadVec3("ObjectData.Velocity")
	if err != nil {
		return d, err
	}
	acceleration, err := r.ReadVec3("ObjectData.Acceleration")
	if err != nil {
		return d, err
	}
	rotation, err := r.ReadImpliedQuat("ObjectData.Rotation")
	if err != nil {
		return d, err
	}
	angularVelocity, err := r.ReadVec3("ObjectData.AngularVelocity")
	if err != nil {
		return d, err
	}
	d.Position = position
	d.Velocity = velocity
	d.Acceleration = acceleration
	d.Rotation = rotation
	d.AngularVelocity = angularVelocity
	return d, nil
}

// EncodeObjectData is the inverse of DecodeObjectData.
func EncodeObjectData(d FullObjectData) []byte {
	switch d.Kind {
	case ObjectDataTreeSpecies:
		w := wire.NewWriter(1)
		w.PutU8(d.TreeSpecies)
		return w.Bytes()
	case ObjectDataUnknown:
		return d.Raw
	default:
		w := wire.NewWriter(76)
		if d.Kind == ObjectDataFullWithCollisionPlane {
			w.PutVec4(d.CollisionPlane)
		}
		w.PutVec3(d.Position)
		w.PutVec3(d.Velocity)
		w.PutVec3(d.Acceleration)
		w.PutImpliedQuat(d.Rotation)
		w.PutVec3(d.AngularVelocity)
		return w.Bytes()
	}
}
