package wire

import "math"

// Vec3 is a 3-component vector (position, velocity, scale, ...).
type Vec3 [3]float32

// Vec4 is a 4-component vector (e.g. a collision plane, or rgba color).
type Vec4 [4]float32

// Quat is a quaternion in (x, y, z, w) order.
type Quat [4]float32

// ReadVec3 reads three consecutive little-endian float32s.
func (r *Reader) ReadVec3(context string) (Vec3, error) {
	var v Vec3
	for i := range v {
		f, err := r.F32(context)
		if err != nil {
			return Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

func (w *Writer) PutVec3(v Vec3) {
	for _, c := range v {
		w.PutF32(c)
	}
}

// ReadVec4 reads four consecutive little-endian float32s.
func (r *Reader) ReadVec4(context string) (Vec4, error) {
	var v Vec4
	for i := range v {
		f, err := r.F32(context)
		if err != nil {
			return Vec4{}, err
		}
		v[i] = f
	}
	return v, nil
}

func (w *Writer) PutVec4(v Vec4) {
	for _, c := range v {
		w.PutF32(c)
	}
}

// ReadImpliedQuat reads a 12-byte compact quaternion: raw x, y, z float32s
// with w reconstructed as sqrt(1 - x² - y² - z²) (clamped to 0). This is
// the rotation encoding used by the compressed and full object-update
// variants, as opposed to the terse update's 4-component quantized form
// (§4.3.1 "rotation:12", §4.3.3).
func (r *Reader) ReadImpliedQuat(context string) (Quat, error) {
	v, err := r.ReadVec3(context)
	if err != nil {
		return Quat{}, err
	}
	return impliedQuatFromVec3(v), nil
}

func impliedQuatFromVec3(v Vec3) Quat {
	wSq := 1.0 - float64(v[0])*float64(v[0]) - float64(v[1])*float64(v[1]) - float64(v[2])*float64(v[2])
	if wSq < 0 {
		wSq = 0
	}
	return Quat{v[0], v[1], v[2], float32(math.Sqrt(wSq))}
}

// PutImpliedQuat writes the x, y, z components of q; w is omitted, to be
// reconstructed by the reader exactly as ReadImpliedQuat does.
func (w *Writer) PutImpliedQuat(q Quat) {
	w.PutVec3(Vec3{q[0], q[1], q[2]})
}

// ReadRGBA reads four consecutive unsigned bytes as a color.
func (r *Reader) ReadRGBA(context string) ([4]byte, error) {
	b, err := r.Bytes(context, 4)
	if err != nil {
		return [4]byte{}, err
	}
	return [4]byte{b[0], b[1], b[2], b[3]}, nil
}

func (w *Writer) PutRGBA(c [4]byte) {
	w.buf = append(w.buf, c[0], c[1], c[2], c[3])
}
