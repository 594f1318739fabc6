package wire

import "testing"

func TestQuantizeRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		lo, hi float32
		in     float32
	}{
		{"velocity-zero", -VelocityRange, VelocityRange, 0},
		{"velocity-max", -VelocityRange, VelocityRange, VelocityRange},
		{"velocity-min", -VelocityRange, VelocityRange, -VelocityRange},
		{"acceleration-mid", -AccelerationRange, AccelerationRange, 12.5},
		{"rotation-min", -RotationRange, RotationRange, -1.0},
		{"rotation-max", -RotationRange, RotationRange, 1.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := QuantizeU16(c.in, c.lo, c.hi)
			out := DequantizeU16(q, c.lo, c.hi)
			const tolerance = (VelocityRange * 2) / 65535.0 * 1.5
			if diff := out - c.in; diff > tolerance || diff < -tolerance {
				t.Fatalf("quantize round trip: in=%v out=%v diff=%v tol=%v", c.in, out, diff, tolerance)
			}
		})
	}
}

func TestQuantizeU16Clamps(t *testing.T) {
	if got := QuantizeU16(1000, -VelocityRange, VelocityRange); got != 65535 {
		t.Fatalf("expected clamp to max, got %d", got)
	}
	if got := QuantizeU16(-1000, -VelocityRange, VelocityRange); got != 0 {
		t.Fatalf("expected clamp to min, got %d", got)
	}
}

func TestPathParamRoundTrip(t *testing.T) {
	for b := 0; b <= 200; b += 7 {
		f := UnpackPathScale(uint8(b))
		back := PackPathScale(f)
		if int(back) != b {
			t.Fatalf("path scale round trip: b=%d f=%v back=%d", b, f, back)
		}
	}
	for b := -100; b <= 100; b += 5 {
		f := UnpackPathTwist(int8(b))
		back := PackPathTwist(f)
		if int(back) != b {
			t.Fatalf("path twist round trip: b=%d f=%v back=%d", b, f, back)
		}
	}
}
