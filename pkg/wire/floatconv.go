package wire

import "math"

func u32ToFloat32(v uint32) float32 { return math.Float32frombits(v) }
func float32ToU32(f float32) uint32 { return math.Float32bits(f) }

func u64ToFloat64(v uint64) float64 { return math.Float64frombits(v) }
func float64ToU64(f float64) uint64 { return math.Float64bits(f) }
