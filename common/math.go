package common

import "github.com/jakecoffman/cp"

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// ClampToRect keeps a w x h box at p inside the base screen.
func ClampToRect(p cp.Vector, w, h float64) cp.Vector {
	return cp.Vector{
		X: cp.Clamp(p.X, 0, BaseWidth-w),
		Y: cp.Clamp(p.Y, 0, BaseHeight-h),
	}
}
