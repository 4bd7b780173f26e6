package animation

import "math"

// LinearCurve returns progress unchanged.
func LinearCurve(t float64) float64 {
	return t
}

// IOSNavigationCurve approximates the easing of a navigation push.
var IOSNavigationCurve = CubicBezier(0.22, 1.0, 0.36, 1.0)

// EaseInOut starts and ends slowly. Used for dissolves and flips.
var EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)

// EaseOut decelerates. Used for content entering from an edge.
var EaseOut = CubicBezier(0.0, 0.0, 0.2, 1.0)

// CubicBezier returns an easing function matching CSS cubic-bezier() with
// control points (x1,y1) and (x2,y2).
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Newton-Raphson stalled; bisect within [0,1].
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 12 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}
		return sampleCurve(y1, y2, u)
	}
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(value float64) float64 {
	return math.Max(0, math.Min(1, value))
}
