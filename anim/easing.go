package anim

// easeOutCubic decelerates toward the end of the transition.
func easeOutCubic(t float64) float64 {
	t = clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// easeInCubic accelerates from rest.
func easeInCubic(t float64) float64 {
	t = clamp01(t)
	return t * t * t
}

// easeOutBack overshoots its target before settling at 1, giving the damped
// bounce appearance. The constants are the conventional back-easing pair.
func easeOutBack(t float64) float64 {
	t = clamp01(t)
	const c1 = 1.70158
	const c3 = c1 + 1
	u := t - 1
	return 1 + c3*u*u*u + c1*u*u
}

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
