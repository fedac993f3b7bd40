package region

// Clamp projects requested into [min, max]. Behavior is unspecified (but
// will not panic) when min > max.
func Clamp(requested, min, max int64) int64 {
	if requested < min {
		return min
	}
	if requested > max {
		return max
	}
	return requested
}
