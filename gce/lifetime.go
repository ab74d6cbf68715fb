package gce

import "math"

// Stellar lifetime fit (Padovani & Matteucci 1993), expressed in Myr for a
// mass in solar masses. The 3 Myr floor is the lifetime of the most massive
// stars; MassFromLifetime is its inverse and is only defined for t > 3 Myr.
//
// The single-degenerate DTD starts its fine grid at 29 Myr because
// MassFromLifetime(29) is just under 8 Msun, the upper primary mass of the
// channel.

// Lifetime returns the main-sequence lifetime in Myr of a star of mass m Msun.
func Lifetime(m float64) float64 {
	return 1200*math.Pow(m, -1.85) + 3
}

// MassFromLifetime inverts Lifetime: the mass in Msun whose lifetime is t Myr.
// For t <= 3 Myr no finite mass evolves that fast and +Inf is returned.
func MassFromLifetime(t float64) float64 {
	if t <= 3 {
		return math.Inf(1)
	}
	return math.Pow((t-3)/1200, -1/1.85)
}
