package atlas

import (
	"math"
	"math/bits"
)

// EstimateWidth returns a first-guess shelf width: the smallest power of two
// at least as large as the side of a square holding the total padded area
// Σ (w+padding)·(h+padding).
//
// The estimate assumes near-perfect packing density; the shelf layout will
// usually need more height than width, which [ResolveSize] accounts for.
func EstimateWidth(images []Image, padding int) int {
	total := 0
	for _, img := range images {
		total += (img.Width() + padding) * (img.Height() + padding)
	}
	return NextPowerOfTwo(ceilSqrt(total))
}

// NextPowerOfTwo returns the smallest power of two ≥ n. Values ≤ 1 yield 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// ceilSqrt returns the smallest s with s*s ≥ n.
func ceilSqrt(n int) int {
	if n <= 0 {
		return 0
	}
	s := int(math.Sqrt(float64(n)))
	for s*s < n {
		s++
	}
	for s > 0 && (s-1)*(s-1) >= n {
		s--
	}
	return s
}
