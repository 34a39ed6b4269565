// SPDX-License-Identifier: MIT
/*
Package bitint provides the power-of-two helpers used to size analysis
frames. The onset tracker and the FFT frontend both require a frame length
that is an exact power of two; configuration validation uses NextPowerOfTwo
to suggest the closest valid size.

Usage:

	// Reject an analysis window the FFT cannot handle
	if !bitint.IsPowerOfTwo(windowSize) {
		return fmt.Errorf("window %d, try %d", windowSize, bitint.NextPowerOfTwo(windowSize))
	}

----------------------------------------------------------------------

NextPowerOfTwo subtracts one before taking the bit length so that exact
powers of two map to themselves:

	size 8:  bits.Len(7) = 3, 1 << 3 = 8
	size 9:  bits.Len(8) = 4, 1 << 4 = 16
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size.
//
//	Input  Output
//	1000   1024
//	1024   1024
//	0      1
//	-1     1
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// PrevPowerOfTwo returns the largest power of 2 <= size, or 0 for
// non-positive input.
func PrevPowerOfTwo(size int) int {
	if size <= 0 {
		return 0
	}
	return 1 << (bits.Len(uint(size)) - 1)
}

// IsPowerOfTwo reports whether n is a positive power of 2.
// (n & (n-1)) clears the lowest set bit, which leaves zero only when
// exactly one bit was set.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
