// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import "math"

// maxPrimitiveWidth is the upper bound on any single primitive the wire
// format encodes atomically; the widest in use, a varint83/84 header plus
// its payload byte run, stays well below it. It bounds the scratch regions
// used by the split-value cache and the encoder's tmp register.
const maxPrimitiveWidth = 16

// getUintLE decodes an unsigned little-endian integer of 1..8 bytes from b.
// Widths 3, 5, 6 and 7 compose from the same byte-at-a-time accumulation as
// the canonical widths; there is no special-cased packing, unlike a host
// language without native 64-bit integers.
func getUintLE(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// putUintLE encodes the low len(b)*8 bits of v into b, little-endian.
func putUintLE(b []byte, v uint64) {
	for i := range b {
		b[i] = byte(v)
		v >>= 8
	}
}

// signExtend sign-extends a width-byte two's-complement value held in the
// low width*8 bits of v.
func signExtend(v uint64, width int) int64 {
	shift := uint(64 - width*8)
	return int64(v<<shift) >> shift
}

func getIntLE(b []byte) int64 {
	return signExtend(getUintLE(b), len(b))
}

func getFloat32LE(b []byte) float32 {
	return math.Float32frombits(uint32(getUintLE(b)))
}

func getFloat64LE(b []byte) float64 {
	return math.Float64frombits(getUintLE(b))
}

func putFloat32LE(b []byte, f float32) {
	putUintLE(b, uint64(math.Float32bits(f)))
}

func putFloat64LE(b []byte, f float64) {
	putUintLE(b, math.Float64bits(f))
}
