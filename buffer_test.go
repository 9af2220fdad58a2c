// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import "testing"

func TestGetPutUintLE(t *testing.T) {
	cases := []struct {
		width int
		v     uint64
	}{
		{1, 0xAB},
		{2, 0xDEAD},
		{3, 0x010203},
		{4, 0xDEADBEEF},
		{5, 0x0102030405},
		{6, 0x010203040506},
		{7, 0x01020304050607},
		{8, 0x0102030405060708},
	}
	for _, c := range cases {
		b := make([]byte, c.width)
		putUintLE(b, c.v)
		got := getUintLE(b)
		if got != c.v {
			t.Errorf("width %d: putUintLE/getUintLE round trip = %#x, want %#x", c.width, got, c.v)
		}
	}
}

func TestSignExtend(t *testing.T) {
	b := []byte{0xFF}
	if got := signExtend(getUintLE(b), 1); got != -1 {
		t.Errorf("signExtend(0xFF,1) = %d, want -1", got)
	}
	b3 := []byte{0x00, 0x00, 0x80}
	if got := signExtend(getUintLE(b3), 3); got != -8388608 {
		t.Errorf("signExtend(3-byte min) = %d, want -8388608", got)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	var b4 [4]byte
	putFloat32LE(b4[:], 3.5)
	if got := getFloat32LE(b4[:]); got != 3.5 {
		t.Errorf("float32 round trip = %v, want 3.5", got)
	}
	var b8 [8]byte
	putFloat64LE(b8[:], -1.25)
	if got := getFloat64LE(b8[:]); got != -1.25 {
		t.Errorf("float64 round trip = %v, want -1.25", got)
	}
}
