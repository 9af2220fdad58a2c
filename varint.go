// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import "github.com/pkg/errors"

// Continuation-varint byte budgets. The source escalates from a 32-bit to
// a 64-bit scratch register after 4 bytes; a systems-language port holds
// the whole value in one uint64 throughout, so the only budgets that
// matter are the wire-format overflow ceilings themselves.
const (
	Varint32MaxBytes = 5
	Varint64MaxBytes = 10
)

// ReadVarint decodes a continuation varint (7 data bits per byte, MSB=1
// means "more follows"), resuming correctly across suspension. maxBytes
// bounds the encoding length; exceeding it yields an Overflow-wrapped
// error matching ErrOverflow, with ok=true (the malformed encoding was
// fully consumed, so the caller may resynchronize at the next boundary).
func (d *Decoder) ReadVarint(maxBytes int) (value uint64, ok bool, err error) {
	if !d.varintActive {
		d.varintAcc, d.varintShift, d.varintBytes, d.varintActive = 0, 0, 0, true
	}
	for {
		b, fok := d.fetch(1)
		if !fok {
			return 0, false, nil
		}
		d.varintBytes++
		v := b[0]
		d.varintAcc |= uint64(v&0x7f) << d.varintShift
		if v&0x80 == 0 {
			acc := d.varintAcc
			d.varintActive = false
			return acc, true, nil
		}
		if d.varintBytes >= maxBytes {
			d.varintActive = false
			return 0, true, errors.WithStack(ErrOverflow)
		}
		d.varintShift += 7
	}
}

// WriteVarint encodes v as a continuation varint, suspending and resuming
// cleanly if the output fills mid-stream.
func (e *Encoder) WriteVarint(v uint64) bool {
	if !e.varintActive {
		e.varintRemaining = v
		e.varintActive = true
	}
	for {
		b := byte(e.varintRemaining & 0x7f)
		rest := e.varintRemaining >> 7
		if rest != 0 {
			b |= 0x80
		}
		if !e.putBytes([]byte{b}) {
			return false
		}
		e.varintRemaining = rest
		if rest == 0 {
			e.varintActive = false
			return true
		}
	}
}

// Bits+bytes varint: a short bit header (1..4 bits) gives the byte width of
// a following raw little-endian payload, optionally interleaved with a
// caller-defined run of "null" bits below the width field (the "plus
// nulls" forms used to emit a field's nullability alongside its length).
// Phase/width live on the Decoder/Encoder directly, matching the source's
// BITS_BYTES/BITS_BYTES4/BITS_BYTES8 driver modes; no Slot is needed since
// only one such transaction is ever in flight at a time.

// ReadBitsBytesN decodes a bits+bytes varint whose header is headerBits
// wide (encoding width-bias) preceded by nullBits low bits of unrelated
// flags. Pass nullBits=0 for the plain (non "plus nulls") forms.
func (d *Decoder) ReadBitsBytesN(headerBits, nullBits uint8, bias int) (value uint64, nulls uint32, ok bool, err error) {
	total := headerBits + nullBits
	if d.bbPhase == 0 {
		d.bbPhase = 1
	}
	if d.bbPhase == 1 {
		hdr, gok := d.GetBits(total)
		if !gok {
			return 0, 0, false, nil
		}
		d.bbNulls = hdr & (1<<nullBits - 1)
		d.bbWidth = int(hdr>>nullBits) + bias
		d.bbPhase = 2
	}
	if d.bbWidth == 0 {
		d.bbPhase = 0
		return 0, d.bbNulls, true, nil
	}
	data, fok := d.fetch(d.bbWidth)
	if !fok {
		return 0, 0, false, nil
	}
	d.bbPhase = 0
	return getUintLE(data), d.bbNulls, true, nil
}

// ReadBitsBytes decodes the plain (no null bits) form.
func (d *Decoder) ReadBitsBytes(headerBits uint8, bias int) (value uint64, ok bool, err error) {
	v, _, ok, err := d.ReadBitsBytesN(headerBits, 0, bias)
	return v, ok, err
}

// WriteBitsBytesN encodes value using width raw bytes, preceded by a
// headerBits-wide length field (storing width-bias) and nullBits low bits
// of caller-supplied flags.
func (e *Encoder) WriteBitsBytesN(headerBits, nullBits uint8, bias int, value uint64, width int, nulls uint32) bool {
	if e.bbPhase == 0 {
		e.InitBits(1 + width)
		hdr := uint32(width-bias)<<nullBits | (nulls & (1<<nullBits - 1))
		e.PutBits(hdr, headerBits+nullBits)
		var raw [8]byte
		putUintLE(raw[:width], value)
		e.PutBitsRaw(raw[:width])
		e.bbPhase = 1
	}
	if e.bbPhase == 1 {
		if !e.WriteRaw(e.EndBits()) {
			return false
		}
		e.bbPhase = 0
	}
	return true
}

// WriteBitsBytes encodes the plain (no null bits) form.
func (e *Encoder) WriteBitsBytes(headerBits uint8, bias int, value uint64, width int) bool {
	return e.WriteBitsBytesN(headerBits, 0, bias, value, width, 0)
}

// Named variant widths, matching the source's own vocabulary: the first
// digit is the count of representable byte widths, the second is the
// header bit count.
const (
	varint21HeaderBits uint8 = 1 // widths 1..2
	varint32HeaderBits uint8 = 2 // widths 1..3
	varint42HeaderBits uint8 = 2 // widths 1..4
	varint73HeaderBits uint8 = 3 // widths 1..7
	varint83HeaderBits uint8 = 3 // widths 1..8
	varint84HeaderBits uint8 = 4 // widths 1..8, plus-nulls form
)

// ReadVarint21/32/42/73/83 decode the corresponding unsigned bits+bytes
// varint; ReadVarint73N/84N decode the "plus nulls" forms, additionally
// returning the interleaved null bits.
func (d *Decoder) ReadVarint21() (uint64, bool, error) { return d.ReadBitsBytes(varint21HeaderBits, 1) }
func (d *Decoder) ReadVarint32() (uint64, bool, error) { return d.ReadBitsBytes(varint32HeaderBits, 1) }
func (d *Decoder) ReadVarint42() (uint64, bool, error) { return d.ReadBitsBytes(varint42HeaderBits, 1) }
func (d *Decoder) ReadVarint73() (uint64, bool, error) { return d.ReadBitsBytes(varint73HeaderBits, 1) }
func (d *Decoder) ReadVarint83() (uint64, bool, error) { return d.ReadBitsBytes(varint83HeaderBits, 1) }

func (d *Decoder) ReadVarint73N(nullBits uint8) (uint64, uint32, bool, error) {
	return d.ReadBitsBytesN(varint73HeaderBits, nullBits, 1)
}
func (d *Decoder) ReadVarint84N(nullBits uint8) (uint64, uint32, bool, error) {
	return d.ReadBitsBytesN(varint84HeaderBits, nullBits, 1)
}

func (e *Encoder) WriteVarint21(v uint64, width int) bool { return e.WriteBitsBytes(varint21HeaderBits, 1, v, width) }
func (e *Encoder) WriteVarint32(v uint64, width int) bool { return e.WriteBitsBytes(varint32HeaderBits, 1, v, width) }
func (e *Encoder) WriteVarint42(v uint64, width int) bool { return e.WriteBitsBytes(varint42HeaderBits, 1, v, width) }
func (e *Encoder) WriteVarint73(v uint64, width int) bool { return e.WriteBitsBytes(varint73HeaderBits, 1, v, width) }
func (e *Encoder) WriteVarint83(v uint64, width int) bool { return e.WriteBitsBytes(varint83HeaderBits, 1, v, width) }

func (e *Encoder) WriteVarint73N(v uint64, width int, nullBits uint8, nulls uint32) bool {
	return e.WriteBitsBytesN(varint73HeaderBits, nullBits, 1, v, width, nulls)
}
func (e *Encoder) WriteVarint84N(v uint64, width int, nullBits uint8, nulls uint32) bool {
	return e.WriteBitsBytesN(varint84HeaderBits, nullBits, 1, v, width, nulls)
}

// ZigZagEncode maps a signed integer to an unsigned one so small negative
// values stay small after varint encoding.
func ZigZagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// ZigZagDecode reverses ZigZagEncode.
func ZigZagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
