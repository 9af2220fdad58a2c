// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// Bit-packer / bit-unpacker: fields of 1..8 bits, packed LSB-first within a
// byte and across byte boundaries. Unlike the other primitives, bit read
// state lives on the Decoder itself rather than in a Slot, matching the
// source's own scratch registers: only one bit-packed run is ever in
// flight driver-wide, since nested composites never open a second run
// while an outer one is only partially read.

// GetBits reads the next n (1..8) bits of the current run, LSB-first,
// resuming correctly if an earlier call suspended partway through (e.g.
// because fetching the backing byte needed more input than was on hand).
func (d *Decoder) GetBits(n uint8) (uint32, bool) {
	if !d.bitActive {
		d.bitAcc = 0
		d.bitGot = 0
		d.bitWant = n
		d.bitActive = true
	}
	for d.bitGot < d.bitWant {
		if d.bitCursor >= 8 {
			data, ok := d.fetch(1)
			if !ok {
				return 0, false
			}
			d.bitByte = data[0]
			d.bitCursor = 0
		}
		bit := (d.bitByte >> d.bitCursor) & 1
		d.bitAcc |= uint32(bit) << d.bitGot
		d.bitCursor++
		d.bitGot++
	}
	v := d.bitAcc
	d.bitActive = false
	return v, true
}

// InitBitsRead primes the bit reader to fetch a fresh byte on the next
// GetBits call. Callers invoke this once before the first field of a new
// bit-packed run.
func (d *Decoder) InitBitsRead() {
	d.bitCursor = 8
	d.bitByte = 0
	d.bitActive = false
}

// Encoder side: a bit-packed run is a short transaction. InitBits clears
// the encoder's fixed bitBuf scratch, PutBits appends fields LSB-first, and
// EndBits returns the finished bytes for the caller to flush via
// WriteRaw/putBytes. That flush writes whatever prefix fits the current
// output and stages the rest, so a run may span two Read calls.

// InitBits begins a new bit-packed transaction expected to span at most
// transactionBytes output bytes (<=16).
func (e *Encoder) InitBits(transactionBytes int) {
	e.bitLen = 0
	e.bitPos = 0
	e.bitTotal = transactionBytes
	for i := range e.bitBuf {
		e.bitBuf[i] = 0
	}
}

// PutBits appends the low n (1..8) bits of value, LSB-first, continuing
// from wherever the previous PutBits/PutBitsRaw call left the bit cursor.
func (e *Encoder) PutBits(value uint32, n uint8) {
	for n > 0 {
		if e.bitPos == 8 {
			e.bitLen++
			e.bitPos = 0
		}
		bit := byte(value & 1)
		e.bitBuf[e.bitLen] |= bit << e.bitPos
		e.bitPos++
		value >>= 1
		n--
	}
}

// Align finishes the current partial byte (if any), so a following
// PutBitsRaw call starts at a byte boundary.
func (e *Encoder) Align() {
	if e.bitPos > 0 {
		e.bitLen++
		e.bitPos = 0
	}
}

// PutBitsRaw appends whole raw bytes to the transaction after aligning to
// a byte boundary; used for the byte tail of a bits+bytes varint.
func (e *Encoder) PutBitsRaw(data []byte) {
	e.Align()
	copy(e.bitBuf[e.bitLen:], data)
	e.bitLen += len(data)
}

// EndBits returns the bytes assembled so far, including a trailing partial
// byte if the run did not end aligned.
func (e *Encoder) EndBits() []byte {
	n := e.bitLen
	if e.bitPos > 0 {
		n++
	}
	return e.bitBuf[:n]
}
