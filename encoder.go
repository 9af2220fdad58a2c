// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// CompositeWriter is the narrower contract nested composites implement: it
// omits PacketId, which only top-level packets need. Every PacketWriter is
// also a CompositeWriter.
type CompositeWriter interface {
	GetBytes(e *Encoder) (done bool, err error)
}

// Encoder drives incremental encoding of a stream of AdHoc packets, pulling
// the next source object from a Producer and suspending whenever the
// output buffer offered to Read fills before a packet is complete.
//
// Encoder is not safe for concurrent use.
type Encoder struct {
	idBytes int
	produce Producer
	handler EncoderHandler
	onError ErrorHandler

	out []byte // remaining output room for the current Read call

	tmp       [maxPrimitiveWidth]byte
	tmpFilled int
	tmpTotal  int

	slots      slotChain
	rootWriter PacketWriter
	idDone     bool

	// bit-packed write scratch: a whole transaction is assembled here; the
	// caller flushes the bytes EndBits returns via WriteRaw/putBytes.
	bitBuf   [maxPrimitiveWidth]byte
	bitLen   int
	bitPos   uint8
	bitTotal int

	// continuation-varint encode scratch.
	varintRemaining uint64
	varintActive    bool

	// string encode scratch.
	strPhase   strPhase
	strUnits   []uint16
	strIdx     int
	strLenDone bool

	// bits+bytes varint encode scratch.
	bbPhase int
}

// EncoderOption configures an Encoder constructed by NewEncoder.
type EncoderOption func(*Encoder)

// WithEncoderIDBytes sets the width, in bytes, of every top-level packet's
// leading id field, overriding the idBytes passed to NewEncoder. Must be in
// 1..7.
func WithEncoderIDBytes(n int) EncoderOption {
	return func(e *Encoder) { e.idBytes = n }
}

// WithEncoderHandler sets the lifecycle callback invoked around each
// packet's encode.
func WithEncoderHandler(h EncoderHandler) EncoderOption {
	return func(e *Encoder) { e.handler = h }
}

// WithEncoderErrorHandler overrides the default (panicking) error handler.
func WithEncoderErrorHandler(h ErrorHandler) EncoderOption {
	return func(e *Encoder) { e.onError = h }
}

// NewEncoder constructs an Encoder. idBytes (1..7) and produce are
// required; other aspects are configured via options.
func NewEncoder(idBytes int, produce Producer, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		idBytes: idBytes,
		produce: produce,
		handler: NopEncoderHandler{},
		onError: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Idle reports whether the encoder has no packet in flight.
func (e *Encoder) Idle() bool { return e.rootWriter == nil }

// Reset abandons any packet in flight and clears all scratch/slot state.
func (e *Encoder) Reset() {
	e.slots.reset()
	e.rootWriter = nil
	e.tmpFilled = 0
	e.resetScratch()
}

func (e *Encoder) resetScratch() {
	e.bitLen, e.bitPos, e.bitTotal = 0, 0, 0
	e.varintActive = false
	e.strPhase = strPhaseIdle
	e.strLenDone = false
	e.bbPhase = 0
}

func (e *Encoder) raise(kind Kind, packetId uint64, cause error) {
	e.onError(newDriverError(kind, packetId, cause))
}

// Slot returns the slot the caller's immediate caller pushed (or resumed)
// for it. Every GetBytes implementation calls this first to recover its
// own resumable state.
func (e *Encoder) Slot() *Slot { return e.slots.top }

// TryPutBytes drives a nested composite through its own slot, symmetric to
// Decoder.TryGetBytes.
func (e *Encoder) TryPutBytes(child CompositeWriter) (done bool, err error) {
	top := e.slots.top
	if top == nil || top.Obj != child {
		s := e.slots.push()
		s.Obj = child
	}
	done, err = child.GetBytes(e)
	if err != nil {
		return false, err
	}
	if done {
		e.slots.pop()
	}
	return done, nil
}

// Read fills p with the next serialized bytes, pulling fresh packets from
// the Producer as needed. It returns (n, nil) with n possibly less than
// len(p) when a packet only partially fits, or (-1, nil) when output
// remains completely empty because the Producer currently has nothing to
// send (not necessarily forever).
func (e *Encoder) Read(p []byte) (n int, err error) {
	e.out = p
	total := len(p)
	progressed := false
	for {
		if e.rootWriter == nil {
			src, ok := e.produce()
			if !ok {
				if !progressed {
					return -1, nil
				}
				return total - len(e.out), nil
			}
			s := e.slots.push()
			s.Obj = src
			e.rootWriter = src
			e.idDone = false
			e.handler.OnSerializing(e, src)
		}
		progressed = true

		if !e.idDone {
			var idb [8]byte
			putUintLE(idb[:e.idBytes], e.rootWriter.PacketId())
			if !e.putBytes(idb[:e.idBytes]) {
				return total - len(e.out), nil
			}
			e.idDone = true
		}

		writer := e.rootWriter
		done, werr := writer.GetBytes(e)
		if werr != nil {
			pid := writer.PacketId()
			e.Reset()
			e.raise(ProtocolError, pid, werr)
			continue
		}
		if !done {
			return total - len(e.out), nil
		}
		e.handler.OnSerialized(e, writer)
		e.slots.pop()
		e.rootWriter = nil
		e.resetScratch()
		if len(e.out) == 0 {
			return total, nil
		}
	}
}

// putBytes writes data (at most maxPrimitiveWidth bytes) atomically: either
// all of it lands in the current output window, or the available prefix is
// written, the whole value is staged in tmp, and the rest is flushed from
// tmp on subsequent calls before any new primitive may be written. Every fixed-width Write* helper and every
// bit-packed transaction flush goes through this.
func (e *Encoder) putBytes(data []byte) bool {
	if len(data) > maxPrimitiveWidth {
		panic("adhoc: primitive wider than the encoder's atomic-write scratch")
	}
	if e.tmpFilled > 0 {
		n := copy(e.out, e.tmp[e.tmpFilled:e.tmpTotal])
		e.out = e.out[n:]
		e.tmpFilled += n
		if e.tmpFilled < e.tmpTotal {
			return false
		}
		e.tmpFilled = 0
		return true
	}
	if len(e.out) >= len(data) {
		n := copy(e.out, data)
		e.out = e.out[n:]
		return true
	}
	copy(e.tmp[:], data)
	n := copy(e.out, data)
	e.out = e.out[n:]
	e.tmpFilled = n
	e.tmpTotal = len(data)
	return false
}

// WriteUint writes an unsigned little-endian integer of the given byte
// width (1..8).
func (e *Encoder) WriteUint(width int, v uint64) bool {
	var b [8]byte
	putUintLE(b[:width], v)
	return e.putBytes(b[:width])
}

// WriteInt writes a signed little-endian integer of the given byte width
// (1..8); the low width*8 bits of v's two's-complement form are emitted.
func (e *Encoder) WriteInt(width int, v int64) bool {
	return e.WriteUint(width, uint64(v))
}

// WriteBool writes a single-byte boolean.
func (e *Encoder) WriteBool(v bool) bool {
	if v {
		return e.putBytes([]byte{1})
	}
	return e.putBytes([]byte{0})
}

// WriteFloat32 writes an IEEE-754 binary32, little-endian.
func (e *Encoder) WriteFloat32(f float32) bool {
	var b [4]byte
	putFloat32LE(b[:], f)
	return e.putBytes(b[:])
}

// WriteFloat64 writes an IEEE-754 binary64, little-endian.
func (e *Encoder) WriteFloat64(f float64) bool {
	var b [8]byte
	putFloat64LE(b[:], f)
	return e.putBytes(b[:])
}

// WriteRaw atomically writes a small (<=16 byte) raw payload, e.g. the tail
// of a bits+bytes varint.
func (e *Encoder) WriteRaw(data []byte) bool {
	return e.putBytes(data)
}
