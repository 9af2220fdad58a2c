// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import "errors"

// CompositeReader is the narrower contract nested composites implement: it
// omits PacketId, which only top-level packets need. Every PacketReader is
// also a CompositeReader.
type CompositeReader interface {
	PutBytes(d *Decoder) (done bool, err error)
}

// Decoder drives incremental decoding of a stream of AdHoc packets. A zero
// Decoder is not usable; construct one with NewDecoder.
//
// Decoder is not safe for concurrent use. A single instance may be driven
// from any one goroutine at a time, provided callers never hand it to two
// goroutines concurrently.
type Decoder struct {
	idBytes  int
	allocate Allocator
	handler  DecoderHandler
	onError  ErrorHandler

	cur []byte // remaining bytes of the chunk passed to the current Write call

	cache splitCache
	slots slotChain

	rootReader PacketReader

	// bit-packed read scratch (shared driver-wide; see bits.go).
	bitByte   byte
	bitCursor uint8 // 0..8; 8 means "fetch a new byte before reading"
	bitAcc    uint32
	bitGot    uint8
	bitWant   uint8
	bitActive bool

	// continuation-varint decode scratch.
	varintAcc    uint64
	varintShift  uint
	varintBytes  int
	varintActive bool

	// string decode scratch.
	strPhase strPhase
	strWant  int
	strGot   int
	strBuf   []uint16

	// bits+bytes varint decode scratch.
	bbPhase int
	bbWidth int
	bbNulls uint32
}

type strPhase uint8

const (
	strPhaseIdle strPhase = iota
	strPhaseLen
	strPhaseUnits
)

// DecoderOption configures a Decoder constructed by NewDecoder.
type DecoderOption func(*Decoder)

// WithDecoderIDBytes sets the width, in bytes, of every top-level packet's
// leading id field, overriding the idBytes passed to NewDecoder. Must be in
// 1..7.
func WithDecoderIDBytes(n int) DecoderOption {
	return func(d *Decoder) { d.idBytes = n }
}

// WithAllocator sets the hook used to produce a packet's destination object
// from its decoded id.
func WithAllocator(a Allocator) DecoderOption {
	return func(d *Decoder) { d.allocate = a }
}

// WithDecoderHandler sets the lifecycle callback invoked around each
// packet's decode.
func WithDecoderHandler(h DecoderHandler) DecoderOption {
	return func(d *Decoder) { d.handler = h }
}

// WithDecoderErrorHandler overrides the default (panicking) error handler.
func WithDecoderErrorHandler(h ErrorHandler) DecoderOption {
	return func(d *Decoder) { d.onError = h }
}

// NewDecoder constructs a Decoder. idBytes (1..7) and allocate are
// required; other aspects are configured via options.
func NewDecoder(idBytes int, allocate Allocator, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		idBytes:  idBytes,
		allocate: allocate,
		handler:  NopDecoderHandler{},
		onError:  defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Idle reports whether the decoder has no packet in flight. It is true
// before the first byte of a packet arrives and again immediately after
// OnReceived fires for the previous one.
func (d *Decoder) Idle() bool { return d.rootReader == nil }

// Reset abandons any packet in flight and clears all scratch/slot state,
// as if the decoder were newly constructed. Called by Channel.Abort and
// after an unrecoverable error; Channel.Close does not call it.
func (d *Decoder) Reset() {
	d.slots.reset()
	d.rootReader = nil
	d.cache.pending = 0
	d.resetScratch()
}

func (d *Decoder) resetScratch() {
	d.bitActive = false
	d.bitCursor = 8
	d.varintActive = false
	d.strPhase = strPhaseIdle
	d.bbPhase = 0
}

func (d *Decoder) raise(kind Kind, packetId uint64, cause error) {
	d.onError(newDriverError(kind, packetId, cause))
}

// Slot returns the slot the caller's immediate caller pushed (or resumed)
// for it: the top of the active chain. Every PutBytes implementation calls
// this first to recover its own resumable state.
func (d *Decoder) Slot() *Slot { return d.slots.top }

// TryGetBytes drives a nested composite through its own slot, pushing one
// the first time child is encountered and resuming the existing one
// otherwise. It returns done=true (and restores the parent as the active
// slot) only once child.PutBytes reports completion.
func (d *Decoder) TryGetBytes(child CompositeReader) (done bool, err error) {
	top := d.slots.top
	if top == nil || top.Obj != child {
		s := d.slots.push()
		s.Obj = child
	}
	done, err = child.PutBytes(d)
	if err != nil {
		return false, err
	}
	if done {
		d.slots.pop()
	}
	return done, nil
}

// Write feeds the next chunk of raw bytes to the decoder. It processes as
// many complete packets as the chunk allows (firing OnReceiving/OnReceived
// for each) and returns once the chunk is exhausted or a partial
// packet/primitive is left in flight for the next call. n is always
// len(p): per the external byte-sink contract the decoder either consumes
// everything handed to it or aborts the packet and resynchronizes, it
// never asks for the same bytes twice.
func (d *Decoder) Write(p []byte) (n int, err error) {
	d.cur = p
	total := len(p)
	for {
		if d.rootReader == nil {
			data, ok := d.cache.fetch(&d.cur, d.idBytes)
			if !ok {
				return total, nil
			}
			id := getUintLE(data)
			reader, aerr := d.allocate(id)
			if reader == nil {
				if aerr == nil {
					aerr = ErrUnknownPacketId
				}
				d.Reset()
				d.raise(InvalidId, id, aerr)
				continue
			}
			s := d.slots.push()
			s.Obj = reader
			d.rootReader = reader
			d.handler.OnReceiving(d, reader)
		}

		reader := d.rootReader
		done, perr := reader.PutBytes(d)
		if perr != nil {
			pid := reader.PacketId()
			kind := ProtocolError
			if errors.Is(perr, ErrOverflow) || errors.Is(perr, ErrStringTooLong) {
				kind = Overflow
			}
			d.Reset()
			d.raise(kind, pid, perr)
			continue
		}
		if !done {
			return total, nil
		}
		d.handler.OnReceived(d, reader)
		d.slots.pop()
		d.rootReader = nil
		d.resetScratch()
		if len(d.cur) == 0 {
			return total, nil
		}
	}
}

// fetch is the decode-side primitive byte source: n contiguous bytes,
// possibly straddling the previous and current chunk via the split-value
// cache.
func (d *Decoder) fetch(n int) ([]byte, bool) {
	return d.cache.fetch(&d.cur, n)
}

// ReadUint reads an unsigned little-endian integer of the given byte width
// (1..8).
func (d *Decoder) ReadUint(width int) (uint64, bool) {
	data, ok := d.fetch(width)
	if !ok {
		return 0, false
	}
	return getUintLE(data), true
}

// ReadInt reads a signed little-endian, sign-extended integer of the given
// byte width (1..8).
func (d *Decoder) ReadInt(width int) (int64, bool) {
	data, ok := d.fetch(width)
	if !ok {
		return 0, false
	}
	return getIntLE(data), true
}

// ReadBool reads a single-byte boolean (non-zero is true).
func (d *Decoder) ReadBool() (bool, bool) {
	data, ok := d.fetch(1)
	if !ok {
		return false, false
	}
	return data[0] != 0, true
}

// ReadFloat32 reads an IEEE-754 binary32, little-endian.
func (d *Decoder) ReadFloat32() (float32, bool) {
	data, ok := d.fetch(4)
	if !ok {
		return 0, false
	}
	return getFloat32LE(data), true
}

// ReadFloat64 reads an IEEE-754 binary64, little-endian.
func (d *Decoder) ReadFloat64() (float64, bool) {
	data, ok := d.fetch(8)
	if !ok {
		return 0, false
	}
	return getFloat64LE(data), true
}

// ReadRaw reads n raw bytes atomically, for payloads the caller interprets
// itself (e.g. the tail of a bits+bytes varint).
func (d *Decoder) ReadRaw(n int) ([]byte, bool) {
	return d.fetch(n)
}
