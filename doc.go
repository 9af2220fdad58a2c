// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package adhoc implements a streaming wire-format codec for the AdHoc
// protocol runtime: a pair of resumable state machines, Decoder and
// Encoder, that incrementally deserialize/serialize structured packets
// from/into a sequence of byte chunks of arbitrary size.
//
// Semantics and design:
//   - Resumability: a Decoder or Encoder may be handed any number of bytes
//     at a time, in any split. Whenever a primitive, a bit-packed run, or a
//     nested composite cannot complete with the bytes on hand, the driver
//     suspends and returns the bytes it did consume/produce; the next call
//     picks up exactly where it left off. No whole-packet buffering ever
//     occurs.
//   - Nesting: composite values (structs, arrays, nested messages) are
//     driven through a slot chain (see Slot) rather than language recursion,
//     so that suspension never has to unwind a call stack it does not own.
//   - Non-blocking first: ErrWouldBlock and ErrMore are re-exported from
//     code.hybscloud.com/iox as control-flow signals for the Channel
//     adapter that pumps bytes between a transport and the drivers.
//
// Wire format:
//  1. Packet id: IDBytes little-endian unsigned integer, the first bytes of
//     every top-level packet.
//  2. Packet body: primitive encodings requested by the per-packet Writer,
//     in writer-defined order.
//  3. Null-field mask: one byte, LSB-first, bit i set iff field i is present.
//  4. Length prefixes: either a fixed-width integer or a continuation
//     varint, at the writer's discretion.
//  5. Bit-packed run: a prefix of bytes filled LSB-first across byte
//     boundaries.
//  6. Continuation varint: 7 data bits per byte, MSB=1 means "more follows",
//     LSB-first across bytes and within each byte.
//  7. Bits+bytes varint: a short bit header giving the byte width, followed
//     by that many raw little-endian bytes.
//  8. String: a continuation-varint code unit count, then that many
//     continuation varints, one per UTF-16 code unit.
//  9. Nested object: no framing of its own; the outer packet's schema is
//     authoritative.
package adhoc
