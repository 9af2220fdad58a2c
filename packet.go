// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// PacketReader is implemented by generated (or hand-written) per-packet
// destination types. PutBytes is called repeatedly by the owning Decoder
// until it returns true; between calls the reader must preserve its own
// progress in the Slot returned by Decoder.Slot, never in
// local variables that do not survive a return.
type PacketReader interface {
	// PacketId is this reader's stable packet identifier.
	PacketId() uint64
	// PutBytes decodes as much of the packet as the current chunk allows.
	// done is true once decoding is complete.
	PutBytes(d *Decoder) (done bool, err error)
}

// PacketWriter is implemented by generated (or hand-written) per-packet
// source types, symmetric to PacketReader.
type PacketWriter interface {
	PacketId() uint64
	// GetBytes encodes as much of the packet as the current chunk allows.
	GetBytes(e *Encoder) (done bool, err error)
}

// Allocator produces the destination object for a decoded packet id. It
// returns a nil reader (with ErrUnknownPacketId, or its own error) to
// signal that id is not recognized.
type Allocator func(id uint64) (PacketReader, error)

// Producer yields the next object to serialize, or ok=false when the
// encoder has nothing more to send right now (not necessarily forever).
type Producer func() (src PacketWriter, ok bool)

// DecoderHandler receives packet lifecycle notifications from a Decoder.
type DecoderHandler interface {
	// OnReceiving fires once a packet's destination has been allocated,
	// before any of its fields are read.
	OnReceiving(d *Decoder, dst PacketReader)
	// OnReceived fires once a packet has been fully decoded.
	OnReceived(d *Decoder, dst PacketReader)
}

// EncoderHandler receives packet lifecycle notifications from an Encoder.
type EncoderHandler interface {
	// OnSerializing fires once a packet's source has been obtained from the
	// Producer, before any of its fields are written.
	OnSerializing(e *Encoder, src PacketWriter)
	// OnSerialized fires once a packet has been fully encoded.
	OnSerialized(e *Encoder, src PacketWriter)
}

// NopDecoderHandler is a DecoderHandler whose methods do nothing; embed it
// to implement only the callback a caller cares about.
type NopDecoderHandler struct{}

func (NopDecoderHandler) OnReceiving(*Decoder, PacketReader) {}
func (NopDecoderHandler) OnReceived(*Decoder, PacketReader)  {}

// NopEncoderHandler is the Encoder-side counterpart of NopDecoderHandler.
type NopEncoderHandler struct{}

func (NopEncoderHandler) OnSerializing(*Encoder, PacketWriter) {}
func (NopEncoderHandler) OnSerialized(*Encoder, PacketWriter)  {}
