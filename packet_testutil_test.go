// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// Test-only packet types exercising the slot-driven PacketReader/
// PacketWriter contract without any code generation.

// emptyPing has no body at all.
type emptyPing struct{}

func (*emptyPing) PacketId() uint64 { return 7 }
func (*emptyPing) PutBytes(d *Decoder) (bool, error) { return true, nil }
func (*emptyPing) GetBytes(e *Encoder) (bool, error) { return true, nil }

// fieldsPacket is {u32, bool, u16} in declaration order, matching the
// id=0x03 scenario.
type fieldsPacket struct {
	U32  uint32
	Bool bool
	U16  uint16
}

func (*fieldsPacket) PacketId() uint64 { return 3 }

func (p *fieldsPacket) PutBytes(d *Decoder) (bool, error) {
	s := d.Slot()
	for {
		switch s.State {
		case 0:
			v, ok := d.ReadUint(4)
			if !ok {
				return false, nil
			}
			p.U32 = uint32(v)
			s.State = 1
		case 1:
			v, ok := d.ReadBool()
			if !ok {
				return false, nil
			}
			p.Bool = v
			s.State = 2
		case 2:
			v, ok := d.ReadUint(2)
			if !ok {
				return false, nil
			}
			p.U16 = uint16(v)
			s.State = 3
		case 3:
			return true, nil
		}
	}
}

func (p *fieldsPacket) GetBytes(e *Encoder) (bool, error) {
	s := e.Slot()
	for {
		switch s.State {
		case 0:
			if !e.WriteUint(4, uint64(p.U32)) {
				return false, nil
			}
			s.State = 1
		case 1:
			if !e.WriteBool(p.Bool) {
				return false, nil
			}
			s.State = 2
		case 2:
			if !e.WriteUint(2, uint64(p.U16)) {
				return false, nil
			}
			s.State = 3
		case 3:
			return true, nil
		}
	}
}

// u64TailPacket has a single trailing u64 field, used to exercise the
// split-value cache across a chunk boundary that falls mid-field.
type u64TailPacket struct {
	V uint64
}

func (*u64TailPacket) PacketId() uint64 { return 9 }

func (p *u64TailPacket) PutBytes(d *Decoder) (bool, error) {
	v, ok := d.ReadUint(8)
	if !ok {
		return false, nil
	}
	p.V = v
	return true, nil
}

func (p *u64TailPacket) GetBytes(e *Encoder) (bool, error) {
	if !e.WriteUint(8, p.V) {
		return false, nil
	}
	return true, nil
}

// countingHandler records lifecycle callback invocations for assertions.
type countingHandler struct {
	NopDecoderHandler
	NopEncoderHandler
	receiving, received   int
	serializing, serialized int
}

func (h *countingHandler) OnReceiving(*Decoder, PacketReader) { h.receiving++ }
func (h *countingHandler) OnReceived(*Decoder, PacketReader)  { h.received++ }
func (h *countingHandler) OnSerializing(*Encoder, PacketWriter) { h.serializing++ }
func (h *countingHandler) OnSerialized(*Encoder, PacketWriter)  { h.serialized++ }

func testAllocator(id uint64) (PacketReader, error) {
	switch id {
	case 7:
		return &emptyPing{}, nil
	case 3:
		return &fieldsPacket{}, nil
	case 9:
		return &u64TailPacket{}, nil
	default:
		return nil, nil
	}
}
