// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import (
	"bytes"
	"testing"
)

func TestEncoderNoPacketsReturnsSentinel(t *testing.T) {
	e := NewEncoder(1, func() (PacketWriter, bool) { return nil, false })
	n, err := e.Read(make([]byte, 16))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if n != -1 {
		t.Errorf("n = %d, want -1 when nothing is queued", n)
	}
}

func TestEncoderFieldsPacketKnownBytes(t *testing.T) {
	p := &fieldsPacket{U32: 0xDEADBEEF, Bool: true, U16: 0x0102}
	sent := false
	e := NewEncoder(1, func() (PacketWriter, bool) {
		if sent {
			return nil, false
		}
		sent = true
		return p, true
	})
	var out bytes.Buffer
	buf := make([]byte, 3) // force multiple Read calls
	for {
		n, err := e.Read(buf)
		if err != nil {
			t.Fatalf("Read error: %v", err)
		}
		if n == -1 {
			break
		}
		out.Write(buf[:n])
	}
	want := []byte{0x03, 0xEF, 0xBE, 0xAD, 0xDE, 0x01, 0x02, 0x01}
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("encoded = % x, want % x", out.Bytes(), want)
	}
}

func TestEncoderRoundTripsWithDecoder(t *testing.T) {
	p := &fieldsPacket{U32: 7, Bool: false, U16: 0xFFFF}
	sent := false
	e := NewEncoder(1, func() (PacketWriter, bool) {
		if sent {
			return nil, false
		}
		sent = true
		return p, true
	})
	var out bytes.Buffer
	buf := make([]byte, 1) // byte-at-a-time, exercises every suspension point
	for {
		n, err := e.Read(buf)
		if err != nil {
			t.Fatalf("Read error: %v", err)
		}
		if n == -1 {
			break
		}
		out.Write(buf[:n])
	}

	var got *fieldsPacket
	d := NewDecoder(1, func(id uint64) (PacketReader, error) {
		got = &fieldsPacket{}
		return got, nil
	})
	encoded := out.Bytes()
	for i := range encoded {
		if _, err := d.Write(encoded[i : i+1]); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	if got.U32 != p.U32 || got.Bool != p.Bool || got.U16 != p.U16 {
		t.Errorf("decoded %+v, want %+v", got, p)
	}
}
