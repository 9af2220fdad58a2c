// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import (
	"bytes"
	"testing"
)

func writeStringToBytes(t *testing.T, s string) []byte {
	t.Helper()
	e := &Encoder{}
	out := make([]byte, 0, 64)
	buf := make([]byte, 1) // force one byte at a time to exercise suspension
	for {
		e.out = buf
		ok := e.WriteString(s)
		out = append(out, buf[:len(buf)-len(e.out)]...)
		if ok {
			return out
		}
	}
}

func TestStringKnownEncoding(t *testing.T) {
	got := writeStringToBytes(t, "Hi")
	want := []byte{0x02, 0x48, 0x69}
	if !bytes.Equal(got, want) {
		t.Errorf("encode(\"Hi\") = % x, want % x", got, want)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "Hi", "hello, world", "éè"} {
		enc := writeStringToBytes(t, s)
		d := &Decoder{}
		pushDecoderBytes(d, enc)
		got, ok, err := d.ReadString(1024)
		if err != nil {
			t.Fatalf("ReadString(%q) error: %v", s, err)
		}
		if !ok {
			t.Fatalf("ReadString(%q) did not complete with the full encoding available", s)
		}
		if got != s {
			t.Errorf("round trip(%q) = %q", s, got)
		}
	}
}

func TestStringSuspendsAcrossChunks(t *testing.T) {
	enc := writeStringToBytes(t, "hello")
	d := &Decoder{}
	for i := 0; i < len(enc); i++ {
		pushDecoderBytes(d, enc[i:i+1])
		got, ok, err := d.ReadString(1024)
		if err != nil {
			t.Fatalf("unexpected error at byte %d: %v", i, err)
		}
		if i < len(enc)-1 {
			if ok {
				t.Fatalf("did not expect completion at byte %d", i)
			}
			continue
		}
		if !ok {
			t.Fatal("expected completion on the final byte")
		}
		if got != "hello" {
			t.Errorf("decoded %q, want hello", got)
		}
	}
}

func TestStringOverflow(t *testing.T) {
	enc := writeStringToBytes(t, "too long")
	d := &Decoder{}
	pushDecoderBytes(d, enc)
	_, _, err := d.ReadString(3)
	if err == nil {
		t.Fatal("expected an overflow error for a string longer than max_chars")
	}
}
