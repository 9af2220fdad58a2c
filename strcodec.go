// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import (
	"unicode/utf16"

	"github.com/pkg/errors"
)

func utf16Encode(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func utf16Decode(units []uint16) string {
	return string(utf16.Decode(units))
}

// String codec: a continuation-varint length prefix (count of UTF-16 code
// units) followed by that many continuation varints, one per code unit.
// Decode assembles a []uint16 and converts to a Go string via
// unicode/utf16 only once the whole run lands, since a lone surrogate half
// straddling two chunks cannot be converted meaningfully on its own.

// ReadString decodes a length-prefixed UTF-16 string, resuming correctly
// across suspension at any point in the length or the unit run. maxChars
// bounds the code unit count; exceeding it raises ErrStringTooLong.
func (d *Decoder) ReadString(maxChars int) (string, bool, error) {
	if d.strPhase == strPhaseIdle {
		d.strPhase = strPhaseLen
	}
	if d.strPhase == strPhaseLen {
		n, ok, err := d.ReadVarint(Varint64MaxBytes)
		if err != nil {
			d.strPhase = strPhaseIdle
			return "", true, err
		}
		if !ok {
			return "", false, nil
		}
		if int(n) > maxChars {
			d.strPhase = strPhaseIdle
			return "", true, errors.WithStack(ErrStringTooLong)
		}
		d.strWant = int(n)
		d.strGot = 0
		d.strBuf = make([]uint16, d.strWant)
		d.strPhase = strPhaseUnits
	}
	for d.strGot < d.strWant {
		u, ok, err := d.ReadVarint(Varint32MaxBytes)
		if err != nil {
			d.strPhase = strPhaseIdle
			return "", true, err
		}
		if !ok {
			return "", false, nil
		}
		d.strBuf[d.strGot] = uint16(u)
		d.strGot++
	}
	s := utf16Decode(d.strBuf)
	d.strPhase = strPhaseIdle
	d.strBuf = nil
	return s, true, nil
}

// WriteString encodes s as a length-prefixed run of per-code-unit
// continuation varints.
func (e *Encoder) WriteString(s string) bool {
	if e.strPhase == strPhaseIdle {
		e.strUnits = utf16Encode(s)
		e.strLenDone = false
		e.strIdx = 0
		e.strPhase = strPhaseLen
	}
	if e.strPhase == strPhaseLen {
		if !e.strLenDone {
			if !e.WriteVarint(uint64(len(e.strUnits))) {
				return false
			}
			e.strLenDone = true
		}
		e.strPhase = strPhaseUnits
	}
	for e.strIdx < len(e.strUnits) {
		if !e.WriteVarint(uint64(e.strUnits[e.strIdx])) {
			return false
		}
		e.strIdx++
	}
	e.strPhase = strPhaseIdle
	e.strUnits = nil
	return true
}
