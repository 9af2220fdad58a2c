// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// Null-field mask: one byte, LSB-first, one bit per optional field in
// declaration order, bit i set iff field i is present. The source reads the
// mask once per composite and then jumps past each null field's read state
// with a resume label; a Go PutBytes/GetBytes implementation gets the same
// effect with ordinary control flow, checking Decoder.IsNull before
// entering the state that would decode that field, and calling
// SetPresent for the encoder's counterpart as each field is written. The
// mask itself lives on the composite's own Slot so it survives suspension
// across the whole run of fields it covers.

// ReadFieldsNulls reads the mask byte for the current Slot, storing it
// there for IsNull to consult as each field is visited.
func (d *Decoder) ReadFieldsNulls() bool {
	data, ok := d.fetch(1)
	if !ok {
		return false
	}
	if s := d.Slot(); s != nil {
		s.FieldsNulls = data[0]
	}
	return true
}

// IsNull reports whether fieldBit is clear in the current Slot's mask,
// i.e. the field is absent.
func (d *Decoder) IsNull(fieldBit uint) bool {
	s := d.Slot()
	return s != nil && s.FieldsNulls&(1<<fieldBit) == 0
}

// InitFieldsNulls clears the current Slot's mask before SetPresent marks
// any of this run's optional fields present.
func (e *Encoder) InitFieldsNulls() {
	if s := e.Slot(); s != nil {
		s.FieldsNulls = 0
	}
}

// SetPresent marks fieldBit present in the current Slot's mask.
func (e *Encoder) SetPresent(fieldBit uint) {
	if s := e.Slot(); s != nil {
		s.FieldsNulls |= 1 << fieldBit
	}
}

// FlushFieldsNulls writes the accumulated mask byte.
func (e *Encoder) FlushFieldsNulls() bool {
	mask := byte(0)
	if s := e.Slot(); s != nil {
		mask = s.FieldsNulls
	}
	return e.putBytes([]byte{mask})
}
