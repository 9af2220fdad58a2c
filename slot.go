// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// Slot is one frame of the nested read/write state stack. Every composite
// value (a struct field, an array element, a nested message) that cannot be
// fully decoded or encoded in one primitive operation gets its own Slot so
// that progress survives suspension without relying on the language call
// stack.
//
// State is an opaque resume label chosen by the generated reader/writer
// that owns this slot; it has no meaning to the driver beyond being
// preserved across suspensions. Index0..Index2 are the only legal carriers
// of loop progress (array/struct traversal counters) across a suspension;
// FieldsNulls holds the null-field mask for the composite this slot
// represents, when it has optional fields.
type Slot struct {
	State       int
	Index0      int
	Index1      int
	Index2      int
	FieldsNulls byte

	// Obj is the composite value currently being decoded into (Decoder) or
	// encoded from (Encoder). It is cleared when the slot is released.
	Obj any

	prev *Slot
}

// slotChain is a stack of Slots linked through prev only (a Slot holds no
// link to the slot above it), owned exclusively by one
// Decoder or Encoder. Previously used slots are kept on a free list and
// reused on the next push, so steady-state operation allocates nothing once
// the deepest nesting level seen so far has been reached.
type slotChain struct {
	top  *Slot
	free *Slot
}

// push allocates (or reuses) the next slot and makes it the active one.
func (c *slotChain) push() *Slot {
	var s *Slot
	if c.free != nil {
		s = c.free
		c.free = s.prev
	} else {
		s = &Slot{}
	}
	s.State = 0
	s.Index0, s.Index1, s.Index2 = 0, 0, 0
	s.FieldsNulls = 0
	s.Obj = nil
	s.prev = c.top
	c.top = s
	return s
}

// pop retires the active slot and restores its parent, returning the
// retired slot to the free list for reuse.
func (c *slotChain) pop() {
	s := c.top
	if s == nil {
		return
	}
	c.top = s.prev
	s.Obj = nil
	s.prev = c.free
	c.free = s
}

// reset drops the entire chain, e.g. on InvalidId resync or Channel.Abort.
func (c *slotChain) reset() {
	for c.top != nil {
		c.pop()
	}
}

// depth reports the current nesting depth; 0 means idle (no active packet).
func (c *slotChain) depth() int {
	n := 0
	for s := c.top; s != nil; s = s.prev {
		n++
	}
	return n
}
