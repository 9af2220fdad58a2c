// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// splitCache reconstructs a multi-byte primitive whose encoding straddles
// two chunks handed to Decoder.Write in separate calls. It never holds more
// than maxPrimitiveWidth bytes; no primitive the wire format defines is
// ever wider than that.
type splitCache struct {
	buf     [maxPrimitiveWidth]byte
	pending int // number of bytes already staged; 0 means idle
}

// idle reports whether the cache currently holds no partial value. Callers
// rely on this being true after every completed primitive read.
func (c *splitCache) idle() bool { return c.pending == 0 }

// fetch returns exactly n contiguous bytes for the current primitive read,
// consulting the cache first per the try_get contract:
//
//   - If the cache holds a partial value, copy as many available bytes from
//     cur as needed to complete it; on completion return the cached bytes
//     and release the cache; otherwise report failure.
//   - If the cache is idle and cur already offers n bytes, return a view
//     into cur directly with no copy.
//   - Otherwise copy the available prefix of cur into the cache, record how
//     many bytes are pending, and report failure.
//
// The returned slice, when ok is true, aliases either cur or the cache's
// own buffer; the caller must finish decoding it before the next call to
// fetch, since a subsequent suspend-then-resume may overwrite the cache.
func (c *splitCache) fetch(cur *[]byte, n int) (data []byte, ok bool) {
	if n > maxPrimitiveWidth {
		panic("adhoc: primitive wider than the split-value cache")
	}
	rest := *cur
	if c.pending > 0 {
		need := n - c.pending
		avail := len(rest)
		if avail > need {
			avail = need
		}
		copy(c.buf[c.pending:], rest[:avail])
		c.pending += avail
		*cur = rest[avail:]
		if c.pending < n {
			return nil, false
		}
		c.pending = 0
		return c.buf[:n], true
	}
	if len(rest) >= n {
		*cur = rest[n:]
		return rest[:n], true
	}
	copy(c.buf[:], rest)
	c.pending = len(rest)
	*cur = rest[len(rest):]
	return nil, false
}
