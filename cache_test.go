// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import (
	"bytes"
	"testing"
)

func TestSplitCachePassthrough(t *testing.T) {
	var c splitCache
	cur := []byte{1, 2, 3, 4}
	data, ok := c.fetch(&cur, 4)
	if !ok {
		t.Fatal("expected immediate success")
	}
	if !bytes.Equal(data, []byte{1, 2, 3, 4}) {
		t.Errorf("data = %v, want [1 2 3 4]", data)
	}
	if !c.idle() {
		t.Error("cache should be idle after a direct passthrough")
	}
	if len(cur) != 0 {
		t.Errorf("cur should be fully consumed, got %d bytes left", len(cur))
	}
}

func TestSplitCacheAcrossChunks(t *testing.T) {
	var c splitCache
	cur := []byte{1, 2, 3}
	_, ok := c.fetch(&cur, 8)
	if ok {
		t.Fatal("expected suspension on short chunk")
	}
	if c.idle() {
		t.Error("cache should hold a partial value")
	}
	if len(cur) != 0 {
		t.Errorf("all 3 bytes should have been consumed into the cache, got %d left", len(cur))
	}

	cur = []byte{4, 5}
	_, ok = c.fetch(&cur, 8)
	if ok {
		t.Fatal("still expected suspension: only 5 of 8 bytes available")
	}
	if len(cur) != 0 {
		t.Errorf("expected both bytes consumed, got %d left", len(cur))
	}

	cur = []byte{6, 7, 8, 99, 100}
	data, ok := c.fetch(&cur, 8)
	if !ok {
		t.Fatal("expected completion")
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if !bytes.Equal(data, want) {
		t.Errorf("data = %v, want %v", data, want)
	}
	if !c.idle() {
		t.Error("cache should be idle once the value completes")
	}
	if !bytes.Equal(cur, []byte{99, 100}) {
		t.Errorf("cur should retain the unconsumed tail, got %v", cur)
	}
}

func TestSplitCacheTooWidePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a request wider than maxPrimitiveWidth")
		}
	}()
	var c splitCache
	cur := make([]byte, 32)
	_, _ = c.fetch(&cur, maxPrimitiveWidth+1)
}
