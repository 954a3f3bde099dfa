// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"
	"unsafe"
)

// cstring is an owned, NUL-terminated encoding of a text value.
// An empty cstring has no backing buffer and yields a nil address.
type cstring struct {
	buf []byte
}

// newCString encodes s. It fails when s contains a NUL byte, since the
// value could not be read back from a NUL-terminated buffer.
func newCString(field, s string) (cstring, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return cstring{}, fmt.Errorf("%w: %s contains a NUL byte at offset %d", ErrInvalidConfig, field, i)
	}
	if s == "" {
		return cstring{}, nil
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return cstring{buf: buf}, nil
}

// ptr returns the address of the first byte, or nil for an empty value.
func (c cstring) ptr() *byte {
	if len(c.buf) == 0 {
		return nil
	}
	return &c.buf[0]
}

func (c cstring) String() string {
	if len(c.buf) == 0 {
		return ""
	}
	return string(c.buf[:len(c.buf)-1])
}

// clone copies the value into a new buffer.
func (c cstring) clone() cstring {
	if len(c.buf) == 0 {
		return cstring{}
	}
	return cstring{buf: bytes.Clone(c.buf)}
}

// wipe zeroes the buffer and drops it.
func (c *cstring) wipe() {
	clear(c.buf)
	c.buf = nil
}

// GoString reads the NUL-terminated text at p. A nil p reads as "".
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

// GoBytes copies n bytes starting at p. A nil p or non-positive n reads as nil.
func GoBytes(p *byte, n int32) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return bytes.Clone(unsafe.Slice(p, n))
}

// seconds converts d to whole seconds clamped to [1, math.MaxInt32].
func seconds(d time.Duration) int32 {
	secs := int64(d / time.Second)
	switch {
	case secs < 1:
		return 1
	case secs > math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(secs)
	}
}

// clampInt32 narrows n into the int32 range.
func clampInt32(n int) int32 {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	default:
		return int32(n)
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
