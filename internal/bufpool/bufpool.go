// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package bufpool pools the scratch buffers used to encode packets.
package bufpool

import (
	"bytes"
	"sync"
)

// Buffers grown past this are left to the garbage collector.
const maxPooledCap = 64 * 1024

var pool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// Get returns an empty buffer.
func Get() *bytes.Buffer {
	b := pool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// Put zeroes the bytes written to b and returns it to the pool. Encoded
// CONNECT bodies carry credentials, so nothing written survives in a
// pooled buffer.
func Put(b *bytes.Buffer) {
	clear(b.Bytes())
	b.Reset()
	if b.Cap() > maxPooledCap {
		return
	}
	pool.Put(b)
}
