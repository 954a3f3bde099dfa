// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"fmt"
)

// WillOptions is a finalized last will and testament message.
// It owns its encoded topic and payload.
type WillOptions struct {
	topic    cstring
	payload  []byte
	qos      byte
	retained bool
}

// Topic returns the will topic.
func (w *WillOptions) Topic() string {
	return w.topic.String()
}

// Payload returns a copy of the will payload.
func (w *WillOptions) Payload() []byte {
	return bytes.Clone(w.payload)
}

// QoS returns the will QoS level.
func (w *WillOptions) QoS() byte {
	return w.qos
}

// Retained reports whether the broker should retain the will message.
func (w *WillOptions) Retained() bool {
	return w.retained
}

// Clone returns a deep copy of the will.
func (w *WillOptions) Clone() *WillOptions {
	if w == nil {
		return nil
	}
	return &WillOptions{
		topic:    w.topic.clone(),
		payload:  bytes.Clone(w.payload),
		qos:      w.qos,
		retained: w.retained,
	}
}

// Release wipes the owned buffers.
func (w *WillOptions) Release() {
	if w == nil {
		return
	}
	w.topic.wipe()
	clear(w.payload)
	w.payload = nil
}

// Boundary derives the will boundary value from the current storage.
func (w *WillOptions) Boundary() *WillBoundary {
	wb := &WillBoundary{
		StructID:      WillStructID,
		StructVersion: WillStructVersion,
		TopicName:     w.topic.ptr(),
		Retained:      boolToInt32(w.retained),
		QoS:           int32(w.qos),
	}
	if len(w.payload) > 0 {
		wb.Payload = BinaryData{Len: int32(len(w.payload)), Data: &w.payload[0]}
	}
	return wb
}

// WillOptionsBuilder accumulates will message values.
type WillOptionsBuilder struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// NewWillOptionsBuilder creates a builder for a QoS 0, non-retained will.
func NewWillOptionsBuilder() *WillOptionsBuilder {
	return &WillOptionsBuilder{}
}

// Topic sets the topic the will is published to.
func (b *WillOptionsBuilder) Topic(topic string) *WillOptionsBuilder {
	b.topic = topic
	return b
}

// Payload sets the will payload. The slice is copied.
func (b *WillOptionsBuilder) Payload(payload []byte) *WillOptionsBuilder {
	b.payload = bytes.Clone(payload)
	return b
}

// PayloadString sets a text will payload.
func (b *WillOptionsBuilder) PayloadString(payload string) *WillOptionsBuilder {
	b.payload = []byte(payload)
	return b
}

// QoS sets the will QoS level.
func (b *WillOptionsBuilder) QoS(qos byte) *WillOptionsBuilder {
	b.qos = qos
	return b
}

// Retained sets the will retain flag.
func (b *WillOptionsBuilder) Retained(retained bool) *WillOptionsBuilder {
	b.retained = retained
	return b
}

// Finalize builds an owned WillOptions. The builder can be reused.
func (b *WillOptionsBuilder) Finalize() (*WillOptions, error) {
	if b.qos > 2 {
		return nil, fmt.Errorf("%w: will %w", ErrInvalidConfig, ErrInvalidQoS)
	}
	if b.topic == "" {
		return nil, fmt.Errorf("%w: will %w", ErrInvalidConfig, ErrEmptyTopic)
	}
	topic, err := newCString("will topic", b.topic)
	if err != nil {
		return nil, err
	}
	return &WillOptions{
		topic:    topic,
		payload:  bytes.Clone(b.payload),
		qos:      b.qos,
		retained: b.retained,
	}, nil
}
