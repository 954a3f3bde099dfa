// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

// Struct identifiers and versions of the boundary layouts.
var (
	ConnectStructID = [4]byte{'M', 'Q', 'T', 'C'}
	WillStructID    = [4]byte{'M', 'Q', 'T', 'W'}
	SSLStructID     = [4]byte{'M', 'Q', 'T', 'S'}
)

const (
	ConnectStructVersion int32 = 5
	WillStructVersion    int32 = 1
	SSLStructVersion     int32 = 1
)

// ConnectBoundary is the fixed-layout connect options value handed to a
// native connect call. Pointer fields address storage owned by the
// ConnectOptions that derived it and are valid until that owner is released.
// Text pointers address NUL-terminated buffers; nil means "not set".
type ConnectBoundary struct {
	StructID           [4]byte
	StructVersion      int32
	KeepAliveInterval  int32
	CleanSession       int32
	MaxInflight        int32
	Will               *WillBoundary
	Username           *byte
	Password           *byte
	ConnectTimeout     int32
	RetryInterval      int32
	SSL                *SSLBoundary
	AutomaticReconnect int32
	MinRetryInterval   int32
	MaxRetryInterval   int32
}

// BinaryData is a length-prefixed byte buffer.
type BinaryData struct {
	Len  int32
	Data *byte
}

// WillBoundary is the fixed-layout last will value. Version 1 carries the
// message in Payload and leaves Message nil.
type WillBoundary struct {
	StructID      [4]byte
	StructVersion int32
	TopicName     *byte
	Message       *byte
	Retained      int32
	QoS           int32
	Payload       BinaryData
}

// SSLBoundary is the fixed-layout transport security value.
type SSLBoundary struct {
	StructID             [4]byte
	StructVersion        int32
	TrustStore           *byte
	KeyStore             *byte
	PrivateKey           *byte
	PrivateKeyPassword   *byte
	EnabledCipherSuites  *byte
	EnableServerCertAuth int32
}
