// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package packets encodes the MQTT control packets a client sends when it
// establishes a session.
package packets

import (
	"errors"
	"fmt"
	"io"

	"github.com/absmach/mqttopts/packets/codec"
)

// Protocol version constants.
const (
	V31  byte = 0x03 // MQTT 3.1
	V311 byte = 0x04 // MQTT 3.1.1
)

// Packet type constants.
const (
	ConnectType byte = iota + 1 // 0 value is forbidden
	ConnAckType
)

// PacketNames maps packet type constants to string names.
var PacketNames = map[byte]string{
	ConnectType: "CONNECT",
	ConnAckType: "CONNACK",
}

var (
	// ErrUnexpectedPacket is returned when a reader yields a packet of another type.
	ErrUnexpectedPacket = errors.New("unexpected packet type")
	// ErrFieldTooLong is returned when a string or binary field exceeds 65535 bytes.
	ErrFieldTooLong = errors.New("field exceeds 65535 bytes")
)

const headerFormat = "type: %s dup: %t qos: %d retain: %t remaining_length: %d"

// FixedHeader represents the MQTT fixed header present in all packets.
type FixedHeader struct {
	PacketType      byte
	Dup             bool
	QoS             byte
	Retain          bool
	RemainingLength int
}

func (fh FixedHeader) String() string {
	return fmt.Sprintf(headerFormat, PacketNames[fh.PacketType], fh.Dup, fh.QoS, fh.Retain, fh.RemainingLength)
}

// Encode serializes the fixed header to bytes.
func (fh FixedHeader) Encode() []byte {
	ret := []byte{fh.PacketType<<4 | codec.EncodeBool(fh.Dup)<<3 | fh.QoS<<1 | codec.EncodeBool(fh.Retain)}
	return append(ret, codec.EncodeVBI(fh.RemainingLength)...)
}

// Decode parses the fixed header from the type/flags byte and reader.
func (fh *FixedHeader) Decode(typeAndFlags byte, r io.Reader) error {
	fh.PacketType = typeAndFlags >> 4
	fh.Dup = (typeAndFlags>>3)&0x01 > 0
	fh.QoS = (typeAndFlags >> 1) & 0x03
	fh.Retain = typeAndFlags&0x01 > 0

	var err error
	fh.RemainingLength, err = codec.DecodeVBI(r)
	return err
}
