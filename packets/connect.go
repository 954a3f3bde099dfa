// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package packets

import (
	"fmt"
	"io"

	"github.com/absmach/mqttopts/internal/bufpool"
	"github.com/absmach/mqttopts/packets/codec"
)

const maxFieldLen = 65535

const stringFormat = `protocol_version: %d
protocol_name: %s
clean_session: %t
will: %t
will_qos: %d
will_retain: %t
username_flag: %t
password_flag: %t
keepalive: %d
client_id: %s
will_topic: %s
username: %s`

// Connect represents the MQTT 3.1.1 CONNECT packet.
type Connect struct {
	FixedHeader
	ProtocolName    string
	ProtocolVersion byte
	CleanSession    bool
	WillFlag        bool
	WillQoS         byte
	WillRetain      bool
	UsernameFlag    bool
	PasswordFlag    bool
	ReservedBit     byte
	KeepAlive       uint16

	ClientID    string
	WillTopic   string
	WillMessage []byte
	Username    string
	Password    []byte
}

// NewConnect returns a CONNECT packet for MQTT 3.1.1.
func NewConnect() *Connect {
	return &Connect{
		FixedHeader:     FixedHeader{PacketType: ConnectType},
		ProtocolName:    "MQTT",
		ProtocolVersion: V311,
	}
}

// String omits the will payload and the password.
func (c *Connect) String() string {
	return c.FixedHeader.String() + "\n" + fmt.Sprintf(stringFormat, c.ProtocolVersion, c.ProtocolName, c.CleanSession,
		c.WillFlag, c.WillQoS, c.WillRetain, c.UsernameFlag, c.PasswordFlag, c.KeepAlive,
		c.ClientID, c.WillTopic, c.Username)
}

// Type returns the packet type.
func (c *Connect) Type() byte {
	return ConnectType
}

// Encode serializes the packet. It fails when a field is longer than the
// protocol allows.
func (c *Connect) Encode() ([]byte, error) {
	for _, n := range []int{len(c.ProtocolName), len(c.ClientID), len(c.WillTopic), len(c.WillMessage), len(c.Username), len(c.Password)} {
		if n > maxFieldLen {
			return nil, ErrFieldTooLong
		}
	}

	body := bufpool.Get()
	defer bufpool.Put(body)
	body.Write(codec.EncodeString(c.ProtocolName))
	body.WriteByte(c.ProtocolVersion)

	var flags byte
	flags |= codec.EncodeBool(c.UsernameFlag) << 7
	flags |= codec.EncodeBool(c.PasswordFlag) << 6
	flags |= codec.EncodeBool(c.WillRetain) << 5
	flags |= (c.WillQoS & 0x03) << 3
	flags |= codec.EncodeBool(c.WillFlag) << 2
	flags |= codec.EncodeBool(c.CleanSession) << 1
	body.WriteByte(flags)
	body.Write(codec.EncodeUint16(c.KeepAlive))

	body.Write(codec.EncodeString(c.ClientID))
	if c.WillFlag {
		body.Write(codec.EncodeString(c.WillTopic))
		body.Write(codec.EncodeBytes(c.WillMessage))
	}
	if c.UsernameFlag {
		body.Write(codec.EncodeString(c.Username))
	}
	if c.PasswordFlag {
		body.Write(codec.EncodeBytes(c.Password))
	}

	c.FixedHeader.PacketType = ConnectType
	c.FixedHeader.RemainingLength = body.Len()
	return append(c.FixedHeader.Encode(), body.Bytes()...), nil
}

// Pack writes the encoded packet to w.
func (c *Connect) Pack(w io.Writer) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Unpack decodes the variable header and payload after the fixed header has been read.
func (c *Connect) Unpack(r io.Reader) error {
	var err error
	if c.ProtocolName, err = codec.DecodeString(r); err != nil {
		return err
	}
	if c.ProtocolVersion, err = codec.DecodeByte(r); err != nil {
		return err
	}

	flags, err := codec.DecodeByte(r)
	if err != nil {
		return err
	}
	c.ReservedBit = flags & 1
	c.CleanSession = (flags>>1)&1 > 0
	c.WillFlag = (flags>>2)&1 > 0
	c.WillQoS = (flags >> 3) & 0x03
	c.WillRetain = (flags>>5)&1 > 0
	c.PasswordFlag = (flags>>6)&1 > 0
	c.UsernameFlag = (flags>>7)&1 > 0

	if c.KeepAlive, err = codec.DecodeUint16(r); err != nil {
		return err
	}
	if c.ClientID, err = codec.DecodeString(r); err != nil {
		return err
	}
	if c.WillFlag {
		if c.WillTopic, err = codec.DecodeString(r); err != nil {
			return err
		}
		if c.WillMessage, err = codec.DecodeBytes(r); err != nil {
			return err
		}
	}
	if c.UsernameFlag {
		if c.Username, err = codec.DecodeString(r); err != nil {
			return err
		}
	}
	if c.PasswordFlag {
		if c.Password, err = codec.DecodeBytes(r); err != nil {
			return err
		}
	}
	return nil
}

// ReadConnect reads a complete CONNECT packet from r.
func ReadConnect(r io.Reader) (*Connect, error) {
	typeAndFlags, err := codec.DecodeByte(r)
	if err != nil {
		return nil, err
	}
	c := &Connect{}
	if err := c.FixedHeader.Decode(typeAndFlags, r); err != nil {
		return nil, err
	}
	if c.PacketType != ConnectType {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedPacket, PacketNames[c.PacketType])
	}
	if err := c.Unpack(io.LimitReader(r, int64(c.RemainingLength))); err != nil {
		return nil, err
	}
	return c, nil
}
