// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"fmt"
	"math"

	"github.com/absmach/mqttopts/packets"
)

// ConnectPacket builds an MQTT 3.1.1 CONNECT packet from the derived
// boundary. Keep-alive values above the protocol maximum are capped.
func (o *ConnectOptions) ConnectPacket(clientID string) (*packets.Connect, error) {
	b := o.Boundary()
	if clientID == "" && b.CleanSession == 0 {
		return nil, ErrEmptyClientID
	}

	pkt := packets.NewConnect()
	pkt.ClientID = clientID
	pkt.CleanSession = b.CleanSession != 0
	switch {
	case b.KeepAliveInterval < 0:
		pkt.KeepAlive = 0
	case b.KeepAliveInterval > math.MaxUint16:
		pkt.KeepAlive = math.MaxUint16
	default:
		pkt.KeepAlive = uint16(b.KeepAliveInterval)
	}

	if b.Username != nil {
		pkt.UsernameFlag = true
		pkt.Username = GoString(b.Username)
	}
	if b.Password != nil {
		pkt.PasswordFlag = true
		pkt.Password = []byte(GoString(b.Password))
	}
	if pkt.PasswordFlag && !pkt.UsernameFlag {
		return nil, fmt.Errorf("%w: MQTT 3.1.1 requires a user name when a password is set", ErrInvalidConfig)
	}
	if w := b.Will; w != nil {
		pkt.WillFlag = true
		pkt.WillTopic = GoString(w.TopicName)
		pkt.WillMessage = GoBytes(w.Payload.Data, w.Payload.Len)
		pkt.WillQoS = byte(w.QoS)
		pkt.WillRetain = w.Retained != 0
	}
	return pkt, nil
}
