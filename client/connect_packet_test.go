// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"testing"
	"time"

	"github.com/absmach/mqttopts/packets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectPacket(t *testing.T) {
	opts := fullOptions(t)

	pkt, err := opts.ConnectPacket("c1")
	require.NoError(t, err)
	assert.Equal(t, "MQTT", pkt.ProtocolName)
	assert.Equal(t, packets.V311, pkt.ProtocolVersion)
	assert.Equal(t, "c1", pkt.ClientID)
	assert.True(t, pkt.CleanSession)
	assert.Equal(t, uint16(20), pkt.KeepAlive)
	assert.True(t, pkt.UsernameFlag)
	assert.Equal(t, "alice", pkt.Username)
	assert.True(t, pkt.PasswordFlag)
	assert.Equal(t, []byte("secret"), pkt.Password)
	assert.True(t, pkt.WillFlag)
	assert.Equal(t, "clients/c1/status", pkt.WillTopic)
	assert.Equal(t, []byte{'o', 0, 'f', 'f'}, pkt.WillMessage)
	assert.Equal(t, byte(2), pkt.WillQoS)
	assert.True(t, pkt.WillRetain)

	var buf bytes.Buffer
	require.NoError(t, pkt.Pack(&buf))
	decoded, err := packets.ReadConnect(&buf)
	require.NoError(t, err)
	assert.Equal(t, pkt.Username, decoded.Username)
	assert.Equal(t, pkt.WillMessage, decoded.WillMessage)
	assert.Equal(t, pkt.KeepAlive, decoded.KeepAlive)
}

func TestConnectPacketMinimal(t *testing.T) {
	opts, err := NewConnectOptionsBuilder().Finalize()
	require.NoError(t, err)

	pkt, err := opts.ConnectPacket("")
	require.NoError(t, err)
	assert.False(t, pkt.UsernameFlag)
	assert.False(t, pkt.PasswordFlag)
	assert.False(t, pkt.WillFlag)
	assert.Equal(t, uint16(60), pkt.KeepAlive)
}

func TestConnectPacketErrors(t *testing.T) {
	opts, err := NewConnectOptionsBuilder().CleanSession(false).Finalize()
	require.NoError(t, err)
	_, err = opts.ConnectPacket("")
	assert.ErrorIs(t, err, ErrEmptyClientID)

	opts, err = NewConnectOptionsBuilder().Password("secret").Finalize()
	require.NoError(t, err)
	_, err = opts.ConnectPacket("c1")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConnectPacketKeepAliveCap(t *testing.T) {
	opts, err := NewConnectOptionsBuilder().KeepAliveInterval(100000 * time.Second).Finalize()
	require.NoError(t, err)

	pkt, err := opts.ConnectPacket("c1")
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), pkt.KeepAlive)
}
