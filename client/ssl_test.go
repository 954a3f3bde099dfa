// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSLOptionsBuilder(t *testing.T) {
	ssl, err := NewSSLOptionsBuilder().Finalize()
	require.NoError(t, err)

	assert.True(t, ssl.EnableServerCertAuth())
	b := ssl.Boundary()
	assert.Equal(t, SSLStructID, b.StructID)
	assert.Equal(t, SSLStructVersion, b.StructVersion)
	assert.Nil(t, b.TrustStore)
	assert.Nil(t, b.KeyStore)
	assert.Nil(t, b.PrivateKey)
	assert.Nil(t, b.PrivateKeyPassword)
	assert.Nil(t, b.EnabledCipherSuites)
	assert.Equal(t, int32(1), b.EnableServerCertAuth)
}

func TestSSLOptionsRejectsNUL(t *testing.T) {
	_, err := NewSSLOptionsBuilder().PrivateKeyPassword("pa\x00ss").Finalize()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "private key password")
}

func TestSSLOptionsTLSConfig(t *testing.T) {
	ssl, err := NewSSLOptionsBuilder().
		EnableServerCertAuth(false).
		EnabledCipherSuites("TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256").
		Finalize()
	require.NoError(t, err)

	cfg, err := ssl.TLSConfig()
	require.NoError(t, err)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Equal(t, []uint16{tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256}, cfg.CipherSuites)

	ssl, err = NewSSLOptionsBuilder().TrustStore("does-not-exist.crt").Finalize()
	require.NoError(t, err)
	_, err = ssl.TLSConfig()
	assert.Error(t, err)
}

func TestSSLCloneAndRelease(t *testing.T) {
	ssl, err := NewSSLOptionsBuilder().TrustStore("ca.crt").KeyStore("c.pem").Finalize()
	require.NoError(t, err)

	clone := ssl.Clone()
	ssl.Release()

	assert.Empty(t, ssl.TrustStore())
	assert.Equal(t, "ca.crt", clone.TrustStore())
	assert.Equal(t, "c.pem", clone.KeyStore())
	assert.True(t, clone.EnableServerCertAuth())
}
