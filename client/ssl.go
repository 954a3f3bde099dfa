// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"crypto/tls"

	mqtttls "github.com/absmach/mqttopts/pkg/tls"
)

// SSLOptions is a finalized transport security configuration. File paths
// are stored as given; they are read only by TLSConfig.
type SSLOptions struct {
	trustStore           cstring
	keyStore             cstring
	privateKey           cstring
	privateKeyPassword   cstring
	enabledCipherSuites  cstring
	enableServerCertAuth bool
}

// TrustStore returns the path of the PEM file with trusted CA certificates.
func (s *SSLOptions) TrustStore() string { return s.trustStore.String() }

// KeyStore returns the path of the PEM file with the client certificate chain.
func (s *SSLOptions) KeyStore() string { return s.keyStore.String() }

// PrivateKey returns the path of the client private key, when it is not part of the key store.
func (s *SSLOptions) PrivateKey() string { return s.privateKey.String() }

// PrivateKeyPassword returns the password of an encrypted private key.
func (s *SSLOptions) PrivateKeyPassword() string { return s.privateKeyPassword.String() }

// EnabledCipherSuites returns the cipher suite list, empty for the TLS defaults.
func (s *SSLOptions) EnabledCipherSuites() string { return s.enabledCipherSuites.String() }

// EnableServerCertAuth reports whether the broker certificate is verified.
func (s *SSLOptions) EnableServerCertAuth() bool { return s.enableServerCertAuth }

// Clone returns a deep copy.
func (s *SSLOptions) Clone() *SSLOptions {
	if s == nil {
		return nil
	}
	return &SSLOptions{
		trustStore:           s.trustStore.clone(),
		keyStore:             s.keyStore.clone(),
		privateKey:           s.privateKey.clone(),
		privateKeyPassword:   s.privateKeyPassword.clone(),
		enabledCipherSuites:  s.enabledCipherSuites.clone(),
		enableServerCertAuth: s.enableServerCertAuth,
	}
}

// Release wipes the owned buffers.
func (s *SSLOptions) Release() {
	if s == nil {
		return
	}
	s.trustStore.wipe()
	s.keyStore.wipe()
	s.privateKey.wipe()
	s.privateKeyPassword.wipe()
	s.enabledCipherSuites.wipe()
}

// Boundary derives the SSL boundary value from the current storage.
func (s *SSLOptions) Boundary() *SSLBoundary {
	return &SSLBoundary{
		StructID:             SSLStructID,
		StructVersion:        SSLStructVersion,
		TrustStore:           s.trustStore.ptr(),
		KeyStore:             s.keyStore.ptr(),
		PrivateKey:           s.privateKey.ptr(),
		PrivateKeyPassword:   s.privateKeyPassword.ptr(),
		EnabledCipherSuites:  s.enabledCipherSuites.ptr(),
		EnableServerCertAuth: boolToInt32(s.enableServerCertAuth),
	}
}

// TLSConfig loads the referenced files and returns a client TLS configuration.
func (s *SSLOptions) TLSConfig() (*tls.Config, error) {
	return mqtttls.LoadClientConfig(&mqtttls.Config{
		CAFile:       s.TrustStore(),
		CertFile:     s.KeyStore(),
		KeyFile:      s.PrivateKey(),
		KeyPassword:  s.PrivateKeyPassword(),
		CipherSuites: s.EnabledCipherSuites(),
		VerifyServer: s.enableServerCertAuth,
	})
}

// SSLOptionsBuilder accumulates transport security values.
type SSLOptionsBuilder struct {
	trustStore           string
	keyStore             string
	privateKey           string
	privateKeyPassword   string
	enabledCipherSuites  string
	enableServerCertAuth bool
}

// NewSSLOptionsBuilder creates a builder that verifies the server certificate.
func NewSSLOptionsBuilder() *SSLOptionsBuilder {
	return &SSLOptionsBuilder{enableServerCertAuth: true}
}

// TrustStore sets the PEM file with trusted CA certificates.
func (b *SSLOptionsBuilder) TrustStore(path string) *SSLOptionsBuilder {
	b.trustStore = path
	return b
}

// KeyStore sets the PEM file with the client certificate chain. It may also
// hold the private key.
func (b *SSLOptionsBuilder) KeyStore(path string) *SSLOptionsBuilder {
	b.keyStore = path
	return b
}

// PrivateKey sets the PEM file with the client private key.
func (b *SSLOptionsBuilder) PrivateKey(path string) *SSLOptionsBuilder {
	b.privateKey = path
	return b
}

// PrivateKeyPassword sets the password of an encrypted private key.
func (b *SSLOptionsBuilder) PrivateKeyPassword(password string) *SSLOptionsBuilder {
	b.privateKeyPassword = password
	return b
}

// EnabledCipherSuites sets a colon or comma separated list of cipher suite names.
func (b *SSLOptionsBuilder) EnabledCipherSuites(suites string) *SSLOptionsBuilder {
	b.enabledCipherSuites = suites
	return b
}

// EnableServerCertAuth toggles verification of the broker certificate.
func (b *SSLOptionsBuilder) EnableServerCertAuth(enable bool) *SSLOptionsBuilder {
	b.enableServerCertAuth = enable
	return b
}

// Finalize builds an owned SSLOptions. The builder can be reused.
func (b *SSLOptionsBuilder) Finalize() (*SSLOptions, error) {
	s := &SSLOptions{enableServerCertAuth: b.enableServerCertAuth}
	fields := []struct {
		name string
		val  string
		dst  *cstring
	}{
		{"trust store", b.trustStore, &s.trustStore},
		{"key store", b.keyStore, &s.keyStore},
		{"private key", b.privateKey, &s.privateKey},
		{"private key password", b.privateKeyPassword, &s.privateKeyPassword},
		{"enabled cipher suites", b.enabledCipherSuites, &s.enabledCipherSuites},
	}
	for _, f := range fields {
		cs, err := newCString(f.name, f.val)
		if err != nil {
			return nil, err
		}
		*f.dst = cs
	}
	return s, nil
}
