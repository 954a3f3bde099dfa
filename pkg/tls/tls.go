// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tls

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	errLoadCerts      = errors.New("failed to load client certificates")
	errLoadKey        = errors.New("failed to load client private key")
	errDecryptKey     = errors.New("failed to decrypt client private key")
	errLoadTrustStore = errors.New("failed to load trust store")
	errAppendCA       = errors.New("failed to append root ca tls.Config")
	errUnknownCipher  = errors.New("unknown cipher suite")
)

// Config holds the file based client TLS settings.
type Config struct {
	CAFile       string `yaml:"ca_file"`
	CertFile     string `yaml:"cert_file"`
	KeyFile      string `yaml:"key_file"` // Defaults to CertFile when empty.
	KeyPassword  string `yaml:"key_password"`
	CipherSuites string `yaml:"cipher_suites"` // Colon or comma separated IANA names.
	VerifyServer bool   `yaml:"verify_server"`
}

// LoadClientConfig returns a TLS configuration for connecting to a broker.
func LoadClientConfig(c *Config) (*tls.Config, error) {
	config := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !c.VerifyServer,
	}

	if c.CAFile != "" {
		rootCA, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, errors.Join(errLoadTrustStore, err)
		}
		config.RootCAs = x509.NewCertPool()
		if !config.RootCAs.AppendCertsFromPEM(rootCA) {
			return nil, errAppendCA
		}
	}

	if c.CertFile != "" {
		certificate, err := loadKeyPair(c.CertFile, c.KeyFile, c.KeyPassword)
		if err != nil {
			return nil, err
		}
		config.Certificates = []tls.Certificate{certificate}
	}

	if c.CipherSuites != "" {
		suites, err := ParseCipherSuites(c.CipherSuites)
		if err != nil {
			return nil, err
		}
		config.CipherSuites = suites
	}

	return config, nil
}

// ParseCipherSuites maps a colon or comma separated list of cipher suite
// names to their IDs.
func ParseCipherSuites(list string) ([]uint16, error) {
	known := make(map[string]uint16)
	for _, s := range tls.CipherSuites() {
		known[s.Name] = s.ID
	}
	for _, s := range tls.InsecureCipherSuites() {
		known[s.Name] = s.ID
	}

	var ids []uint16
	for _, name := range strings.FieldsFunc(list, func(r rune) bool { return r == ':' || r == ',' }) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errUnknownCipher, name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SecurityStatus returns log message from TLS config.
func SecurityStatus(c *tls.Config) string {
	if c == nil {
		return "no TLS"
	}
	ret := "TLS"
	if c.InsecureSkipVerify {
		ret += " without server verification"
	}
	if len(c.Certificates) > 0 {
		ret += " with client certificate"
	}
	return ret
}

func loadKeyPair(certFile, keyFile, password string) (tls.Certificate, error) {
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return tls.Certificate{}, errors.Join(errLoadCerts, err)
	}
	keyPEM := certPEM
	if keyFile != "" {
		if keyPEM, err = os.ReadFile(keyFile); err != nil {
			return tls.Certificate{}, errors.Join(errLoadKey, err)
		}
	}
	if password != "" {
		if keyPEM, err = decryptKey(keyPEM, password); err != nil {
			return tls.Certificate{}, err
		}
	}

	certificate, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, errors.Join(errLoadCerts, err)
	}
	return certificate, nil
}

// decryptKey returns the first private key block of data, decrypting it
// when it is a legacy encrypted PEM block.
func decryptKey(data []byte, password string) ([]byte, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, errors.Join(errLoadKey, errors.New("no private key block found"))
		}
		if !strings.Contains(block.Type, "PRIVATE KEY") {
			continue
		}
		//nolint:staticcheck // legacy encrypted PEM blocks
		if !x509.IsEncryptedPEMBlock(block) {
			return pem.EncodeToMemory(block), nil
		}
		//nolint:staticcheck
		der, err := x509.DecryptPEMBlock(block, []byte(password))
		if err != nil {
			return nil, errors.Join(errDecryptKey, err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: der}), nil
	}
}
