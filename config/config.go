// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/absmach/mqttopts/client"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config holds a connection profile for an MQTT client.
type Config struct {
	Broker      BrokerConfig      `yaml:"broker"`
	Session     SessionConfig     `yaml:"session"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Will        *WillConfig       `yaml:"will,omitempty"`
	TLS         *TLSConfig        `yaml:"tls,omitempty"`
	Reconnect   ReconnectConfig   `yaml:"reconnect"`
	Log         LogConfig         `yaml:"log"`
}

// BrokerConfig holds the broker endpoints.
type BrokerConfig struct {
	Servers  []string `yaml:"servers"`   // host:port or scheme://host:port
	ClientID string   `yaml:"client_id"` // Generated when empty
}

// SessionConfig holds session and timing settings.
type SessionConfig struct {
	CleanSession   bool          `yaml:"clean_session"`
	KeepAlive      time.Duration `yaml:"keep_alive"`
	MaxInflight    int           `yaml:"max_inflight"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	RetryInterval  time.Duration `yaml:"retry_interval"`
}

// CredentialsConfig holds the user name and password.
type CredentialsConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WillConfig holds the last will and testament.
type WillConfig struct {
	Topic   string `yaml:"topic"`
	Payload string `yaml:"payload"`
	QoS     byte   `yaml:"qos"`
	Retain  bool   `yaml:"retain"`
}

// TLSConfig holds transport security settings.
type TLSConfig struct {
	TrustStore         string `yaml:"trust_store"`
	KeyStore           string `yaml:"key_store"`
	PrivateKey         string `yaml:"private_key"`
	PrivateKeyPassword string `yaml:"private_key_password"`
	CipherSuites       string `yaml:"cipher_suites"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// ReconnectConfig holds the automatic reconnect backoff.
type ReconnectConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MinInterval time.Duration `yaml:"min_interval"`
	MaxInterval time.Duration `yaml:"max_interval"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Broker: BrokerConfig{
			Servers: []string{"localhost:1883"},
		},
		Session: SessionConfig{
			CleanSession:   true,
			KeepAlive:      client.DefaultKeepAlive,
			MaxInflight:    client.DefaultMaxInflight,
			ConnectTimeout: client.DefaultConnectTimeout,
			RetryInterval:  client.DefaultRetryInterval,
		},
		Reconnect: ReconnectConfig{
			Enabled:     false,
			MinInterval: client.DefaultReconnectMin,
			MaxInterval: client.DefaultReconnectMax,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
// If the file doesn't exist, returns default configuration.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. Timing values are not
// range checked here; the options builder clamps them.
func (c *Config) Validate() error {
	if len(c.Broker.Servers) == 0 {
		return fmt.Errorf("broker.servers cannot be empty")
	}
	for i, s := range c.Broker.Servers {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("broker.servers[%d] cannot be empty", i)
		}
	}
	if c.Broker.ClientID == "" && !c.Session.CleanSession {
		return fmt.Errorf("broker.client_id required when session.clean_session is false")
	}
	if c.Session.MaxInflight < 0 {
		return fmt.Errorf("session.max_inflight cannot be negative")
	}

	if c.Will != nil {
		if c.Will.Topic == "" {
			return fmt.Errorf("will.topic required when will is configured")
		}
		if c.Will.QoS > 2 {
			return fmt.Errorf("will.qos must be 0, 1, or 2")
		}
	}

	if c.TLS != nil && c.TLS.PrivateKey != "" && c.TLS.KeyStore == "" {
		return fmt.Errorf("tls.key_store required when tls.private_key is set")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format must be one of: text, json")
	}

	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClientID returns the configured client ID, or a generated one when empty.
func (c *Config) ClientID() string {
	if c.Broker.ClientID != "" {
		return c.Broker.ClientID
	}
	return "mqttopts-" + uuid.NewString()
}

// Builder returns a connect options builder populated from the profile.
func (c *Config) Builder() (*client.ConnectOptionsBuilder, error) {
	b := client.NewConnectOptionsBuilder().
		CleanSession(c.Session.CleanSession).
		KeepAliveInterval(c.Session.KeepAlive).
		MaxInflight(c.Session.MaxInflight).
		ConnectTimeout(c.Session.ConnectTimeout).
		RetryInterval(c.Session.RetryInterval).
		UserName(c.Credentials.Username).
		Password(c.Credentials.Password)

	if c.Reconnect.Enabled {
		b.AutomaticReconnect(c.Reconnect.MinInterval, c.Reconnect.MaxInterval)
	}

	if c.Will != nil {
		will, err := client.NewWillOptionsBuilder().
			Topic(c.Will.Topic).
			PayloadString(c.Will.Payload).
			QoS(c.Will.QoS).
			Retained(c.Will.Retain).
			Finalize()
		if err != nil {
			return nil, err
		}
		b.WillOptions(will)
	}

	if c.TLS != nil {
		ssl, err := client.NewSSLOptionsBuilder().
			TrustStore(c.TLS.TrustStore).
			KeyStore(c.TLS.KeyStore).
			PrivateKey(c.TLS.PrivateKey).
			PrivateKeyPassword(c.TLS.PrivateKeyPassword).
			EnabledCipherSuites(c.TLS.CipherSuites).
			EnableServerCertAuth(!c.TLS.InsecureSkipVerify).
			Finalize()
		if err != nil {
			return nil, err
		}
		b.SSLOptions(ssl)
	}

	return b, nil
}
