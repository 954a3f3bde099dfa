// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/absmach/mqttopts/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Broker.Servers) != 1 || cfg.Broker.Servers[0] != "localhost:1883" {
		t.Errorf("expected default server localhost:1883, got %v", cfg.Broker.Servers)
	}
	if !cfg.Session.CleanSession {
		t.Error("expected clean session by default")
	}
	if cfg.Session.KeepAlive != 60*time.Second {
		t.Errorf("expected keep alive 60s, got %v", cfg.Session.KeepAlive)
	}
	if cfg.Session.RetryInterval != 20*time.Second {
		t.Errorf("expected retry interval 20s, got %v", cfg.Session.RetryInterval)
	}
	if cfg.Reconnect.Enabled {
		t.Error("expected automatic reconnect to be disabled by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config is valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "no servers",
			modify:  func(c *Config) { c.Broker.Servers = nil },
			wantErr: true,
		},
		{
			name:    "blank server",
			modify:  func(c *Config) { c.Broker.Servers = []string{"localhost:1883", " "} },
			wantErr: true,
		},
		{
			name:    "persistent session without client id",
			modify:  func(c *Config) { c.Session.CleanSession = false },
			wantErr: true,
		},
		{
			name: "persistent session with client id",
			modify: func(c *Config) {
				c.Session.CleanSession = false
				c.Broker.ClientID = "sensor-1"
			},
			wantErr: false,
		},
		{
			name:    "negative max inflight",
			modify:  func(c *Config) { c.Session.MaxInflight = -1 },
			wantErr: true,
		},
		{
			name:    "will without topic",
			modify:  func(c *Config) { c.Will = &WillConfig{Payload: "bye"} },
			wantErr: true,
		},
		{
			name:    "will with invalid qos",
			modify:  func(c *Config) { c.Will = &WillConfig{Topic: "status", QoS: 3} },
			wantErr: true,
		},
		{
			name:    "private key without key store",
			modify:  func(c *Config) { c.TLS = &TLSConfig{PrivateKey: "client.key"} },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadNonExistent(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	data := `
broker:
  servers: ["broker.example.com:8883"]
  client_id: sensor-1
session:
  clean_session: false
  keep_alive: 15s
credentials:
  username: alice
  password: secret
will:
  topic: sensors/1/status
  payload: offline
  qos: 1
  retain: true
reconnect:
  enabled: true
  min_interval: 2s
  max_interval: 30s
`
	require.NoError(t, os.WriteFile(file, []byte(data), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"broker.example.com:8883"}, cfg.Broker.Servers)
	assert.Equal(t, "sensor-1", cfg.Broker.ClientID)
	assert.False(t, cfg.Session.CleanSession)
	assert.Equal(t, 15*time.Second, cfg.Session.KeepAlive)
	// Unset keys keep their defaults.
	assert.Equal(t, client.DefaultConnectTimeout, cfg.Session.ConnectTimeout)
	require.NotNil(t, cfg.Will)
	assert.Equal(t, byte(1), cfg.Will.QoS)
	assert.Nil(t, cfg.TLS)
	assert.True(t, cfg.Reconnect.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Reconnect.MaxInterval)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("broker: [unterminated"), 0o600))
	_, err := Load(malformed)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to parse config file"))

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("log:\n  level: trace\n"), 0o600))
	_, err = Load(invalid)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid configuration"))
}

func TestSaveLoad(t *testing.T) {
	tmpfile := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Broker.Servers = []string{"ssl://broker.example.com:8883"}
	cfg.Session.RetryInterval = 30 * time.Second
	cfg.TLS = &TLSConfig{TrustStore: "ca.crt", CipherSuites: "TLS_AES_128_GCM_SHA256"}
	cfg.Log.Level = "debug"

	require.NoError(t, cfg.Save(tmpfile))

	info, err := os.Stat(tmpfile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(tmpfile)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestClientID(t *testing.T) {
	cfg := Default()
	cfg.Broker.ClientID = "sensor-1"
	assert.Equal(t, "sensor-1", cfg.ClientID())

	cfg.Broker.ClientID = ""
	first, second := cfg.ClientID(), cfg.ClientID()
	assert.True(t, strings.HasPrefix(first, "mqttopts-"))
	assert.NotEqual(t, first, second)
}

func TestBuilder(t *testing.T) {
	cfg := Default()
	cfg.Session.CleanSession = false
	cfg.Session.KeepAlive = 15 * time.Second
	cfg.Session.MaxInflight = 10
	cfg.Credentials = CredentialsConfig{Username: "alice", Password: "secret"}
	cfg.Will = &WillConfig{Topic: "sensors/1/status", Payload: "offline", QoS: 1, Retain: true}
	cfg.TLS = &TLSConfig{TrustStore: "ca.crt", InsecureSkipVerify: true}
	cfg.Reconnect = ReconnectConfig{Enabled: true, MinInterval: 2 * time.Second, MaxInterval: 30 * time.Second}

	b, err := cfg.Builder()
	require.NoError(t, err)
	opts, err := b.Finalize()
	require.NoError(t, err)
	defer opts.Release()

	assert.False(t, opts.CleanSession())
	assert.Equal(t, 15*time.Second, opts.KeepAliveInterval())
	assert.Equal(t, 10, opts.MaxInflight())
	assert.Equal(t, "alice", opts.UserName())
	assert.Equal(t, "secret", opts.Password())

	enabled, minRetry, maxRetry := opts.AutomaticReconnect()
	assert.True(t, enabled)
	assert.Equal(t, 2*time.Second, minRetry)
	assert.Equal(t, 30*time.Second, maxRetry)

	will := opts.Will()
	require.NotNil(t, will)
	assert.Equal(t, "sensors/1/status", will.Topic())
	assert.Equal(t, []byte("offline"), will.Payload())
	assert.Equal(t, byte(1), will.QoS())
	assert.True(t, will.Retained())

	ssl := opts.SSL()
	require.NotNil(t, ssl)
	assert.Equal(t, "ca.crt", ssl.TrustStore())
	assert.False(t, ssl.EnableServerCertAuth())
}

func TestBuilderWithoutOptionalSections(t *testing.T) {
	b, err := Default().Builder()
	require.NoError(t, err)
	opts, err := b.Finalize()
	require.NoError(t, err)

	assert.Nil(t, opts.Will())
	assert.Nil(t, opts.SSL())
	enabled, _, _ := opts.AutomaticReconnect()
	assert.False(t, enabled)
}

func TestBuilderRejectsNUL(t *testing.T) {
	cfg := Default()
	cfg.Will = &WillConfig{Topic: "bad\x00topic"}
	_, err := cfg.Builder()
	assert.ErrorIs(t, err, client.ErrInvalidConfig)
}
