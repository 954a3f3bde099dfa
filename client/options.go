// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"log/slog"
	"time"
)

// Default values.
const (
	DefaultKeepAlive      = 60 * time.Second
	DefaultConnectTimeout = 30 * time.Second
	DefaultRetryInterval  = 20 * time.Second
	DefaultReconnectMin   = 1 * time.Second
	DefaultReconnectMax   = 60 * time.Second
	DefaultMaxInflight    = 100
)

// ConnectOptionsBuilder accumulates connect option values. It never derives
// addresses; Finalize produces an independent ConnectOptions each time it
// is called.
//
// Durations have a resolution of seconds. Values under one second are
// stored as one second.
type ConnectOptionsBuilder struct {
	keepAliveInterval  int32
	cleanSession       bool
	maxInflight        int32
	connectTimeout     int32
	retryInterval      int32
	automaticReconnect bool
	minRetryInterval   int32
	maxRetryInterval   int32

	will     *WillOptions
	ssl      *SSLOptions
	userName string
	password string

	logger *slog.Logger
}

// NewConnectOptionsBuilder creates a builder with sensible defaults.
func NewConnectOptionsBuilder() *ConnectOptionsBuilder {
	return &ConnectOptionsBuilder{
		keepAliveInterval: seconds(DefaultKeepAlive),
		cleanSession:      true,
		maxInflight:       DefaultMaxInflight,
		connectTimeout:    seconds(DefaultConnectTimeout),
		retryInterval:     seconds(DefaultRetryInterval),
		minRetryInterval:  seconds(DefaultReconnectMin),
		maxRetryInterval:  seconds(DefaultReconnectMax),
		logger:            slog.Default(),
	}
}

// KeepAliveInterval sets the maximum time that should pass without
// communication between the client and the broker.
func (b *ConnectOptionsBuilder) KeepAliveInterval(d time.Duration) *ConnectOptionsBuilder {
	b.keepAliveInterval = seconds(d)
	return b
}

// CleanSession sets whether the broker should discard any previously stored
// session state for this client.
func (b *ConnectOptionsBuilder) CleanSession(clean bool) *ConnectOptionsBuilder {
	b.cleanSession = clean
	return b
}

// MaxInflight sets the maximum number of messages that can be in flight
// at any given time.
func (b *ConnectOptionsBuilder) MaxInflight(n int) *ConnectOptionsBuilder {
	b.maxInflight = clampInt32(n)
	return b
}

// WillOptions sets the last will and testament. The builder keeps its own
// copy; nil removes a previously set will.
func (b *ConnectOptionsBuilder) WillOptions(will *WillOptions) *ConnectOptionsBuilder {
	b.will = will.Clone()
	return b
}

// SSLOptions sets the transport security options. The builder keeps its own
// copy; nil removes previously set options.
func (b *ConnectOptionsBuilder) SSLOptions(ssl *SSLOptions) *ConnectOptionsBuilder {
	b.ssl = ssl.Clone()
	return b
}

// UserName sets the user name sent to the broker.
func (b *ConnectOptionsBuilder) UserName(name string) *ConnectOptionsBuilder {
	b.userName = name
	return b
}

// Password sets the password sent to the broker.
func (b *ConnectOptionsBuilder) Password(password string) *ConnectOptionsBuilder {
	b.password = password
	return b
}

// ConnectTimeout sets the time allowed for the connect to complete.
func (b *ConnectOptionsBuilder) ConnectTimeout(d time.Duration) *ConnectOptionsBuilder {
	b.connectTimeout = seconds(d)
	return b
}

// RetryInterval sets the retry interval.
func (b *ConnectOptionsBuilder) RetryInterval(d time.Duration) *ConnectOptionsBuilder {
	b.retryInterval = seconds(d)
	return b
}

// AutomaticReconnect enables automatic reconnection when the connection is
// lost. The delay starts at minRetry and doubles on each failed attempt up
// to maxRetry. The bounds are stored as given, without ordering them.
func (b *ConnectOptionsBuilder) AutomaticReconnect(minRetry, maxRetry time.Duration) *ConnectOptionsBuilder {
	b.automaticReconnect = true
	b.minRetryInterval = seconds(minRetry)
	b.maxRetryInterval = seconds(maxRetry)
	return b
}

// Logger sets the logger used for diagnostics. A nil logger restores slog.Default.
func (b *ConnectOptionsBuilder) Logger(l *slog.Logger) *ConnectOptionsBuilder {
	if l == nil {
		l = slog.Default()
	}
	b.logger = l
	return b
}

// Finalize creates ConnectOptions from the current builder state. It fails
// with ErrInvalidConfig when the user name or password contains a NUL byte.
// The builder is left unchanged and can be finalized again.
func (b *ConnectOptionsBuilder) Finalize() (*ConnectOptions, error) {
	userName, err := newCString("user name", b.userName)
	if err != nil {
		return nil, err
	}
	password, err := newCString("password", b.password)
	if err != nil {
		return nil, err
	}

	opts := &ConnectOptions{
		keepAliveInterval:  b.keepAliveInterval,
		cleanSession:       b.cleanSession,
		maxInflight:        b.maxInflight,
		connectTimeout:     b.connectTimeout,
		retryInterval:      b.retryInterval,
		automaticReconnect: b.automaticReconnect,
		minRetryInterval:   b.minRetryInterval,
		maxRetryInterval:   b.maxRetryInterval,
		userName:           userName,
		password:           password,
	}
	if b.will != nil {
		b.logger.Debug("Transferring will options", "topic", b.will.Topic(), "qos", b.will.QoS())
		opts.will = b.will.Clone()
	}
	if b.ssl != nil {
		b.logger.Debug("Transferring SSL options", "trust_store", b.ssl.TrustStore())
		opts.ssl = b.ssl.Clone()
	}
	return opts, nil
}
