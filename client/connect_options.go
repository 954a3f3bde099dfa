// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import "time"

// ConnectOptions is an immutable set of options for connecting to a broker,
// produced by ConnectOptionsBuilder.Finalize. Only the clean session flag can
// be changed after construction.
//
// ConnectOptions stores logical values and owned buffers, never addresses.
// The boundary handed to a native connect call is derived from the current
// storage by Boundary each time it is needed, so copies made with Clone can
// never carry addresses into another instance.
type ConnectOptions struct {
	keepAliveInterval  int32
	cleanSession       bool
	maxInflight        int32
	connectTimeout     int32
	retryInterval      int32
	automaticReconnect bool
	minRetryInterval   int32
	maxRetryInterval   int32

	userName cstring
	password cstring

	// Boxed so their addresses do not depend on the ConnectOptions value.
	will *WillOptions
	ssl  *SSLOptions
}

// NewConnectOptions returns options with zero-valued scalars, no credentials,
// no will and no SSL configuration.
func NewConnectOptions() *ConnectOptions {
	return &ConnectOptions{}
}

// SetCleanSession sets the clean session flag.
func (o *ConnectOptions) SetCleanSession(clean bool) {
	o.cleanSession = clean
}

// CleanSession returns the clean session flag.
func (o *ConnectOptions) CleanSession() bool {
	return o.cleanSession
}

// KeepAliveInterval returns the keep-alive interval.
func (o *ConnectOptions) KeepAliveInterval() time.Duration {
	return time.Duration(o.keepAliveInterval) * time.Second
}

// ConnectTimeout returns the time allowed for the connect to complete.
func (o *ConnectOptions) ConnectTimeout() time.Duration {
	return time.Duration(o.connectTimeout) * time.Second
}

// RetryInterval returns the retry interval.
func (o *ConnectOptions) RetryInterval() time.Duration {
	return time.Duration(o.retryInterval) * time.Second
}

// MaxInflight returns the maximum number of in-flight messages.
func (o *ConnectOptions) MaxInflight() int {
	return int(o.maxInflight)
}

// AutomaticReconnect reports whether automatic reconnect is enabled, along
// with the backoff bounds.
func (o *ConnectOptions) AutomaticReconnect() (enabled bool, minRetry, maxRetry time.Duration) {
	return o.automaticReconnect,
		time.Duration(o.minRetryInterval) * time.Second,
		time.Duration(o.maxRetryInterval) * time.Second
}

// UserName returns the user name, empty when unset.
func (o *ConnectOptions) UserName() string {
	return o.userName.String()
}

// Password returns the password, empty when unset.
func (o *ConnectOptions) Password() string {
	return o.password.String()
}

// Will returns a copy of the will options, or nil.
func (o *ConnectOptions) Will() *WillOptions {
	return o.will.Clone()
}

// SSL returns a copy of the SSL options, or nil.
func (o *ConnectOptions) SSL() *SSLOptions {
	return o.ssl.Clone()
}

// Clone returns a deep copy whose buffers and boxes are newly allocated.
func (o *ConnectOptions) Clone() *ConnectOptions {
	c := *o
	c.userName = o.userName.clone()
	c.password = o.password.clone()
	c.will = o.will.Clone()
	c.ssl = o.ssl.Clone()
	return &c
}

// Release wipes all owned buffers and resets the options to the state of
// NewConnectOptions. Boundaries derived earlier must not be used afterwards.
func (o *ConnectOptions) Release() {
	o.userName.wipe()
	o.password.wipe()
	o.will.Release()
	o.ssl.Release()
	*o = ConnectOptions{}
}

// Boundary derives the fixed-layout value for a native connect call from
// the current state. The result is valid until o is released.
func (o *ConnectOptions) Boundary() *ConnectBoundary {
	b := &ConnectBoundary{
		StructID:           ConnectStructID,
		StructVersion:      ConnectStructVersion,
		KeepAliveInterval:  o.keepAliveInterval,
		CleanSession:       boolToInt32(o.cleanSession),
		MaxInflight:        o.maxInflight,
		ConnectTimeout:     o.connectTimeout,
		RetryInterval:      o.retryInterval,
		AutomaticReconnect: boolToInt32(o.automaticReconnect),
		MinRetryInterval:   o.minRetryInterval,
		MaxRetryInterval:   o.maxRetryInterval,
	}
	o.fixup(b)
	return b
}

// fixup points the address fields of b at the storage owned by o.
func (o *ConnectOptions) fixup(b *ConnectBoundary) {
	b.Will = nil
	if o.will != nil {
		b.Will = o.will.Boundary()
	}
	b.SSL = nil
	if o.ssl != nil {
		b.SSL = o.ssl.Boundary()
	}
	b.Username = o.userName.ptr()
	b.Password = o.password.ptr()
}
