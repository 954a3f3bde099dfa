// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package paho

import "errors"

var (
	ErrNoServers     = errors.New("no servers configured")
	ErrConnectFailed = errors.New("connection failed")
)
