// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import "errors"

// Option errors.
var (
	// ErrInvalidConfig is returned when a value cannot be encoded into the
	// connect boundary, such as text with an embedded NUL byte.
	ErrInvalidConfig = errors.New("invalid connect options")
	ErrInvalidQoS    = errors.New("invalid QoS level (must be 0, 1, or 2)")
	ErrEmptyClientID = errors.New("client ID cannot be empty")
	ErrEmptyTopic    = errors.New("topic cannot be empty")
)
