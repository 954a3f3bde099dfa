// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrMaxLengthExceeded represents an error for invalid length int size.
var ErrMaxLengthExceeded = errors.New("max length value exceeded")

const maxVBIBytes = 4

func DecodeByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func DecodeUint16(r io.Reader) (uint16, error) {
	var num [2]byte
	if _, err := io.ReadFull(r, num[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(num[:]), nil
}

func DecodeBytes(r io.Reader) ([]byte, error) {
	fieldLength, err := DecodeUint16(r)
	if err != nil {
		return nil, err
	}

	field := make([]byte, fieldLength)
	if _, err := io.ReadFull(r, field); err != nil {
		return nil, err
	}
	return field, nil
}

func DecodeString(r io.Reader) (string, error) {
	buf, err := DecodeBytes(r)
	return string(buf), err
}

// DecodeVBI reads a Variable Byte Integer.
func DecodeVBI(r io.Reader) (int, error) {
	var vbi uint32
	var shift uint32
	for i := 0; i < maxVBIBytes; i++ {
		digit, err := DecodeByte(r)
		if err != nil {
			return 0, err
		}
		vbi |= uint32(digit&0x7F) << shift
		if digit&0x80 == 0 {
			return int(vbi), nil
		}
		shift += 7
	}
	return 0, ErrMaxLengthExceeded
}
