//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package packet

// Fixed-width integer codec. Values are two's complement; an out-of-range
// value wraps modulo 2^width on encode, never an error.

func intWidthBytes(widthBits uint8) (n int, err error) {
	switch widthBits {
	case 8:
		n = 1
	case 16:
		n = 2
	case 32:
		n = 4
	default:
		err = ErrInvalidIntWidth
	}
	return
}

// EncodeUint encodes value into width/8 bytes in the given byte order,
// truncating to the low width bits.
func EncodeUint(value uint64, widthBits uint8, bo ByteOrder) (buf []byte, err error) {
	n, err := intWidthBytes(widthBits)
	if err != nil {
		return
	}
	buf = make([]byte, n)
	err = putUint(buf, value, widthBits, bo)
	return
}

// EncodeInt encodes a signed value; two's complement representation makes it
// the same bit pattern as the wrapped unsigned encoding.
func EncodeInt(value int64, widthBits uint8, bo ByteOrder) ([]byte, error) {
	return EncodeUint(uint64(value), widthBits, bo)
}

func putUint(buf []byte, value uint64, widthBits uint8, bo ByteOrder) error {
	switch widthBits {
	case 8:
		buf[0] = uint8(value)
	case 16:
		bo.order().PutUint16(buf[0:2], uint16(value))
	case 32:
		bo.order().PutUint32(buf[0:4], uint32(value))
	default:
		return ErrInvalidIntWidth
	}
	return nil
}

// DecodeUint is the inverse mapping of EncodeUint.
func DecodeUint(raw []byte, widthBits uint8, bo ByteOrder) (value uint64, err error) {
	n, err := intWidthBytes(widthBits)
	if err != nil {
		return
	}
	if len(raw) < n {
		err = &TruncatedInputError{field: "uint" + itoa(widthBits), need: n, have: len(raw)}
		return
	}
	switch widthBits {
	case 8:
		value = uint64(raw[0])
	case 16:
		value = uint64(bo.order().Uint16(raw[0:2]))
	case 32:
		value = uint64(bo.order().Uint32(raw[0:4]))
	}
	return
}

// DecodeInt decodes with sign extension from the width's sign bit.
func DecodeInt(raw []byte, widthBits uint8, bo ByteOrder) (value int64, err error) {
	u, err := DecodeUint(raw, widthBits, bo)
	if err != nil {
		return
	}
	shift := 64 - uint(widthBits)
	value = int64(u<<shift) >> shift
	return
}

func itoa(widthBits uint8) string {
	switch widthBits {
	case 8:
		return "8"
	case 16:
		return "16"
	case 32:
		return "32"
	}
	return "?"
}
