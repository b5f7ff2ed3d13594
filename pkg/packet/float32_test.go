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

import (
	"math"
	"testing"
)

func TestEncodeFloat32KnownValues(t *testing.T) {
	cases := []struct {
		in   float64
		want [4]byte
	}{
		{1.0, [4]byte{0x3F, 0x80, 0x00, 0x00}},
		{-2.5, [4]byte{0xC0, 0x20, 0x00, 0x00}},
		{0.15625, [4]byte{0x3E, 0x20, 0x00, 0x00}},
		{2.0, [4]byte{0x40, 0x00, 0x00, 0x00}},
		{0.5, [4]byte{0x3F, 0x00, 0x00, 0x00}},
	}
	for _, c := range cases {
		if got := EncodeFloat32(c.in); got != c.want {
			t.Errorf("encode(%v): got % X, want % X", c.in, got, c.want)
		}
	}
}

func TestEncodeFloat32SpecialValues(t *testing.T) {
	posZero := EncodeFloat32(0.0)
	if posZero != [4]byte{0, 0, 0, 0} {
		t.Errorf("+0.0: got % X", posZero)
	}
	negZero := EncodeFloat32(math.Copysign(0, -1))
	if negZero != [4]byte{0x80, 0, 0, 0} {
		t.Errorf("-0.0: got % X", negZero)
	}
	// -0.0 differs from +0.0 only in the sign bit
	if posZero[0]^negZero[0] != 0x80 || posZero[1] != negZero[1] ||
		posZero[2] != negZero[2] || posZero[3] != negZero[3] {
		t.Error("zero encodings differ beyond the sign bit")
	}

	// canonical infinities: exponent 255, mantissa 0
	if got := EncodeFloat32(math.Inf(1)); got != [4]byte{0x7F, 0x80, 0x00, 0x00} {
		t.Errorf("+Inf: got % X", got)
	}
	if got := EncodeFloat32(math.Inf(-1)); got != [4]byte{0xFF, 0x80, 0x00, 0x00} {
		t.Errorf("-Inf: got % X", got)
	}

	// NaN: exponent 255, mantissa 1
	nan := EncodeFloat32(math.NaN())
	exponent := uint32(nan[0]&0x7F)<<1 | uint32(nan[1]>>7)
	mantissa := uint32(nan[1]&0x7F)<<16 | uint32(nan[2])<<8 | uint32(nan[3])
	if exponent != 255 || mantissa != 1 {
		t.Errorf("NaN: exponent %d mantissa %d, want 255/1", exponent, mantissa)
	}
}

func TestEncodeFloat32RangeLimits(t *testing.T) {
	// beyond single-precision range saturates to infinity
	if got := EncodeFloat32(1e39); got != [4]byte{0x7F, 0x80, 0x00, 0x00} {
		t.Errorf("1e39: got % X, want +Inf encoding", got)
	}
	if got := EncodeFloat32(-1e39); got != [4]byte{0xFF, 0x80, 0x00, 0x00} {
		t.Errorf("-1e39: got % X, want -Inf encoding", got)
	}
	// below the smallest normal flushes to signed zero
	if got := EncodeFloat32(1e-45); got != [4]byte{0x00, 0x00, 0x00, 0x00} {
		t.Errorf("1e-45: got % X, want +0 encoding", got)
	}
	if got := EncodeFloat32(-1e-45); got != [4]byte{0x80, 0x00, 0x00, 0x00} {
		t.Errorf("-1e-45: got % X, want -0 encoding", got)
	}
}

func TestDecodeFloat32SpecialValues(t *testing.T) {
	if v, err := DecodeFloat32([]byte{0x7F, 0x80, 0x00, 0x00}); err != nil || !math.IsInf(v, 1) {
		t.Errorf("+Inf decode: got %v, %v", v, err)
	}
	if v, err := DecodeFloat32([]byte{0xFF, 0x80, 0x00, 0x00}); err != nil || !math.IsInf(v, -1) {
		t.Errorf("-Inf decode: got %v, %v", v, err)
	}
	if v, err := DecodeFloat32([]byte{0x7F, 0x80, 0x00, 0x01}); err != nil || !math.IsNaN(v) {
		t.Errorf("NaN decode: got %v, %v", v, err)
	}
	if v, err := DecodeFloat32([]byte{0x80, 0x00, 0x00, 0x00}); err != nil || !math.Signbit(v) || v != 0 {
		t.Errorf("-0.0 decode: got %v, %v", v, err)
	}
	// smallest subnormal: 2^-149
	v, err := DecodeFloat32([]byte{0x00, 0x00, 0x00, 0x01})
	if err != nil || v != math.Ldexp(1, -149) {
		t.Errorf("subnormal decode: got %v, %v", v, err)
	}
}

func TestDecodeFloat32Truncated(t *testing.T) {
	if _, err := DecodeFloat32([]byte{0x3F, 0x80}); err == nil {
		t.Error("expected TruncatedInputError")
	} else if _, ok := err.(*TruncatedInputError); !ok {
		t.Errorf("got %T, want *TruncatedInputError", err)
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	values := []float64{
		1.0, -1.0, 2.0, 0.5, 3.14159265, -3.14159265, 0.15625,
		1234.5678, -99999.875, 1e-10, -1e-10, 6.5e20, 1.2e-38,
	}
	for _, v := range values {
		enc := EncodeFloat32(v)
		dec, err := DecodeFloat32(enc[:])
		if err != nil {
			t.Fatal(err)
		}
		// decode(encode(x)) approximates x within one unit in the last
		// place of the 23-bit mantissa
		relErr := math.Abs(dec-v) / math.Abs(v)
		if relErr > 1.0/(1<<23) {
			t.Errorf("round trip %v -> %v, relative error %g", v, dec, relErr)
		}
	}
}
