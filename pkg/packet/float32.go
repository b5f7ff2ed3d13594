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
)

// IEEE-754 single precision codec, big-endian byte order. The mantissa is
// normalized into [1,2) by repeated doubling/halving rather than by bit
// reinterpretation, so the byte-level composition stays the contract:
//
//	byte0 = sign<<7 | (exponent>>1)&0x7F
//	byte1 = (exponent&1)<<7 | (mantissa>>16)&0x7F
//	byte2 = (mantissa>>8)&0xFF
//	byte3 = mantissa&0xFF
//
// Infinity encodes with a zero mantissa (the canonical form; the quiet-NaN
// shaped pattern some producers emit for infinity is not reproduced).

const (
	kFloat32Size         = 4
	kFloat32ExpBias      = 127
	kFloat32ExpMax       = 255
	kFloat32MantissaBits = 23
	kFloat32NaNMantissa  = 1
)

// EncodeFloat32 encodes v to 4 bytes of IEEE-754 single precision.
// Magnitudes beyond single-precision range saturate to infinity; magnitudes
// below the smallest normal flush to signed zero.
func EncodeFloat32(v float64) [kFloat32Size]byte {
	var sign uint32
	if math.Signbit(v) {
		sign = 1
	}
	switch {
	case v != v:
		return composeFloat32(0, kFloat32ExpMax, kFloat32NaNMantissa)
	case math.IsInf(v, 0):
		return composeFloat32(sign, kFloat32ExpMax, 0)
	case v == 0:
		return composeFloat32(sign, 0, 0)
	}

	m := math.Abs(v)
	exp := 0
	for m >= 2 {
		m /= 2
		exp++
	}
	for m < 1 {
		m *= 2
		exp--
	}

	frac := uint32((m-1)*(1<<kFloat32MantissaBits) + 0.5)
	if frac == 1<<kFloat32MantissaBits {
		// rounding carried out of the mantissa
		frac = 0
		exp++
	}

	biased := exp + kFloat32ExpBias
	if biased >= kFloat32ExpMax {
		return composeFloat32(sign, kFloat32ExpMax, 0)
	}
	if biased <= 0 {
		return composeFloat32(sign, 0, 0)
	}
	return composeFloat32(sign, uint32(biased), frac)
}

func composeFloat32(sign uint32, exponent uint32, mantissa uint32) (buf [kFloat32Size]byte) {
	buf[0] = byte(sign<<7 | (exponent>>1)&0x7F)
	buf[1] = byte((exponent&1)<<7 | (mantissa>>16)&0x7F)
	buf[2] = byte(mantissa >> 8)
	buf[3] = byte(mantissa)
	return
}

// DecodeFloat32 reconstructs the value from 4 bytes: sign, exponent and
// mantissa split per the layout above, value (-1)^sign x 1.mantissa x
// 2^(exponent-127), with the special-case table applied in reverse.
func DecodeFloat32(raw []byte) (v float64, err error) {
	if len(raw) < kFloat32Size {
		err = &TruncatedInputError{field: "float32", need: kFloat32Size, have: len(raw)}
		return
	}
	sign := raw[0] >> 7
	exponent := uint32(raw[0]&0x7F)<<1 | uint32(raw[1]>>7)
	mantissa := uint32(raw[1]&0x7F)<<16 | uint32(raw[2])<<8 | uint32(raw[3])

	switch {
	case exponent == kFloat32ExpMax && mantissa == 0:
		if sign == 1 {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case exponent == kFloat32ExpMax:
		return math.NaN(), nil
	case exponent == 0 && mantissa == 0:
		if sign == 1 {
			return math.Copysign(0, -1), nil
		}
		return 0, nil
	case exponent == 0:
		// subnormal: 0.mantissa x 2^-126
		v = math.Ldexp(float64(mantissa), -kFloat32MantissaBits-126)
	default:
		v = math.Ldexp(1+float64(mantissa)/(1<<kFloat32MantissaBits), int(exponent)-kFloat32ExpBias)
	}
	if sign == 1 {
		v = -v
	}
	return
}
