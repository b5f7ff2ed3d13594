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
	"io"
	"net"
)

type Decoder struct {
	r io.Reader
}

// NewDecoder wraps one record's bytes; Decode consumes the reader.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

func (dec *Decoder) Decode(spec *StructSpec) (value PacketValue, err error) {
	var raw []byte
	if raw, err = io.ReadAll(dec.r); err != nil {
		return
	}
	return Decode(spec, raw)
}

// Decode reads fields in declared order, advancing a cursor over raw.
// Length and count references resolve from already-decoded sibling values.
// On a TruncatedInputError no partial PacketValue is returned. Trailing
// bytes beyond the last field are ignored.
func Decode(spec *StructSpec, raw []byte) (value PacketValue, err error) {
	value, _, err = spec.decodeFields(raw)
	if err != nil {
		value = nil
	}
	return
}

func (s *StructSpec) need(f *fieldT, raw []byte, off int, n int) error {
	if off+n > len(raw) {
		return &TruncatedInputError{field: f.name, need: n, have: len(raw) - off}
	}
	return nil
}

// decodeFields decodes one struct from raw, which starts at the struct's
// first byte; the returned offset is the number of bytes consumed.
func (s *StructSpec) decodeFields(raw []byte) (value PacketValue, off int, err error) {
	value = make(PacketValue, len(s.fields))
	for i := range s.fields {
		f := &s.fields[i]
		switch f.spec.kind {
		case KindIPv4:
			if err = s.need(f, raw, off, kIPv4Size); err != nil {
				return
			}
			ip := make(net.IP, kIPv4Size)
			copy(ip, raw[off:off+kIPv4Size])
			value[f.name] = ip
			off += kIPv4Size
		case KindUInt:
			nBytes, _ := intWidthBytes(f.spec.widthBits)
			if err = s.need(f, raw, off, nBytes); err != nil {
				return
			}
			var n uint64
			if n, err = DecodeUint(raw[off:], f.spec.widthBits, f.spec.byteOrder); err != nil {
				return
			}
			value[f.name] = n
			off += nBytes
		case KindFixedString:
			szField := stringFieldSize(f.spec.length)
			if err = s.need(f, raw, off, szField); err != nil {
				return
			}
			b := make([]byte, f.spec.length)
			copy(b, raw[off:off+f.spec.length])
			value[f.name] = b
			off += szField
		case KindVector:
			var n uint64
			if n, err = s.refValue(f, value); err != nil {
				return
			}
			if err = s.need(f, raw, off, int(n)); err != nil {
				return
			}
			b := make([]byte, n)
			copy(b, raw[off:off+int(n)])
			value[f.name] = b
			off += int(n)
		case KindStruct:
			var sub PacketValue
			var n int
			if sub, n, err = f.spec.nested.decodeFields(raw[off:]); err != nil {
				return
			}
			value[f.name] = sub
			off += n
		case KindRepeat:
			var count uint64
			if count, err = s.refValue(f, value); err != nil {
				return
			}
			seq := make([]PacketValue, 0, count)
			for j := uint64(0); j < count; j++ {
				var el PacketValue
				var n int
				if el, n, err = f.spec.elem.nested.decodeFields(raw[off:]); err != nil {
					return
				}
				seq = append(seq, el)
				off += n
			}
			value[f.name] = seq
		case KindPadding:
			if err = s.need(f, raw, off, f.spec.length); err != nil {
				return
			}
			off += f.spec.length
		case KindAlign:
			n := (f.spec.length - off%f.spec.length) % f.spec.length
			if err = s.need(f, raw, off, n); err != nil {
				return
			}
			off += n
		}
	}
	return
}
