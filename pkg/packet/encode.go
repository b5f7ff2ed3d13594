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
)

type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (enc *Encoder) Encode(spec *StructSpec, value PacketValue) (err error) {
	var raw []byte
	if raw, err = Encode(spec, value); err == nil {
		_, err = enc.w.Write(raw)
	}
	return
}

// Encode walks the spec's fields in declared order against value. The
// encoded size is computed first, then a single buffer is filled with
// offset cursors. Length and count references are resolved from the
// sibling values in value, not from the produced bytes.
func Encode(spec *StructSpec, value PacketValue) (raw []byte, err error) {
	size, err := spec.encodedSize(value)
	if err != nil {
		return
	}
	raw = make([]byte, size)
	if _, err = spec.encodeFields(value, raw); err != nil {
		raw = nil
	}
	return
}

// EncodedSize returns the number of bytes Encode would produce for value.
func (s *StructSpec) EncodedSize(value PacketValue) (int, error) {
	return s.encodedSize(value)
}

func stringFieldSize(length int) int {
	return length + (kStringPadUnit-length%kStringPadUnit)%kStringPadUnit
}

func (s *StructSpec) refValue(f *fieldT, value PacketValue) (n uint64, err error) {
	name := s.fields[f.refIndex].name
	raw, found := value[name]
	if !found {
		err = newCodecError("field %q: referenced field %q has no value", f.name, name)
		return
	}
	if n, err = toUint64(raw); err != nil {
		err = newCodecError("field %q: referenced field %q is not an integer", f.name, name)
	}
	return
}

func (s *StructSpec) encodedSize(value PacketValue) (size int, err error) {
	for i := range s.fields {
		f := &s.fields[i]
		switch f.spec.kind {
		case KindIPv4:
			size += kIPv4Size
		case KindUInt:
			n, _ := intWidthBytes(f.spec.widthBits)
			size += n
		case KindFixedString:
			size += stringFieldSize(f.spec.length)
		case KindVector:
			var n uint64
			if n, err = s.refValue(f, value); err != nil {
				return
			}
			size += int(n)
		case KindStruct:
			sub, ok := value.GetStruct(f.name)
			if !ok {
				err = newCodecError("field %q: missing struct value", f.name)
				return
			}
			var n int
			if n, err = f.spec.nested.encodedSize(sub); err != nil {
				return
			}
			size += n
		case KindRepeat:
			var count uint64
			if count, err = s.refValue(f, value); err != nil {
				return
			}
			seq, _ := value.GetSlice(f.name)
			if uint64(len(seq)) != count {
				err = newCodecError("field %q: %d element(s), referenced count is %d", f.name, len(seq), count)
				return
			}
			for _, el := range seq {
				var n int
				if n, err = f.spec.elem.nested.encodedSize(el); err != nil {
					return
				}
				size += n
			}
		case KindPadding:
			size += f.spec.length
		case KindAlign:
			size += (f.spec.length - size%f.spec.length) % f.spec.length
		}
	}
	return
}

// encodeFields fills buf, which starts at this struct's first byte; Align
// offsets are therefore relative to the enclosing struct's own start.
func (s *StructSpec) encodeFields(value PacketValue, buf []byte) (off int, err error) {
	for i := range s.fields {
		f := &s.fields[i]
		switch f.spec.kind {
		case KindIPv4:
			raw, found := value[f.name]
			if !found {
				err = newCodecError("field %q: missing value", f.name)
				return
			}
			var ip []byte
			if ip, err = toIPv4(raw); err != nil {
				err = newCodecError("field %q: %v", f.name, err)
				return
			}
			copy(buf[off:off+kIPv4Size], ip)
			off += kIPv4Size
		case KindUInt:
			raw, found := value[f.name]
			if !found {
				err = newCodecError("field %q: missing value", f.name)
				return
			}
			var n uint64
			if n, err = toUint64(raw); err != nil {
				err = newCodecError("field %q: %v", f.name, err)
				return
			}
			nBytes, _ := intWidthBytes(f.spec.widthBits)
			putUint(buf[off:off+nBytes], n, f.spec.widthBits, f.spec.byteOrder)
			off += nBytes
		case KindFixedString:
			b, _ := value.GetBytes(f.name)
			if len(b) > f.spec.length {
				b = b[:f.spec.length]
			}
			copy(buf[off:off+f.spec.length], b)
			off += stringFieldSize(f.spec.length)
		case KindVector:
			var n uint64
			if n, err = s.refValue(f, value); err != nil {
				return
			}
			b, _ := value.GetBytes(f.name)
			if uint64(len(b)) != n {
				err = newCodecError("field %q: %d byte(s), referenced length is %d", f.name, len(b), n)
				return
			}
			copy(buf[off:off+int(n)], b)
			off += int(n)
		case KindStruct:
			sub, _ := value.GetStruct(f.name)
			var n int
			if n, err = f.spec.nested.encodeFields(sub, buf[off:]); err != nil {
				return
			}
			off += n
		case KindRepeat:
			seq, _ := value.GetSlice(f.name)
			for _, el := range seq {
				var n int
				if n, err = f.spec.elem.nested.encodeFields(el, buf[off:]); err != nil {
					return
				}
				off += n
			}
		case KindPadding:
			// buf is zeroed on allocation
			off += f.spec.length
		case KindAlign:
			off += (f.spec.length - off%f.spec.length) % f.spec.length
		}
	}
	return
}
