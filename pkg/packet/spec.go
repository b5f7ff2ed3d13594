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

// Package packet implements a declarative binary record codec. A StructSpec
// describes one record layout as an ordered list of named fields; Encode and
// Decode interpret the spec against a PacketValue or a byte buffer.
package packet

import (
	"fmt"
	"io"
	"net"
)

type (
	// FieldSpec is one field's encoding rule: a tagged variant over the
	// supported field kinds.
	FieldSpec struct {
		kind      FieldKind
		widthBits uint8
		byteOrder ByteOrder
		length    int
		refName   string
		elem      *FieldSpec
		nested    *StructSpec
	}

	// Field pairs a name with its spec for StructSpec construction.
	Field struct {
		Name string
		Spec FieldSpec
	}

	// fieldT is the validated arena entry; length/count references are
	// resolved to sibling indices at construction time.
	fieldT struct {
		name     string
		spec     FieldSpec
		refIndex int
	}

	StructSpec struct {
		fields []fieldT
	}
)

func IPv4() FieldSpec {
	return FieldSpec{kind: KindIPv4}
}

func UInt(widthBits uint8, bo ByteOrder) FieldSpec {
	return FieldSpec{kind: KindUInt, widthBits: widthBits, byteOrder: bo}
}

func FixedString(length int) FieldSpec {
	return FieldSpec{kind: KindFixedString, length: length}
}

func Vector(lengthRef string) FieldSpec {
	return FieldSpec{kind: KindVector, refName: lengthRef}
}

func Struct(spec *StructSpec) FieldSpec {
	return FieldSpec{kind: KindStruct, nested: spec}
}

func Repeat(countRef string, elem FieldSpec) FieldSpec {
	return FieldSpec{kind: KindRepeat, refName: countRef, elem: &elem}
}

func Padding(n int) FieldSpec {
	return FieldSpec{kind: KindPadding, length: n}
}

func Align(n int) FieldSpec {
	return FieldSpec{kind: KindAlign, length: n}
}

func (f *FieldSpec) Kind() FieldKind {
	return f.kind
}

// NewStructSpec validates the field list eagerly, before any encode or
// decode attempt. Names must be unique within the struct's scope, and a
// length/count reference must name an unsigned integer field that appears
// strictly earlier in encoding order. Forward references are illegal.
func NewStructSpec(fields ...Field) (spec *StructSpec, err error) {
	spec = &StructSpec{fields: make([]fieldT, 0, len(fields))}
	byName := make(map[string]int)
	for i, f := range fields {
		if len(f.Name) == 0 {
			err = newSchemaError("field %d has an empty name", i)
			return
		}
		if _, found := byName[f.Name]; found {
			err = newSchemaError("duplicate field name %q", f.Name)
			return
		}
		entry := fieldT{name: f.Name, spec: f.Spec, refIndex: kNoRef}
		if err = validateFieldSpec(f.Name, &f.Spec); err != nil {
			return
		}
		if f.Spec.refName != "" {
			refIdx, found := byName[f.Spec.refName]
			if !found {
				err = newSchemaError("field %q references undefined or forward field %q", f.Name, f.Spec.refName)
				return
			}
			if fields[refIdx].Spec.kind != KindUInt {
				err = newSchemaError("field %q references %q, which is not an unsigned integer field", f.Name, f.Spec.refName)
				return
			}
			entry.refIndex = refIdx
		}
		byName[f.Name] = i
		spec.fields = append(spec.fields, entry)
	}
	return spec, nil
}

// MustStructSpec is for statically known schemas (test fixtures, built-in
// layouts); it panics on a SchemaError.
func MustStructSpec(fields ...Field) *StructSpec {
	spec, err := NewStructSpec(fields...)
	if err != nil {
		panic(err)
	}
	return spec
}

func validateFieldSpec(name string, s *FieldSpec) error {
	switch s.kind {
	case KindIPv4:
	case KindUInt:
		switch s.widthBits {
		case 8, 16, 32:
		default:
			return newSchemaError("field %q: integer width %d not in {8,16,32}", name, s.widthBits)
		}
	case KindFixedString:
		if s.length <= 0 {
			return newSchemaError("field %q: string length must be positive", name)
		}
	case KindVector:
		if s.refName == "" {
			return newSchemaError("field %q: vector needs a length reference", name)
		}
	case KindStruct:
		if s.nested == nil {
			return newSchemaError("field %q: nil nested struct spec", name)
		}
	case KindRepeat:
		if s.refName == "" {
			return newSchemaError("field %q: repeat needs a count reference", name)
		}
		if s.elem == nil {
			return newSchemaError("field %q: repeat needs an element spec", name)
		}
		// Elements are struct-shaped so that a repeated value is an ordered
		// sequence of PacketValue, and element references resolve within
		// the element's own scope.
		if s.elem.kind != KindStruct {
			return newSchemaError("field %q: repeat element must be a struct, got %s", name, s.elem.kind)
		}
		return validateFieldSpec(name, s.elem)
	case KindPadding:
		if s.length <= 0 {
			return newSchemaError("field %q: padding size must be positive", name)
		}
	case KindAlign:
		if s.length <= 0 {
			return newSchemaError("field %q: alignment must be positive", name)
		}
	default:
		return newSchemaError("field %q: unsupported kind %d", name, s.kind)
	}
	return nil
}

func (s *StructSpec) NumFields() int {
	return len(s.fields)
}

// PacketValue is the decoded, structured representation of one record
// instance: a mapping from field name to integer, byte string, nested
// PacketValue, or []PacketValue for repeated fields. Padding and Align
// fields carry no value.
type PacketValue map[string]interface{}

func (v PacketValue) GetUint(name string) (value uint64, ok bool) {
	raw, found := v[name]
	if !found {
		return 0, false
	}
	value, err := toUint64(raw)
	return value, err == nil
}

func (v PacketValue) GetBytes(name string) (value []byte, ok bool) {
	switch b := v[name].(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	case net.IP:
		return b, true
	}
	return nil, false
}

func (v PacketValue) GetStruct(name string) (value PacketValue, ok bool) {
	value, ok = v[name].(PacketValue)
	return
}

func (v PacketValue) GetSlice(name string) (value []PacketValue, ok bool) {
	value, ok = v[name].([]PacketValue)
	return
}

func toUint64(raw interface{}) (uint64, error) {
	switch n := raw.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case int64:
		return uint64(n), nil
	case int32:
		return uint64(n), nil
	case int16:
		return uint64(n), nil
	case int8:
		return uint64(n), nil
	case int:
		return uint64(n), nil
	}
	return 0, ErrNotAnInteger
}

func toIPv4(raw interface{}) (ip net.IP, err error) {
	switch a := raw.(type) {
	case net.IP:
		ip = a.To4()
	case string:
		ip = net.ParseIP(a).To4()
	case [4]byte:
		ip = net.IPv4(a[0], a[1], a[2], a[3]).To4()
	case []byte:
		if len(a) == kIPv4Size {
			ip = net.IP(a)
		}
	}
	if len(ip) != kIPv4Size {
		err = ErrInvalidIPAddress
	}
	return
}

// PrettyPrint renders value in the spec's declared field order.
func (s *StructSpec) PrettyPrint(w io.Writer, value PacketValue) {
	s.prettyPrint(w, value, "")
}

func (s *StructSpec) prettyPrint(w io.Writer, value PacketValue, indent string) {
	for i := range s.fields {
		f := &s.fields[i]
		switch f.spec.kind {
		case KindPadding, KindAlign:
			continue
		case KindStruct:
			fmt.Fprintf(w, "%s%s:\n", indent, f.name)
			if sub, ok := value.GetStruct(f.name); ok {
				f.spec.nested.prettyPrint(w, sub, indent+"  ")
			}
		case KindRepeat:
			seq, _ := value.GetSlice(f.name)
			fmt.Fprintf(w, "%s%s: %d element(s)\n", indent, f.name, len(seq))
			for j, el := range seq {
				fmt.Fprintf(w, "%s  [%d]:\n", indent, j)
				f.spec.elem.nested.prettyPrint(w, el, indent+"    ")
			}
		case KindIPv4:
			if ip, ok := value[f.name].(net.IP); ok {
				fmt.Fprintf(w, "%s%s: %s\n", indent, f.name, ip.String())
			} else {
				fmt.Fprintf(w, "%s%s: %v\n", indent, f.name, value[f.name])
			}
		case KindFixedString, KindVector:
			if b, ok := value.GetBytes(f.name); ok {
				fmt.Fprintf(w, "%s%s: %X\n", indent, f.name, b)
			} else {
				fmt.Fprintf(w, "%s%s: %v\n", indent, f.name, value[f.name])
			}
		default:
			fmt.Fprintf(w, "%s%s: %v\n", indent, f.name, value[f.name])
		}
	}
}
