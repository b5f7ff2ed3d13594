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
	"encoding/binary"
	"fmt"
)

type (
	FieldKind uint8
	ByteOrder uint8
)

const (
	KindIPv4 = FieldKind(iota)
	KindUInt
	KindFixedString
	KindVector
	KindStruct
	KindRepeat
	KindPadding
	KindAlign
)

const (
	BigEndian = ByteOrder(iota)
	LittleEndian
)

const (
	kIPv4Size      = 4
	kStringPadUnit = 4
	kNoRef         = -1
)

var (
	fieldKindNameMap map[FieldKind]string = map[FieldKind]string{
		KindIPv4:        "IPv4",
		KindUInt:        "UInt",
		KindFixedString: "FixedString",
		KindVector:      "Vector",
		KindStruct:      "Struct",
		KindRepeat:      "Repeat",
		KindPadding:     "Padding",
		KindAlign:       "Align",
	}
)

func (k FieldKind) String() string {
	if name, ok := fieldKindNameMap[k]; ok {
		return name
	}
	return "Unsupported"
}

func (bo ByteOrder) order() binary.ByteOrder {
	if bo == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (bo ByteOrder) String() string {
	if bo == LittleEndian {
		return "little"
	}
	return "big"
}

type SchemaError struct {
	what string
}

func (e *SchemaError) Error() string {
	return "SchemaError: " + e.what
}

func newSchemaError(format string, args ...interface{}) *SchemaError {
	return &SchemaError{what: fmt.Sprintf(format, args...)}
}

type TruncatedInputError struct {
	field string
	need  int
	have  int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("TruncatedInputError: field %s needs %d bytes, %d left", e.field, e.need, e.have)
}

type CodecError struct {
	what string
}

func (e *CodecError) Error() string {
	return "CodecError: " + e.what
}

func newCodecError(format string, args ...interface{}) *CodecError {
	return &CodecError{what: fmt.Sprintf(format, args...)}
}

var (
	ErrInvalidIPAddress = &CodecError{"invalid IPv4 address"}
	ErrNotAnInteger     = &CodecError{"value is not an integer"}
	ErrInvalidIntWidth  = &SchemaError{"integer width must be 8, 16 or 32 bits"}
)
