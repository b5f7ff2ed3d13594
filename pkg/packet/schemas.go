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

// Built-in example layouts. They double as the reference wire formats for
// the codec tests and as the named schemas the CLI decodes against.

var (
	// AddrHeaderSpec is a 12-byte address header: two IPv4 addresses and
	// two 16-bit ports.
	AddrHeaderSpec = MustStructSpec(
		Field{"src_ip", IPv4()},
		Field{"dst_ip", IPv4()},
		Field{"src_port", UInt(16, BigEndian)},
		Field{"dst_port", UInt(16, BigEndian)},
	)

	// RecordSpec is a variable-length record: type, opcode, 16-bit payload
	// length, 8-byte identifier, length-prefixed payload, aligned to 4.
	RecordSpec = MustStructSpec(
		Field{"type", UInt(8, BigEndian)},
		Field{"opcode", UInt(8, BigEndian)},
		Field{"length", UInt(16, BigEndian)},
		Field{"id", FixedString(8)},
		Field{"payload", Vector("length")},
		Field{"_align", Align(4)},
	)

	// PacketSpec encloses a header struct, two little-endian 32-bit
	// counters, a count-prefixed record array and 3 bytes of fixed padding.
	PacketSpec = MustStructSpec(
		Field{"header", Struct(AddrHeaderSpec)},
		Field{"seq", UInt(32, LittleEndian)},
		Field{"ack", UInt(32, LittleEndian)},
		Field{"count", UInt(8, BigEndian)},
		Field{"records", Repeat("count", Struct(RecordSpec))},
		Field{"_trailer", Padding(3)},
	)
)

// SchemaByName resolves one of the built-in layouts; it returns nil for an
// unknown name.
func SchemaByName(name string) *StructSpec {
	switch name {
	case "addrheader":
		return AddrHeaderSpec
	case "record":
		return RecordSpec
	case "packet":
		return PacketSpec
	}
	return nil
}
