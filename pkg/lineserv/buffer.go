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

package lineserv

import (
	"bytes"
)

// ClientBuffer accumulates datagram payloads for one peer and yields
// complete newline-terminated lines. Bytes after the last newline stay
// buffered until more data arrives.
type ClientBuffer struct {
	data []byte
}

func NewClientBuffer() *ClientBuffer {
	return &ClientBuffer{}
}

func (b *ClientBuffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// NextLine returns the first complete line, newline included, or nil if
// no newline is buffered.
func (b *ClientBuffer) NextLine() (line []byte) {
	i := bytes.IndexByte(b.data, '\n')
	if i < 0 {
		return nil
	}
	line = make([]byte, i+1)
	copy(line, b.data[:i+1])
	b.data = b.data[i+1:]
	return
}

// Pending returns a copy of the buffered fragment after the last
// complete line.
func (b *ClientBuffer) Pending() []byte {
	p := make([]byte, len(b.data))
	copy(p, b.data)
	return p
}

func (b *ClientBuffer) Len() int {
	return len(b.data)
}

func (b *ClientBuffer) Reset() {
	b.data = nil
}
