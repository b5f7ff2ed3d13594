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

package logging

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/golang/snappy"

	"shed/pkg/util"
)

// Journal frame: 4-byte big-endian body size, 1 tag byte, body. Bodies at
// or above the compression threshold are stored snappy-encoded.
const (
	kJournalTagClear = byte(iota)
	kJournalTagSnappy
)

const (
	kJournalFrameHeaderSize      = 5
	kDefaultCompressionThreshold = 128
	kJournalScratchSize          = 512
)

type JournalConfig struct {
	Path                 string
	CompressionThreshold int
}

func (cfg *JournalConfig) SetDefaultIfNotDefined() {
	if cfg.CompressionThreshold == 0 {
		cfg.CompressionThreshold = kDefaultCompressionThreshold
	}
}

// JournalSink appends rendered records to an append-only file, one frame
// per record.
type JournalSink struct {
	mtx       sync.Mutex
	file      *os.File
	threshold int
	pool      *util.BufferPool
}

func NewJournalSink(cfg JournalConfig) (sink *JournalSink, err error) {
	cfg.SetDefaultIfNotDefined()
	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	sink = &JournalSink{
		file:      file,
		threshold: cfg.CompressionThreshold,
		pool:      util.NewBufferPool(kJournalScratchSize),
	}
	return
}

func (s *JournalSink) Append(rec Record) {
	kv := NewKVBufferForLog()
	kv.AddRecordInfo(&rec)
	body := kv.Bytes()

	tag := kJournalTagClear
	if s.threshold > 0 && len(body) >= s.threshold {
		body = snappy.Encode(nil, body)
		tag = kJournalTagSnappy
	}

	frame := s.pool.Get()
	defer s.pool.Put(frame)

	var header [kJournalFrameHeaderSize]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(body)))
	header[4] = tag
	frame.Write(header[:])
	frame.Write(body)

	s.mtx.Lock()
	_, err := s.file.Write(frame.Bytes())
	s.mtx.Unlock()
	if err != nil {
		glog.Errorf("journal append failed: %s", err.Error())
	}
}

func (s *JournalSink) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.file.Close()
}

// ReadJournal returns the rendered record bodies of a journal file,
// decompressing tagged frames.
func ReadJournal(path string) (bodies [][]byte, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	off := 0
	for off+kJournalFrameHeaderSize <= len(raw) {
		szBody := int(binary.BigEndian.Uint32(raw[off : off+4]))
		tag := raw[off+4]
		off += kJournalFrameHeaderSize
		if off+szBody > len(raw) {
			err = fmt.Errorf("journal frame at offset %d exceeds file size", off-kJournalFrameHeaderSize)
			return
		}
		body := raw[off : off+szBody]
		off += szBody
		switch tag {
		case kJournalTagClear:
			out := make([]byte, szBody)
			copy(out, body)
			bodies = append(bodies, out)
		case kJournalTagSnappy:
			var out []byte
			if out, err = snappy.Decode(nil, body); err != nil {
				return
			}
			bodies = append(bodies, out)
		default:
			err = fmt.Errorf("unknown journal frame tag %d", tag)
			return
		}
	}
	return
}
