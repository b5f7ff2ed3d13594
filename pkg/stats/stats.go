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

// Package stats aggregates server-side measurements: datagram sizes,
// flushed line lengths, and per-datagram handling time.
package stats

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	kMaxDatagramSize = 65536
	kMaxLineLength   = 1 << 20
	kMaxHandleTimeUs = 10 * 1000000
)

type Collector struct {
	mtx           sync.Mutex
	datagramSize  *hdrhistogram.Histogram
	lineLength    *hdrhistogram.Histogram
	handleTime    *hdrhistogram.Histogram
	numDatagrams  uint64
	numLines      uint64
	numEchoErrors uint64
	numDropped    uint64
}

func NewCollector() *Collector {
	return &Collector{
		datagramSize: hdrhistogram.New(1, kMaxDatagramSize, 3),
		lineLength:   hdrhistogram.New(1, kMaxLineLength, 3),
		handleTime:   hdrhistogram.New(1, kMaxHandleTimeUs, 3),
	}
}

func (c *Collector) RecordDatagram(size int, took time.Duration) {
	c.mtx.Lock()
	c.numDatagrams++
	c.datagramSize.RecordValue(int64(size))
	c.handleTime.RecordValue(took.Microseconds())
	c.mtx.Unlock()
}

func (c *Collector) RecordLine(length int) {
	c.mtx.Lock()
	c.numLines++
	c.lineLength.RecordValue(int64(length))
	c.mtx.Unlock()
}

func (c *Collector) RecordEchoError() {
	c.mtx.Lock()
	c.numEchoErrors++
	c.mtx.Unlock()
}

func (c *Collector) RecordDropped() {
	c.mtx.Lock()
	c.numDropped++
	c.mtx.Unlock()
}

type Snapshot struct {
	NumDatagrams  uint64
	NumLines      uint64
	NumEchoErrors uint64
	NumDropped    uint64

	DatagramSizeP50 int64
	DatagramSizeP99 int64
	LineLengthP50   int64
	LineLengthP99   int64
	HandleTimeP50Us int64
	HandleTimeP99Us int64
	HandleTimeMaxUs int64
}

func (c *Collector) GetSnapshot() (s Snapshot) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	s.NumDatagrams = c.numDatagrams
	s.NumLines = c.numLines
	s.NumEchoErrors = c.numEchoErrors
	s.NumDropped = c.numDropped
	s.DatagramSizeP50 = c.datagramSize.ValueAtQuantile(50.)
	s.DatagramSizeP99 = c.datagramSize.ValueAtQuantile(99.)
	s.LineLengthP50 = c.lineLength.ValueAtQuantile(50.)
	s.LineLengthP99 = c.lineLength.ValueAtQuantile(99.)
	s.HandleTimeP50Us = c.handleTime.ValueAtQuantile(50.)
	s.HandleTimeP99Us = c.handleTime.ValueAtQuantile(99.)
	s.HandleTimeMaxUs = c.handleTime.Max()
	return
}

func (c *Collector) Reset() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.numDatagrams = 0
	c.numLines = 0
	c.numEchoErrors = 0
	c.numDropped = 0
	c.datagramSize.Reset()
	c.lineLength.Reset()
	c.handleTime.Reset()
}

func (s *Snapshot) PrettyPrint(w io.Writer) {
	fmt.Fprintf(w, "datagrams: %d  lines: %d  echo errors: %d  dropped: %d\n",
		s.NumDatagrams, s.NumLines, s.NumEchoErrors, s.NumDropped)
	fmt.Fprintf(w, "datagram size p50/p99: %d/%d bytes\n", s.DatagramSizeP50, s.DatagramSizeP99)
	fmt.Fprintf(w, "line length p50/p99: %d/%d bytes\n", s.LineLengthP50, s.LineLengthP99)
	fmt.Fprintf(w, "handle time p50/p99/max: %d/%d/%d us\n",
		s.HandleTimeP50Us, s.HandleTimeP99Us, s.HandleTimeMaxUs)
}
