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

// Package logging renders and sinks the server's append-only log records.
package logging

import (
	"bytes"
	"strconv"
	"time"

	"github.com/golang/glog"
	uuid "github.com/satori/go.uuid"
)

type RecordId [16]byte

var NilRecordId = RecordId{}

func NewRecordId() (rid RecordId) {
	id := uuid.NewV1()
	copy(rid[:], id.Bytes())
	return
}

func (rid RecordId) String() string {
	var id uuid.UUID
	if err := id.UnmarshalBinary(rid[:]); err != nil {
		return "invalid record id"
	}
	return id.String()
}

func (rid RecordId) IsSet() bool {
	return !bytes.Equal(rid[:], NilRecordId[:])
}

// Record is one entry of the append-only log: a completed line received
// from a peer, or a lifecycle event tagged with an optional peer.
type Record struct {
	Id        RecordId
	Timestamp time.Time
	Peer      string
	Line      []byte
	Event     string
}

func NewLineRecord(peer string, line []byte) Record {
	return Record{
		Id:        NewRecordId(),
		Timestamp: time.Now(),
		Peer:      peer,
		Line:      line,
	}
}

func NewEventRecord(peer string, event string) Record {
	return Record{
		Id:        NewRecordId(),
		Timestamp: time.Now(),
		Peer:      peer,
		Event:     event,
	}
}

type KeyValueBuffer struct {
	bytes.Buffer
	delimiter     byte
	pairDelimiter byte
}

func NewKVBufferForLog() *KeyValueBuffer {
	b := &KeyValueBuffer{
		delimiter:     '=',
		pairDelimiter: ',',
	}
	return b
}

var (
	logDataKeyTimestamp []byte = []byte("ts")
	logDataKeyPeer      []byte = []byte("peer")
	logDataKeyLine      []byte = []byte("line")
	logDataKeyEvent     []byte = []byte("ev")
	logDataKeyRecordId  []byte = []byte("rid")
)

func (b *KeyValueBuffer) AddBytes(key []byte, value []byte) *KeyValueBuffer {
	if b.Len() > 0 {
		b.WriteByte(b.pairDelimiter)
	}
	b.Write(key)
	b.WriteByte(b.delimiter)
	b.Write(value)
	return b
}

func (b *KeyValueBuffer) Add(key []byte, value string) *KeyValueBuffer {
	if b.Len() > 0 {
		b.WriteByte(b.pairDelimiter)
	}
	b.Write(key)
	b.WriteByte(b.delimiter)
	b.WriteString(value)
	return b
}

func (b *KeyValueBuffer) AddInt(key []byte, value int) *KeyValueBuffer {
	return b.Add(key, strconv.Itoa(value))
}

func (b *KeyValueBuffer) AddUInt64(key []byte, value uint64) *KeyValueBuffer {
	return b.Add(key, strconv.FormatUint(value, 10))
}

func (b *KeyValueBuffer) AddTimestamp(t time.Time) *KeyValueBuffer {
	return b.Add(logDataKeyTimestamp, t.Format(time.RFC3339Nano))
}

func (b *KeyValueBuffer) AddPeer(peer string) *KeyValueBuffer {
	if peer != "" {
		b.Add(logDataKeyPeer, peer)
	}
	return b
}

func (b *KeyValueBuffer) AddLine(line []byte) *KeyValueBuffer {
	if len(line) != 0 {
		b.Add(logDataKeyLine, strconv.Quote(string(line)))
	}
	return b
}

func (b *KeyValueBuffer) AddEvent(event string) *KeyValueBuffer {
	if event != "" {
		b.Add(logDataKeyEvent, event)
	}
	return b
}

func (b *KeyValueBuffer) AddRecordId(rid RecordId) *KeyValueBuffer {
	if rid.IsSet() {
		b.Add(logDataKeyRecordId, rid.String())
	}
	return b
}

func (b *KeyValueBuffer) AddRecordInfo(rec *Record) *KeyValueBuffer {
	return b.AddTimestamp(rec.Timestamp).AddRecordId(rec.Id).AddPeer(rec.Peer).AddEvent(rec.Event).AddLine(rec.Line)
}

// Sink is an append-only consumer of log records; the display surface
// reading the records is outside this package.
type Sink interface {
	Append(rec Record)
}

// GlogSink renders each record through the process log.
type GlogSink struct{}

func (GlogSink) Append(rec Record) {
	b := NewKVBufferForLog()
	b.AddRecordInfo(&rec)
	glog.Infof("%s", b.String())
}

// MultiSink fans one record out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Append(rec Record) {
	for _, s := range m {
		s.Append(rec)
	}
}

func LogServerStart(addr string) {
	glog.Infof("line server listening on %s", addr)
}

func LogServerStop(addr string, peers int) {
	glog.Infof("line server on %s stopped, %d peer buffer(s) discarded", addr, peers)
}

func LogPeerDisconnect(peer string, pending int) {
	if pending > 0 {
		glog.Infof("peer %s disconnected, %d unflushed byte(s) discarded", peer, pending)
		return
	}
	glog.Infof("peer %s disconnected", peer)
}

func LogDroppedDatagram(peer string, err error) {
	glog.Warningf("dropping datagram from %s: %s", peer, err.Error())
}
