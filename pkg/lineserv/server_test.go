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
	"net"
	"sync"
	"testing"
	"time"

	"shed/pkg/logging"
)

type captureSink struct {
	mtx     sync.Mutex
	records []logging.Record
}

func (s *captureSink) Append(rec logging.Record) {
	s.mtx.Lock()
	s.records = append(s.records, rec)
	s.mtx.Unlock()
}

func (s *captureSink) count() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.records)
}

func newTestServer(sink logging.Sink) *Server {
	return NewServer(Config{Addr: "127.0.0.1:0"}, sink, nil)
}

func TestReceiveReassembly(t *testing.T) {
	s := newTestServer(nil)
	peer := "127.0.0.1:40001"

	if lines := s.Receive(peer, []byte("ab")); len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
	lines := s.Receive(peer, []byte("cd\nef"))
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !bytes.Equal(lines[0], []byte("abcd\n")) {
		t.Errorf("line: got %q", lines[0])
	}
	if !bytes.Equal(s.Pending(peer), []byte("ef")) {
		t.Errorf("pending: got %q", s.Pending(peer))
	}
}

func TestReceivePeerIsolation(t *testing.T) {
	s := newTestServer(nil)

	s.Receive("127.0.0.1:40001", []byte("hello "))
	lines := s.Receive("127.0.0.1:40002", []byte("world\n"))
	if len(lines) != 1 || !bytes.Equal(lines[0], []byte("world\n")) {
		t.Fatalf("peer 2: got %v", lines)
	}
	if !bytes.Equal(s.Pending("127.0.0.1:40001"), []byte("hello ")) {
		t.Errorf("peer 1 pending: got %q", s.Pending("127.0.0.1:40001"))
	}

	lines = s.Receive("127.0.0.1:40001", []byte("there\n"))
	if len(lines) != 1 || !bytes.Equal(lines[0], []byte("hello there\n")) {
		t.Fatalf("peer 1: got %v", lines)
	}
}

func TestReceiveMultipleLinesPerDatagram(t *testing.T) {
	s := newTestServer(nil)
	lines := s.Receive("127.0.0.1:40001", []byte("one\ntwo\nthr"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !bytes.Equal(lines[0], []byte("one\n")) || !bytes.Equal(lines[1], []byte("two\n")) {
		t.Errorf("lines: got %q %q", lines[0], lines[1])
	}
	if !bytes.Equal(s.Pending("127.0.0.1:40001"), []byte("thr")) {
		t.Errorf("pending: got %q", s.Pending("127.0.0.1:40001"))
	}
}

func TestReceiveAppendsToSink(t *testing.T) {
	sink := &captureSink{}
	s := newTestServer(sink)
	s.Receive("127.0.0.1:40001", []byte("a\nb\n"))
	if sink.count() != 2 {
		t.Errorf("expected 2 sink records, got %d", sink.count())
	}
	if !bytes.Equal(sink.records[0].Line, []byte("a\n")) {
		t.Errorf("record line: got %q", sink.records[0].Line)
	}
	if sink.records[0].Peer != "127.0.0.1:40001" {
		t.Errorf("record peer: got %q", sink.records[0].Peer)
	}
}

func TestDisconnectDropsPartialLine(t *testing.T) {
	s := newTestServer(nil)
	peer := "127.0.0.1:40001"
	s.Receive(peer, []byte("partial"))
	s.Disconnect(peer)
	if s.Pending(peer) != nil {
		t.Errorf("pending after disconnect: got %q", s.Pending(peer))
	}
	// peer starts fresh after reconnect
	lines := s.Receive(peer, []byte("new\n"))
	if len(lines) != 1 || !bytes.Equal(lines[0], []byte("new\n")) {
		t.Fatalf("after reconnect: got %v", lines)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s := newTestServer(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %s", err)
	}
	if !s.IsListening() {
		t.Fatal("expected listening state")
	}
	if err := s.Start(); err != nil {
		t.Errorf("second start: %s", err)
	}
	s.Stop()
	if s.IsListening() {
		t.Error("expected stopped state")
	}
	s.Stop()
	s.Stop()
}

func TestStopClearsBuffers(t *testing.T) {
	s := newTestServer(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %s", err)
	}
	s.Receive("127.0.0.1:40001", []byte("pending"))
	if s.NumPeers() != 1 {
		t.Fatalf("peers: got %d", s.NumPeers())
	}
	s.Stop()
	if s.NumPeers() != 0 {
		t.Errorf("peers after stop: got %d", s.NumPeers())
	}
}

func TestStartRejectsBadConfig(t *testing.T) {
	s := NewServer(Config{Addr: "no-port-here"}, nil, nil)
	if err := s.Start(); err == nil {
		t.Fatal("expected error for bad listen address")
	}
	if s.IsListening() {
		t.Error("server should stay stopped on failed start")
	}
}

func TestEchoOverLoopback(t *testing.T) {
	s := newTestServer(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %s", err)
	}
	defer s.Stop()

	client, err := net.Dial("udp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial: %s", err)
	}
	defer client.Close()

	if _, err = client.Write([]byte("ab")); err != nil {
		t.Fatalf("write: %s", err)
	}
	if _, err = client.Write([]byte("cd\nef")); err != nil {
		t.Fatalf("write: %s", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1024)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("read echo: %s", err)
	}
	if !bytes.Equal(buf[:n], []byte("abcd\n")) {
		t.Errorf("echo: got %q", buf[:n])
	}
}

func TestEchoToSenderOnly(t *testing.T) {
	s := newTestServer(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %s", err)
	}
	defer s.Stop()

	sender, err := net.Dial("udp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial: %s", err)
	}
	defer sender.Close()
	other, err := net.Dial("udp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial: %s", err)
	}
	defer other.Close()

	// other peer leaves a fragment; sender completes its own line
	if _, err = other.Write([]byte("quiet")); err != nil {
		t.Fatalf("write: %s", err)
	}
	if _, err = sender.Write([]byte("ping\n")); err != nil {
		t.Fatalf("write: %s", err)
	}

	sender.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1024)
	n, err := sender.Read(buf)
	if err != nil {
		t.Fatalf("read echo: %s", err)
	}
	if !bytes.Equal(buf[:n], []byte("ping\n")) {
		t.Errorf("echo: got %q", buf[:n])
	}

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if n, err = other.Read(buf); err == nil {
		t.Errorf("other peer unexpectedly received %q", buf[:n])
	}
}

func TestRestartAfterStop(t *testing.T) {
	s := newTestServer(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %s", err)
	}
	s.Stop()
	if err := s.Start(); err != nil {
		t.Fatalf("restart: %s", err)
	}
	defer s.Stop()
	if !s.IsListening() {
		t.Error("expected listening state after restart")
	}
}

func TestStatsCounters(t *testing.T) {
	s := newTestServer(nil)
	s.Receive("127.0.0.1:40001", []byte("a\nb\nc"))
	snap := s.GetStats()
	if snap.NumLines != 2 {
		t.Errorf("lines: got %d", snap.NumLines)
	}
}
