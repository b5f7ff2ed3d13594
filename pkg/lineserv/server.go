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

// Package lineserv implements a UDP line echo server. Datagram payloads
// from each peer are appended to a per-peer buffer; every complete
// newline-terminated line is flushed and echoed back to the peer that
// sent it, newline included. Bytes after the last newline stay buffered
// for that peer.
package lineserv

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"shed/pkg/logging"
	"shed/pkg/stats"
)

const (
	kStateStopped = int32(iota)
	kStateListening
)

type Server struct {
	config   Config
	state    int32
	conn     *net.UDPConn
	registry *PeerRegistry
	sink     logging.Sink
	stats    *stats.Collector
	wg       sync.WaitGroup
}

func NewServer(cfg Config, sink logging.Sink, collector *stats.Collector) *Server {
	cfg.SetDefaultIfNotDefined()
	if sink == nil {
		sink = &logging.GlogSink{}
	}
	if collector == nil {
		collector = stats.NewCollector()
	}
	return &Server{
		config:   cfg,
		registry: NewPeerRegistry(cfg.RegistryPartitions),
		sink:     sink,
		stats:    collector,
	}
}

// Start binds the listen socket and launches the receive loop. Calling
// Start on a listening server is a no-op.
func (s *Server) Start() (err error) {
	if !atomic.CompareAndSwapInt32(&s.state, kStateStopped, kStateListening) {
		glog.V(1).Infof("server already listening on %s", s.config.Addr)
		return nil
	}
	if err = s.config.Validate(); err != nil {
		atomic.StoreInt32(&s.state, kStateStopped)
		return
	}
	addr, err := net.ResolveUDPAddr("udp", s.config.Addr)
	if err != nil {
		atomic.StoreInt32(&s.state, kStateStopped)
		return
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		atomic.StoreInt32(&s.state, kStateStopped)
		return
	}
	s.conn = conn
	logging.LogServerStart(conn.LocalAddr().String())
	s.wg.Add(1)
	go s.recvLoop(conn)
	return nil
}

// Stop closes the listen socket, waits for the receive loop to drain,
// and discards all peer buffers. Calling Stop on a stopped server is a
// no-op.
func (s *Server) Stop() {
	if !atomic.CompareAndSwapInt32(&s.state, kStateListening, kStateStopped) {
		return
	}
	s.conn.Close()
	s.wg.Wait()
	peers := s.registry.Count()
	s.registry.Clear()
	logging.LogServerStop(s.conn.LocalAddr().String(), peers)
}

func (s *Server) IsListening() bool {
	return atomic.LoadInt32(&s.state) == kStateListening
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

func (s *Server) recvLoop(conn *net.UDPConn) {
	defer s.wg.Done()

	buf := make([]byte, s.config.ReadBufSize)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if atomic.LoadInt32(&s.state) == kStateStopped {
				return
			}
			s.stats.RecordDropped()
			logging.LogDroppedDatagram("unknown", err)
			continue
		}
		start := time.Now()
		lines := s.Receive(raddr.String(), buf[:n])
		for _, line := range lines {
			if _, werr := conn.WriteToUDP(line, raddr); werr != nil {
				s.stats.RecordEchoError()
				glog.Errorf("echo to %s failed: %s", raddr.String(), werr.Error())
			}
		}
		s.stats.RecordDatagram(n, time.Since(start))
	}
}

// Receive appends a datagram payload to the peer's buffer and flushes
// every complete line, one line per iteration. The flushed lines are
// returned in order, each including its trailing newline.
func (s *Server) Receive(peer string, data []byte) (lines [][]byte) {
	cb := s.registry.GetOrCreate(peer)
	cb.Append(data)
	for {
		line := cb.NextLine()
		if line == nil {
			break
		}
		s.stats.RecordLine(len(line))
		s.sink.Append(logging.NewLineRecord(peer, line))
		lines = append(lines, line)
	}
	return
}

// Pending returns the buffered fragment for a peer, or nil for an
// unknown peer.
func (s *Server) Pending(peer string) []byte {
	cb, ok := s.registry.Get(peer)
	if !ok {
		return nil
	}
	return cb.Pending()
}

// Disconnect drops a peer's buffer, discarding any partial line.
func (s *Server) Disconnect(peer string) {
	if pending, ok := s.registry.Remove(peer); ok {
		logging.LogPeerDisconnect(peer, pending)
	}
}

func (s *Server) NumPeers() int {
	return s.registry.Count()
}

func (s *Server) GetStats() stats.Snapshot {
	return s.stats.GetSnapshot()
}
