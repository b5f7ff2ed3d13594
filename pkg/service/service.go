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

// Package service runs a line echo server as a long-lived process:
// it installs signal handlers and periodically reports stats until
// shut down.
package service

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/golang/glog"

	"shed/pkg/lineserv"
	"shed/pkg/util"
)

const kDefaultStatsInterval = time.Minute

type Config struct {
	StatsInterval util.Duration
}

func (cfg *Config) SetDefaultIfNotDefined() {
	if cfg.StatsInterval.Duration == 0 {
		cfg.StatsInterval.Duration = kDefaultStatsInterval
	}
}

type Service struct {
	server     *lineserv.Server
	config     Config
	chDone     chan bool
	inShutdown int32
}

func New(cfg Config, server *lineserv.Server) *Service {
	cfg.SetDefaultIfNotDefined()
	return &Service{
		server: server,
		config: cfg,
		chDone: make(chan bool),
	}
}

// Run starts the server and blocks until Shutdown is called or a
// termination signal arrives.
func (s *Service) Run() (err error) {
	s.initSignalHandler()
	if err = s.server.Start(); err != nil {
		return
	}

	ticker := time.NewTicker(s.config.StatsInterval.Duration)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-s.chDone:
			break loop
		case <-ticker.C:
			snap := s.server.GetStats()
			glog.Infof("stats datagrams=%d lines=%d dropped=%d peers=%d handle_p99_us=%d",
				snap.NumDatagrams, snap.NumLines, snap.NumDropped,
				s.server.NumPeers(), snap.HandleTimeP99Us)
		}
	}

	s.server.Stop()
	return nil
}

func (s *Service) shuttingDown() bool {
	return atomic.LoadInt32(&s.inShutdown) != 0
}

func (s *Service) Shutdown() {
	if atomic.CompareAndSwapInt32(&s.inShutdown, 0, 1) {
		close(s.chDone)
	}
}

func (s *Service) initSignalHandler() {
	signal.Ignore(syscall.SIGPIPE, syscall.SIGURG)
	sigs := make(chan os.Signal, 1)

	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func(sigCh chan os.Signal) {
		sig := <-sigCh
		glog.Infof("signal %d (%s) received", sig, sig)
		s.Shutdown()
	}(sigs)
}
