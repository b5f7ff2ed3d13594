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

package app

import (
	"github.com/golang/glog"

	"shed/cmd/shedsrv/config"
	"shed/pkg/cmd"
	"shed/pkg/lineserv"
	"shed/pkg/logging"
	"shed/pkg/service"
	"shed/pkg/stats"
	"shed/pkg/version"
)

type Server struct {
	cmd.Command
	optConfigFile string
	optListenAddr string
}

func (c *Server) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optConfigFile, "c|config", "", "specify toml config file")
	c.StringOption(&c.optListenAddr, "listen", "", "override listen address from config")
	c.SetSynopsis("serve -c <config file> [-listen <addr>]")
}

func (c *Server) Exec() {
	c.Validate()
	if c.optConfigFile != "" {
		if err := config.LoadConfig(c.optConfigFile); err != nil {
			glog.Exitf("%s", err.Error())
		}
	}
	if c.optListenAddr != "" {
		config.Conf.Server.Addr = c.optListenAddr
	}
	runServerWithConf(&config.Conf)
}

func (c *Server) Validate() {
	if !c.Parsed() {
		glog.Exit("not parsed")
	}
}

func runServer(configFilename string) {
	if err := config.LoadConfig(configFilename); err != nil {
		glog.Exitf("%s", err.Error())
	}
	runServerWithConf(&config.Conf)
}

func runServerWithConf(cfg *config.Config) {
	glog.Infof("shedsrv %s starting", version.OnelineVersionString())

	sinks := logging.MultiSink{&logging.GlogSink{}}
	if cfg.Journal.Path != "" {
		journal, err := logging.NewJournalSink(cfg.Journal)
		if err != nil {
			glog.Exitf("cannot open journal %s. %s", cfg.Journal.Path, err.Error())
		}
		defer journal.Close()
		sinks = append(sinks, journal)
	}

	server := lineserv.NewServer(cfg.Server, sinks, stats.NewCollector())
	svc := service.New(cfg.Service, server)
	if err := svc.Run(); err != nil {
		glog.Exitf("server failed: %s", err.Error())
	}
}
