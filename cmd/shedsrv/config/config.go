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

package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"

	"shed/pkg/lineserv"
	"shed/pkg/logging"
	"shed/pkg/service"
)

var Conf = Config{
	LogLevel: "INFO",
	Server:   lineserv.DefaultConfig,
}

type Config struct {
	LogLevel string

	Server  lineserv.Config
	Service service.Config
	Journal logging.JournalConfig
}

func LoadConfig(filename string) (err error) {
	if _, err = toml.DecodeFile(filename, &Conf); err != nil {
		return fmt.Errorf("failed to load config file %s. %s", filename, err.Error())
	}
	Conf.Server.SetDefaultIfNotDefined()
	Conf.Service.SetDefaultIfNotDefined()
	if err = Conf.Server.Validate(); err != nil {
		return
	}
	return nil
}

func (c *Config) Dump() {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Encode(c)
	glog.Info(buf.String())
}
