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
	"fmt"
	"strconv"
	"strings"
)

const (
	kDefaultPort               = 62824
	kDefaultReadBufSize        = 65536
	kDefaultRegistryPartitions = 64
)

type Config struct {
	Addr               string
	ReadBufSize        int
	RegistryPartitions uint32
}

var DefaultConfig = Config{
	Addr:               fmt.Sprintf(":%d", kDefaultPort),
	ReadBufSize:        kDefaultReadBufSize,
	RegistryPartitions: kDefaultRegistryPartitions,
}

func (cfg *Config) SetDefaultIfNotDefined() {
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig.Addr
	}
	if cfg.ReadBufSize == 0 {
		cfg.ReadBufSize = DefaultConfig.ReadBufSize
	}
	if cfg.RegistryPartitions == 0 {
		cfg.RegistryPartitions = DefaultConfig.RegistryPartitions
	}
}

func (cfg *Config) Validate() (err error) {
	if cfg.ReadBufSize <= 0 {
		return fmt.Errorf("invalid read buffer size %d", cfg.ReadBufSize)
	}
	i := strings.LastIndex(cfg.Addr, ":")
	if i < 0 {
		return fmt.Errorf("invalid listen address %s", cfg.Addr)
	}
	// port 0 is a valid bind: the kernel assigns an ephemeral port
	port, err := strconv.Atoi(cfg.Addr[i+1:])
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid listen port in %s", cfg.Addr)
	}
	return nil
}
