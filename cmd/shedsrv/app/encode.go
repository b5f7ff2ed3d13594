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
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"

	"shed/pkg/cmd"
	"shed/pkg/packet"
)

// Encode reads a TOML document describing a packet value from a file or
// stdin and prints its hex encoding against a named schema.
type Encode struct {
	cmd.Command
	optSchema string
	optInput  string
}

func (c *Encode) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optSchema, "s|schema", "packet", "schema to encode against (addrheader, record, packet)")
	c.StringOption(&c.optInput, "f|file", "", "toml value file; stdin when omitted")
	c.SetSynopsis("encode [-s <schema>] [-f <value file>]")
}

func (c *Encode) Exec() {
	spec := packet.SchemaByName(c.optSchema)
	if spec == nil {
		glog.Exitf("unknown schema %q", c.optSchema)
	}

	var raw []byte
	var err error
	if c.optInput != "" {
		raw, err = os.ReadFile(c.optInput)
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		glog.Exitf("cannot read value: %s", err.Error())
	}

	var doc map[string]interface{}
	if err = toml.Unmarshal(raw, &doc); err != nil {
		glog.Exitf("invalid toml input: %s", err.Error())
	}

	encoded, err := packet.Encode(spec, tomlToPacketValue(doc))
	if err != nil {
		glog.Exitf("encode failed: %s", err.Error())
	}
	fmt.Printf("%X\n", encoded)
}

// tomlToPacketValue maps toml's decoded shapes onto PacketValue: tables
// become nested values, arrays of tables become repeated values, and
// strings stand in for byte fields.
func tomlToPacketValue(doc map[string]interface{}) packet.PacketValue {
	value := make(packet.PacketValue, len(doc))
	for name, raw := range doc {
		switch v := raw.(type) {
		case map[string]interface{}:
			value[name] = tomlToPacketValue(v)
		case []map[string]interface{}:
			seq := make([]packet.PacketValue, 0, len(v))
			for _, el := range v {
				seq = append(seq, tomlToPacketValue(el))
			}
			value[name] = seq
		case []interface{}:
			seq := make([]packet.PacketValue, 0, len(v))
			for _, el := range v {
				if sub, ok := el.(map[string]interface{}); ok {
					seq = append(seq, tomlToPacketValue(sub))
				}
			}
			value[name] = seq
		default:
			value[name] = raw
		}
	}
	return value
}
