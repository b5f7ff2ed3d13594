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
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"

	"shed/pkg/cmd"
	"shed/pkg/packet"
)

// Decode reads a hex-encoded packet from the command line or stdin and
// pretty-prints the decoded fields.
type Decode struct {
	cmd.Command
	optSchema string
}

func (c *Decode) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optSchema, "s|schema", "packet", "schema to decode against (addrheader, record, packet)")
	c.SetSynopsis("decode [-s <schema>] [<hex string>]")
}

func (c *Decode) Exec() {
	spec := packet.SchemaByName(c.optSchema)
	if spec == nil {
		glog.Exitf("unknown schema %q", c.optSchema)
	}

	var input string
	if c.NArg() > 0 {
		input = strings.Join(c.Args(), "")
	} else {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			glog.Exitf("cannot read stdin: %s", err.Error())
		}
		input = string(raw)
	}
	input = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			return -1
		}
		return r
	}, input)

	raw, err := hex.DecodeString(input)
	if err != nil {
		glog.Exitf("invalid hex input: %s", err.Error())
	}

	value, err := packet.Decode(spec, raw)
	if err != nil {
		glog.Exitf("decode failed: %s", err.Error())
	}
	fmt.Printf("schema %s, %d byte(s)\n", c.optSchema, len(raw))
	spec.PrettyPrint(os.Stdout, value)
}
