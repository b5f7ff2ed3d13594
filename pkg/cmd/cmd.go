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

// Package cmd is a small subcommand framework: commands register
// themselves by name, and ParseCommandLine picks the one named on the
// command line.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var commands = make(map[string]ICommand)

type (
	ICommand interface {
		GetName() string
		GetDesc() string
		GetSynopsis() string
		GetOptionDesc() string
		Init(name string, desc string)
		Exec()
		Parse(args []string) error
		PrintUsage()
	}

	Command struct {
		Option
		name     string
		desc     string
		synopsis string
	}
)

func (c *Command) Init(name string, desc string) {
	c.name = name
	c.desc = desc
	c.Option.Init(name, flag.ExitOnError)
	c.Option.Usage = c.PrintUsage
}

func (c *Command) SetSynopsis(str string) {
	c.synopsis = str
}

func (c *Command) GetName() string {
	return c.name
}

func (c *Command) GetDesc() string {
	return c.desc
}

func (c *Command) GetSynopsis() string {
	return c.synopsis
}

func (c *Command) Write(w io.Writer) {
	fmt.Fprintf(w, "\nNAME\n  %s - %s\n", c.name, c.desc)
	if c.synopsis != "" {
		fmt.Fprintf(w, "\nSYNOPSIS\n  %s\n", c.synopsis)
	}
	if desc := c.GetOptionDesc(); desc != "" {
		fmt.Fprintf(w, "\nOPTIONS\n%s", desc)
	}
}

func (c *Command) PrintUsage() {
	c.Write(os.Stdout)
}

func Register(c ICommand) bool {
	if _, found := commands[c.GetName()]; found {
		fmt.Printf("Command %s has been registered.", c.GetName())
		return false
	}
	commands[c.GetName()] = c
	return true
}

func GetCommand(name string) ICommand {
	if cmd, ok := commands[name]; ok {
		return cmd
	}
	return nil
}

// ParseCommandLine scans os.Args for the first registered command
// name; the remaining arguments belong to that command. Arguments seen
// before the command name are returned as-is when no command matches.
func ParseCommandLine() (cmd ICommand, args []string) {
	numArgs := len(os.Args)

	for i := 1; i < numArgs; i++ {
		arg := os.Args[i]
		if cmd == nil {
			cmd = GetCommand(arg)
			if cmd != nil {
				args = append(args, os.Args[i+1:]...)
				break
			}
		}
		args = append(args, arg)
	}
	return
}

func Write(w io.Writer) {
	progName := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "\nUSAGE\n  %s [-version] [[options] <command> [<args>]] \n\n", progName)
	if len(commands) == 0 {
		return
	}
	fmt.Fprintln(w, "\nCOMMAND")
	for _, c := range commands {
		fmt.Fprintf(w, "    * %s\n      %s\n", c.GetName(), c.GetDesc())
	}
}

func PrintUsage() {
	Write(os.Stdout)
}
