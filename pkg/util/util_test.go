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

package util

import (
	"testing"
	"time"
)

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("250ms")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 250*time.Millisecond {
		t.Errorf("got %v", d.Duration)
	}
	text, err := d.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "250ms" {
		t.Errorf("got %s", text)
	}
	if err := d.UnmarshalText([]byte("not a duration")); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPartitionId(t *testing.T) {
	const numPartitions = 8
	seen := make(map[uint32]bool)
	keys := []string{"127.0.0.1:1000", "127.0.0.1:1001", "10.0.0.1:62824", "a", "b", "c"}
	for _, k := range keys {
		p := GetPartitionId([]byte(k), numPartitions)
		if p >= numPartitions {
			t.Fatalf("partition %d out of range", p)
		}
		if p != GetPartitionId([]byte(k), numPartitions) {
			t.Fatal("partition not stable")
		}
		seen[p] = true
	}
	if len(seen) < 2 {
		t.Error("all keys in one partition")
	}
}

func TestBufferPoolReuse(t *testing.T) {
	p := NewBufferPool(64)
	buf := p.Get()
	buf.WriteString("hello")
	p.Put(buf)
	buf = p.Get()
	if buf.Len() != 0 {
		t.Error("buffer not reset on Put")
	}
}
