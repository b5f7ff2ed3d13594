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
	"sync"
	"testing"
)

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewPeerRegistry(8)
	b1 := r.GetOrCreate("10.0.0.1:5000")
	b2 := r.GetOrCreate("10.0.0.1:5000")
	if b1 != b2 {
		t.Error("expected the same buffer for repeated lookups")
	}
	if _, present := r.Get("10.0.0.2:5000"); present {
		t.Error("unexpected buffer for unknown peer")
	}
	if r.Count() != 1 {
		t.Errorf("count: got %d", r.Count())
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewPeerRegistry(8)
	b := r.GetOrCreate("10.0.0.1:5000")
	b.Append([]byte("frag"))
	pending, present := r.Remove("10.0.0.1:5000")
	if !present || pending != 4 {
		t.Errorf("remove: got pending=%d present=%v", pending, present)
	}
	if _, present = r.Remove("10.0.0.1:5000"); present {
		t.Error("second remove should report absent")
	}
	if r.Count() != 0 {
		t.Errorf("count after remove: got %d", r.Count())
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewPeerRegistry(4)
	for i := 0; i < 20; i++ {
		r.GetOrCreate(fmt.Sprintf("10.0.0.%d:5000", i))
	}
	if r.Count() != 20 {
		t.Errorf("count: got %d", r.Count())
	}
	r.Clear()
	if r.Count() != 0 {
		t.Errorf("count after clear: got %d", r.Count())
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewPeerRegistry(16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				peer := fmt.Sprintf("10.0.%d.%d:5000", g, i%10)
				r.GetOrCreate(peer)
				r.Get(peer)
			}
		}(g)
	}
	wg.Wait()
	if r.Count() != 80 {
		t.Errorf("count: got %d, expected 80", r.Count())
	}
}
