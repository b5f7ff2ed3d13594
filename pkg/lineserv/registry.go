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
	"sync"

	"github.com/golang/glog"

	"shed/pkg/util"
)

type registryPartition struct {
	sync.RWMutex
	data map[string]*ClientBuffer
}

// PeerRegistry maps peer addresses to their reassembly buffers. It is
// partitioned by murmur3 hash of the peer address so concurrent
// lookups for distinct peers rarely contend.
type PeerRegistry struct {
	partitions      []*registryPartition
	partitionsCount uint32
}

func NewPeerRegistry(partitionsCount uint32) *PeerRegistry {
	r := new(PeerRegistry)
	r.partitionsCount = partitionsCount
	r.partitions = make([]*registryPartition, partitionsCount)
	for i := 0; i < int(partitionsCount); i++ {
		r.partitions[i] = &registryPartition{data: make(map[string]*ClientBuffer)}
	}
	return r
}

func (r *PeerRegistry) getPartition(peer string) *registryPartition {
	partitionNo := util.GetPartitionId([]byte(peer), r.partitionsCount)
	return r.partitions[partitionNo]
}

func (r *PeerRegistry) GetOrCreate(peer string) *ClientBuffer {
	partition := r.getPartition(peer)
	partition.Lock() //can't use read lock and upgrade atomically
	buf, present := partition.data[peer]
	if !present {
		buf = NewClientBuffer()
		partition.data[peer] = buf
		glog.V(2).Infof("registry add peer:%s", peer)
	}
	partition.Unlock()
	return buf
}

func (r *PeerRegistry) Get(peer string) (*ClientBuffer, bool) {
	partition := r.getPartition(peer)
	partition.RLock()
	buf, present := partition.data[peer]
	partition.RUnlock()
	return buf, present
}

func (r *PeerRegistry) Remove(peer string) (pending int, present bool) {
	partition := r.getPartition(peer)
	partition.Lock()
	buf, present := partition.data[peer]
	if present {
		pending = buf.Len()
		delete(partition.data, peer)
		glog.V(2).Infof("registry remove peer:%s pending:%d", peer, pending)
	}
	partition.Unlock()
	return
}

func (r *PeerRegistry) Count() (n int) {
	for i := 0; i < int(r.partitionsCount); i++ {
		r.partitions[i].RLock()
		n += len(r.partitions[i].data)
		r.partitions[i].RUnlock()
	}
	return
}

func (r *PeerRegistry) Clear() {
	for i := 0; i < int(r.partitionsCount); i++ {
		r.partitions[i].Lock()
		r.partitions[i].data = make(map[string]*ClientBuffer)
		r.partitions[i].Unlock()
	}
}
