// Copyright 2023 Meta Platforms, Inc. and affiliates.
//
// Redistribution and use in source and binary forms, with or without modification, are permitted provided that the following conditions are met:
//
// 1. Redistributions of source code must retain the above copyright notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and the following disclaimer in the documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or promote products derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

// Package lockmap serializes work on equal keys, for example concurrent
// validations of byte-identical tables.
package lockmap

import (
	"sync"
)

// LockMap is a set of mutexes, one per key. The mutex of a key exists
// only while somebody holds or waits for it.
type LockMap[K comparable] struct {
	globalLock sync.Mutex
	lockMap    map[K]*Unlocker[K]
}

// NewLockMap returns an instance of LockMap.
func NewLockMap[K comparable]() *LockMap[K] {
	return &LockMap[K]{
		lockMap: map[K]*Unlocker[K]{},
	}
}

// Lock locks the key and returns the handle to unlock it.
func (m *LockMap[K]) Lock(key K) *Unlocker[K] {
	// The item is shared by reference count: it is dropped from the map
	// when the count reaches zero and created again on the next Lock.
	m.globalLock.Lock()
	l := m.lockMap[key]
	switch {
	case l == nil:
		l = &Unlocker[K]{m: m, key: key}
		m.lockMap[key] = l
	case l.refCount == 0:
		panic("LockMap contains a released Unlocker")
	}
	l.refCount++
	m.globalLock.Unlock()

	l.locker.Lock()
	return l
}

// Len returns the amount of keys which are locked or waited for.
func (m *LockMap[K]) Len() int {
	m.globalLock.Lock()
	defer m.globalLock.Unlock()
	return len(m.lockMap)
}

// Unlocker is the handle of a locked key.
type Unlocker[K comparable] struct {
	// UserData may be used by the holder of the lock to pass a value to
	// the next holder of the same key.
	UserData any

	locker   sync.Mutex
	key      K
	m        *LockMap[K]
	refCount int64
}

// Unlock releases the lock for the key.
func (l *Unlocker[K]) Unlock() {
	l.locker.Unlock()

	l.m.globalLock.Lock()
	defer l.m.globalLock.Unlock()
	l.refCount--
	if l.refCount == 0 {
		delete(l.m.lockMap, l.key)
	}
}
