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

package runner

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/objhash"
)

type cacheInterface interface {
	Get(key any) (value any, ok bool)
	Add(key, value any)
	Len() int
}

type dummyCache struct{}

var _ cacheInterface = (*dummyCache)(nil)

func (dummyCache) Get(key any) (value any, ok bool) {
	return nil, false
}

func (dummyCache) Add(key, value any) {}

func (dummyCache) Len() int {
	return 0
}

func newCache(size int) (cacheInterface, error) {
	if size <= 0 {
		return dummyCache{}, nil
	}
	cache, err := lru.New2Q(size)
	if err != nil {
		return nil, ErrInitCache{Err: err}
	}
	return cache, nil
}

// cacheKey identifies everything a verdict depends on.
func cacheKey(t *table.RawTable) objhash.ObjHash {
	return objhash.MustBuild(t.Name, uint8(t.Provenance), t.Data)
}

// verdictCache stores private copies of verdicts, so that neither the
// producer nor the consumers can modify a cached value.
type verdictCache struct {
	cache cacheInterface
}

func (c verdictCache) get(key objhash.ObjHash) *verdict.Verdict {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil
	}
	return v.(*verdict.Verdict).Clone()
}

func (c verdictCache) add(key objhash.ObjHash, v *verdict.Verdict) {
	c.cache.Add(key, v.Clone())
}
