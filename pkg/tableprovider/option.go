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

package tableprovider

import (
	"github.com/immune-gmbh/fwtest/pkg/objcache"
)

// DefaultMaxTableSize is the default limit of a single table file.
const DefaultMaxTableSize = 16 << 20

// Config is the set of settings of the file based providers.
type Config struct {
	// Root is the directory tables are read from.
	Root string

	// MaxTableSize is the maximal size of a single (decompressed) table.
	MaxTableSize int64

	// Cache keeps parsed dump files, it may be nil.
	Cache *objcache.Cache
}

// Option is a single setting, see Config.
type Option interface {
	Apply(cfg *Config)
}

// OptionRoot overrides the directory tables are read from.
type OptionRoot string

// Apply implements Option.
func (opt OptionRoot) Apply(cfg *Config) {
	cfg.Root = string(opt)
}

// OptionMaxTableSize overrides DefaultMaxTableSize.
type OptionMaxTableSize int64

// Apply implements Option.
func (opt OptionMaxTableSize) Apply(cfg *Config) {
	cfg.MaxTableSize = int64(opt)
}

// OptionCache makes the providers reuse the tables parsed from an
// unchanged file.
type OptionCache struct {
	Cache *objcache.Cache
}

// Apply implements Option.
func (opt OptionCache) Apply(cfg *Config) {
	cfg.Cache = opt.Cache
}

func newConfig(root string, opts []Option) Config {
	cfg := Config{
		Root:         root,
		MaxTableSize: DefaultMaxTableSize,
	}
	for _, opt := range opts {
		opt.Apply(&cfg)
	}
	return cfg
}
