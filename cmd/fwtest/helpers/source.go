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

// Package helpers contains the bits shared by the fwtest commands.
package helpers

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/immune-gmbh/fwtest/pkg/objcache"
	"github.com/immune-gmbh/fwtest/pkg/tableprovider"
)

// DefaultDumpCacheSize is the default memory limit of the parsed dump cache.
const DefaultDumpCacheSize = 64 << 20

// Source selects where the tables are taken from.
type Source struct {
	Path          *string
	MaxTableSize  *int64
	DumpCacheSize *uint64

	cache *objcache.Cache
}

// SetupFlagSet adds the source options to the flag set.
func (s *Source) SetupFlagSet(flagSet *pflag.FlagSet) {
	s.Path = flagSet.StringP("source", "s", "", "a directory with one file per table (like "+tableprovider.SysfsRoot+") or an acpidump text file; the tables of the local firmware are used if empty")
	s.MaxTableSize = flagSet.Int64("max-table-size", tableprovider.DefaultMaxTableSize, "tables larger than this amount of bytes are refused")
	s.DumpCacheSize = flagSet.Uint64("dump-cache-size", DefaultDumpCacheSize, "memory limit in bytes of the cache of tables parsed from an acpidump file, 0 disables the cache")
}

// Provider returns the table provider of the selected source. Close must
// be called once the provider is no longer used.
func (s *Source) Provider() (tableprovider.Provider, error) {
	opts := []tableprovider.Option{
		tableprovider.OptionMaxTableSize(*s.MaxTableSize),
	}
	if *s.Path == "" {
		return tableprovider.NewSysfs(opts...), nil
	}

	if *s.DumpCacheSize > 0 {
		if s.cache == nil {
			cache, err := objcache.New(*s.DumpCacheSize)
			if err != nil {
				return nil, fmt.Errorf("unable to initialize the dump cache: %w", err)
			}
			s.cache = cache
		}
		opts = append(opts, tableprovider.OptionCache{Cache: s.cache})
	}
	return tableprovider.Open(*s.Path, opts...)
}

// Close releases the resources of the providers returned by Provider.
func (s *Source) Close() {
	if s.cache == nil {
		return
	}
	s.cache.Close()
	s.cache = nil
}
