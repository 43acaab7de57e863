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
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/immune-gmbh/fwtest/pkg/acpi/registry"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// DefaultCacheSize is the default amount of memoized verdicts.
const DefaultCacheSize = 256

// Config is the set of settings of a Runner.
type Config struct {
	// Tables is the allow list of signatures, empty means all.
	Tables []string `yaml:"tables"`

	// Skip is the deny list of signatures.
	Skip []string `yaml:"skip"`

	// MinSeverity is the lowest severity which fails a run.
	MinSeverity verdict.Severity `yaml:"min_severity"`

	// Concurrency is the amount of tables validated in parallel.
	Concurrency int `yaml:"concurrency"`

	// CacheSize is the amount of memoized verdicts, zero disables the cache.
	CacheSize int `yaml:"cache_size"`

	// Registry provides the validators.
	Registry *registry.Registry `yaml:"-"`
}

// DefaultConfig returns the Config used if no Option is given.
func DefaultConfig() Config {
	return Config{
		MinSeverity: verdict.SeverityLow,
		Concurrency: runtime.NumCPU(),
		CacheSize:   DefaultCacheSize,
		Registry:    registry.Default(),
	}
}

// Apply implements Option: the fields which are set override cfg.
func (c Config) Apply(cfg *Config) {
	if c.Tables != nil {
		cfg.Tables = c.Tables
	}
	if c.Skip != nil {
		cfg.Skip = c.Skip
	}
	if c.MinSeverity != verdict.SeverityInfo {
		cfg.MinSeverity = c.MinSeverity
	}
	if c.Concurrency > 0 {
		cfg.Concurrency = c.Concurrency
	}
	if c.CacheSize != 0 {
		cfg.CacheSize = c.CacheSize
	}
	if c.Registry != nil {
		cfg.Registry = c.Registry
	}
}

// LoadConfig reads a YAML config file, for example:
//
//	tables: [HEST, CEDT]
//	skip: [SSDT]
//	min_severity: medium
//	concurrency: 4
//	cache_size: 0
//
// A negative cache_size disables the cache.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, ErrConfig{Path: path, Err: err}
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, ErrConfig{Path: path, Err: err}
	}
	if cfg.Concurrency < 0 {
		return Config{}, ErrConfig{Path: path, Err: fmt.Errorf("concurrency is %d", cfg.Concurrency)}
	}
	return cfg, nil
}

// Option is a single setting, see Config.
type Option interface {
	Apply(cfg *Config)
}

// OptionConcurrency sets Config.Concurrency.
type OptionConcurrency int

// Apply implements Option.
func (opt OptionConcurrency) Apply(cfg *Config) {
	cfg.Concurrency = int(opt)
}

// OptionCacheSize sets Config.CacheSize.
type OptionCacheSize int

// Apply implements Option.
func (opt OptionCacheSize) Apply(cfg *Config) {
	cfg.CacheSize = int(opt)
}

// OptionMinSeverity sets Config.MinSeverity.
type OptionMinSeverity verdict.Severity

// Apply implements Option.
func (opt OptionMinSeverity) Apply(cfg *Config) {
	cfg.MinSeverity = verdict.Severity(opt)
}

// OptionTables sets Config.Tables.
type OptionTables []string

// Apply implements Option.
func (opt OptionTables) Apply(cfg *Config) {
	cfg.Tables = opt
}

// OptionSkip sets Config.Skip.
type OptionSkip []string

// Apply implements Option.
func (opt OptionSkip) Apply(cfg *Config) {
	cfg.Skip = opt
}

// OptionRegistry sets Config.Registry.
type OptionRegistry struct {
	Registry *registry.Registry
}

// Apply implements Option.
func (opt OptionRegistry) Apply(cfg *Config) {
	cfg.Registry = opt.Registry
}
