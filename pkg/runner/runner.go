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

// Package runner validates sets of tables: it picks the validator of each
// table, runs the validations concurrently and memoizes their verdicts.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/beltctx"
	"github.com/facebookincubator/go-belt/tool/experimental/errmon"
	"github.com/facebookincubator/go-belt/tool/experimental/metrics"
	"github.com/facebookincubator/go-belt/tool/experimental/tracer"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/lockmap"
	"github.com/immune-gmbh/fwtest/pkg/objhash"
	"github.com/immune-gmbh/fwtest/pkg/observability"
)

// CodeInternalValidatorPanic is the code of the diagnostic which replaces
// the verdict of a validator which panicked.
const CodeInternalValidatorPanic = "InternalValidatorPanic"

// Runner validates tables. It is safe for concurrent use.
type Runner struct {
	Config Config

	cache    verdictCache
	singleOp *lockmap.LockMap[objhash.ObjHash]
}

// New returns a Runner.
func New(opts ...Option) (*Runner, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt.Apply(&cfg)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	cache, err := newCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Runner{
		Config:   cfg,
		cache:    verdictCache{cache: cache},
		singleOp: lockmap.NewLockMap[objhash.ObjHash](),
	}, nil
}

// Selected returns true if the Config selects tables with this signature.
func (r *Runner) Selected(signature string) bool {
	for _, skip := range r.Config.Skip {
		if table.NormalizeSignature(skip) == signature {
			return false
		}
	}
	if len(r.Config.Tables) == 0 {
		return true
	}
	for _, name := range r.Config.Tables {
		if table.NormalizeSignature(name) == signature {
			return true
		}
	}
	return false
}

// Run validates the selected tables. The results are in the order of
// the input.
func (r *Runner) Run(ctx context.Context, tables []*table.RawTable) *Report {
	report := &Report{
		RunID:       uuid.New(),
		MinSeverity: r.Config.MinSeverity,
	}
	ctx = beltctx.WithField(ctx, observability.FieldKeyRunID, report.RunID.String())
	span, ctx := tracer.StartChildSpanFromCtx(ctx, "run")
	defer span.Finish()

	var selected []*table.RawTable
	for _, t := range tables {
		if !r.Selected(t.Name) {
			logger.FromCtx(ctx).Debugf("skipping %s", t)
			continue
		}
		selected = append(selected, t)
	}
	report.Results = make([]Result, len(selected))

	queue := make(chan int)
	var wg sync.WaitGroup
	for worker := 0; worker < r.Config.Concurrency && worker < len(selected); worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				report.Results[idx] = r.runOne(ctx, selected[idx])
			}
		}()
	}
	for idx := range selected {
		queue <- idx
	}
	close(queue)
	wg.Wait()

	logger.FromCtx(ctx).Debugf("run %s: %d tables, worst failure: %s",
		report.RunID, len(report.Results), report.Worst())
	return report
}

func (r *Runner) runOne(ctx context.Context, t *table.RawTable) Result {
	ctx = beltctx.WithField(ctx, observability.FieldKeyTable, t.String())
	span, ctx := tracer.StartChildSpanFromCtx(ctx, "validate-"+t.String())
	defer span.Finish()

	validator := r.Config.Registry.ValidatorFor(t.Name)
	result := Result{
		Table:       t.String(),
		Description: validator.Description(),
		Provenance:  t.Provenance,
		Length:      t.Length(),
	}

	startedAt := time.Now()
	v, cached := r.Validate(ctx, t)
	result.Cached = cached
	result.Duration = time.Since(startedAt)
	result.Outcome = v.Finalize()

	logger.FromCtx(ctx).Debugf("%s: pass:%t diagnostics:%d cached:%t",
		t, result.Outcome.OverallPass, len(result.Outcome.Diagnostics), cached)
	return result
}

// Validate validates a single table, using the memoized verdict if the
// same table was validated before. The returned Verdict is owned by the
// caller.
func (r *Runner) Validate(ctx context.Context, t *table.RawTable) (*verdict.Verdict, bool) {
	metrics.FromCtx(ctx).Count("tables_validated").Add(1)

	key := cacheKey(t)
	unlocker := r.singleOp.Lock(key)
	defer unlocker.Unlock()

	if v := r.cache.get(key); v != nil {
		metrics.FromCtx(ctx).Count("verdict_cache_hits").Add(1)
		return v, true
	}

	v := r.validate(ctx, t)
	r.cache.add(key, v)
	return v, false
}

func (r *Runner) validate(ctx context.Context, t *table.RawTable) (v *verdict.Verdict) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		errmon.ObserveRecoverCtx(ctx, recovered)
		logger.FromCtx(ctx).Errorf("validator of %s panicked: %v", t, recovered)
		v = verdict.New(t.Name)
		v.Push(verdict.SeverityCritical, CodeInternalValidatorPanic,
			"The validator of %s panicked: %v.", t, recovered)
	}()

	return r.Config.Registry.ValidatorFor(t.Name).Validate(ctx, t)
}
