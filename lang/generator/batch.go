// Copyright 2025 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/log"
	"github.com/cloudwego/jsgen/lang/source"
	"github.com/cloudwego/jsgen/lang/utils"
	"golang.org/x/sync/errgroup"
)

const DefaultExtension = ".js"

// Result is the outcome of the generation of one module. Source is set when
// Err is nil, and also for ErrNoSourceAvailable, whose placeholder is usable.
type Result struct {
	Module *jsmod.Module
	Source source.Source
	Err    error
}

// GenerateAll generates every module of b with at most limit concurrent
// workers (unlimited if limit <= 0). A failed module never stops the others;
// only ctx cancellation does, and modules not started by then get ctx.Err().
func (g *Generator) GenerateAll(ctx context.Context, b *jsmod.Bundle, limit int) []Result {
	results := make([]Result, len(b.Modules))
	var eg errgroup.Group
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, m := range b.Modules {
		results[i].Module = m
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			src, err := g.Generate(m, b)
			results[i].Source = src
			results[i].Err = err
			if err != nil {
				log.Error("generate %s: %v", m.Identifier, err)
			}
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

// OutputName is the file name (without extension) of the generated code of m.
func OutputName(m *jsmod.Module) string {
	if m.NumericID() {
		return m.ID
	}
	return utils.ToIdentifier(m.Identifier)
}

// WriteAll writes the code of every result holding a source under dir,
// naming files with OutputName and ext. A name already taken by an earlier
// result gets the result index appended, so no file is written twice.
// It returns the written paths and the joined errors of the failed results
// and writes.
func WriteAll(dir string, ext string, results []Result) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	var files []string
	var errs []error
	taken := make(map[string]bool, len(results))
	for i, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Module.Identifier, r.Err))
		}
		if r.Source == nil {
			continue
		}
		name := OutputName(r.Module)
		for taken[name] {
			renamed := name + "_" + strconv.Itoa(i)
			log.Info("output name %s of %s is taken, use %s", name, r.Module.Identifier, renamed)
			name = renamed
		}
		taken[name] = true
		fpath := filepath.Join(dir, name+ext)
		if err := utils.MustWriteFile(fpath, []byte(r.Source.Source())); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Info("write %s", fpath)
		files = append(files, fpath)
	}
	return files, errors.Join(errs...)
}
