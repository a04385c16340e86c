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

// Package generator renders the final code of modules from their original
// text and dependency block tree.
package generator

import (
	"errors"
	"fmt"

	"github.com/cloudwego/jsgen/lang/initfrag"
	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/log"
	"github.com/cloudwego/jsgen/lang/runtime"
	"github.com/cloudwego/jsgen/lang/source"
	"github.com/cloudwego/jsgen/lang/template"
	"github.com/cloudwego/jsgen/lang/utils"
)

var ErrNoSourceAvailable = errors.New("no source available")

type Options struct {
	Runtime   runtime.Options
	Templates template.Options
	// Defines are the constants const dependencies are folded with.
	Defines map[string]interface{}
}

type Generator struct {
	Options
	registry *template.Registry
	runtime  *runtime.Template
}

// NewGenerator creates a generator using the default templates.
func NewGenerator(opts Options) *Generator {
	return NewGeneratorWithRegistry(opts, template.DefaultRegistry(opts.Templates))
}

// NewGeneratorWithRegistry creates a generator dispatching dependencies to reg.
// reg must not be changed afterwards.
func NewGeneratorWithRegistry(opts Options, reg *template.Registry) *Generator {
	return &Generator{
		Options:  opts,
		registry: reg,
		runtime:  runtime.NewTemplate(opts.Runtime),
	}
}

func (g *Generator) Registry() *template.Registry {
	return g.registry
}

// Generate renders module m, resolving the modules it depends on in graph.
//
// A module without original text renders to a statement throwing at runtime,
// returned together with an error matching ErrNoSourceAvailable.
func (g *Generator) Generate(m *jsmod.Module, graph jsmod.ModuleGraph) (source.Source, error) {
	text, ok := m.OriginalSource()
	if !ok {
		log.Error("module %s has no source, emit placeholder", m.Identifier)
		return source.NewRawSource(runtime.NoSourceStatement), fmt.Errorf("%w: %s", ErrNoSourceAvailable, m.Identifier)
	}
	log.Debug("generate module %s (%d bytes)", m.Identifier, len(text))

	src := source.NewReplaceSource(text)
	ctx := template.NewContext(g.registry, g.runtime, graph, m)
	ctx.Defines = g.Defines
	frags := initfrag.NewCollector()

	if m.Block != nil {
		if err := g.sourceBlock(ctx, src, frags, m.Block, nil); err != nil {
			return nil, utils.WrapError(err, "generate module %s failed", m.Identifier)
		}
	}
	frags.RenderInto(src, 0)
	return src, nil
}

func (g *Generator) sourceBlock(ctx *template.Context, src *source.ReplaceSource, frags *initfrag.Collector, block *jsmod.Block, available *bindings) error {
	for i, dep := range block.Dependencies {
		tpl, err := ctx.Registry.Lookup(dep)
		if err != nil {
			return err
		}
		if err := tpl.Apply(dep, src, ctx); err != nil {
			return fmt.Errorf("apply dependency #%d (%s) failed: %w", i, dep.Kind(), err)
		}
		frags.AddAll(tpl.InitFragments(dep, src, ctx))
	}

	vars := g.sourceVariables(ctx, block, available)
	g.injectVariables(ctx, src, block, vars)
	for _, v := range vars {
		available = available.with(v.name, v.expr)
	}

	for _, child := range block.Blocks {
		if err := g.sourceBlock(ctx, src, frags, child, available); err != nil {
			return err
		}
	}
	return nil
}
