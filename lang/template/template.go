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

// Package template holds the rewrite rules of every dependency kind and the
// registry dispatching dependencies to them.
package template

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cloudwego/jsgen/lang/initfrag"
	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/source"
)

var ErrMissingTemplate = errors.New("no template for dependency")

// Template rewrites one kind of dependency. Implementations are stateless and
// shared by concurrent generations; per-buffer state lives in Context.
type Template interface {
	// Apply edits src within the range of dep, if any.
	Apply(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) error
	// InitFragments returns the prologue statements dep needs.
	InitFragments(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) []initfrag.Fragment
}

// Registry maps dependency kinds to templates. It must be fully populated
// before generation starts; Get is then safe for concurrent use.
type Registry struct {
	templates map[jsmod.Kind]Template
}

func NewRegistry() *Registry {
	return &Registry{templates: make(map[jsmod.Kind]Template)}
}

func (r *Registry) Set(kind jsmod.Kind, t Template) {
	r.templates[kind] = t
}

func (r *Registry) Get(kind jsmod.Kind) (Template, bool) {
	t, ok := r.templates[kind]
	return t, ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []jsmod.Kind {
	ret := make([]jsmod.Kind, 0, len(r.templates))
	for k := range r.templates {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i] < ret[j]
	})
	return ret
}

// Lookup returns the template of dep, or an error matching ErrMissingTemplate.
func (r *Registry) Lookup(dep jsmod.Dependency) (Template, error) {
	t, ok := r.Get(dep.Kind())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTemplate, dep.Kind())
	}
	return t, nil
}

type Options struct {
	// NodeSource enables the templates of identifiers provided by node polyfills.
	NodeSource bool
	// Disabled kinds get no template.
	Disabled []jsmod.Kind
}

// DefaultRegistry returns a registry holding the templates of every known kind.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	r.Set(jsmod.KindNull, NullTemplate{})
	r.Set(jsmod.KindImport, ImportTemplate{})
	r.Set(jsmod.KindImportSideEffect, ImportSideEffectTemplate{})
	r.Set(jsmod.KindExportSpecifier, ExportSpecifierTemplate{})
	r.Set(jsmod.KindLocalModule, LocalModuleTemplate{})
	r.Set(jsmod.KindRequireHeader, RequireHeaderTemplate{})
	r.Set(jsmod.KindUnsupported, UnsupportedTemplate{})
	r.Set(jsmod.KindModuleID, ModuleIDTemplate{})
	r.Set(jsmod.KindConst, ConstTemplate{})
	if opts.NodeSource {
		r.Set(jsmod.KindProvided, ProvidedTemplate{})
	}
	for _, k := range opts.Disabled {
		delete(r.templates, k)
	}
	return r
}

// NullTemplate neither edits nor emits anything. Other templates embed it
// for the half of the protocol they do not need.
type NullTemplate struct{}

func (NullTemplate) Apply(jsmod.Dependency, *source.ReplaceSource, *Context) error {
	return nil
}

func (NullTemplate) InitFragments(jsmod.Dependency, *source.ReplaceSource, *Context) []initfrag.Fragment {
	return nil
}

func unexpected(t Template, dep jsmod.Dependency) error {
	return fmt.Errorf("%T cannot render dependency of kind %q (%T)", t, dep.Kind(), dep)
}
