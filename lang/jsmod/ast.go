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

package jsmod

import (
	"strconv"
	"sync"
)

// Range is a half-open byte range [Start, End) of a module's original text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func NewRange(start, end int) *Range {
	return &Range{Start: start, End: end}
}

// Last is the inclusive end offset.
func (r Range) Last() int {
	return r.End - 1
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Export types of a module, telling how its exports object was built.
const (
	// ExportsTypeDynamic is a CommonJS-like module, needing default interop.
	ExportsTypeDynamic   = ""
	ExportsTypeNamespace = "namespace"
	ExportsTypeNamed     = "named"
)

const DefaultExportsArgument = "exports"

// Module is one compiled input. Generation reads it and never changes it,
// except for the parser scope caches it owns.
type Module struct {
	// Identifier uniquely identifies the module in its bundle.
	Identifier string
	// ID is the runtime module id. Numeric ids are emitted unquoted.
	ID string
	// Source is the original text; nil for modules without source.
	Source *string
	// ExportsArgument is the binding name of the exports object in generated code.
	ExportsArgument string
	ExportsType     string
	// StrictHarmony disables the default interop of imports.
	StrictHarmony  bool
	SideEffectFree bool
	// UsedExports maps each used export name to its (possibly mangled)
	// external name. A nil map means every export is used under its own name.
	UsedExports map[string]string
	Block       *Block

	mu           sync.Mutex
	scopes       map[int]*ParserScope
	localModules map[int]*LocalModule
}

// NewModule creates a module with the given original text.
func NewModule(identifier string, text string) *Module {
	return &Module{
		Identifier: identifier,
		ID:         identifier,
		Source:     &text,
		Block:      &Block{},
	}
}

// OriginalSource returns the original text, if any.
func (m *Module) OriginalSource() (string, bool) {
	if m.Source == nil {
		return "", false
	}
	return *m.Source, true
}

func (m *Module) GetExportsArgument() string {
	if m.ExportsArgument == "" {
		return DefaultExportsArgument
	}
	return m.ExportsArgument
}

// IsUsed tells if export name is used and under which external name.
func (m *Module) IsUsed(name string) (string, bool) {
	if m.UsedExports == nil {
		return name, true
	}
	used, ok := m.UsedExports[name]
	return used, ok
}

// NumericID tells if the runtime id is an integer.
func (m *Module) NumericID() bool {
	_, err := strconv.Atoi(m.ID)
	return err == nil
}

// Scope returns the parser scope numbered id, creating it on first use.
func (m *Module) Scope(id int) *ParserScope {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scopes == nil {
		m.scopes = make(map[int]*ParserScope)
	}
	s := m.scopes[id]
	if s == nil {
		s = NewParserScope()
		m.scopes[id] = s
	}
	return s
}

// LocalModule returns the local module numbered idx, creating it on first use.
func (m *Module) LocalModule(idx int, name string) *LocalModule {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.localModules == nil {
		m.localModules = make(map[int]*LocalModule)
	}
	lm := m.localModules[idx]
	if lm == nil {
		lm = &LocalModule{Name: name, Index: idx}
		m.localModules[idx] = lm
	}
	return lm
}

// Block is a node of the dependency tree of a module: the module itself, or
// a nested (async / conditional) region of it.
type Block struct {
	Dependencies []Dependency
	Variables    []Variable
	Blocks       []*Block
	// Range is only set on nested blocks; the root block spans the whole module.
	Range *Range
}

func (b *Block) AddDependency(dep Dependency) {
	b.Dependencies = append(b.Dependencies, dep)
}

func (b *Block) AddVariable(name string, expr Expression) {
	b.Variables = append(b.Variables, Variable{Name: name, Expression: expr})
}

func (b *Block) AddBlock(child *Block) {
	b.Blocks = append(b.Blocks, child)
}

// Walk visits b and its descendants depth first, parents before children.
func (b *Block) Walk(fn func(*Block) bool) {
	if !fn(b) {
		return
	}
	for _, c := range b.Blocks {
		c.Walk(fn)
	}
}

// ParserScope is the scope a parser used for one module; import bindings are
// named per scope.
type ParserScope struct {
	mu         sync.Mutex
	importVars map[string]string
}

func NewParserScope() *ParserScope {
	return &ParserScope{}
}

// ImportVar returns the binding of the module keyed by key, naming it
// base + "__WEBPACK_IMPORTED_MODULE_<n>__" on first request, n being the count
// of modules named before it in this scope.
func (s *ParserScope) ImportVar(key string, base string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importVars == nil {
		s.importVars = make(map[string]string)
	}
	if v, ok := s.importVars[key]; ok {
		return v
	}
	v := base + "__WEBPACK_IMPORTED_MODULE_" + strconv.Itoa(len(s.importVars)) + "__"
	s.importVars[key] = v
	return v
}

// LocalModule is a module defined inside another one (AMD define with a name).
type LocalModule struct {
	Name  string
	Index int
}

func (lm *LocalModule) VariableName() string {
	return "__WEBPACK_LOCAL_MODULE_" + strconv.Itoa(lm.Index) + "__"
}

// ModuleGraph resolves module references.
type ModuleGraph interface {
	// Module returns the module with identifier ref, or nil.
	Module(ref string) *Module
}

// Bundle is a set of modules generated together.
type Bundle struct {
	Modules []*Module
	index   map[string]*Module
}

var _ ModuleGraph = (*Bundle)(nil)

func NewBundle(mods ...*Module) *Bundle {
	b := &Bundle{}
	for _, m := range mods {
		b.Add(m)
	}
	return b
}

func (b *Bundle) Add(m *Module) {
	if b.index == nil {
		b.index = make(map[string]*Module)
	}
	b.Modules = append(b.Modules, m)
	b.index[m.Identifier] = m
}

func (b *Bundle) Module(ref string) *Module {
	if ref == "" {
		return nil
	}
	return b.index[ref]
}
