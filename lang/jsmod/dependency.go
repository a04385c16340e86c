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
	"strings"

	"github.com/cloudwego/jsgen/lang/utils"
)

// Kind names the concrete type of a dependency. Templates are registered by Kind.
type Kind string

const (
	KindNull             Kind = "null"
	KindImport           Kind = "harmony import"
	KindImportSideEffect Kind = "harmony side effect evaluation"
	KindExportSpecifier  Kind = "harmony export specifier"
	KindLocalModule      Kind = "local module"
	KindRequireHeader    Kind = "require header"
	KindUnsupported      Kind = "unsupported"
	KindModuleID         Kind = "module id"
	KindProvided         Kind = "provided"
	KindConst            Kind = "const"
)

// Kinds lists the kinds known to this package.
func Kinds() []Kind {
	return []Kind{
		KindNull, KindImport, KindImportSideEffect, KindExportSpecifier, KindLocalModule,
		KindRequireHeader, KindUnsupported, KindModuleID, KindProvided, KindConst,
	}
}

// Dependency is a reference found in a module's source that must be
// rewritten at generation time.
type Dependency interface {
	Kind() Kind
	// Loc is the range of the original text owned by the dependency;
	// nil for dependencies without text.
	Loc() *Range
}

// ModuleDependency is implemented by dependencies pointing at another module.
type ModuleDependency interface {
	Dependency
	// ModuleRef is the identifier of the resolved module; empty if unresolved.
	ModuleRef() string
	GetRequest() string
}

// NullDependency has no effect on the output.
type NullDependency struct{}

func (*NullDependency) Kind() Kind  { return KindNull }
func (*NullDependency) Loc() *Range { return nil }

// ImportDependency is a harmony import of another module.
type ImportDependency struct {
	Request     string
	UserRequest string
	Module      string
	// SourceOrder is the position of the import statement among the imports
	// of its module; import statements are emitted in this order.
	SourceOrder int
	Scope       *ParserScope
}

func (*ImportDependency) Kind() Kind                  { return KindImport }
func (*ImportDependency) Loc() *Range                 { return nil }
func (d *ImportDependency) ModuleRef() string         { return d.Module }
func (d *ImportDependency) GetRequest() string        { return d.Request }
func (d *ImportDependency) Import() *ImportDependency { return d }

// EmitKey identifies the imported module within an output buffer.
func (d *ImportDependency) EmitKey() string {
	if d.Module != "" {
		return d.Module
	}
	return "request:" + d.Request
}

// Importer is implemented by every harmony import kind.
type Importer interface {
	ModuleDependency
	Import() *ImportDependency
}

// ImportSideEffectDependency is an import evaluated for its side effects.
type ImportSideEffectDependency struct {
	ImportDependency
}

func (*ImportSideEffectDependency) Kind() Kind { return KindImportSideEffect }

// ExportSpecifierDependency exports the local binding ID under Name.
type ExportSpecifierDependency struct {
	ID   string
	Name string
}

func (*ExportSpecifierDependency) Kind() Kind  { return KindExportSpecifier }
func (*ExportSpecifierDependency) Loc() *Range { return nil }

// LocalModuleDependency references a local module.
type LocalModuleDependency struct {
	LocalModule *LocalModule
	Range       *Range
	// CallNew is set when the reference was invoked with `new`.
	CallNew bool
}

func (*LocalModuleDependency) Kind() Kind    { return KindLocalModule }
func (d *LocalModuleDependency) Loc() *Range { return d.Range }

// RequireHeaderDependency is the `require` callee of a require call.
type RequireHeaderDependency struct {
	Range Range
}

func (*RequireHeaderDependency) Kind() Kind    { return KindRequireHeader }
func (d *RequireHeaderDependency) Loc() *Range { return &d.Range }

// UnsupportedDependency is a request that cannot be resolved statically.
type UnsupportedDependency struct {
	Request string
	Range   *Range
}

func (*UnsupportedDependency) Kind() Kind    { return KindUnsupported }
func (d *UnsupportedDependency) Loc() *Range { return d.Range }

// ModuleIDDependency is replaced by the runtime id of a module
// (e.g. the argument of require.resolve).
type ModuleIDDependency struct {
	Request string
	Module  string
	Range   *Range
}

func (*ModuleIDDependency) Kind() Kind           { return KindModuleID }
func (d *ModuleIDDependency) Loc() *Range        { return d.Range }
func (d *ModuleIDDependency) ModuleRef() string  { return d.Module }
func (d *ModuleIDDependency) GetRequest() string { return d.Request }

// ProvidedDependency is a free identifier (e.g. `process`, `Buffer`)
// provided by a module instead of the environment.
type ProvidedDependency struct {
	Request    string
	Module     string
	Identifier string
	// Path is the property chain read from the provided module, if any.
	Path  []string
	Range *Range
}

func (*ProvidedDependency) Kind() Kind           { return KindProvided }
func (d *ProvidedDependency) Loc() *Range        { return d.Range }
func (d *ProvidedDependency) ModuleRef() string  { return d.Module }
func (d *ProvidedDependency) GetRequest() string { return d.Request }

// PathSuffix renders Path as a property access chain.
func (d *ProvidedDependency) PathSuffix() string {
	var sb strings.Builder
	for _, p := range d.Path {
		sb.WriteString("[")
		sb.WriteString(utils.JSONString(p))
		sb.WriteString("]")
	}
	return sb.String()
}

// ConstDependency replaces its range with Expression. When Evaluate is set the
// expression is folded against the defined constants first.
type ConstDependency struct {
	Expression string
	Evaluate   bool
	Range      *Range
}

func (*ConstDependency) Kind() Kind    { return KindConst }
func (d *ConstDependency) Loc() *Range { return d.Range }

// UnknownDependency carries a kind this package has no type for.
// Generation still dispatches it by Kind.
type UnknownDependency struct {
	Type  Kind
	Range *Range
}

func (d *UnknownDependency) Kind() Kind  { return d.Type }
func (d *UnknownDependency) Loc() *Range { return d.Range }
