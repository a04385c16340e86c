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
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// BundleDoc is the JSON form of a Bundle, as produced by the parsing front end.
type BundleDoc struct {
	Modules []ModuleDoc `json:"modules"`
}

type ModuleDoc struct {
	Identifier      string            `json:"identifier" jsonschema_description:"unique identifier of the module in the bundle"`
	ID              string            `json:"id,omitempty" jsonschema_description:"runtime module id, defaults to identifier"`
	Source          *string           `json:"source,omitempty" jsonschema_description:"original text; absent for modules without source"`
	ExportsArgument string            `json:"exportsArgument,omitempty"`
	ExportsType     string            `json:"exportsType,omitempty" jsonschema:"enum=,enum=namespace,enum=named"`
	StrictHarmony   bool              `json:"strictHarmony,omitempty"`
	SideEffectFree  bool              `json:"sideEffectFree,omitempty"`
	UsedExports     map[string]string `json:"usedExports,omitempty" jsonschema_description:"used export name => external name; absent means all used"`
	Block           BlockDoc          `json:"block"`
}

type BlockDoc struct {
	Dependencies []DependencyDoc `json:"dependencies,omitempty"`
	Variables    []VariableDoc   `json:"variables,omitempty"`
	Blocks       []BlockDoc      `json:"blocks,omitempty"`
	Range        *Range          `json:"range,omitempty"`
}

// DependencyDoc is the union of the fields of every dependency kind.
type DependencyDoc struct {
	Kind        Kind            `json:"kind" jsonschema:"enum=null,enum=harmony import,enum=harmony side effect evaluation,enum=harmony export specifier,enum=local module,enum=require header,enum=unsupported,enum=module id,enum=provided,enum=const"`
	Range       *Range          `json:"range,omitempty"`
	Request     string          `json:"request,omitempty"`
	UserRequest string          `json:"userRequest,omitempty"`
	Module      string          `json:"module,omitempty" jsonschema_description:"identifier of the resolved module"`
	SourceOrder int             `json:"sourceOrder,omitempty"`
	Scope       int             `json:"scope,omitempty" jsonschema_description:"parser scope number, import bindings are named per scope"`
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name,omitempty"`
	LocalModule *LocalModuleDoc `json:"localModule,omitempty"`
	CallNew     bool            `json:"callNew,omitempty"`
	Identifier  string          `json:"identifier,omitempty"`
	Path        []string        `json:"path,omitempty"`
	Expression  string          `json:"expression,omitempty"`
	Evaluate    bool            `json:"evaluate,omitempty"`
}

type LocalModuleDoc struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

type VariableDoc struct {
	Name       string        `json:"name"`
	Expression ExpressionDoc `json:"expression"`
}

type ExpressionDoc struct {
	Kind     string `json:"kind" jsonschema:"enum=code,enum=require"`
	Code     string `json:"code,omitempty"`
	Request  string `json:"request,omitempty"`
	Module   string `json:"module,omitempty"`
	Property string `json:"property,omitempty"`
}

// LoadBundle reads a bundle from a JSON file.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read bundle")
	}
	b, err := ParseBundle(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load bundle %s", path)
	}
	return b, nil
}

// ParseBundle decodes a bundle from JSON.
func ParseBundle(data []byte) (*Bundle, error) {
	var doc BundleDoc
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal bundle")
	}
	return doc.Bundle()
}

// Bundle builds the modules described by doc.
func (doc *BundleDoc) Bundle() (*Bundle, error) {
	b := NewBundle()
	for i := range doc.Modules {
		md := &doc.Modules[i]
		if md.Identifier == "" {
			return nil, fmt.Errorf("module #%d has no identifier", i)
		}
		if b.Module(md.Identifier) != nil {
			return nil, fmt.Errorf("duplicated module %s", md.Identifier)
		}
		m, err := md.Module()
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", md.Identifier, err)
		}
		b.Add(m)
	}
	return b, nil
}

// Module builds the module described by md.
func (md *ModuleDoc) Module() (*Module, error) {
	m := &Module{
		Identifier:      md.Identifier,
		ID:              md.ID,
		Source:          md.Source,
		ExportsArgument: md.ExportsArgument,
		ExportsType:     md.ExportsType,
		StrictHarmony:   md.StrictHarmony,
		SideEffectFree:  md.SideEffectFree,
		UsedExports:     md.UsedExports,
	}
	if m.ID == "" {
		m.ID = m.Identifier
	}
	size := -1
	if m.Source != nil {
		size = len(*m.Source)
	}
	var outer *Range
	if size >= 0 {
		outer = NewRange(0, size)
	}
	blk, err := md.Block.block(m, outer)
	if err != nil {
		return nil, err
	}
	m.Block = blk
	return m, nil
}

func (bd *BlockDoc) block(m *Module, outer *Range) (*Block, error) {
	b := &Block{Range: bd.Range}
	if b.Range != nil {
		if b.Range.End < b.Range.Start {
			return nil, fmt.Errorf("invalid block range [%d, %d)", b.Range.Start, b.Range.End)
		}
		if outer != nil && !outer.Contains(*b.Range) {
			return nil, fmt.Errorf("block range [%d, %d) is outside [%d, %d)",
				b.Range.Start, b.Range.End, outer.Start, outer.End)
		}
		outer = b.Range
	}
	for i := range bd.Dependencies {
		dep, err := bd.Dependencies[i].dependency(m)
		if err == nil {
			err = checkRange(dep.Loc(), outer)
		}
		if err != nil {
			return nil, fmt.Errorf("dependency #%d (%s): %w", i, bd.Dependencies[i].Kind, err)
		}
		b.Dependencies = append(b.Dependencies, dep)
	}
	for _, vd := range bd.Variables {
		expr, err := vd.Expression.expression()
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", vd.Name, err)
		}
		b.AddVariable(vd.Name, expr)
	}
	for i := range bd.Blocks {
		child, err := bd.Blocks[i].block(m, outer)
		if err != nil {
			return nil, err
		}
		if err := checkSiblings(b.Blocks, child); err != nil {
			return nil, err
		}
		b.AddBlock(child)
	}
	return b, nil
}

// checkRange rejects r if it is inverted or leaves outer.
func checkRange(r *Range, outer *Range) error {
	if r == nil {
		return nil
	}
	if r.End < r.Start {
		return fmt.Errorf("invalid range [%d, %d)", r.Start, r.End)
	}
	if outer != nil && !outer.Contains(*r) {
		return fmt.Errorf("range [%d, %d) is outside [%d, %d)", r.Start, r.End, outer.Start, outer.End)
	}
	return nil
}

// checkSiblings rejects child if its range intersects the range of a sibling.
func checkSiblings(siblings []*Block, child *Block) error {
	if child.Range == nil || child.Range.Len() == 0 {
		return nil
	}
	for _, sb := range siblings {
		if sb.Range == nil || sb.Range.Len() == 0 {
			continue
		}
		if child.Range.Start < sb.Range.End && sb.Range.Start < child.Range.End {
			return fmt.Errorf("block range [%d, %d) overlaps sibling [%d, %d)",
				child.Range.Start, child.Range.End, sb.Range.Start, sb.Range.End)
		}
	}
	return nil
}

func (dd *DependencyDoc) importDependency(m *Module) ImportDependency {
	userRequest := dd.UserRequest
	if userRequest == "" {
		userRequest = dd.Request
	}
	return ImportDependency{
		Request:     dd.Request,
		UserRequest: userRequest,
		Module:      dd.Module,
		SourceOrder: dd.SourceOrder,
		Scope:       m.Scope(dd.Scope),
	}
}

func (dd *DependencyDoc) dependency(m *Module) (Dependency, error) {
	switch dd.Kind {
	case KindNull:
		return &NullDependency{}, nil
	case KindImport:
		d := dd.importDependency(m)
		return &d, nil
	case KindImportSideEffect:
		return &ImportSideEffectDependency{ImportDependency: dd.importDependency(m)}, nil
	case KindExportSpecifier:
		return &ExportSpecifierDependency{ID: dd.ID, Name: dd.Name}, nil
	case KindLocalModule:
		if dd.LocalModule == nil {
			return nil, errors.New("local module is required")
		}
		return &LocalModuleDependency{
			LocalModule: m.LocalModule(dd.LocalModule.Index, dd.LocalModule.Name),
			Range:       dd.Range,
			CallNew:     dd.CallNew,
		}, nil
	case KindRequireHeader:
		if dd.Range == nil {
			return nil, errors.New("range must be valid")
		}
		return &RequireHeaderDependency{Range: *dd.Range}, nil
	case KindUnsupported:
		return &UnsupportedDependency{Request: dd.Request, Range: dd.Range}, nil
	case KindModuleID:
		return &ModuleIDDependency{Request: dd.Request, Module: dd.Module, Range: dd.Range}, nil
	case KindProvided:
		return &ProvidedDependency{
			Request:    dd.Request,
			Module:     dd.Module,
			Identifier: dd.Identifier,
			Path:       dd.Path,
			Range:      dd.Range,
		}, nil
	case KindConst:
		return &ConstDependency{Expression: dd.Expression, Evaluate: dd.Evaluate, Range: dd.Range}, nil
	case "":
		return nil, errors.New("kind is required")
	default:
		return &UnknownDependency{Type: dd.Kind, Range: dd.Range}, nil
	}
}

func (ed *ExpressionDoc) expression() (Expression, error) {
	switch ed.Kind {
	case "code", "":
		return CodeExpr{Code: ed.Code}, nil
	case "require":
		return RequireExpr{Request: ed.Request, Module: ed.Module, Property: ed.Property}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", ed.Kind)
	}
}

// Schema returns the JSON schema of the bundle format.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{}
	return r.Reflect(&BundleDoc{})
}
