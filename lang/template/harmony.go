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

package template

import (
	"github.com/cloudwego/jsgen/lang/initfrag"
	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/source"
	"github.com/cloudwego/jsgen/lang/utils"
)

// ImportVar returns the binding name of the module imported by d.
func ImportVar(d *jsmod.ImportDependency, ctx *Context) string {
	scope := d.Scope
	if scope == nil {
		scope = ctx.Origin.Scope(0)
	}
	return scope.ImportVar(d.EmitKey(), utils.ToIdentifier(d.UserRequest))
}

func importKey(d *jsmod.ImportDependency) string {
	return "harmony import " + d.EmitKey()
}

// ImportTemplate emits the import statement of a module once per buffer.
type ImportTemplate struct {
	NullTemplate
}

func (t ImportTemplate) InitFragments(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) []initfrag.Fragment {
	imp, ok := dep.(jsmod.Importer)
	if !ok {
		return nil
	}
	d := imp.Import()
	key := importKey(d)
	if !ctx.MarkImportEmitted(d.EmitKey()) {
		return nil
	}
	content := ctx.Runtime.ImportStatement(false, ctx.Module(d.Module), ImportVar(d, ctx), d.Request, ctx.Origin)
	return []initfrag.Fragment{initfrag.New(content, d.SourceOrder, key)}
}

// ImportSideEffectTemplate is an ImportTemplate skipping targets without side effects.
type ImportSideEffectTemplate struct {
	ImportTemplate
}

func (t ImportSideEffectTemplate) InitFragments(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) []initfrag.Fragment {
	imp, ok := dep.(jsmod.Importer)
	if !ok {
		return nil
	}
	d := imp.Import()
	target := ctx.Module(d.Module)
	if target == nil || !target.SideEffectFree {
		return t.ImportTemplate.InitFragments(dep, src, ctx)
	}
	if !ctx.MarkImportEmitted(d.EmitKey()) {
		return nil
	}
	return []initfrag.Fragment{initfrag.NewSuppressed(importKey(d))}
}

// ExportSpecifierTemplate defines an export getter, or marks the export unused.
type ExportSpecifierTemplate struct {
	NullTemplate
}

func (t ExportSpecifierTemplate) InitFragments(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) []initfrag.Fragment {
	d, ok := dep.(*jsmod.ExportSpecifierDependency)
	if !ok {
		return nil
	}
	var content string
	if used, ok := ctx.Origin.IsUsed(d.Name); ok {
		content = ctx.Runtime.DefineExport(ctx.Origin.GetExportsArgument(), used, d.ID)
	} else {
		content = ctx.Runtime.UnusedExport(d.Name)
	}
	return []initfrag.Fragment{initfrag.New(content, 0, "harmony export "+d.Name)}
}
