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
	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/source"
)

func replaceRange(src *source.ReplaceSource, r *jsmod.Range, text string) error {
	if r == nil {
		return nil
	}
	return src.Replace(r.Start, r.Last(), text)
}

// LocalModuleTemplate references the variable of a local module.
type LocalModuleTemplate struct {
	NullTemplate
}

func (t LocalModuleTemplate) Apply(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) error {
	d, ok := dep.(*jsmod.LocalModuleDependency)
	if !ok {
		return unexpected(t, dep)
	}
	instance := d.LocalModule.VariableName()
	if d.CallNew {
		instance = "new (function () { return " + instance + "; })()"
	}
	return replaceRange(src, d.Range, instance)
}

// RequireHeaderTemplate renames `require` to the runtime loader.
type RequireHeaderTemplate struct {
	NullTemplate
}

func (t RequireHeaderTemplate) Apply(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) error {
	d, ok := dep.(*jsmod.RequireHeaderDependency)
	if !ok {
		return unexpected(t, dep)
	}
	return replaceRange(src, &d.Range, ctx.RequireName())
}

// ApplyAsTemplateArgument renders the header as the plain `require` name,
// for code passing it to a factory as an argument.
func (t RequireHeaderTemplate) ApplyAsTemplateArgument(name string, dep jsmod.Dependency, src *source.ReplaceSource) error {
	d, ok := dep.(*jsmod.RequireHeaderDependency)
	if !ok {
		return unexpected(t, dep)
	}
	return replaceRange(src, &d.Range, "require")
}

// UnsupportedTemplate replaces the request with code throwing at runtime.
type UnsupportedTemplate struct {
	NullTemplate
}

func (t UnsupportedTemplate) Apply(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) error {
	d, ok := dep.(*jsmod.UnsupportedDependency)
	if !ok {
		return unexpected(t, dep)
	}
	return replaceRange(src, d.Range, ctx.Runtime.MissingModule(d.Request))
}

// ModuleIDTemplate replaces the request with the id of the resolved module.
type ModuleIDTemplate struct {
	NullTemplate
}

func (t ModuleIDTemplate) Apply(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) error {
	d, ok := dep.(jsmod.ModuleDependency)
	if !ok {
		return unexpected(t, dep)
	}
	if d.Loc() == nil {
		return nil
	}
	return replaceRange(src, d.Loc(), ctx.ModuleID(ctx.Module(d.ModuleRef()), d.GetRequest()))
}
