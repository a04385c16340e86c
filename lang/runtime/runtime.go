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

// Package runtime renders the snippets of generated code that talk to the
// module runtime: module ids, import statements and missing module errors.
package runtime

import (
	"strings"

	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/utils"
)

const (
	DefaultRequireName = "__webpack_require__"
	NoSourceStatement  = "throw new Error('No source available');"
)

type Options struct {
	// RequireName is the identifier of the runtime module loader.
	RequireName string
	// Pathinfo prefixes module ids with a comment naming the request.
	Pathinfo bool
}

type Template struct {
	Options
}

func NewTemplate(opts Options) *Template {
	if opts.RequireName == "" {
		opts.RequireName = DefaultRequireName
	}
	return &Template{Options: opts}
}

func (t *Template) RequireName() string {
	return t.Options.RequireName
}

// Comment renders a pathinfo comment for request, or nothing when disabled.
func (t *Template) Comment(request string) string {
	if !t.Pathinfo || request == "" {
		return ""
	}
	return "/*! " + strings.ReplaceAll(request, "*/", "*_/") + " */ "
}

// ModuleID renders the runtime id of m; a throwing expression if m is nil.
func (t *Template) ModuleID(m *jsmod.Module, request string) string {
	if m == nil {
		return t.MissingModule(request)
	}
	id := m.ID
	if id == "" {
		id = m.Identifier
	}
	if !m.NumericID() {
		id = utils.JSONString(id)
	}
	return t.Comment(request) + id
}

func missingModuleCode(request string) string {
	return "var e = new Error(" + utils.JSONString("Cannot find module '"+request+"'") +
		"); e.code = 'MODULE_NOT_FOUND'; throw e;"
}

// MissingModule renders an expression throwing a MODULE_NOT_FOUND error.
func (t *Template) MissingModule(request string) string {
	return "!(function webpackMissingModule() { " + missingModuleCode(request) + " }())"
}

func (t *Template) MissingModuleStatement(request string) string {
	return t.MissingModule(request) + ";\n"
}

// ImportStatement renders the statements binding importVar to the exports of m.
// With update set the bindings are assigned instead of declared.
func (t *Template) ImportStatement(update bool, m *jsmod.Module, importVar string, request string, origin *jsmod.Module) string {
	if m == nil {
		return t.MissingModuleStatement(request)
	}
	decl := "var "
	if update {
		decl = ""
	}
	var sb strings.Builder
	sb.WriteString("/* harmony import */ ")
	sb.WriteString(decl)
	sb.WriteString(importVar)
	sb.WriteString(" = ")
	sb.WriteString(t.RequireName())
	sb.WriteString("(")
	sb.WriteString(t.ModuleID(m, request))
	sb.WriteString(");\n")
	if m.ExportsType == jsmod.ExportsTypeDynamic && (origin == nil || !origin.StrictHarmony) {
		sb.WriteString("/* harmony import */ ")
		sb.WriteString(decl)
		sb.WriteString(importVar)
		sb.WriteString("_default = /*#__PURE__*/")
		sb.WriteString(t.RequireName())
		sb.WriteString(".n(")
		sb.WriteString(importVar)
		sb.WriteString(");\n")
	}
	return sb.String()
}

// DefineExport renders the getter definition of an export on the exports object.
func (t *Template) DefineExport(exportsArgument string, usedName string, id string) string {
	return "/* harmony export (binding) */ " + t.RequireName() + ".d(" + exportsArgument + ", " +
		utils.JSONString(usedName) + ", function() { return " + id + "; });\n"
}

// UnusedExport renders the marker of an export nobody uses.
func (t *Template) UnusedExport(name string) string {
	if name == "" {
		name = "namespace"
	}
	return "/* unused harmony export " + name + " */\n"
}

// ProvideStatement renders the binding of a provided identifier.
func (t *Template) ProvideStatement(identifier string, m *jsmod.Module, request string, pathSuffix string) string {
	return "/* provided dependency */ var " + identifier + " = " + t.RequireName() +
		"(" + t.ModuleID(m, request) + ")" + pathSuffix + ";\n"
}
