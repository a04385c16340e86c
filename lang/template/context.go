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
	"github.com/cloudwego/jsgen/lang/runtime"
)

// Context is the state of one module generation. It must not be shared
// between generations.
type Context struct {
	Registry *Registry
	Runtime  *runtime.Template
	Graph    jsmod.ModuleGraph
	// Origin is the module being generated.
	Origin *jsmod.Module
	// Defines are the constants const dependencies are folded with.
	Defines map[string]interface{}

	emitted map[string]bool
}

var _ jsmod.ExprContext = (*Context)(nil)

func NewContext(reg *Registry, rt *runtime.Template, graph jsmod.ModuleGraph, origin *jsmod.Module) *Context {
	if rt == nil {
		rt = runtime.NewTemplate(runtime.Options{})
	}
	return &Context{
		Registry: reg,
		Runtime:  rt,
		Graph:    graph,
		Origin:   origin,
		emitted:  make(map[string]bool),
	}
}

// Module resolves ref in the module graph.
func (c *Context) Module(ref string) *jsmod.Module {
	if c.Graph == nil || ref == "" {
		return nil
	}
	return c.Graph.Module(ref)
}

func (c *Context) ModuleID(m *jsmod.Module, request string) string {
	return c.Runtime.ModuleID(m, request)
}

func (c *Context) RequireName() string {
	return c.Runtime.RequireName()
}

// IsImportEmitted tells if the import statement keyed by key is already emitted.
func (c *Context) IsImportEmitted(key string) bool {
	return c.emitted[key]
}

// MarkImportEmitted records key, returning false if it was already recorded.
func (c *Context) MarkImportEmitted(key string) bool {
	if c.emitted[key] {
		return false
	}
	c.emitted[key] = true
	return true
}
