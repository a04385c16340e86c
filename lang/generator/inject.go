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
	"strings"

	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/source"
	"github.com/cloudwego/jsgen/lang/template"
)

// bindings is an immutable list of the variables bound by the ancestors of a block.
type bindings struct {
	name string
	expr string
	next *bindings
}

func (b *bindings) with(name, expr string) *bindings {
	return &bindings{name: name, expr: expr, next: b}
}

func (b *bindings) has(name, expr string) bool {
	for ; b != nil; b = b.next {
		if b.name == name && b.expr == expr {
			return true
		}
	}
	return false
}

type variable struct {
	name string
	expr string
}

// sourceVariables renders the variables of block, skipping the ones an
// ancestor already bound to the same expression.
func (g *Generator) sourceVariables(ctx *template.Context, block *jsmod.Block, available *bindings) []variable {
	var ret []variable
	for _, v := range block.Variables {
		expr := v.Expression.Source(ctx)
		if available.has(v.Name, expr) {
			continue
		}
		ret = append(ret, variable{name: v.Name, expr: expr})
	}
	return ret
}

// splitUniqueNames cuts vars into consecutive groups without repeated names.
//
//	[foo, bar, foo, baz] => [[foo, bar], [foo, baz]]
func splitUniqueNames(vars []variable) [][]variable {
	groups := [][]variable{nil}
	for _, v := range vars {
		cur := groups[len(groups)-1]
		dup := false
		for _, c := range cur {
			if c.name == v.name {
				dup = true
				break
			}
		}
		if dup {
			groups = append(groups, []variable{v})
		} else {
			groups[len(groups)-1] = append(cur, v)
		}
	}
	return groups
}

func wrapperStart(group []variable) string {
	names := make([]string, len(group))
	for i, v := range group {
		names[i] = v.name
	}
	return "/* WEBPACK VAR INJECTION */(function(" + strings.Join(names, ", ") + ") {"
}

func wrapperEnd(contextArgument string, group []variable) string {
	exprs := make([]string, len(group))
	for i, v := range group {
		exprs[i] = v.expr
	}
	return "}.call(" + contextArgument + ", " + strings.Join(exprs, ", ") + "))"
}

// injectVariables wraps the text of block in closures binding vars.
// Groups nest outer to inner in order; the root block is wrapped whole.
func (g *Generator) injectVariables(ctx *template.Context, src *source.ReplaceSource, block *jsmod.Block, vars []variable) {
	if len(vars) == 0 {
		return
	}
	contextArgument := "this"
	if block == ctx.Origin.Block {
		contextArgument = ctx.Origin.GetExportsArgument()
	}

	groups := splitUniqueNames(vars)
	var starts, ends strings.Builder
	for _, group := range groups {
		starts.WriteString(wrapperStart(group))
	}
	for i := len(groups) - 1; i >= 0; i-- {
		ends.WriteString(wrapperEnd(contextArgument, groups[i]))
	}

	start, end := 0, len(src.Original())
	if block.Range != nil {
		start, end = block.Range.Start, block.Range.End
	}
	src.Insert(start, starts.String(), source.RankWrapperOpen)
	src.Insert(end, "\n/* WEBPACK VAR INJECTION */"+ends.String(), source.RankWrapperClose)
}
