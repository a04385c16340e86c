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

// Variable is a value injected as a local binding of a block.
type Variable struct {
	Name       string
	Expression Expression
}

// ExprContext is what an Expression may query while being rendered.
type ExprContext interface {
	ModuleGraph
	// ModuleID renders the runtime id of module, or a throwing expression
	// naming request if module is nil.
	ModuleID(module *Module, request string) string
	// RequireName is the identifier of the runtime module loader.
	RequireName() string
}

// Expression produces the code of a variable value. It is evaluated at
// generation time since it may depend on other modules' ids.
type Expression interface {
	Source(ctx ExprContext) string
}

// CodeExpr is a literal expression.
type CodeExpr struct {
	Code string
}

func (e CodeExpr) Source(ExprContext) string {
	return e.Code
}

// RequireExpr loads a module through the runtime loader, optionally reading
// a property of its exports.
type RequireExpr struct {
	Request  string
	Module   string
	Property string
}

func (e RequireExpr) Source(ctx ExprContext) string {
	ret := ctx.RequireName() + "(" + ctx.ModuleID(ctx.Module(e.Module), e.Request) + ")"
	if e.Property != "" {
		ret += "." + e.Property
	}
	return ret
}
