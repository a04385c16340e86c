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
	"fmt"
	"regexp"
	"strconv"

	"github.com/Knetic/govaluate"
	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/log"
	"github.com/cloudwego/jsgen/lang/source"
	"github.com/cloudwego/jsgen/lang/utils"
)

// defineToken matches a string literal or a possibly dotted name.
// Literals are matched whole so the names inside them are left alone.
var defineToken = regexp.MustCompile(`'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"|[A-Za-z_$][A-Za-z0-9_$]*(?:\.[A-Za-z_$][A-Za-z0-9_$]*)*`)

// ConstTemplate replaces its range with a constant expression.
type ConstTemplate struct {
	NullTemplate
}

func (t ConstTemplate) Apply(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) error {
	d, ok := dep.(*jsmod.ConstDependency)
	if !ok {
		return unexpected(t, dep)
	}
	expr := d.Expression
	if d.Evaluate {
		folded, err := Fold(expr, ctx.Defines)
		if err != nil {
			log.Debug("keep const expression %q: %v", expr, err)
		} else {
			expr = folded
		}
	}
	return replaceRange(src, d.Range, expr)
}

// Fold evaluates expr with defines and renders the result as a JavaScript literal.
// Dotted names such as process.env.NODE_ENV are looked up as a whole.
func Fold(expr string, defines map[string]interface{}) (string, error) {
	escaped := defineToken.ReplaceAllStringFunc(expr, func(tok string) string {
		if tok[0] == '\'' || tok[0] == '"' {
			return tok
		}
		if _, ok := defines[tok]; ok {
			return "[" + tok + "]"
		}
		return tok
	})
	eval, err := govaluate.NewEvaluableExpression(escaped)
	if err != nil {
		return "", err
	}
	result, err := eval.Evaluate(defines)
	if err != nil {
		return "", err
	}
	return literal(result), nil
}

func literal(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case string:
		return utils.JSONString(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
