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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type testGraph struct {
	*Bundle
}

func (testGraph) ModuleID(m *Module, request string) string {
	if m == nil {
		return "missing(" + request + ")"
	}
	return m.ID
}

func (testGraph) RequireName() string {
	return "__webpack_require__"
}

func TestParserScope_ImportVar(t *testing.T) {
	s := NewParserScope()
	require.Equal(t, "_a_js__WEBPACK_IMPORTED_MODULE_0__", s.ImportVar("./a.js", "_a_js"))
	require.Equal(t, "_b_js__WEBPACK_IMPORTED_MODULE_1__", s.ImportVar("./b.js", "_b_js"))
	// cached by key, whatever the base
	require.Equal(t, "_a_js__WEBPACK_IMPORTED_MODULE_0__", s.ImportVar("./a.js", "other"))

	var wg sync.WaitGroup
	names := make([]string, 8)
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			names[i] = s.ImportVar("./c.js", "_c_js")
		}(i)
	}
	wg.Wait()
	for _, n := range names {
		require.Equal(t, "_c_js__WEBPACK_IMPORTED_MODULE_2__", n)
	}
}

func TestModule_Scope(t *testing.T) {
	m := NewModule("m", "")
	require.Same(t, m.Scope(0), m.Scope(0))
	require.NotSame(t, m.Scope(0), m.Scope(1))

	lm := m.LocalModule(3, "foo")
	require.Same(t, lm, m.LocalModule(3, "bar"))
	require.Equal(t, "foo", lm.Name)
	require.Equal(t, "__WEBPACK_LOCAL_MODULE_3__", lm.VariableName())
}

func TestModule_IsUsed(t *testing.T) {
	m := NewModule("m", "")
	used, ok := m.IsUsed("foo")
	require.True(t, ok)
	require.Equal(t, "foo", used)

	m.UsedExports = map[string]string{"foo": "a"}
	used, ok = m.IsUsed("foo")
	require.True(t, ok)
	require.Equal(t, "a", used)
	_, ok = m.IsUsed("bar")
	require.False(t, ok)
}

func TestRange(t *testing.T) {
	r := NewRange(2, 5)
	require.Equal(t, 4, r.Last())
	require.Equal(t, 3, r.Len())
	require.True(t, r.Contains(Range{Start: 2, End: 5}))
	require.True(t, r.Contains(Range{Start: 3, End: 4}))
	require.False(t, r.Contains(Range{Start: 1, End: 4}))
	require.False(t, r.Contains(Range{Start: 3, End: 6}))
}

func TestExpressions(t *testing.T) {
	g := testGraph{NewBundle(&Module{Identifier: "buffer", ID: "5"})}
	tests := []struct {
		name     string
		expr     Expression
		expected string
	}{
		{"code", CodeExpr{Code: "window"}, "window"},
		{"require", RequireExpr{Request: "buffer", Module: "buffer"}, "__webpack_require__(5)"},
		{"property", RequireExpr{Request: "buffer", Module: "buffer", Property: "Buffer"}, "__webpack_require__(5).Buffer"},
		{"missing", RequireExpr{Request: "nope"}, "__webpack_require__(missing(nope))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.expr.Source(g))
		})
	}
}

func TestProvidedDependency_PathSuffix(t *testing.T) {
	d := &ProvidedDependency{Path: []string{"Buffer", "from"}}
	require.Equal(t, `["Buffer"]["from"]`, d.PathSuffix())
	require.Equal(t, "", (&ProvidedDependency{}).PathSuffix())
}
