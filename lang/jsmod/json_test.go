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
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/jsgen/lang/testutils"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundle(t *testing.T) {
	for _, name := range testutils.ListBundles() {
		t.Run(name, func(t *testing.T) {
			b, err := LoadBundle(testutils.GetTestBundle(name))
			require.NoError(t, err)
			require.NotEmpty(t, b.Modules)
			for _, m := range b.Modules {
				require.Same(t, m, b.Module(m.Identifier))
				require.NotNil(t, m.Block, spew.Sdump(m))
				require.NotEmpty(t, m.ID)
			}
		})
	}
}

func TestLoadBundle_ESM(t *testing.T) {
	b, err := LoadBundle(testutils.GetTestBundle("esm"))
	require.NoError(t, err)

	index := b.Module("./src/index.js")
	require.NotNil(t, index)
	require.Equal(t, "0", index.ID)
	require.True(t, index.NumericID())
	require.Equal(t, "__webpack_exports__", index.GetExportsArgument())
	require.Equal(t, ExportsTypeNamespace, index.ExportsType)

	deps := index.Block.Dependencies
	require.Len(t, deps, 9)
	first, ok := deps[1].(*ImportSideEffectDependency)
	require.True(t, ok, spew.Sdump(deps[1]))
	third, ok := deps[5].(*ImportSideEffectDependency)
	require.True(t, ok, spew.Sdump(deps[5]))
	require.Equal(t, KindImportSideEffect, first.Kind())
	require.Equal(t, "./a.js", first.UserRequest)
	require.Equal(t, 2, third.SourceOrder)
	// imports of one module share the parser scope
	require.Same(t, first.Scope, third.Scope)
	require.Nil(t, first.Loc())

	export, ok := deps[7].(*ExportSpecifierDependency)
	require.True(t, ok)
	require.Equal(t, "answer", export.Name)

	folded, ok := deps[8].(*ConstDependency)
	require.True(t, ok)
	require.Equal(t, &Range{Start: 84, End: 85}, folded.Loc())

	used := b.Module("./b.js")
	name, ok := used.IsUsed("b")
	require.True(t, ok)
	require.Equal(t, "b", name)
	_, ok = used.IsUsed("unused")
	require.False(t, ok)
}

func TestLoadBundle_CommonJS(t *testing.T) {
	b, err := LoadBundle(testutils.GetTestBundle("commonjs"))
	require.NoError(t, err)

	main := b.Module("./main.js")
	require.NotNil(t, main)
	require.False(t, main.NumericID())
	require.Equal(t, DefaultExportsArgument, main.GetExportsArgument())
	text, ok := main.OriginalSource()
	require.True(t, ok)
	require.True(t, strings.HasPrefix(text, "require('a');"))

	header, ok := main.Block.Dependencies[0].(*RequireHeaderDependency)
	require.True(t, ok)
	require.Equal(t, "require", text[header.Range.Start:header.Range.End])

	require.Len(t, main.Block.Variables, 1)
	require.Equal(t, "global", main.Block.Variables[0].Name)
	require.Equal(t, CodeExpr{Code: "window"}, main.Block.Variables[0].Expression)

	require.Len(t, main.Block.Blocks, 1)
	child := main.Block.Blocks[0]
	require.NotNil(t, child.Range)
	provided, ok := child.Dependencies[0].(*ProvidedDependency)
	require.True(t, ok)
	require.Equal(t, "process", text[provided.Range.Start:provided.Range.End])
	require.Equal(t, RequireExpr{Request: "buffer", Module: "buffer", Property: "Buffer"}, child.Variables[0].Expression)

	var visited int
	main.Block.Walk(func(*Block) bool {
		visited++
		return true
	})
	require.Equal(t, 2, visited)
}

func TestLoadBundle_Mixed(t *testing.T) {
	b, err := LoadBundle(testutils.GetTestBundle("mixed"))
	require.NoError(t, err)

	_, ok := b.Module("virtual:entry").OriginalSource()
	require.False(t, ok)

	odd := b.Module("./odd.js")
	dep, ok := odd.Block.Dependencies[0].(*UnknownDependency)
	require.True(t, ok)
	require.Equal(t, Kind("amd define"), dep.Kind())
	require.Equal(t, &Range{Start: 0, End: 3}, dep.Loc())
}

func TestParseBundle_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{
			name: "bad json",
			data: `{"modules": [`,
			msg:  "failed to unmarshal bundle",
		},
		{
			name: "no identifier",
			data: `{"modules": [{"source": "x"}]}`,
			msg:  "has no identifier",
		},
		{
			name: "duplicated",
			data: `{"modules": [{"identifier": "a", "source": ""}, {"identifier": "a", "source": ""}]}`,
			msg:  "duplicated module a",
		},
		{
			name: "missing kind",
			data: `{"modules": [{"identifier": "a", "source": "x", "block": {"dependencies": [{}]}}]}`,
			msg:  "kind is required",
		},
		{
			name: "require header without range",
			data: `{"modules": [{"identifier": "a", "source": "x", "block": {"dependencies": [{"kind": "require header"}]}}]}`,
			msg:  "range must be valid",
		},
		{
			name: "local module without module",
			data: `{"modules": [{"identifier": "a", "source": "x", "block": {"dependencies": [{"kind": "local module"}]}}]}`,
			msg:  "local module is required",
		},
		{
			name: "block outside module",
			data: `{"modules": [{"identifier": "a", "source": "abc", "block": {"blocks": [{"range": {"start": 1, "end": 9}}]}}]}`,
			msg:  "is outside [0, 3)",
		},
		{
			name: "block outside parent",
			data: `{"modules": [{"identifier": "a", "source": "abcdef", "block": {"blocks": [{"range": {"start": 1, "end": 3}, "blocks": [{"range": {"start": 2, "end": 4}}]}]}}]}`,
			msg:  "is outside [1, 3)",
		},
		{
			name: "inverted block",
			data: `{"modules": [{"identifier": "a", "source": "abc", "block": {"blocks": [{"range": {"start": 2, "end": 1}}]}}]}`,
			msg:  "invalid block range",
		},
		{
			name: "dependency past end",
			data: `{"modules": [{"identifier": "a", "source": "abc", "block": {"dependencies": [{"kind": "const", "expression": "1", "range": {"start": 2, "end": 7}}]}}]}`,
			msg:  "range [2, 7) is outside [0, 3)",
		},
		{
			name: "dependency outside block",
			data: `{"modules": [{"identifier": "a", "source": "abcdef", "block": {"blocks": [{"range": {"start": 0, "end": 2}, "dependencies": [{"kind": "require header", "range": {"start": 3, "end": 5}}]}]}}]}`,
			msg:  "range [3, 5) is outside [0, 2)",
		},
		{
			name: "inverted dependency",
			data: `{"modules": [{"identifier": "a", "source": "abc", "block": {"dependencies": [{"kind": "unsupported", "range": {"start": 2, "end": 1}}]}}]}`,
			msg:  "invalid range [2, 1)",
		},
		{
			name: "overlapping blocks",
			data: `{"modules": [{"identifier": "a", "source": "abcdef", "block": {"blocks": [{"range": {"start": 0, "end": 3}}, {"range": {"start": 2, "end": 5}}]}}]}`,
			msg:  "block range [2, 5) overlaps sibling [0, 3)",
		},
		{
			name: "unknown expression",
			data: `{"modules": [{"identifier": "a", "source": "abc", "block": {"variables": [{"name": "x", "expression": {"kind": "eval"}}]}}]}`,
			msg:  `unknown expression kind "eval"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBundle([]byte(tt.data))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseBundle_Defaults(t *testing.T) {
	b, err := ParseBundle([]byte(`{"modules": [{"identifier": "./x.js", "source": "import 'y'", "block": {
		"dependencies": [{"kind": "harmony import", "request": "y", "scope": 1}],
		"variables": [{"name": "v", "expression": {"code": "1"}}]
	}}]}`))
	require.NoError(t, err)
	m := b.Module("./x.js")
	require.Equal(t, "./x.js", m.ID)

	imp, ok := m.Block.Dependencies[0].(*ImportDependency)
	require.True(t, ok)
	require.Equal(t, "y", imp.UserRequest)
	require.Equal(t, "request:y", imp.EmitKey())
	require.Same(t, m.Scope(1), imp.Scope)
	require.NotSame(t, m.Scope(0), imp.Scope)
	require.Equal(t, CodeExpr{Code: "1"}, m.Block.Variables[0].Expression)
}

func TestSchema(t *testing.T) {
	data, err := sonic.Marshal(Schema())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"modules"`)
	assert.Contains(t, string(data), `"harmony side effect evaluation"`)
	assert.Contains(t, string(data), `"exportsArgument"`)
}
