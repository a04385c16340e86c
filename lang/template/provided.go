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
)

// ProvidedTemplate binds a free identifier to the module providing it.
type ProvidedTemplate struct{}

func (t ProvidedTemplate) Apply(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) error {
	d, ok := dep.(*jsmod.ProvidedDependency)
	if !ok {
		return unexpected(t, dep)
	}
	return replaceRange(src, d.Range, d.Identifier)
}

func (t ProvidedTemplate) InitFragments(dep jsmod.Dependency, src *source.ReplaceSource, ctx *Context) []initfrag.Fragment {
	d, ok := dep.(*jsmod.ProvidedDependency)
	if !ok {
		return nil
	}
	content := ctx.Runtime.ProvideStatement(d.Identifier, ctx.Module(d.Module), d.Request, d.PathSuffix())
	return []initfrag.Fragment{initfrag.New(content, 1, "provided "+d.Identifier)}
}
