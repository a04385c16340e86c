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

package initfrag

import (
	"sort"
	"strings"

	"github.com/cloudwego/jsgen/lang/source"
	"github.com/elliotchance/orderedmap/v3"
)

// Fragment is a statement emitted once at the top of a generated module,
// e.g. an import statement.
type Fragment struct {
	Content string
	// Order sorts fragments ascending; equal orders keep add order.
	Order int
	// Suppressed fragments are never emitted. They still claim their Key,
	// so a later fragment with the same Key cannot bring the statement back.
	Suppressed bool
	// Key collapses fragments: the first one added for a Key wins.
	// An empty Key never collapses.
	Key string
}

func New(content string, order int, key string) Fragment {
	return Fragment{Content: content, Order: order, Key: key}
}

// NewSuppressed returns a fragment that only reserves key.
func NewSuppressed(key string) Fragment {
	return Fragment{Suppressed: true, Key: key}
}

type slot struct {
	key string
	seq int
}

// Collector accumulates the fragments of one output buffer.
type Collector struct {
	fragments *orderedmap.OrderedMap[slot, Fragment]
	seq       int
}

func NewCollector() *Collector {
	return &Collector{
		fragments: orderedmap.NewOrderedMap[slot, Fragment](),
	}
}

// Add records f unless a fragment with the same non-empty Key was added before.
// It reports whether f was kept.
func (c *Collector) Add(f Fragment) bool {
	c.seq++
	s := slot{key: f.Key}
	if f.Key == "" {
		s.seq = c.seq
	} else if _, dup := c.fragments.Get(s); dup {
		return false
	}
	c.fragments.Set(s, f)
	return true
}

// AddAll adds every fragment of fs in order.
func (c *Collector) AddAll(fs []Fragment) {
	for _, f := range fs {
		c.Add(f)
	}
}

func (c *Collector) Len() int {
	return c.fragments.Len()
}

// Fragments returns the fragments to emit: collapsed by Key first, then
// stripped of suppressed ones, then sorted by Order.
func (c *Collector) Fragments() []Fragment {
	ret := make([]Fragment, 0, c.fragments.Len())
	for f := range c.fragments.Values() {
		if f.Suppressed {
			continue
		}
		ret = append(ret, f)
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Order < ret[j].Order
	})
	return ret
}

// Render joins the fragments to emit.
func (c *Collector) Render() string {
	var sb strings.Builder
	for _, f := range c.Fragments() {
		sb.WriteString(f.Content)
	}
	return sb.String()
}

// RenderInto inserts the fragments as a single prologue at offset.
// Nothing is inserted when no fragment survives.
func (c *Collector) RenderInto(buf *source.ReplaceSource, offset int) {
	content := c.Render()
	if content == "" {
		return
	}
	buf.Insert(offset, content, source.RankPrologue)
}
