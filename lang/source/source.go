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

// Package source holds the emitted text of a module: a raw text, or the
// original text plus a set of position-anchored edits rendered on demand.
package source

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Source is the emitted text of one module.
type Source interface {
	Source() string
	Size() int
}

var (
	_ Source = (*RawSource)(nil)
	_ Source = (*ReplaceSource)(nil)
)

// RawSource is a text that never changes.
type RawSource struct {
	text string
}

func NewRawSource(text string) *RawSource {
	return &RawSource{text: text}
}

func (s *RawSource) Source() string {
	return s.text
}

func (s *RawSource) Size() int {
	return len(s.text)
}

// ErrOverlappingEdit is matched by every *OverlapError.
var ErrOverlappingEdit = errors.New("overlapping edit")

// OverlapError reports two replace edits claiming intersecting ranges.
// Both ranges are inclusive byte offsets into the original text.
type OverlapError struct {
	Existing [2]int
	Incoming [2]int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%v: replace [%d, %d] intersects replace [%d, %d]",
		ErrOverlappingEdit, e.Incoming[0], e.Incoming[1], e.Existing[0], e.Existing[1])
}

func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlappingEdit
}

// Rank orders edits anchored at the same offset.
type Rank int8

const (
	// RankPrologue goes before anything else at its offset (init fragments).
	RankPrologue Rank = iota - 2
	// RankWrapperOpen goes before the edits of the dependencies at its offset.
	RankWrapperOpen
	// RankNormal is used by dependency edits.
	RankNormal
	// RankWrapperClose goes after the edits of the dependencies at its offset.
	// Within this rank the most recent edit is placed closest to the offset,
	// so an inner wrapper closes before an outer one.
	RankWrapperClose
)

type edit struct {
	start int // first replaced byte, or the insert offset
	end   int // one past the last replaced byte; equals start for inserts
	rank  Rank
	seq   int
	text  string
}

func (e edit) isReplace() bool {
	return e.end > e.start
}

// ReplaceSource is the original text of a module plus pending edits.
// The original text is never modified; Source renders a fresh string each time.
type ReplaceSource struct {
	original string
	edits    []edit
	seq      int
}

func NewReplaceSource(original string) *ReplaceSource {
	return &ReplaceSource{original: original}
}

// Original returns the unedited text.
func (s *ReplaceSource) Original() string {
	return s.original
}

// HasEdits tells if any edit has been registered.
func (s *ReplaceSource) HasEdits() bool {
	return len(s.edits) > 0
}

func (s *ReplaceSource) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if off > len(s.original) {
		return len(s.original)
	}
	return off
}

func (s *ReplaceSource) push(e edit) {
	e.seq = s.seq
	s.seq++
	s.edits = append(s.edits, e)
}

// InsertBefore inserts text right before the byte at offset.
func (s *ReplaceSource) InsertBefore(offset int, text string) {
	s.Insert(offset, text, RankNormal)
}

// Insert inserts text right before the byte at offset, ordered by rank
// against other edits at the same offset. Offsets outside the text are clamped
// to its boundaries, which is how "before everything" / "after everything"
// anchors are expressed.
func (s *ReplaceSource) Insert(offset int, text string, rank Rank) {
	off := s.clamp(offset)
	s.push(edit{start: off, end: off, rank: rank, text: text})
}

// Replace replaces the bytes in [start, endInclusive] with text.
// An empty range (endInclusive < start) degrades to an insert at start.
func (s *ReplaceSource) Replace(start, endInclusive int, text string) error {
	start = s.clamp(start)
	end := s.clamp(endInclusive + 1)
	if end <= start {
		s.push(edit{start: start, end: start, rank: RankNormal, text: text})
		return nil
	}
	for _, e := range s.edits {
		if !e.isReplace() {
			continue
		}
		if start < e.end && e.start < end {
			return &OverlapError{
				Existing: [2]int{e.start, e.end - 1},
				Incoming: [2]int{start, end - 1},
			}
		}
	}
	s.push(edit{start: start, end: end, rank: RankNormal, text: text})
	return nil
}

func (s *ReplaceSource) sorted() []edit {
	es := make([]edit, len(s.edits))
	copy(es, s.edits)
	sort.SliceStable(es, func(i, j int) bool {
		a, b := es[i], es[j]
		if a.start != b.start {
			return a.start < b.start
		}
		// inserts at the start of a replaced range come before the replacement
		if a.isReplace() != b.isReplace() {
			return !a.isReplace()
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.rank == RankWrapperClose {
			return a.seq > b.seq
		}
		return a.seq < b.seq
	})
	return es
}

// Source renders the original text with every edit applied.
func (s *ReplaceSource) Source() string {
	if len(s.edits) == 0 {
		return s.original
	}
	var sb strings.Builder
	sb.Grow(len(s.original) + s.editsLen())
	pos := 0
	for _, e := range s.sorted() {
		if e.start > pos {
			sb.WriteString(s.original[pos:e.start])
			pos = e.start
		}
		sb.WriteString(e.text)
		if e.end > pos {
			pos = e.end
		}
	}
	if pos < len(s.original) {
		sb.WriteString(s.original[pos:])
	}
	return sb.String()
}

func (s *ReplaceSource) editsLen() int {
	n := 0
	for _, e := range s.edits {
		n += len(e.text)
	}
	return n
}

func (s *ReplaceSource) Size() int {
	return len(s.Source())
}
