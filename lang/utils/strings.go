/**
 * Copyright 2025 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"regexp"
	"strconv"

	"github.com/bytedance/sonic"
)

var (
	identifierLeading = regexp.MustCompile(`^[^a-zA-Z$_]`)
	identifierInvalid = regexp.MustCompile(`[^a-zA-Z0-9$]+`)
)

// ToIdentifier turns an arbitrary string (usually a request such as "./foo/bar.js")
// into a valid JavaScript identifier. An invalid leading character is kept
// behind a "_" prefix, then every run of other characters becomes one "_".
//
//	"./foo/bar.js" => "_foo_bar_js"
//	"3d-lib"       => "_3d_lib"
func ToIdentifier(s string) string {
	s = identifierLeading.ReplaceAllString(s, "_$0")
	return identifierInvalid.ReplaceAllString(s, "_")
}

// JSONString quotes s the way JSON.stringify does for plain strings.
func JSONString(s string) string {
	out, err := sonic.ConfigDefault.MarshalToString(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return out
}

func DedupSlice[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	j := 0
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		s[j] = v
		j++
	}
	return s[:j]
}
