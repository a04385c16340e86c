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

package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Hack to get the project root directory from go tests.
// Go tests start from the directory where the test file is located,
// causing the relative path to testdata files to be unstable.
func GetTestDataRoot() string {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		panic("failed to get caller information")
	}
	projectRoot := filepath.Dir(currentFilePath)
	for {
		goModPath := filepath.Join(projectRoot, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			break
		}
		parentDir := filepath.Dir(projectRoot)
		if parentDir == projectRoot {
			panic("could not find project root (go.mod not found)")
		}
		projectRoot = parentDir
	}
	rootDir, err := filepath.Abs(filepath.Join(projectRoot, "testdata"))
	if err != nil {
		panic("Failed to get absolute path of testdata: " + err.Error())
	}
	if _, err := os.Stat(rootDir); os.IsNotExist(err) {
		panic(fmt.Sprintf("Test data directory does not exist: %s", rootDir))
	}
	return rootDir
}

// GetTestBundle returns the path of testdata/bundles/<name>.json.
func GetTestBundle(name string) string {
	fpath := filepath.Join(GetTestDataRoot(), "bundles", name+".json")
	if _, err := os.Stat(fpath); os.IsNotExist(err) {
		panic(fmt.Sprintf("bundle file does not exist: %s", fpath))
	}
	return fpath
}

// ListBundles lists the names of the bundles under testdata/bundles.
func ListBundles() []string {
	dir := filepath.Join(GetTestDataRoot(), "bundles")
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		panic(fmt.Sprintf("Failed to read bundle directory %s: %v", dir, err))
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}
