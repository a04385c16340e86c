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

// Package config loads the build file of jsgen.
//
//	[runtime]
//	require = "__webpack_require__"
//	pathinfo = false
//
//	[generate]
//	out_dir = "dist"
//	concurrency = 4
//	extension = ".js"
//
//	[templates]
//	node_source = true
//	disabled = ["const"]
//
//	[define]
//	"process.env.NODE_ENV" = "production"
package config

import (
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cloudwego/jsgen/lang/generator"
	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/log"
	jsruntime "github.com/cloudwego/jsgen/lang/runtime"
	"github.com/cloudwego/jsgen/lang/template"
	"github.com/cloudwego/jsgen/lang/utils"
	"github.com/pkg/errors"
)

type Runtime struct {
	Require  string `toml:"require"`
	Pathinfo bool   `toml:"pathinfo"`
}

type Generate struct {
	OutDir      string `toml:"out_dir"`
	Concurrency int    `toml:"concurrency"`
	Extension   string `toml:"extension"`
}

type Templates struct {
	NodeSource bool     `toml:"node_source"`
	Disabled   []string `toml:"disabled"`
}

type Config struct {
	Runtime   Runtime                `toml:"runtime"`
	Generate  Generate               `toml:"generate"`
	Templates Templates              `toml:"templates"`
	Define    map[string]interface{} `toml:"define"`
}

func Default() *Config {
	return &Config{
		Runtime: Runtime{Require: jsruntime.DefaultRequireName},
		Generate: Generate{
			OutDir:      "dist",
			Concurrency: runtime.NumCPU(),
			Extension:   generator.DefaultExtension,
		},
	}
}

// Load reads the build file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	c, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config %s", path)
	}
	return c, nil
}

// Parse decodes a build file over the defaults.
func Parse(data string) (*Config, error) {
	c := Default()
	md, err := toml.Decode(data, c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		log.Info("ignore unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values and normalizes the disabled kinds.
func (c *Config) Validate() error {
	if c.Generate.Concurrency < 0 {
		return errors.Errorf("generate.concurrency must not be negative, got %d", c.Generate.Concurrency)
	}
	if c.Generate.Extension != "" && !strings.HasPrefix(c.Generate.Extension, ".") {
		c.Generate.Extension = "." + c.Generate.Extension
	}
	known := make(map[jsmod.Kind]bool)
	for _, k := range jsmod.Kinds() {
		known[k] = true
	}
	for _, k := range c.Templates.Disabled {
		if !known[jsmod.Kind(k)] {
			return errors.Errorf("templates.disabled: unknown dependency kind %q", k)
		}
	}
	c.Templates.Disabled = utils.DedupSlice(c.Templates.Disabled)
	return nil
}

// GeneratorOptions converts c to the options of a generator.
func (c *Config) GeneratorOptions() generator.Options {
	disabled := make([]jsmod.Kind, len(c.Templates.Disabled))
	for i, k := range c.Templates.Disabled {
		disabled[i] = jsmod.Kind(k)
	}
	return generator.Options{
		Runtime: jsruntime.Options{
			RequireName: c.Runtime.Require,
			Pathinfo:    c.Runtime.Pathinfo,
		},
		Templates: template.Options{
			NodeSource: c.Templates.NodeSource,
			Disabled:   disabled,
		},
		Defines: c.Define,
	}
}
