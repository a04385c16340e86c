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

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cloudwego/jsgen/lang/generator"
	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/log"
	"github.com/cloudwego/jsgen/lang/utils"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	config      string
	output      string
	concurrency int
	watch       bool
	nodeSource  bool
}

func newGenerateCmd() *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate <bundle.json>",
		Short: "Generate the code of every module of a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Generate.OutDir = flags.output
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Generate.Concurrency = flags.concurrency
			}
			if cmd.Flags().Changed("node-source") {
				cfg.Templates.NodeSource = flags.nodeSource
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			g := generator.NewGenerator(cfg.GeneratorOptions())
			run := func(ctx context.Context) error {
				return generateBundle(ctx, g, args[0], cfg.Generate.OutDir, cfg.Generate.Extension, cfg.Generate.Concurrency)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if !flags.watch {
				return run(ctx)
			}
			if err := run(ctx); err != nil {
				log.Error("%v", err)
			}
			return watchBundle(ctx, args[0], run)
		},
	}
	cmd.Flags().StringVar(&flags.config, "config", "", "Specify the build file (TOML).")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory.")
	cmd.Flags().IntVarP(&flags.concurrency, "concurrency", "j", 0, "Max modules generated concurrently, 0 for unlimited.")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "Regenerate when the bundle changes.")
	cmd.Flags().BoolVar(&flags.nodeSource, "node-source", false, "Enable identifiers provided by node polyfills.")
	return cmd
}

func generateBundle(ctx context.Context, g *generator.Generator, path string, outDir string, ext string, limit int) error {
	start := time.Now()
	b, err := jsmod.LoadBundle(path)
	if err != nil {
		return err
	}
	results := g.GenerateAll(ctx, b, limit)
	files, err := generator.WriteAll(outDir, ext, results)
	log.Info("generated %d of %d modules into %s in %v", len(files), len(b.Modules), outDir, time.Since(start))
	return err
}

// watchBundle runs run whenever the bundle file at path is written, until ctx is done.
func watchBundle(ctx context.Context, path string, run func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	changed := make(chan struct{}, 1)
	err = utils.WatchDir(ctx, filepath.Dir(abs), func(op fsnotify.Op, file string) {
		if filepath.Clean(file) != abs {
			return
		}
		if op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	log.Info("watching %s", abs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			log.Info("%s changed, regenerate", abs)
			if err := run(ctx); err != nil {
				log.Error("%v", err)
			}
		}
	}
}
