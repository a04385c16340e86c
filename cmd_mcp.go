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
	"github.com/cloudwego/jsgen/lang/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run as a MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			svr := mcp.NewServer(mcp.ServerOptions{
				ServerName:    "jsgen",
				ServerVersion: Version,
				Verbose:       verbose,
				Options:       cfg.GeneratorOptions(),
			})
			return svr.ServeStdio()
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Specify the build file (TOML).")
	return cmd
}
