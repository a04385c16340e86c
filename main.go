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
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/jsgen/lang/config"
	"github.com/cloudwego/jsgen/lang/jsmod"
	"github.com/cloudwego/jsgen/lang/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

const Usage = `jsgen <Action> [Path] [Flags]
Action:
   generate     generate the code of every module of the bundle (*.json) at Path
   dump         print the block trees of the bundle at Path
   schema       print the JSON schema of bundles
   mcp          run as a MCP server generating the bundles sent by the client
   version      print the version of jsgen
`

func main() {
	var flagVerbose, flagDebug bool

	rootCmd := &cobra.Command{
		Use:   "jsgen",
		Short: "jsgen: the code generation backend of a JavaScript module bundler",
		Long:  Usage,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			checkVerbose(flagVerbose, flagDebug)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose mode.")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Debug mode.")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newDumpCmd(),
		newSchemaCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error("Failed to execute command: %v", err)
		os.Exit(1)
	}
}

func checkVerbose(verbose bool, debug bool) {
	if debug {
		log.SetLogLevel(log.DebugLevel)
	} else if verbose {
		log.SetLogLevel(log.InfoLevel)
	} else {
		log.SetLogLevel(log.ErrorLevel)
	}
}

// loadConfig reads the build file at path, or returns the defaults if path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <bundle.json>",
		Short: "Print the block trees of a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := jsmod.LoadBundle(args[0])
			if err != nil {
				return err
			}
			cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
			for _, m := range b.Modules {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s (id %s)\n", m.Identifier, m.ID)
				cfg.Fdump(cmd.OutOrStdout(), m.Block)
			}
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := sonic.ConfigStd.MarshalIndent(jsmod.Schema(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of jsgen",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Version)
		},
	}
}
