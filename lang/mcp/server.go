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

package mcp

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/jsgen/lang/generator"
	"github.com/cloudwego/jsgen/lang/jsmod"
	jlog "github.com/cloudwego/jsgen/lang/log"
	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolGenerateModule = "generate_module"
	DescGenerateModule = "Generate the final code of modules. Input: bundle (JSON text of the bundle, see bundle_schema), optional module identifier (all modules if empty). Output: code and error of every generated module."
	ToolBundleSchema   = "bundle_schema"
	DescBundleSchema   = "Get the JSON schema of the bundle accepted by generate_module. No parameters required."
	ToolListKinds      = "list_kinds"
	DescListKinds      = "List the dependency kinds the generator has a template for. No parameters required."
)

type Server struct {
	Server *server.MCPServer
	gen    *generator.Generator
}

type Tool struct {
	mcp.Tool
	Handler server.ToolHandlerFunc
}

type ServerOptions struct {
	ServerName    string
	ServerVersion string
	Verbose       bool
	generator.Options
}

func NewServer(options ServerOptions) *Server {
	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
	}
	if options.Verbose {
		opts = append(opts, server.WithLogging())
	}
	mcpServer := server.NewMCPServer(options.ServerName, options.ServerVersion, opts...)

	s := &Server{
		Server: mcpServer,
		gen:    generator.NewGenerator(options.Options),
	}
	for _, tool := range s.tools() {
		mcpServer.AddTool(tool.Tool, tool.Handler)
	}
	return s
}

func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.Server, server.WithErrorLogger(log.Default()))
}

type GenerateModuleReq struct {
	Bundle string `json:"bundle" jsonschema:"description=the JSON text of the bundle"`
	Module string `json:"module,omitempty" jsonschema:"description=identifier of the module to generate, all modules if empty"`
}

type GeneratedModule struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
}

type GenerateModuleResp struct {
	Modules []GeneratedModule `json:"modules"`
}

func inputSchema(v interface{}) []byte {
	r := &jsonschema.Reflector{DoNotReference: true}
	data, err := sonic.Marshal(r.Reflect(v))
	if err != nil {
		panic(err)
	}
	return data
}

func (s *Server) tools() []Tool {
	return []Tool{
		{
			Tool:    mcp.NewToolWithRawSchema(ToolGenerateModule, DescGenerateModule, inputSchema(&GenerateModuleReq{})),
			Handler: s.handleGenerateModule,
		},
		{
			Tool:    mcp.NewTool(ToolBundleSchema, mcp.WithDescription(DescBundleSchema)),
			Handler: s.handleBundleSchema,
		},
		{
			Tool:    mcp.NewTool(ToolListKinds, mcp.WithDescription(DescListKinds)),
			Handler: s.handleListKinds,
		},
	}
}

func (s *Server) handleGenerateModule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req GenerateModuleReq
	if err := request.BindArguments(&req); err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	resp, err := s.GenerateModule(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := sonic.MarshalString(resp)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}

// GenerateModule generates the module named by req, or the whole bundle.
func (s *Server) GenerateModule(ctx context.Context, req GenerateModuleReq) (*GenerateModuleResp, error) {
	b, err := jsmod.ParseBundle([]byte(req.Bundle))
	if err != nil {
		return nil, err
	}
	results := s.generate(ctx, b, req.Module)
	if results == nil {
		return nil, fmt.Errorf("module %s not found in bundle", req.Module)
	}
	resp := &GenerateModuleResp{}
	for _, r := range results {
		gm := GeneratedModule{Identifier: r.Module.Identifier}
		if r.Source != nil {
			gm.Code = r.Source.Source()
		}
		if r.Err != nil {
			gm.Error = r.Err.Error()
		}
		resp.Modules = append(resp.Modules, gm)
	}
	return resp, nil
}

func (s *Server) generate(ctx context.Context, b *jsmod.Bundle, identifier string) []generator.Result {
	if identifier == "" {
		jlog.Debug("mcp: generate %d modules", len(b.Modules))
		return s.gen.GenerateAll(ctx, b, 0)
	}
	m := b.Module(identifier)
	if m == nil {
		return nil
	}
	src, err := s.gen.Generate(m, b)
	return []generator.Result{{Module: m, Source: src, Err: err}}
}

func (s *Server) handleBundleSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := sonic.MarshalString(jsmod.Schema())
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleListKinds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kinds := s.gen.Registry().Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	sort.Strings(names)
	out, err := sonic.MarshalString(names)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}
