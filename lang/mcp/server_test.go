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
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/jsgen/lang/generator"
	jlog "github.com/cloudwego/jsgen/lang/log"
	"github.com/cloudwego/jsgen/lang/template"
	"github.com/cloudwego/jsgen/lang/testutils"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return NewServer(ServerOptions{
		ServerName:    "jsgen",
		ServerVersion: "1.0.0",
		Options:       generator.Options{Templates: template.Options{NodeSource: true}},
	})
}

func findTool(t *testing.T, s *Server, name string) Tool {
	for _, tool := range s.tools() {
		if tool.Tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found", name)
	return Tool{}
}

func callTool(t *testing.T, tool Tool, args map[string]any) *mcp.CallToolResult {
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      tool.Tool.Name,
			Arguments: args,
		},
	}
	result, err := tool.Handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func readBundle(t *testing.T, name string) string {
	data, err := os.ReadFile(testutils.GetTestBundle(name))
	require.NoError(t, err)
	return string(data)
}

func TestGenerateModuleTool(t *testing.T) {
	jlog.SetLogLevel(jlog.DebugLevel)
	defer jlog.SetLogLevel(jlog.ErrorLevel)
	s := newTestServer()
	tool := findTool(t, s, ToolGenerateModule)

	result := callTool(t, tool, map[string]any{"bundle": readBundle(t, "mixed")})
	require.False(t, result.IsError)
	var resp GenerateModuleResp
	require.NoError(t, sonic.UnmarshalString(resultText(t, result), &resp))
	require.Len(t, resp.Modules, 3)
	require.Equal(t, "virtual:entry", resp.Modules[0].Identifier)
	require.Contains(t, resp.Modules[0].Error, "no source available")
	require.Contains(t, resp.Modules[1].Error, "no template for dependency")
	require.Equal(t, "ok();\n", resp.Modules[2].Code)
	require.Empty(t, resp.Modules[2].Error)

	result = callTool(t, tool, map[string]any{"bundle": readBundle(t, "commonjs"), "module": "a"})
	require.False(t, result.IsError)
	var single GenerateModuleResp
	require.NoError(t, sonic.UnmarshalString(resultText(t, result), &single))
	require.Equal(t, []GeneratedModule{{Identifier: "a", Code: "module.exports = 'a';\n"}}, single.Modules)

	result = callTool(t, tool, map[string]any{"bundle": readBundle(t, "commonjs"), "module": "nope"})
	require.True(t, result.IsError)
	require.Contains(t, resultText(t, result), "module nope not found")

	result = callTool(t, tool, map[string]any{"bundle": "{"})
	require.True(t, result.IsError)
}

func TestSchemaAndKindsTools(t *testing.T) {
	s := newTestServer()

	schema := resultText(t, callTool(t, findTool(t, s, ToolBundleSchema), nil))
	require.Contains(t, schema, `"modules"`)

	var kinds []string
	require.NoError(t, sonic.UnmarshalString(resultText(t, callTool(t, findTool(t, s, ToolListKinds), nil)), &kinds))
	require.Contains(t, kinds, "harmony import")
	require.Contains(t, kinds, "provided")
}

func TestConcurrentGenerate(t *testing.T) {
	s := newTestServer()
	bundle := readBundle(t, "esm")

	const n = 16
	var wg sync.WaitGroup
	codes := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := s.GenerateModule(context.Background(), GenerateModuleReq{Bundle: bundle, Module: "./src/index.js"})
			if err != nil || len(resp.Modules) != 1 {
				return
			}
			codes[i] = resp.Modules[0].Code
		}(i)
	}
	wg.Wait()
	for _, c := range codes {
		require.NotEmpty(t, c)
		require.Equal(t, codes[0], c)
	}
}

func sendAndRecv(t *testing.T, req any, stdinWriter *io.PipeWriter, stdout *bufio.Scanner) map[string]any {
	data, err := json.Marshal(req)
	require.NoError(t, err)
	_, err = stdinWriter.Write(append(data, '\n'))
	require.NoError(t, err)
	require.True(t, stdout.Scan(), "failed to read response")
	var resp map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	return resp
}

func TestStdioServer(t *testing.T) {
	svr := newTestServer()

	stdinReader, stdinWriter := io.Pipe()
	stdoutReader, stdoutWriter := io.Pipe()
	stdioServer := server.NewStdioServer(svr.Server)
	stdioServer.SetErrorLogger(log.New(io.Discard, "", 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serverErrCh := make(chan error, 1)
	go func() {
		err := stdioServer.Listen(ctx, stdinReader, stdoutWriter)
		if err != nil && err != io.EOF && err != context.Canceled {
			serverErrCh <- err
		}
		stdoutWriter.Close()
		close(serverErrCh)
	}()
	time.Sleep(100 * time.Millisecond)

	stdout := bufio.NewScanner(stdoutReader)
	stdout.Buffer(make([]byte, 1024*1024), 1024*1024)
	resp := sendAndRecv(t, map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": "2024-11-05",
			"clientInfo": map[string]any{
				"name":    "test-client",
				"version": "1.0.0",
			},
		},
	}, stdinWriter, stdout)
	require.Equal(t, float64(1), resp["id"])
	require.Contains(t, resp, "result")

	resp = sendAndRecv(t, map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/list",
	}, stdinWriter, stdout)
	result, ok := resp["result"].(map[string]any)
	require.True(t, ok, resp)
	tools, ok := result["tools"].([]any)
	require.True(t, ok, result)
	require.Len(t, tools, 3)

	cancel()
	stdinWriter.Close()
	if err := <-serverErrCh; err != nil {
		t.Errorf("unexpected server error: %v", err)
	}
}
