package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// AddScanTool registers the defscan_scan tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddScanTool(s *server.MCPServer, scans TreeScanner) {
	tool := mcp.NewTool(
		"defscan_scan",
		mcp.WithDescription("Scan the project tree for C/C++ structural type definitions (struct, class, union, enum). Returns every definition with its kind, qualified name, member fields, source span, and any diagnostics for malformed input."),
	)

	s.AddTool(tool, createScanHandler(scans))
}

// AddFileTool registers the defscan_file tool with an MCP server.
func AddFileTool(s *server.MCPServer, scans TreeScanner) {
	tool := mcp.NewTool(
		"defscan_file",
		mcp.WithDescription("Scan a single C/C++ source file for structural type definitions. Relative paths resolve against the project root."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the source file (e.g., 'src/types.hpp')")),
	)

	s.AddTool(tool, createFileHandler(scans))
}

func createScanHandler(scans TreeScanner) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := scans.ScanTree(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		jsonData, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

func createFileHandler(scans TreeScanner) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		path, ok := argsMap["path"].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		report, err := scans.ScanOne(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to scan %s: %v", path, err)), nil
		}

		jsonData, err := json.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
