package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/defscan/defscan/internal/config"
)

// Server manages the MCP server lifecycle. It exposes the scan engine to MCP
// clients over stdio.
type Server struct {
	rootDir string
	cfg     *config.Config
	mcp     *server.MCPServer
}

// NewServer creates an MCP server rooted at rootDir.
func NewServer(rootDir string, cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	mcpServer := server.NewMCPServer(
		"defscan-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	scans := NewTreeScanner(rootDir, cfg)
	AddScanTool(mcpServer, scans)
	AddFileTool(mcpServer, scans)

	return &Server{
		rootDir: rootDir,
		cfg:     cfg,
		mcp:     mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
