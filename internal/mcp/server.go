// Package mcp exposes a running winx application to MCP clients over
// stdio. Each tool proxies to the daemon's unix socket, so the MCP
// server itself holds no application state.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winx/internal/ipc"
)

const (
	ServerName    = "winx"
	ServerVersion = "0.1.0"
)

// Server is the MCP server fronting a winx daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates an MCP server talking to the local daemon socket.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the status of the running winx application: uptime, window count, and pending cross-thread callbacks.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "invoke_command",
		Description: "Invoke a named application command (e.g. dialog, refresh) on the UI thread, as if its accelerator had been pressed.",
	}, s.handleInvokeCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "quit",
		Description: "Ask the winx application to exit its message loop with the given code.",
	}, s.handleQuit)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, fmt.Errorf("daemon not reachable: %w", err)
	}
	return nil, GetStatusOutput{
		UptimeSeconds:    status.UptimeSeconds,
		WindowCount:      status.WindowCount,
		PendingCallbacks: status.PendingCallbacks,
	}, nil
}

func (s *Server) handleInvokeCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args InvokeCommandInput) (*mcpsdk.CallToolResult, InvokeCommandOutput, error) {
	if args.Command == "" {
		return nil, InvokeCommandOutput{}, fmt.Errorf("command is required")
	}
	if err := s.client.Invoke(args.Command); err != nil {
		return nil, InvokeCommandOutput{}, err
	}
	return nil, InvokeCommandOutput{Command: args.Command, Invoked: true}, nil
}

func (s *Server) handleQuit(_ context.Context, _ *mcpsdk.CallToolRequest, args QuitInput) (*mcpsdk.CallToolResult, QuitOutput, error) {
	if err := s.client.Quit(args.Code); err != nil {
		return nil, QuitOutput{}, err
	}
	return nil, QuitOutput{Code: args.Code}, nil
}
