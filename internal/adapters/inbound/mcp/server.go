package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Options configures what the MCP server compares.
type Options struct {
	// PlanPath is the plan file or a directory containing .lhdiff.yaml.
	PlanPath string
	// HistoryDir holds the run history database; empty disables the
	// history resource.
	HistoryDir string
	Version    string
	Logger     *zap.Logger
}

// NewLHDiffMCPServer creates an MCP server with every lhdiff tool and
// resource registered.
func NewLHDiffMCPServer(opts Options) *server.MCPServer {
	if opts.PlanPath == "" {
		opts.PlanPath = "."
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"lhdiff",
		opts.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, opts)
	registerResources(s, opts)

	return s
}
