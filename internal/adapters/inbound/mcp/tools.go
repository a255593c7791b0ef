package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/config"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/gitinfo"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/report"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/resolver"
	"github.com/lhdiff/lhdiff/internal/application"
	"github.com/lhdiff/lhdiff/internal/domain"
)

func registerTools(s *server.MCPServer, opts Options) {
	// 1. lhdiff_compare
	s.AddTool(
		mcplib.NewTool("lhdiff_compare",
			mcplib.WithDescription("Compare explicit before/after report pairs from the plan and return the detailed run as JSON"),
			mcplib.WithString("plan", mcplib.Description("Plan file or directory (defaults to the server's plan)")),
		),
		handleRun(opts, domain.ModeDetailed),
	)

	// 2. lhdiff_matrix
	s.AddTool(
		mcplib.NewTool("lhdiff_matrix",
			mcplib.WithDescription("Match reports by filename pattern in the plan's old/new directories and return the matrix run as JSON"),
			mcplib.WithString("plan", mcplib.Description("Plan file or directory (defaults to the server's plan)")),
		),
		handleRun(opts, domain.ModeMatrix),
	)

	// 3. lhdiff_scores
	s.AddTool(
		mcplib.NewTool("lhdiff_scores",
			mcplib.WithDescription("Return the category scores (0-100) of a single audit report"),
			mcplib.WithString("path",
				mcplib.Required(),
				mcplib.Description("Path to the report JSON file"),
			),
		),
		handleScores(opts),
	)
}

func newCompareService(opts Options) *application.CompareService {
	return application.NewCompareService(
		report.New(),
		resolver.NewExplicit(),
		resolver.NewGlob(),
		gitinfo.New(),
		opts.Logger,
	)
}

func handleRun(opts Options, mode domain.Mode) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		planPath := request.GetString("plan", opts.PlanPath)

		plan, err := config.New().Load(planPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading plan: %v", err)), nil
		}

		run, err := newCompareService(opts).Compare(ctx, plan, mode)
		if err != nil {
			return errorResult(fmt.Sprintf("%s failed: %v", mode, err)), nil
		}
		return jsonResult(run)
	}
}

type scoresResult struct {
	Path   string                      `json:"path"`
	URL    string                      `json:"final_url,omitempty"`
	Scores map[domain.Category]float64 `json:"scores"`
}

func handleScores(opts Options) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		doc, set, err := newCompareService(opts).Scores(path)
		if err != nil {
			return errorResult(fmt.Sprintf("reading report: %v", err)), nil
		}
		return jsonResult(scoresResult{Path: path, URL: doc.FinalURL, Scores: set.Values})
	}
}

// jsonResult marshals v into an indented text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result flagged as an error.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
