package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/config"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/history"
)

const historyLimit = 20

func registerResources(s *server.MCPServer, opts Options) {
	// 1. lhdiff://plan - the loaded comparison plan
	s.AddResource(
		mcplib.NewResource(
			"lhdiff://plan",
			"Comparison Plan",
			mcplib.WithResourceDescription("The validated comparison plan with resolved base directory"),
			mcplib.WithMIMEType("application/json"),
		),
		handlePlanResource(opts),
	)

	// 2. lhdiff://history - recent runs
	if opts.HistoryDir != "" {
		s.AddResource(
			mcplib.NewResource(
				"lhdiff://history",
				"Run History",
				mcplib.WithResourceDescription("The most recent stored comparison runs"),
				mcplib.WithMIMEType("application/json"),
			),
			handleHistoryResource(opts),
		)
	}
}

func handlePlanResource(opts Options) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		plan, err := config.New().Load(opts.PlanPath)
		if err != nil {
			return nil, fmt.Errorf("loading plan: %w", err)
		}
		return jsonContents("lhdiff://plan", plan)
	}
}

func handleHistoryResource(opts Options) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		store, err := history.Open(opts.HistoryDir)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()

		entries, err := store.List(ctx, "", historyLimit)
		if err != nil {
			return nil, err
		}
		return jsonContents("lhdiff://history", entries)
	}
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
