package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhdiff/lhdiff/internal/domain"
)

const fixturePlan = "../../../../testdata/reports"

func callTool(t *testing.T, opts Options, mode domain.Mode, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handleRun(opts, mode)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func textOf(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleRun_Matrix(t *testing.T) {
	res := callTool(t, Options{PlanPath: fixturePlan}, domain.ModeMatrix, nil)
	require.False(t, res.IsError, textOf(t, res))

	var run domain.ComparisonRun
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &run))
	assert.Equal(t, domain.ModeMatrix, run.Mode)
	assert.Len(t, run.Pages, 2)
	assert.Equal(t, domain.VerdictModestRegression, run.MetricSummary.Verdict)
}

func TestHandleRun_PlanArgumentOverrides(t *testing.T) {
	res := callTool(t, Options{PlanPath: t.TempDir()}, domain.ModeDetailed, map[string]any{"plan": fixturePlan})
	require.False(t, res.IsError, textOf(t, res))
	assert.Contains(t, textOf(t, res), `"Homepage"`)
}

func TestHandleRun_MissingPlan(t *testing.T) {
	res := callTool(t, Options{PlanPath: t.TempDir()}, domain.ModeDetailed, nil)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "plan file not found")
}

func TestHandleScores(t *testing.T) {
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = map[string]any{"path": fixturePlan + "/after/site-20260101T180352.json-homepage2.json"}

	res, err := handleScores(Options{})(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError, textOf(t, res))
	assert.Contains(t, textOf(t, res), `"performance"`)
	assert.Contains(t, textOf(t, res), "https://bar.example.test/")
}

func TestHandleScores_RequiresPath(t *testing.T) {
	res, err := handleScores(Options{})(context.Background(), mcplib.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestPlanResource(t *testing.T) {
	contents, err := handlePlanResource(Options{PlanPath: fixturePlan})(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "lhdiff://plan", text.URI)
	assert.Contains(t, text.Text, `"old_dir": "before"`)
}

func TestHistoryResource(t *testing.T) {
	contents, err := handleHistoryResource(Options{HistoryDir: t.TempDir()})(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "null", contents[0].(mcplib.TextResourceContents).Text)
}
