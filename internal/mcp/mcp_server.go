// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"io"
	"log/slog"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// reportArgs are the tool arguments accepted by score_reports, one per tool.
var reportArgs = []string{"eslint", "cloc", "jscpd", "ruff", "radon", "pmd"}

// NewMCPServer initializes and configures the QualityScore MCP server without starting it.
// This is exposed for unit testing. The store may be nil, which disables the listing tools.
func NewMCPServer(baseCfg *contract.Config, store contract.DataStore) *server.MCPServer {
	s := server.NewMCPServer(
		"QualityScore Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
		// stdio carries the protocol, so advisories are discarded
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	// --- 1. Tool: score_reports ---
	scoreOpts := []mcp.ToolOption{
		mcp.WithDescription("Score raw tool reports (ESLint, cloc, JSCPD, Ruff, Radon, PMD) without running any tool or saving anything."),
		mcp.WithString("project_name", mcp.Description("Project name echoed in the scores.")),
		mcp.WithString("weights", mcp.Description(`Optional weights JSON object, e.g. {"style":0.5,"comment":0.1}.`)),
	}
	for _, arg := range reportArgs {
		scoreOpts = append(scoreOpts, mcp.WithString(arg, mcp.Description("Raw "+arg+" JSON report.")))
	}
	s.AddTool(mcp.NewTool("score_reports", scoreOpts...), h.handleScoreReports)

	// --- 2. Tool: resolve_weights ---
	s.AddTool(mcp.NewTool("resolve_weights",
		mcp.WithDescription("Resolve partial weights into a full vector summing to 1.0, filling gaps from the defaults."),
		mcp.WithString("weights", mcp.Description(`Weights JSON object, e.g. {"style":2,"complexity":1}.`), mcp.Required()),
	), h.handleResolveWeights)

	// --- 3. Tool: list_analyses ---
	s.AddTool(mcp.NewTool("list_analyses",
		mcp.WithDescription("List saved analyses of the configured owner, newest first."),
		mcp.WithString("project_id", mcp.Description("Only list analyses of this project.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListAnalyses)

	// --- 4. Tool: get_analysis ---
	s.AddTool(mcp.NewTool("get_analysis",
		mcp.WithDescription("Fetch a saved analysis with scores, explanation and issues."),
		mcp.WithString("analysis_id", mcp.Description("The analysis identifier."), mcp.Required()),
	), h.handleGetAnalysis)

	return s
}

// StartMCPServer starts the QualityScore MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.DataStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
