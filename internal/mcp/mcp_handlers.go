package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/huangsam/qualityscore/core"
	"github.com/huangsam/qualityscore/core/scoring"
	"github.com/huangsam/qualityscore/internal/adapters"
	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.DataStore
	logger  *slog.Logger
}

func (h *toolHandler) handleScoreReports(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reports := make(schema.Reports, 0, len(reportArgs))
	for _, tool := range core.ReportOrder {
		raw := request.GetString(string(tool), "")
		if raw == "" {
			continue
		}
		report, err := adapters.ParseReport(tool, []byte(raw))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid %s report: %v", tool, err)), nil
		}
		reports = append(reports, report)
	}
	if len(reports) == 0 {
		return mcp.NewToolResultError("at least one report is required"), nil
	}

	overrides, err := parseWeightsArg(request.GetString("weights", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	agg := core.AggregateReports(core.AggregateInput{
		Reports:     reports,
		ProjectName: request.GetString("project_name", ""),
		Weights:     overrides,
		UserWeights: !overrides.IsEmpty(),
		Now:         time.Now().UTC(),
	}, nil, h.logger)
	return jsonResult(agg)
}

func (h *toolHandler) handleResolveWeights(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("weights", "")
	if raw == "" {
		return mcp.NewToolResultError("weights is required"), nil
	}
	overrides, err := parseWeightsArg(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(scoring.ResolveWeights(overrides, h.logger))
}

func (h *toolHandler) handleListAnalyses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("no analysis store is configured"), nil
	}
	rows, err := h.store.ListAnalyses(ctx, h.baseCfg.Owner, request.GetString("project_id", ""), request.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	if rows == nil {
		rows = []schema.AnalysisSummary{}
	}
	return jsonResult(rows)
}

func (h *toolHandler) handleGetAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("no analysis store is configured"), nil
	}
	id := request.GetString("analysis_id", "")
	if id == "" {
		return mcp.NewToolResultError("analysis_id is required"), nil
	}
	a, err := h.store.GetAnalysis(ctx, h.baseCfg.Owner, id)
	if errors.Is(err, schema.ErrAnalysisNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("analysis %s not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(a)
}

// parseWeightsArg accepts an empty string as "no overrides".
func parseWeightsArg(raw string) (schema.WeightOverrides, error) {
	if raw == "" {
		return schema.WeightOverrides{}, nil
	}
	overrides, err := schema.ParseWeightOverrides([]byte(raw))
	if err != nil {
		return schema.WeightOverrides{}, fmt.Errorf("invalid weights: %w", err)
	}
	return overrides, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
