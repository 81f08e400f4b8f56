package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/athletelog/internal/models"
)

// recentWindowDays is the span of athlete://recent_workouts.
const recentWindowDays = 14

func (h *handlers) recentWorkouts(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	today := h.today()
	workouts := filterWorkouts(h.ds.Snapshot().Workouts, today.AddDays(-recentWindowDays), models.Date{}, "")
	return jsonResource(req.Params.URI, workouts)
}

func (h *handlers) biomarkerCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, models.BiomarkerCatalog)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
