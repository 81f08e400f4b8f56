// Package mcp exposes the training history to MCP clients over stdio.
package mcp

import (
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/athletelog/internal/models"
)

// New creates an MCP server with all tools and resources registered. today
// is the reference day for streaks and default ranges.
func New(ds DataSource, version string, today func() models.Date, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("athletelog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("athletelog training log. Query the athlete's profile, strength workouts, personal records, training volume and biomarkers."),
	)

	if today == nil {
		today = models.Today
	}
	h := &handlers{ds: ds, today: today, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetProfile, Handler: h.getProfile},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetTrainingStreak, Handler: h.getTrainingStreak},
		server.ServerTool{Tool: toolGetVolumeSeries, Handler: h.getVolumeSeries},
		server.ServerTool{Tool: toolGetTopExercises, Handler: h.getTopExercises},
		server.ServerTool{Tool: toolGetBiomarkers, Handler: h.getBiomarkers},
		server.ServerTool{Tool: toolEstimateOneRepMax, Handler: h.estimateOneRepMax},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resBiomarkerCatalog, Handler: h.biomarkerCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds    DataSource
	today func() models.Date
	log   *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"athlete://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts from the last 14 days, newest first"),
	mcp.WithMIMEType("application/json"),
)

var resBiomarkerCatalog = mcp.NewResource(
	"athlete://biomarker_catalog",
	"Biomarker Catalog",
	mcp.WithResourceDescription("Known biomarkers grouped by category, with units and descriptions"),
	mcp.WithMIMEType("application/json"),
)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
