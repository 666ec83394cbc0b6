package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/strengthlog-mcp/internal/strengthlog"
)

const recentWorkoutDays = 30

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if err := h.ensureLogin(ctx); err != nil {
		return nil, err
	}

	since := strengthlog.Since(recentWorkoutDays)
	workouts, err := h.ds.GetWorkouts(ctx, &since, defaultWorkoutLimit)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     renderWorkouts(workouts),
		},
	}, nil
}

func (h *handlers) exerciseLibrary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if err := h.ensureLogin(ctx); err != nil {
		return nil, err
	}

	exercises, err := h.ds.GetExercises(ctx)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     renderExercises(exercises),
		},
	}, nil
}
