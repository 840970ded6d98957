package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/ironlog/internal/stats"
)

func (h *handlers) currentStreak(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	settings, err := h.ds.GetSettings(ctx, uid)
	if err != nil {
		return nil, err
	}
	dates, err := h.ds.SessionDates(ctx, uid)
	if err != nil {
		return nil, err
	}

	return jsonResource(req, stats.Streak(dates, settings.WeeklyTarget, settings.LongestStreak, time.Now()))
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	now := time.Now()
	sessions, err := h.ds.QuerySessions(ctx, now.AddDate(0, 0, -14), now, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return jsonResource(req, sessions)
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.ListExercises(ctx, false)
	if err != nil {
		return nil, err
	}
	return jsonResource(req, exercises)
}

func jsonResource(req mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
