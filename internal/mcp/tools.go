package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/ironlog/internal/journal"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/stats"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// resolveExercise accepts either an exercise UUID or a name (case-insensitive
// partial match) and returns the catalog entry.
func (h *handlers) resolveExercise(ctx context.Context, ref string) (models.ExerciseDefinition, bool, error) {
	exercises, err := h.ds.ListExercises(ctx, true)
	if err != nil {
		return models.ExerciseDefinition{}, false, err
	}

	if id, err := uuid.Parse(ref); err == nil {
		for _, ex := range exercises {
			if ex.ID == id {
				return ex, true, nil
			}
		}
		return models.ExerciseDefinition{}, false, nil
	}

	needle := strings.ToLower(ref)
	for _, ex := range exercises {
		if strings.Contains(strings.ToLower(ex.Name), needle) {
			return ex, true, nil
		}
	}
	return models.ExerciseDefinition{}, false, nil
}

// --- Tool definitions ---

var toolGetPRSeries = mcp.NewTool("get_pr_series",
	mcp.WithDescription("Personal-record progression for one exercise. Returns a monotonically non-decreasing series of the best-effort score (max weight/reps²) over time."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match, e.g. 'bench press') or UUID")),
	mcp.WithString("at", mcp.Description("Optional date (ISO 8601 or YYYY-MM-DD); returns the series point nearest to it instead of the full series")),
)

var toolGetOneRepMax = mcp.NewTool("get_one_rep_max",
	mcp.WithDescription("Estimated one-rep max per session for one exercise, using the Epley formula (weight × (1 + reps/30)) over the sets passing the user's filters."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match) or UUID")),
)

var toolGetStreak = mcp.NewTool("get_streak",
	mcp.WithDescription("Current and longest consecutive-week training streaks. A week counts when it has at least the target number of sessions."),
	mcp.WithNumber("target", mcp.Description("Sessions per week required. Defaults to the user's configured weekly target.")),
)

var toolGetVolumeSeries = mcp.NewTool("get_volume_series",
	mcp.WithDescription("Training volume (sum of reps × weight) bucketed by calendar period. Empty periods are zero-filled."),
	mcp.WithString("granularity", mcp.Description("Bucket width. Defaults to day."), mcp.Enum("day", "week", "month")),
	mcp.WithNumber("window", mcp.Description("Number of periods, ending at the current one. Defaults to 30.")),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("Query workout sessions in a time range, including per-exercise set logs."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetExerciseTotals = mcp.NewTool("get_exercise_totals",
	mcp.WithDescription("Per-exercise volume totals (reps, weight volume, time, distance) over a time range, using the user's set-type filters."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match)")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog with muscle group and measurement kind."),
)

// --- Tool handlers ---

func (h *handlers) getPRSeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	ex, found, err := h.resolveExercise(ctx, ref)
	if err != nil {
		h.log.Error("mcp get_pr_series", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if !found {
		return mcp.NewToolResultError("no exercise matches " + ref), nil
	}

	uid := UserIDFromContext(ctx)
	history, err := h.ds.ExerciseHistory(ctx, ex.ID, uid)
	if err != nil {
		h.log.Error("mcp get_pr_series", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	series := stats.PRSeries(history, time.Now())

	if atStr := req.GetString("at", ""); atStr != "" {
		at, err := parseFlexTime(atStr)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		point, ok := stats.Nearest(series, at)
		result, err := mcp.NewToolResultJSON(map[string]any{"exercise": ex.Name, "point": point, "found": ok})
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"exercise": ex.Name, "series": series})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getOneRepMax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	ex, found, err := h.resolveExercise(ctx, ref)
	if err != nil {
		h.log.Error("mcp get_one_rep_max", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if !found {
		return mcp.NewToolResultError("no exercise matches " + ref), nil
	}

	uid := UserIDFromContext(ctx)
	settings, err := h.ds.GetSettings(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_one_rep_max", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	history, err := h.ds.ExerciseHistory(ctx, ex.ID, uid)
	if err != nil {
		h.log.Error("mcp get_one_rep_max", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	series := make([]stats.Point, 0, len(history))
	for _, entry := range history {
		if est := stats.OneRepMax(entry.Sets, settings.Filters); est > 0 {
			series = append(series, stats.Point{Date: entry.Date, Value: est})
		}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"exercise": ex.Name, "series": series})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStreak(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	settings, err := h.ds.GetSettings(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_streak", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	target := req.GetInt("target", settings.WeeklyTarget)

	dates, err := h.ds.SessionDates(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_streak", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats.Streak(dates, target, settings.LongestStreak, time.Now()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeSeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	settings, err := h.ds.GetSettings(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_volume_series", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	g := stats.ParseGranularity(req.GetString("granularity", "day"))
	window := req.GetInt("window", 30)

	events, err := h.ds.VolumeEvents(ctx, uid, settings.Filters)
	if err != nil {
		h.log.Error("mcp get_volume_series", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats.Bucketed(events, g, window, time.Now()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.ds.QuerySessions(ctx, start, end, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseTotals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	settings, err := h.ds.GetSettings(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_exercise_totals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	exercises, err := h.ds.ListExercises(ctx, true)
	if err != nil {
		h.log.Error("mcp get_exercise_totals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	sessions, err := h.ds.QuerySessions(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_exercise_totals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	names := make(map[uuid.UUID]string, len(exercises))
	for _, ex := range exercises {
		names[ex.ID] = ex.Name
	}

	filter := strings.ToLower(req.GetString("exercise", ""))
	totals := make(map[uuid.UUID]journal.Totals)
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			if filter != "" && !strings.Contains(strings.ToLower(names[ex.ExerciseID]), filter) {
				continue
			}
			t := totals[ex.ExerciseID]
			agg := journal.Aggregate(ex.Sets, settings.Filters)
			t.Reps += agg.Reps
			t.Weight += agg.Weight
			t.Seconds += agg.Seconds
			t.Meters += agg.Meters
			totals[ex.ExerciseID] = t
		}
	}

	type exerciseTotal struct {
		Exercise string         `json:"exercise"`
		Totals   journal.Totals `json:"totals"`
	}
	out := make([]exerciseTotal, 0, len(totals))
	for id, t := range totals {
		name := names[id]
		if name == "" {
			name = id.String()
		}
		out = append(out, exerciseTotal{Exercise: name, Totals: t})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx, false)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
