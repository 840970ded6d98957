package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/stats"
)

func (s *Server) handlePRSeries(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(r.URL.Query().Get("exercise"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}

	history, err := s.db.ExerciseHistory(r.Context(), exerciseID, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	series := stats.PRSeries(history, time.Now())

	if atStr := r.URL.Query().Get("at"); atStr != "" {
		at, err := parseDate(atStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid at parameter"})
			return
		}
		point, ok := stats.Nearest(series, at)
		writeJSON(w, http.StatusOK, map[string]any{"point": point, "found": ok})
		return
	}

	writeJSON(w, http.StatusOK, series)
}

// handleOneRepMax returns the estimated one-rep max per session, which can
// differ from the PR ranking since the two use different formulas.
func (s *Server) handleOneRepMax(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(r.URL.Query().Get("exercise"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}

	settings, err := s.db.GetSettings(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	history, err := s.db.ExerciseHistory(r.Context(), exerciseID, settings.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	series := make([]stats.Point, 0, len(history))
	for _, entry := range history {
		if est := stats.OneRepMax(entry.Sets, settings.Filters); est > 0 {
			series = append(series, stats.Point{Date: entry.Date, Value: est})
		}
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	settings, err := s.db.GetSettings(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	target := settings.WeeklyTarget
	if t := r.URL.Query().Get("target"); t != "" {
		target, err = strconv.Atoi(t)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid target parameter"})
			return
		}
	}

	dates, err := s.db.SessionDates(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result := stats.Streak(dates, target, settings.LongestStreak, time.Now())
	if result.Longest > settings.LongestStreak {
		if err := s.db.RatchetLongestStreak(r.Context(), userID, result.Longest); err != nil {
			s.log.Error("ratcheting longest streak", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	settings, err := s.db.GetSettings(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	g := stats.ParseGranularity(r.URL.Query().Get("granularity"))
	window := 30
	if ws := r.URL.Query().Get("window"); ws != "" {
		window, err = strconv.Atoi(ws)
		if err != nil || window <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid window parameter"})
			return
		}
	}

	events, err := s.db.VolumeEvents(r.Context(), userID, settings.Filters)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats.Bucketed(events, g, window, time.Now()))
}

// handleExerciseHistory returns the raw per-session set history for one
// exercise. The MCP remote client consumes this to run the stats engine
// locally.
func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	history, err := s.db.ExerciseHistory(r.Context(), exerciseID, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleSessionDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.db.SessionDates(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func (s *Server) handleVolumeEvents(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	settings, err := s.db.GetSettings(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	events, err := s.db.VolumeEvents(r.Context(), userID, settings.Filters)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
