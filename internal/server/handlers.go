package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/journal"
	"github.com/meltforce/ironlog/internal/models"
)

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var ex models.ExerciseDefinition
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if ex.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}
	if ex.Measurement == "" {
		ex.Measurement = models.MeasureWeight
	}
	if ex.MuscleGroup == "" {
		ex.MuscleGroup = models.MuscleOther
	}

	inserted, err := s.db.InsertExercise(r.Context(), ex)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !inserted {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "exercise already exists"})
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleHideExercise(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	if err := s.db.HideExercise(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "hidden"})
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	includeHidden := r.URL.Query().Get("include_hidden") == "true"
	exercises, err := s.db.ListExercises(r.Context(), includeHidden)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.WorkoutTemplate
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if t.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Plans {
		if t.Plans[i].ID == uuid.Nil {
			t.Plans[i].ID = uuid.New()
		}
		t.Plans[i].TemplateID = t.ID
		t.Plans[i].Position = i
	}

	if err := s.db.InsertTemplate(r.Context(), &t); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid template ID"})
		return
	}
	if err := s.db.DeleteTemplate(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.db.ListTemplates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid template ID"})
		return
	}
	t, err := s.db.GetTemplate(r.Context(), id)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetSettings(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	settings.UserID = userIDFromContext(r)
	if err := s.db.SaveSettings(r.Context(), settings); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// Re-read so the response reflects the longest-streak ratchet.
	saved, err := s.db.GetSettings(r.Context(), settings.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID uuid.UUID `json:"template_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.TemplateID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "template_id required"})
		return
	}

	template, err := s.db.GetTemplate(r.Context(), req.TemplateID)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	session, err := s.svc.Create(r.Context(), template, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	s.sessionCommand(w, r, s.svc.StartSession)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	s.sessionCommand(w, r, s.svc.CompleteSession)
}

func (s *Server) handleReleaseSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	s.svc.Release(id)
	s.rest.Stop(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "released"})
}

func (s *Server) handleFinishSet(w http.ResponseWriter, r *http.Request) {
	id, logID, setIndex, ok := parseSetPath(w, r)
	if !ok {
		return
	}
	var res models.SetResult
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	session, err := s.svc.FinishSet(r.Context(), id, logID, setIndex, res)
	s.writeSessionResult(w, session, err)
}

func (s *Server) handleSkipSet(w http.ResponseWriter, r *http.Request) {
	s.setCommand(w, r, s.svc.SkipSet)
}

func (s *Server) handleUnfinishSet(w http.ResponseWriter, r *http.Request) {
	s.setCommand(w, r, s.svc.UnfinishSet)
}

func (s *Server) handleUnskipSet(w http.ResponseWriter, r *http.Request) {
	s.setCommand(w, r, s.svc.UnskipSet)
}

// sessionView wraps a session with the derived values the client renders.
type sessionView struct {
	*models.Session
	Progress     float64              `json:"progress"`
	Length       float64              `json:"length_seconds"`
	MuscleGroups []models.MuscleGroup `json:"muscle_groups"`
	Totals       []exerciseTotals     `json:"totals"`
	Live         bool                 `json:"live"`
}

type exerciseTotals struct {
	ExerciseLogID uuid.UUID      `json:"exercise_log_id"`
	ExerciseID    uuid.UUID      `json:"exercise_id"`
	Totals        journal.Totals `json:"totals"`
	Finished      bool           `json:"finished"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	session, err := s.db.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	view, err := s.buildSessionView(r, session)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) buildSessionView(r *http.Request, session *models.Session) (*sessionView, error) {
	settings, err := s.db.GetSettings(r.Context(), session.UserID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.db.ExerciseCatalog(r.Context())
	if err != nil {
		return nil, err
	}

	totals := make([]exerciseTotals, 0, len(session.Exercises))
	for _, ex := range session.Exercises {
		totals = append(totals, exerciseTotals{
			ExerciseLogID: ex.ID,
			ExerciseID:    ex.ExerciseID,
			Totals:        journal.Aggregate(ex.Sets, settings.Filters),
			Finished:      journal.ExerciseFinished(ex.Sets),
		})
	}

	return &sessionView{
		Session:      session,
		Progress:     journal.Progress(session),
		Length:       journal.Length(session, time.Now()).Seconds(),
		MuscleGroups: journal.MuscleGroups(session, catalog),
		Totals:       totals,
		Live:         s.svc.IsLive(session.ID),
	}, nil
}

func (s *Server) handleQuerySessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sessions, err := s.db.QuerySessions(r.Context(), start, end, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleRestTimer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	remaining, active := s.rest.Remaining(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"active":            active,
		"remaining_seconds": remaining.Seconds(),
	})
}

// handleImportSession accepts a finished session from an external tool and
// stores it verbatim as history. Live lifecycle rules do not apply.
func (s *Server) handleImportSession(w http.ResponseWriter, r *http.Request) {
	var session models.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !session.Completed || session.End == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "imported sessions must be completed with an end time"})
		return
	}

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.UserID = userIDFromContext(r)
	session.Started = true
	for i := range session.Exercises {
		ex := &session.Exercises[i]
		if ex.ID == uuid.Nil {
			ex.ID = uuid.New()
		}
		ex.SessionID = session.ID
	}

	if err := s.db.InsertSession(r.Context(), &session); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.log.Info("session imported", "session", session.ID, "start", session.Start)
	writeJSON(w, http.StatusCreated, map[string]any{"id": session.ID})
}

func (s *Server) sessionCommand(w http.ResponseWriter, r *http.Request, cmd func(ctx context.Context, id uuid.UUID) (*models.Session, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	session, err := cmd(r.Context(), id)
	s.writeSessionResult(w, session, err)
}

func (s *Server) setCommand(w http.ResponseWriter, r *http.Request, cmd func(ctx context.Context, id, logID uuid.UUID, setIndex int) (*models.Session, error)) {
	id, logID, setIndex, ok := parseSetPath(w, r)
	if !ok {
		return
	}
	session, err := cmd(r.Context(), id, logID, setIndex)
	s.writeSessionResult(w, session, err)
}

// writeSessionResult maps the service's outcome onto a response. A save
// failure still carries the mutated session; the client keeps working and
// the error is surfaced alongside it.
func (s *Server) writeSessionResult(w http.ResponseWriter, session *models.Session, err error) {
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		if session != nil {
			writeJSON(w, http.StatusOK, map[string]any{"session": session, "warning": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func parseSetPath(w http.ResponseWriter, r *http.Request) (sessionID, logID uuid.UUID, setIndex int, ok bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return uuid.Nil, uuid.Nil, 0, false
	}
	logID, err = uuid.Parse(chi.URLParam(r, "log"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise log ID"})
		return uuid.Nil, uuid.Nil, 0, false
	}
	setIndex, err = strconv.Atoi(chi.URLParam(r, "set"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return uuid.Nil, uuid.Nil, 0, false
	}
	return sessionID, logID, setIndex, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
