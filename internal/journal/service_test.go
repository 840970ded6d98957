package journal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// stubStore keeps sessions in a map and can be told to fail saves.
type stubStore struct {
	sessions map[uuid.UUID]*models.Session
	saveErr  error
	saves    int
}

func newStubStore() *stubStore {
	return &stubStore{sessions: make(map[uuid.UUID]*models.Session)}
}

func (st *stubStore) GetSession(_ context.Context, id uuid.UUID) (*models.Session, error) {
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *stubStore) InsertSession(_ context.Context, s *models.Session) error {
	st.sessions[s.ID] = s
	return nil
}

func (st *stubStore) SaveSession(_ context.Context, s *models.Session) error {
	st.saves++
	if st.saveErr != nil {
		return st.saveErr
	}
	st.sessions[s.ID] = s
	return nil
}

func testService(t *testing.T) (*Service, *stubStore) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := newStubStore()
	return NewService(st, log), st
}

func testTemplate() *models.WorkoutTemplate {
	return &models.WorkoutTemplate{
		ID: uuid.New(),
		Plans: []models.ExercisePlan{{
			ID:          uuid.New(),
			ExerciseID:  uuid.New(),
			Position:    1,
			RestSeconds: 120,
			Sets: []models.PlannedSet{
				{Index: 1, Type: models.SetMain, Weight: &models.WeightTarget{Reps: 5, Weight: 100}},
				{Index: 2, Type: models.SetMain, Weight: &models.WeightTarget{Reps: 5, Weight: 100}},
			},
		}},
	}
}

func TestServiceFinishSetEmitsEvent(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, testTemplate(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartSession(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	exID := s.Exercises[0].ID
	if _, err := svc.FinishSet(ctx, s.ID, exID, 1, models.SetResult{Weight: &models.WeightResult{Reps: 5, Weight: 100}}); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-svc.Events():
		if ev.Kind != EventFinished {
			t.Errorf("event kind = %q, want finished", ev.Kind)
		}
		if ev.RestSeconds != 120 {
			t.Errorf("event rest = %d, want 120", ev.RestSeconds)
		}
	case <-time.After(time.Second):
		t.Fatal("no event emitted")
	}
}

func TestServiceAutoFinishesSession(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, testTemplate(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartSession(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	exID := s.Exercises[0].ID
	res := models.SetResult{Weight: &models.WeightResult{Reps: 5, Weight: 100}}
	if _, err := svc.FinishSet(ctx, s.ID, exID, 1, res); err != nil {
		t.Fatal(err)
	}
	got, err := svc.SkipSet(ctx, s.ID, exID, 2)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Completed || got.End == nil {
		t.Errorf("session should auto-complete when the last set is terminal: completed=%v end=%v", got.Completed, got.End)
	}
}

func TestServiceSaveFailureKeepsState(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, testTemplate(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartSession(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	st.saveErr = errors.New("disk full")
	exID := s.Exercises[0].ID
	got, err := svc.FinishSet(ctx, s.ID, exID, 1, models.SetResult{Weight: &models.WeightResult{Reps: 5, Weight: 100}})
	if err == nil {
		t.Fatal("expected save error")
	}
	// The mutation is not rolled back: the set stays completed in memory and
	// the command is retryable.
	if got == nil || got.Exercises[0].Sets[0].Status != models.SetCompleted {
		t.Error("in-memory mutation was lost on save failure")
	}
}

func TestServiceCompletedSessionIsImmutable(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, testTemplate(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartSession(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteSession(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	end := *s.End

	savesBefore := st.saves
	got, err := svc.FinishSet(ctx, s.ID, s.Exercises[0].ID, 1, models.SetResult{Weight: &models.WeightResult{Reps: 5, Weight: 100}})
	if err != nil {
		t.Fatal(err)
	}
	if got.Exercises[0].Sets[0].Status != models.SetPending {
		t.Error("completed session accepted a set mutation")
	}
	if !got.End.Equal(end) {
		t.Error("end timestamp changed on a completed session")
	}
	if st.saves != savesBefore {
		t.Error("no-op command should not save")
	}
}

func TestServiceOpenUnknownSession(t *testing.T) {
	svc, _ := testService(t)
	if _, err := svc.Open(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestServiceConcurrentFinishes drives many simultaneous set commands at one
// session. Requests arrive on separate goroutines, so the service must
// serialize mutations itself; every set must end up completed exactly as if
// the commands had arrived one at a time.
func TestServiceConcurrentFinishes(t *testing.T) {
	const sets = 40

	template := &models.WorkoutTemplate{
		ID: uuid.New(),
		Plans: []models.ExercisePlan{{
			ID:         uuid.New(),
			ExerciseID: uuid.New(),
		}},
	}
	for i := 1; i <= sets; i++ {
		template.Plans[0].Sets = append(template.Plans[0].Sets, models.PlannedSet{
			Index:  i,
			Type:   models.SetMain,
			Weight: &models.WeightTarget{Reps: 5, Weight: 100},
		})
	}

	svc, st := testService(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, template, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartSession(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	exID := s.Exercises[0].ID
	res := models.SetResult{Weight: &models.WeightResult{Reps: 5, Weight: 100}}

	var wg sync.WaitGroup
	for i := 1; i <= sets; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			if _, err := svc.FinishSet(ctx, s.ID, exID, index, res); err != nil {
				t.Errorf("finishing set %d: %v", index, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := svc.Open(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, set := range got.Exercises[0].Sets {
		if set.Status != models.SetCompleted {
			t.Errorf("set %d status = %q, want completed", set.Index, set.Status)
		}
	}
	if !got.Completed || got.End == nil {
		t.Errorf("session should auto-complete: completed=%v end=%v", got.Completed, got.End)
	}

	// Start plus one save per finished set — no command was lost or doubled.
	if st.saves != sets+1 {
		t.Errorf("saves = %d, want %d", st.saves, sets+1)
	}
}
