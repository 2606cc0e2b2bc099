package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"doctrack/backend/progress-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeTaskStore mimics the Mongo repository semantics in memory,
// including the conditional guards on MarkRunning and CommitStop.
type fakeTaskStore struct {
	tasks   map[primitive.ObjectID]*models.Task
	entries []models.WorkLogEntry
}

func newFakeTaskStore(tasks ...*models.Task) *fakeTaskStore {
	store := &fakeTaskStore{tasks: make(map[primitive.ObjectID]*models.Task)}
	for _, task := range tasks {
		store.tasks[task.ID] = task
	}
	return store
}

func (s *fakeTaskStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *task
	return &clone, nil
}

func (s *fakeTaskStore) Find(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, task := range s.tasks {
		if task.Workspace != filter.Workspace {
			continue
		}
		if filter.Project != nil && task.Project != *filter.Project {
			continue
		}
		if filter.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (s *fakeTaskStore) Insert(_ context.Context, task *models.Task) error {
	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *fakeTaskStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.TaskStatus, updatedAt time.Time) (bool, error) {
	task, ok := s.tasks[id]
	if !ok {
		return false, nil
	}
	task.Status = status
	task.UpdatedAt = updatedAt
	return true, nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

func (s *fakeTaskStore) MarkRunning(_ context.Context, id primitive.ObjectID, startAt time.Time, setFirstStarted bool) (bool, error) {
	task, ok := s.tasks[id]
	if !ok || task.IsRunning {
		return false, nil
	}
	at := startAt
	task.ActiveStartAt = &at
	task.IsRunning = true
	if setFirstStarted {
		task.FirstStartedAt = &at
	}
	task.UpdatedAt = startAt
	return true, nil
}

func (s *fakeTaskStore) CommitStop(_ context.Context, commit StopCommit) (bool, error) {
	task, ok := s.tasks[commit.TaskID]
	if !ok || !task.IsRunning || task.ActiveStartAt == nil || !task.ActiveStartAt.Equal(commit.ActiveStartAt) {
		return false, nil
	}
	s.entries = append(s.entries, commit.Entry)
	task.IsRunning = false
	task.ActiveStartAt = nil
	stoppedAt := commit.StoppedAt
	task.LastStoppedAt = &stoppedAt
	task.TotalSecondsSpent = commit.TotalSecondsSpent
	task.TotalMinutesSpent = commit.TotalMinutesSpent
	if commit.PagesCompleted != nil {
		task.PagesCompleted = commit.PagesCompleted
	}
	if commit.Remarks != nil {
		task.Remarks = *commit.Remarks
	}
	task.UpdatedAt = commit.StoppedAt
	return true, nil
}

func newTestTask(workspace primitive.ObjectID) *models.Task {
	return &models.Task{
		ID:        primitive.NewObjectID(),
		TaskCode:  "task-1a2b3c4d",
		Title:     "Keying chapter 3",
		Project:   primitive.NewObjectID(),
		Workspace: workspace,
		Status:    models.StatusInProgress,
		Priority:  models.PriorityMedium,
	}
}

func checkTimerInvariant(t *testing.T, task *models.Task) {
	t.Helper()
	if task.IsRunning != (task.ActiveStartAt != nil) {
		t.Fatalf("invariant broken: isRunning=%v, activeStartAt=%v", task.IsRunning, task.ActiveStartAt)
	}
	if task.TotalMinutesSpent != task.TotalSecondsSpent/60 {
		t.Fatalf("totalMinutesSpent=%d, want floor(%d/60)=%d", task.TotalMinutesSpent, task.TotalSecondsSpent, task.TotalSecondsSpent/60)
	}
}

func timerAt(store *fakeTaskStore, now time.Time) *TimerService {
	svc := NewTimerService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func TestStart_SetsTimerFields(t *testing.T) {
	task := newTestTask(primitive.NewObjectID())
	store := newFakeTaskStore(task)
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	actor := primitive.NewObjectID()

	snap, err := timerAt(store, t0).Start(context.Background(), task.ID, actor)
	if err != nil {
		t.Fatalf("Start() err=%v, want nil", err)
	}

	if !snap.IsRunning {
		t.Fatalf("snapshot.IsRunning=false, want true")
	}
	if snap.ActiveStartAt == nil || !snap.ActiveStartAt.Equal(t0) {
		t.Fatalf("snapshot.ActiveStartAt=%v, want %v", snap.ActiveStartAt, t0)
	}
	if snap.FirstStartedAt == nil || !snap.FirstStartedAt.Equal(t0) {
		t.Fatalf("snapshot.FirstStartedAt=%v, want %v", snap.FirstStartedAt, t0)
	}
	if snap.ElapsedSeconds != 0 {
		t.Fatalf("snapshot.ElapsedSeconds=%d, want 0", snap.ElapsedSeconds)
	}
	checkTimerInvariant(t, store.tasks[task.ID])
}

func TestStart_DoesNotOverwriteFirstStartedAt(t *testing.T) {
	first := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	task := newTestTask(primitive.NewObjectID())
	task.FirstStartedAt = &first
	store := newFakeTaskStore(task)
	t0 := first.Add(24 * time.Hour)

	snap, err := timerAt(store, t0).Start(context.Background(), task.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Start() err=%v, want nil", err)
	}
	if snap.FirstStartedAt == nil || !snap.FirstStartedAt.Equal(first) {
		t.Fatalf("FirstStartedAt=%v, want original %v", snap.FirstStartedAt, first)
	}
}

func TestStart_AlreadyRunning_Conflict(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	task := newTestTask(primitive.NewObjectID())
	task.IsRunning = true
	task.ActiveStartAt = &t0
	store := newFakeTaskStore(task)
	before := *store.tasks[task.ID]

	_, err := timerAt(store, t0.Add(time.Minute)).Start(context.Background(), task.ID, primitive.NewObjectID())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Start() err=%v, want ErrConflict", err)
	}

	after := *store.tasks[task.ID]
	if before != after {
		t.Fatalf("task mutated by failed start: before=%+v after=%+v", before, after)
	}
}

func TestStart_TaskMissing_NotFound(t *testing.T) {
	store := newFakeTaskStore()

	_, err := timerAt(store, time.Now()).Start(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Start() err=%v, want ErrNotFound", err)
	}
}

func TestStop_NotRunning_Conflict(t *testing.T) {
	task := newTestTask(primitive.NewObjectID())
	store := newFakeTaskStore(task)
	before := *store.tasks[task.ID]

	_, err := timerAt(store, time.Now()).Stop(context.Background(), task.ID, primitive.NewObjectID(), nil, nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Stop() err=%v, want ErrConflict", err)
	}

	after := *store.tasks[task.ID]
	if before != after {
		t.Fatalf("task mutated by failed stop: before=%+v after=%+v", before, after)
	}
	if len(store.entries) != 0 {
		t.Fatalf("work log entries = %d, want 0", len(store.entries))
	}
}

func TestStop_RecordsSessionAndAccumulators(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	task := newTestTask(primitive.NewObjectID())
	task.IsRunning = true
	task.ActiveStartAt = &t0
	store := newFakeTaskStore(task)
	actor := primitive.NewObjectID()
	pages := 3
	remarks := "finished chapter intro"

	snap, err := timerAt(store, t0.Add(125*time.Second)).Stop(context.Background(), task.ID, actor, &pages, &remarks)
	if err != nil {
		t.Fatalf("Stop() err=%v, want nil", err)
	}

	if snap.IsRunning {
		t.Fatalf("snapshot.IsRunning=true, want false")
	}
	if snap.TotalSecondsSpent != 125 {
		t.Fatalf("TotalSecondsSpent=%d, want 125", snap.TotalSecondsSpent)
	}
	if snap.TotalMinutesSpent != 2 {
		t.Fatalf("TotalMinutesSpent=%d, want 2", snap.TotalMinutesSpent)
	}
	if snap.PagesCompleted == nil || *snap.PagesCompleted != 3 {
		t.Fatalf("PagesCompleted=%v, want 3", snap.PagesCompleted)
	}
	if snap.Remarks != remarks {
		t.Fatalf("Remarks=%q, want %q", snap.Remarks, remarks)
	}

	if len(store.entries) != 1 {
		t.Fatalf("work log entries = %d, want 1", len(store.entries))
	}
	entry := store.entries[0]
	if !entry.StartedAt.Equal(t0) {
		t.Fatalf("entry.StartedAt=%v, want %v", entry.StartedAt, t0)
	}
	if !entry.StoppedAt.Equal(t0.Add(125 * time.Second)) {
		t.Fatalf("entry.StoppedAt=%v, want %v", entry.StoppedAt, t0.Add(125*time.Second))
	}
	if entry.DurationMinutes != 2 {
		t.Fatalf("entry.DurationMinutes=%d, want round(125/60)=2", entry.DurationMinutes)
	}
	if entry.UserID != actor {
		t.Fatalf("entry.UserID=%v, want %v", entry.UserID, actor)
	}
	checkTimerInvariant(t, store.tasks[task.ID])
}

func TestStop_ShortSessionGetsMinimumOneMinute(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	task := newTestTask(primitive.NewObjectID())
	task.IsRunning = true
	task.ActiveStartAt = &t0
	store := newFakeTaskStore(task)

	snap, err := timerAt(store, t0.Add(10*time.Second)).Stop(context.Background(), task.ID, primitive.NewObjectID(), nil, nil)
	if err != nil {
		t.Fatalf("Stop() err=%v, want nil", err)
	}

	if store.entries[0].DurationMinutes != 1 {
		t.Fatalf("entry.DurationMinutes=%d, want minimum 1", store.entries[0].DurationMinutes)
	}
	// The task accumulators stay on authoritative seconds: 10s is 0 whole
	// minutes even though the persisted log row is floored up to 1.
	if snap.TotalSecondsSpent != 10 || snap.TotalMinutesSpent != 0 {
		t.Fatalf("totals = %ds/%dm, want 10s/0m", snap.TotalSecondsSpent, snap.TotalMinutesSpent)
	}
}

func TestStop_ClockSkewClampsToZero(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	task := newTestTask(primitive.NewObjectID())
	task.IsRunning = true
	task.ActiveStartAt = &t0
	store := newFakeTaskStore(task)

	snap, err := timerAt(store, t0.Add(-30*time.Second)).Stop(context.Background(), task.ID, primitive.NewObjectID(), nil, nil)
	if err != nil {
		t.Fatalf("Stop() err=%v, want nil", err)
	}
	if snap.TotalSecondsSpent != 0 {
		t.Fatalf("TotalSecondsSpent=%d, want 0", snap.TotalSecondsSpent)
	}
	if store.entries[0].DurationMinutes != 1 {
		t.Fatalf("entry.DurationMinutes=%d, want 1", store.entries[0].DurationMinutes)
	}
}

func TestStop_NegativePages_InvalidInput(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	task := newTestTask(primitive.NewObjectID())
	task.IsRunning = true
	task.ActiveStartAt = &t0
	store := newFakeTaskStore(task)
	pages := -1

	_, err := timerAt(store, t0.Add(time.Minute)).Stop(context.Background(), task.ID, primitive.NewObjectID(), &pages, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Stop() err=%v, want ErrInvalidInput", err)
	}
	if len(store.entries) != 0 {
		t.Fatalf("work log entries = %d, want 0", len(store.entries))
	}
	if !store.tasks[task.ID].IsRunning {
		t.Fatalf("task stopped despite invalid input")
	}
}

func TestStartStopSequence_AccumulatesAcrossSessions(t *testing.T) {
	task := newTestTask(primitive.NewObjectID())
	store := newFakeTaskStore(task)
	actor := primitive.NewObjectID()
	svc := NewTimerService(store)

	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	durations := []time.Duration{60 * time.Second, 125 * time.Second, 30 * time.Second}
	for _, d := range durations {
		if _, err := svc.Start(context.Background(), task.ID, actor); err != nil {
			t.Fatalf("Start() err=%v, want nil", err)
		}
		clock = clock.Add(d)
		if _, err := svc.Stop(context.Background(), task.ID, actor, nil, nil); err != nil {
			t.Fatalf("Stop() err=%v, want nil", err)
		}
		clock = clock.Add(5 * time.Minute)
		checkTimerInvariant(t, store.tasks[task.ID])
	}

	stored := store.tasks[task.ID]
	if stored.TotalSecondsSpent != 215 {
		t.Fatalf("TotalSecondsSpent=%d, want 60+125+30=215", stored.TotalSecondsSpent)
	}
	if stored.TotalMinutesSpent != 3 {
		t.Fatalf("TotalMinutesSpent=%d, want floor(215/60)=3", stored.TotalMinutesSpent)
	}
	if len(store.entries) != len(durations) {
		t.Fatalf("work log entries = %d, want %d", len(store.entries), len(durations))
	}
	if stored.FirstStartedAt == nil || !stored.FirstStartedAt.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("FirstStartedAt=%v, want first session start", stored.FirstStartedAt)
	}
}

func TestSnapshot_LiveElapsedIsDerived(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	task := newTestTask(primitive.NewObjectID())
	task.IsRunning = true
	task.ActiveStartAt = &t0
	store := newFakeTaskStore(task)

	snap, err := timerAt(store, t0.Add(42*time.Second)).Snapshot(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("Snapshot() err=%v, want nil", err)
	}
	if snap.ElapsedSeconds != 42 {
		t.Fatalf("ElapsedSeconds=%d, want 42", snap.ElapsedSeconds)
	}
}
