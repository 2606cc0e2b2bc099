package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"doctrack/backend/progress-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TimerService owns the task timer state machine. A task is either
// STOPPED or RUNNING; start and stop are the only transitions and both
// are serialized per task through conditional updates in the store, so a
// lost race surfaces as ErrConflict instead of corrupting the
// accumulators.
type TimerService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewTimerService(tasks TaskStore) *TimerService {
	return &TimerService{tasks: tasks, now: time.Now}
}

// Start begins a new session on the task. Fails with ErrConflict if a
// session is already running; the task is left untouched in that case.
func (s *TimerService) Start(ctx context.Context, taskID, actorID primitive.ObjectID) (*models.TimerSnapshot, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
		}
		return nil, fmt.Errorf("failed to load task: %v", err)
	}
	if task.IsRunning {
		return nil, fmt.Errorf("%w: timer already running", ErrConflict)
	}

	now := s.now()
	ok, err := s.tasks.MarkRunning(ctx, task.ID, now, task.FirstStartedAt == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start timer: %v", err)
	}
	if !ok {
		// Someone else started it between our read and the update.
		return nil, fmt.Errorf("%w: timer already running", ErrConflict)
	}

	task.IsRunning = true
	task.ActiveStartAt = &now
	if task.FirstStartedAt == nil {
		task.FirstStartedAt = &now
	}
	task.UpdatedAt = now

	return snapshotAt(task, now), nil
}

// Stop closes the running session: it appends a work-log entry and rolls
// the session duration into the task accumulators as one atomic unit.
// pagesCompleted and remarks overwrite the task's previous values when
// supplied and leave them unchanged when nil.
func (s *TimerService) Stop(ctx context.Context, taskID, actorID primitive.ObjectID, pagesCompleted *int, remarks *string) (*models.TimerSnapshot, error) {
	if pagesCompleted != nil && *pagesCompleted < 0 {
		return nil, fmt.Errorf("%w: pagesCompleted must not be negative", ErrInvalidInput)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
		}
		return nil, fmt.Errorf("failed to load task: %v", err)
	}
	if !task.IsRunning || task.ActiveStartAt == nil {
		return nil, fmt.Errorf("%w: timer not running", ErrConflict)
	}

	now := s.now()
	startedAt := *task.ActiveStartAt

	// Whole seconds, floored; clock skew that yields a negative duration
	// is treated as a zero-length session rather than an error.
	durationSeconds := int64(now.Sub(startedAt).Seconds())
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	durationMinutes := int64(math.Round(float64(durationSeconds) / 60.0))
	if durationMinutes < 1 {
		durationMinutes = 1
	}

	totalSeconds := task.TotalSecondsSpent + durationSeconds
	totalMinutes := totalSeconds / 60

	entry := models.WorkLogEntry{
		TaskID:          task.ID,
		UserID:          actorID,
		StartedAt:       startedAt,
		StoppedAt:       now,
		DurationMinutes: durationMinutes,
		PagesCompleted:  pagesCompleted,
		CreatedAt:       now,
	}
	if remarks != nil {
		entry.Remarks = *remarks
	}

	ok, err := s.tasks.CommitStop(ctx, StopCommit{
		TaskID:            task.ID,
		ActiveStartAt:     startedAt,
		StoppedAt:         now,
		TotalSecondsSpent: totalSeconds,
		TotalMinutesSpent: totalMinutes,
		PagesCompleted:    pagesCompleted,
		Remarks:           remarks,
		Entry:             entry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stop timer: %v", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: timer not running", ErrConflict)
	}

	task.IsRunning = false
	task.ActiveStartAt = nil
	task.LastStoppedAt = &now
	task.TotalSecondsSpent = totalSeconds
	task.TotalMinutesSpent = totalMinutes
	if pagesCompleted != nil {
		task.PagesCompleted = pagesCompleted
	}
	if remarks != nil {
		task.Remarks = *remarks
	}
	task.UpdatedAt = now

	return snapshotAt(task, now), nil
}

// Snapshot returns the current timer state of the task, including the
// live elapsed seconds of a running session. Elapsed time is always
// derived as now minus activeStartAt; nothing ticks in the background.
func (s *TimerService) Snapshot(ctx context.Context, taskID primitive.ObjectID) (*models.TimerSnapshot, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
		}
		return nil, fmt.Errorf("failed to load task: %v", err)
	}
	return snapshotAt(task, s.now()), nil
}

func snapshotAt(task *models.Task, now time.Time) *models.TimerSnapshot {
	snap := &models.TimerSnapshot{
		TaskID:            task.ID,
		TaskCode:          task.TaskCode,
		IsRunning:         task.IsRunning,
		FirstStartedAt:    task.FirstStartedAt,
		ActiveStartAt:     task.ActiveStartAt,
		LastStoppedAt:     task.LastStoppedAt,
		TotalSecondsSpent: task.TotalSecondsSpent,
		TotalMinutesSpent: task.TotalMinutesSpent,
		PagesCompleted:    task.PagesCompleted,
		Remarks:           task.Remarks,
	}
	if task.IsRunning && task.ActiveStartAt != nil {
		elapsed := int64(now.Sub(*task.ActiveStartAt).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
		snap.ElapsedSeconds = elapsed
	}
	return snap
}
