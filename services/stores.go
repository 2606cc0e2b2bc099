package services

import (
	"context"
	"time"

	"doctrack/backend/progress-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore is the persistence contract the timer engine and the task
// service run against. Lookups report a missing task with
// mongo.ErrNoDocuments, which the services translate to ErrNotFound.
type TaskStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Find(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Insert(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus, updatedAt time.Time) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)

	// MarkRunning flips the task to RUNNING, guarded by an
	// isRunning == false filter so a racing start matches nothing. It
	// returns false when the task was already running (or gone).
	MarkRunning(ctx context.Context, id primitive.ObjectID, startAt time.Time, setFirstStarted bool) (bool, error)

	// CommitStop applies the stop compound effect as one atomic unit:
	// append the work-log entry and update the task accumulators, both or
	// neither. The update is guarded by the expected activeStartAt so a
	// concurrent stop matches nothing and returns false.
	CommitStop(ctx context.Context, commit StopCommit) (bool, error)
}

// StopCommit carries everything CommitStop needs, precomputed by the
// timer engine.
type StopCommit struct {
	TaskID            primitive.ObjectID
	ActiveStartAt     time.Time
	StoppedAt         time.Time
	TotalSecondsSpent int64
	TotalMinutesSpent int64
	PagesCompleted    *int    // nil leaves the task's value unchanged
	Remarks           *string // nil leaves the task's value unchanged
	Entry             models.WorkLogEntry
}

// WorkLogStore reads closed sessions for the aggregation engine. Rows
// come back joined to their task (for workspace scope) and the task's
// current project (for client labels).
type WorkLogStore interface {
	FindInWindow(ctx context.Context, workspace primitive.ObjectID, user *primitive.ObjectID, window models.DateRange) ([]models.WorkLogRow, error)
}

// ProjectStore is the read-only view of projects the aggregation engine
// consumes.
type ProjectStore interface {
	FindByWorkspace(ctx context.Context, workspace primitive.ObjectID) ([]models.Project, error)
}

// MemberDirectory is the external roster of workspace members, served by
// the users service.
type MemberDirectory interface {
	ListMembers(ctx context.Context, workspace primitive.ObjectID) ([]models.Member, error)
}
