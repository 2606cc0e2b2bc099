package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkLogEntry is the immutable record of one closed timer session. It is
// written exactly once, at stop time, and never updated or deleted.
type WorkLogEntry struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TaskID          primitive.ObjectID `json:"taskId" bson:"taskId"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	StartedAt       time.Time          `json:"startedAt" bson:"startedAt"`
	StoppedAt       time.Time          `json:"stoppedAt" bson:"stoppedAt"`
	DurationMinutes int64              `json:"durationMinutes" bson:"durationMinutes"`
	PagesCompleted  *int               `json:"pagesCompleted,omitempty" bson:"pagesCompleted,omitempty"`
	Remarks         string             `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// ActivityAt is the join key used by the aggregation engine: the stop
// timestamp when present, otherwise the start. Entries always carry both,
// but the fallback keeps the key usable for in-progress sessions should
// they ever be recorded.
func (e *WorkLogEntry) ActivityAt() time.Time {
	if !e.StoppedAt.IsZero() {
		return e.StoppedAt
	}
	return e.StartedAt
}

// WorkLogRow is a work-log entry joined with its task and the task's
// current project, as returned by the window queries. The project link is
// the task's current one; there is no historical snapshot of where the
// task lived when the session was logged.
type WorkLogRow struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id"`
	TaskID          primitive.ObjectID  `json:"taskId" bson:"taskId"`
	UserID          primitive.ObjectID  `json:"userId" bson:"userId"`
	StartedAt       time.Time           `json:"startedAt" bson:"startedAt"`
	StoppedAt       time.Time           `json:"stoppedAt" bson:"stoppedAt"`
	ActivityAt      time.Time           `json:"activityAt" bson:"activityAt"`
	DurationMinutes int64               `json:"durationMinutes" bson:"durationMinutes"`
	PagesCompleted  int                 `json:"pagesCompleted" bson:"pagesCompleted"`
	Remarks         string              `json:"remarks,omitempty" bson:"remarks,omitempty"`
	TaskTitle       string              `json:"taskTitle" bson:"taskTitle"`
	TaskCode        string              `json:"taskCode" bson:"taskCode"`
	ProjectID       *primitive.ObjectID `json:"projectId,omitempty" bson:"projectId,omitempty"`
	ProjectName     string              `json:"projectName,omitempty" bson:"projectName,omitempty"`
}
