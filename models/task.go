package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusInReview   TaskStatus = "IN_REVIEW"
	StatusDone       TaskStatus = "DONE"
)

// ValidStatus reports whether s is one of the known lifecycle statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is one unit of production work (keying, correction, rendering...)
// inside a project. The timer block at the bottom is owned exclusively by
// the timer engine: totalSecondsSpent is the authoritative accumulator and
// totalMinutesSpent is always recomputed from it on stop.
type Task struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	TaskCode     string              `json:"taskCode" bson:"taskCode"`
	Title        string              `json:"title" bson:"title"`
	Description  string              `json:"description,omitempty" bson:"description,omitempty"`
	TaskTypeCode string              `json:"taskTypeCode,omitempty" bson:"taskTypeCode,omitempty"`
	TaskTypeName string              `json:"taskTypeName,omitempty" bson:"taskTypeName,omitempty"`
	Chapter      string              `json:"chapter,omitempty" bson:"chapter,omitempty"`
	PageRange    string              `json:"pageRange,omitempty" bson:"pageRange,omitempty"`
	Project      primitive.ObjectID  `json:"project" bson:"project"`
	Workspace    primitive.ObjectID  `json:"workspace" bson:"workspace"`
	Status       TaskStatus          `json:"status" bson:"status"`
	Priority     TaskPriority        `json:"priority" bson:"priority"`
	AssignedTo   *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	CreatedBy    primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	DueDate      *time.Time          `json:"dueDate,omitempty" bson:"dueDate,omitempty"`

	FirstStartedAt    *time.Time `json:"firstStartedAt,omitempty" bson:"firstStartedAt,omitempty"`
	ActiveStartAt     *time.Time `json:"activeStartAt,omitempty" bson:"activeStartAt,omitempty"`
	IsRunning         bool       `json:"isRunning" bson:"isRunning"`
	LastStoppedAt     *time.Time `json:"lastStoppedAt,omitempty" bson:"lastStoppedAt,omitempty"`
	TotalMinutesSpent int64      `json:"totalMinutesSpent" bson:"totalMinutesSpent"`
	TotalSecondsSpent int64      `json:"totalSecondsSpent" bson:"totalSecondsSpent"`
	PagesCompleted    *int       `json:"pagesCompleted,omitempty" bson:"pagesCompleted,omitempty"`
	Remarks           string     `json:"remarks,omitempty" bson:"remarks,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Overdue reports whether the task has slipped past its due date and is
// still not done.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusDone
}

// TaskFilter narrows task lookups. Workspace is required, the rest are
// optional.
type TaskFilter struct {
	Workspace  primitive.ObjectID
	Project    *primitive.ObjectID
	AssignedTo *primitive.ObjectID
	Status     TaskStatus
}
