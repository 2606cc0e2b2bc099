package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateRange is the inclusive window over which work-log activity is
// measured.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window, both ends
// inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// TimerSnapshot is the view of a task's timer state returned by start and
// stop. ElapsedSeconds is the live duration of the current session,
// computed as now minus activeStartAt on every read; it is zero while the
// timer is stopped.
type TimerSnapshot struct {
	TaskID            primitive.ObjectID `json:"taskId"`
	TaskCode          string             `json:"taskCode"`
	IsRunning         bool               `json:"isRunning"`
	FirstStartedAt    *time.Time         `json:"firstStartedAt,omitempty"`
	ActiveStartAt     *time.Time         `json:"activeStartAt,omitempty"`
	LastStoppedAt     *time.Time         `json:"lastStoppedAt,omitempty"`
	ElapsedSeconds    int64              `json:"elapsedSeconds"`
	TotalSecondsSpent int64              `json:"totalSecondsSpent"`
	TotalMinutesSpent int64              `json:"totalMinutesSpent"`
	PagesCompleted    *int               `json:"pagesCompleted,omitempty"`
	Remarks           string             `json:"remarks,omitempty"`
}

// TaskStats is the status rollup over the tasks in scope.
type TaskStats struct {
	TotalTasks    int                `json:"totalTasks"`
	DoneTasks     int                `json:"doneTasks"`
	PendingTasks  int                `json:"pendingTasks"`
	OverdueTasks  int                `json:"overdueTasks"`
	TasksByStatus map[TaskStatus]int `json:"tasksByStatus"`
}

// ProjectStats counts projects by completion state. A project is
// completed when it has tasks and all of them are done; active when at
// least one task is not done. Projects with no tasks count toward
// neither.
type ProjectStats struct {
	TotalProjects     int `json:"totalProjects"`
	ActiveProjects    int `json:"activeProjects"`
	CompletedProjects int `json:"completedProjects"`
}

// ClientProjects is one row of the per-client distribution.
type ClientProjects struct {
	ClientID     string `json:"clientId"`
	ClientName   string `json:"clientName"`
	ProjectCount int    `json:"projectCount"`
}

// ClientStats groups the workspace's projects by client.
type ClientStats struct {
	TotalClients     int              `json:"totalClients"`
	ProjectsByClient []ClientProjects `json:"projectsByClient"`
}

// EmployeeStat is one member's throughput row: assignment counts joined
// with work-log activity inside the window. Members with no activity
// still get a row, zero-filled, with a nil LastActiveAt.
type EmployeeStat struct {
	UserID        primitive.ObjectID `json:"userId"`
	Name          string             `json:"name"`
	TotalAssigned int                `json:"totalAssigned"`
	Done          int                `json:"done"`
	Pending       int                `json:"pending"`
	TotalMinutes  int64              `json:"totalMinutes"`
	TotalHours    float64            `json:"totalHours"`
	TotalPages    int                `json:"totalPages"`
	LastActiveAt  *time.Time         `json:"lastActiveAt"`
}

// ProgressSummary is the workspace-level rollup returned by the
// aggregation engine.
type ProgressSummary struct {
	DateRange     DateRange      `json:"dateRange"`
	ProjectStats  ProjectStats   `json:"projectStats"`
	ClientStats   ClientStats    `json:"clientStats"`
	TaskStats     TaskStats      `json:"taskStats"`
	EmployeeStats []EmployeeStat `json:"employeeStats"`
}

// EmployeeTask is one assigned task in the single-employee detail view.
type EmployeeTask struct {
	ID           primitive.ObjectID `json:"id"`
	TaskCode     string             `json:"taskCode"`
	Title        string             `json:"title"`
	TaskTypeCode string             `json:"taskTypeCode,omitempty"`
	TaskTypeName string             `json:"taskTypeName,omitempty"`
	Status       TaskStatus         `json:"status"`
	Project      *ProjectSummary    `json:"project,omitempty"`
}

// EmployeeProgress is the single-employee detail view: the summary row
// plus the literal task and work-log listings behind it.
type EmployeeProgress struct {
	DateRange DateRange      `json:"dateRange"`
	Employee  EmployeeStat   `json:"employee"`
	Tasks     []EmployeeTask `json:"tasks"`
	WorkLogs  []WorkLogRow   `json:"workLogs"`
}
