package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"doctrack/backend/progress-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskService covers the supporting task surface around the timer: create,
// lookup, status changes and deletion. Project and workspace CRUD live in
// their own services; this one only references them.
type TaskService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks, now: time.Now}
}

// CreateTaskInput is the payload accepted by CreateTask. TaskTypeCode is
// stored together with the catalog name when the code is known; unknown
// codes are stored as supplied, membership is not policed here.
type CreateTaskInput struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	TaskTypeCode string              `json:"taskTypeCode"`
	TaskTypeName string              `json:"taskTypeName"`
	Chapter      string              `json:"chapter"`
	PageRange    string              `json:"pageRange"`
	Project      primitive.ObjectID  `json:"project"`
	Workspace    primitive.ObjectID  `json:"workspace"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	AssignedTo   *primitive.ObjectID `json:"assignedTo"`
	DueDate      *time.Time          `json:"dueDate"`
}

func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput, createdBy primitive.ObjectID) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Project.IsZero() || input.Workspace.IsZero() {
		return nil, fmt.Errorf("%w: project and workspace are required", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}

	typeName := strings.TrimSpace(input.TaskTypeName)
	if typeName == "" && input.TaskTypeCode != "" {
		if t := models.GetTaskTypeByCode(input.TaskTypeCode); t != nil {
			typeName = t.Name
		}
	}

	now := s.now()
	task := &models.Task{
		ID:           primitive.NewObjectID(),
		TaskCode:     generateTaskCode(),
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		TaskTypeCode: input.TaskTypeCode,
		TaskTypeName: typeName,
		Chapter:      strings.TrimSpace(input.Chapter),
		PageRange:    strings.TrimSpace(input.PageRange),
		Project:      input.Project,
		Workspace:    input.Workspace,
		Status:       status,
		Priority:     priority,
		AssignedTo:   input.AssignedTo,
		CreatedBy:    createdBy,
		DueDate:      input.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}
	return task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
		}
		return nil, fmt.Errorf("failed to load task: %v", err)
	}
	return task, nil
}

func (s *TaskService) GetTasksByWorkspace(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	tasks, err := s.tasks.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	return tasks, nil
}

func (s *TaskService) ChangeTaskStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	ok, err := s.tasks.UpdateStatus(ctx, taskID, status, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %v", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
	}
	return s.GetTaskByID(ctx, taskID)
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	ok, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if !ok {
		return fmt.Errorf("%w: task %s", ErrNotFound, taskID.Hex())
	}
	return nil
}

// generateTaskCode produces the short human-facing code printed on work
// sheets, e.g. "task-4f9d2c1a".
func generateTaskCode() string {
	return "task-" + strings.Split(uuid.New().String(), "-")[0]
}
