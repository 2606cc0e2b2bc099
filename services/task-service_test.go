package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"doctrack/backend/progress-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateTask_DefaultsAndCatalogLookup(t *testing.T) {
	store := newFakeTaskStore()
	svc := NewTaskService(store)
	creator := primitive.NewObjectID()

	task, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Title:        "  Key chapter 7  ",
		TaskTypeCode: "1001-1",
		Project:      primitive.NewObjectID(),
		Workspace:    primitive.NewObjectID(),
	}, creator)
	if err != nil {
		t.Fatalf("CreateTask() err=%v, want nil", err)
	}

	if task.Title != "Key chapter 7" {
		t.Fatalf("Title=%q, want trimmed", task.Title)
	}
	if task.Status != models.StatusTodo {
		t.Fatalf("Status=%q, want default TODO", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Fatalf("Priority=%q, want default MEDIUM", task.Priority)
	}
	if task.TaskTypeName != "Keying/Scanning/OCR/Script Running" {
		t.Fatalf("TaskTypeName=%q, want catalog name for 1001-1", task.TaskTypeName)
	}
	if !strings.HasPrefix(task.TaskCode, "task-") {
		t.Fatalf("TaskCode=%q, want task- prefix", task.TaskCode)
	}
	if task.IsRunning || task.ActiveStartAt != nil || task.TotalSecondsSpent != 0 {
		t.Fatalf("new task timer fields not zeroed: %+v", task)
	}
}

func TestCreateTask_UnknownTypeCodeStoredAsSupplied(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())

	task, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Title:        "Misc job",
		TaskTypeCode: "0000-0",
		TaskTypeName: "Custom stage",
		Project:      primitive.NewObjectID(),
		Workspace:    primitive.NewObjectID(),
	}, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("CreateTask() err=%v, want nil", err)
	}
	if task.TaskTypeCode != "0000-0" || task.TaskTypeName != "Custom stage" {
		t.Fatalf("task type = %q/%q, membership should not be policed", task.TaskTypeCode, task.TaskTypeName)
	}
}

func TestCreateTask_MissingTitle_InvalidInput(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Title:     "   ",
		Project:   primitive.NewObjectID(),
		Workspace: primitive.NewObjectID(),
	}, primitive.NewObjectID())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("CreateTask() err=%v, want ErrInvalidInput", err)
	}
}

func TestChangeTaskStatus_UnknownStatus_InvalidInput(t *testing.T) {
	task := newTestTask(primitive.NewObjectID())
	svc := NewTaskService(newFakeTaskStore(task))

	_, err := svc.ChangeTaskStatus(context.Background(), task.ID, "SHIPPED")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("ChangeTaskStatus() err=%v, want ErrInvalidInput", err)
	}
}

func TestChangeTaskStatus_MissingTask_NotFound(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())

	_, err := svc.ChangeTaskStatus(context.Background(), primitive.NewObjectID(), models.StatusDone)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ChangeTaskStatus() err=%v, want ErrNotFound", err)
	}
}

func TestChangeTaskStatus_Updates(t *testing.T) {
	task := newTestTask(primitive.NewObjectID())
	store := newFakeTaskStore(task)
	svc := NewTaskService(store)

	updated, err := svc.ChangeTaskStatus(context.Background(), task.ID, models.StatusDone)
	if err != nil {
		t.Fatalf("ChangeTaskStatus() err=%v, want nil", err)
	}
	if updated.Status != models.StatusDone {
		t.Fatalf("Status=%q, want DONE", updated.Status)
	}
}
