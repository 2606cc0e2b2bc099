package handlers

import (
	"encoding/json"
	"net/http"

	"doctrack/backend/progress-service/logging"
	"doctrack/backend/progress-service/models"
	"doctrack/backend/progress-service/services"
	"doctrack/backend/progress-service/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	createdBy, err := utils.ExtractUserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var input services.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.service.CreateTask(r.Context(), input, createdBy)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s", task.TaskCode, task.Project.Hex())
	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// GetTasksByWorkspace lists the workspace's tasks, optionally narrowed by
// the project, assignedTo and status query parameters.
func (h *TaskHandler) GetTasksByWorkspace(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := primitive.ObjectIDFromHex(mux.Vars(r)["workspaceID"])
	if err != nil {
		http.Error(w, "Invalid workspace ID format", http.StatusBadRequest)
		return
	}

	filter := models.TaskFilter{Workspace: workspaceID}
	query := r.URL.Query()

	if projectID := query.Get("project"); projectID != "" {
		id, err := primitive.ObjectIDFromHex(projectID)
		if err != nil {
			http.Error(w, "Invalid project ID format", http.StatusBadRequest)
			return
		}
		filter.Project = &id
	}
	if assignedTo := query.Get("assignedTo"); assignedTo != "" {
		id, err := primitive.ObjectIDFromHex(assignedTo)
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}
		filter.AssignedTo = &id
	}
	filter.Status = models.TaskStatus(query.Get("status"))

	tasks, err := h.service.GetTasksByWorkspace(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	var request struct {
		TaskID string            `json:"taskId"`
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(request.TaskID)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	task, err := h.service.ChangeTaskStatus(r.Context(), taskID, request.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s moved to status %s", task.TaskCode, task.Status)
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID.Hex())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Task deleted successfully"}`))
}
