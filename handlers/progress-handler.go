package handlers

import (
	"net/http"

	"doctrack/backend/progress-service/logging"
	"doctrack/backend/progress-service/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgressHandler struct {
	service *services.ProgressService
}

func NewProgressHandler(service *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// GetWorkspaceProgressSummary returns the workspace rollup for the window
// given by the from/to query parameters. Missing or unparseable values
// fall back to a 30-day window ending now.
func (h *ProgressHandler) GetWorkspaceProgressSummary(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := primitive.ObjectIDFromHex(mux.Vars(r)["workspaceID"])
	if err != nil {
		http.Error(w, "Invalid workspace ID format", http.StatusBadRequest)
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	summary, err := h.service.WorkspaceProgressSummary(r.Context(), workspaceID, from, to)
	if err != nil {
		logging.Logger.Errorf("Event ID: PROGRESS_SUMMARY_FAILED, Description: Progress summary for workspace %s failed: %v", workspaceID.Hex(), err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetEmployeeProgress returns one member's progress detail for the
// window: the summary numbers plus assigned tasks and in-window work-log
// rows.
func (h *ProgressHandler) GetEmployeeProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	workspaceID, err := primitive.ObjectIDFromHex(vars["workspaceID"])
	if err != nil {
		http.Error(w, "Invalid workspace ID format", http.StatusBadRequest)
		return
	}

	userID, err := primitive.ObjectIDFromHex(vars["userID"])
	if err != nil {
		http.Error(w, "Invalid user ID format", http.StatusBadRequest)
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	progress, err := h.service.EmployeeProgress(r.Context(), workspaceID, userID, from, to)
	if err != nil {
		logging.Logger.Errorf("Event ID: EMPLOYEE_PROGRESS_FAILED, Description: Employee progress for user %s in workspace %s failed: %v", userID.Hex(), workspaceID.Hex(), err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, progress)
}
