package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"doctrack/backend/progress-service/logging"
	"doctrack/backend/progress-service/services"
	"doctrack/backend/progress-service/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TimerHandler struct {
	service *services.TimerService
}

func NewTimerHandler(service *services.TimerService) *TimerHandler {
	return &TimerHandler{service: service}
}

// StartTimer begins a session on the task for the authenticated user.
func (h *TimerHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	actorID, err := utils.ExtractUserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	snapshot, err := h.service.Start(r.Context(), taskID, actorID)
	if err != nil {
		logging.Logger.Warnf("Event ID: TIMER_START_FAILED, Description: Starting timer for task %s failed: %v", taskID.Hex(), err)
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TIMER_STARTED, Description: Timer started for task %s by user %s", taskID.Hex(), actorID.Hex())
	respondJSON(w, http.StatusOK, snapshot)
}

// StopTimer closes the running session, optionally recording the pages
// completed and remarks for the session.
func (h *TimerHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	actorID, err := utils.ExtractUserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var body struct {
		PagesCompleted *int    `json:"pagesCompleted"`
		Remarks        *string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.Stop(r.Context(), taskID, actorID, body.PagesCompleted, body.Remarks)
	if err != nil {
		logging.Logger.Warnf("Event ID: TIMER_STOP_FAILED, Description: Stopping timer for task %s failed: %v", taskID.Hex(), err)
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TIMER_STOPPED, Description: Timer stopped for task %s by user %s", taskID.Hex(), actorID.Hex())
	respondJSON(w, http.StatusOK, snapshot)
}

// GetTimer returns the current timer snapshot. The elapsed seconds of a
// running session are computed on this read; clients polling this
// endpoint render the live clock from it.
func (h *TimerHandler) GetTimer(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), taskID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}
