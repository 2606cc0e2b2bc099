package handlers

import (
	"net/http"

	"doctrack/backend/progress-service/models"
)

// GetTaskTypes serves the fixed production stage catalog. The list is
// configuration; there is nothing to create, update or delete.
func GetTaskTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.TaskTypes)
}
