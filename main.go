package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"doctrack/backend/progress-service/clients"
	"doctrack/backend/progress-service/handlers"
	"doctrack/backend/progress-service/logging"
	"doctrack/backend/progress-service/middleware"
	"doctrack/backend/progress-service/repositories"
	"doctrack/backend/progress-service/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Progress Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded, relying on process environment: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)

	usersBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "UsersServiceCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	taskRepository := repositories.NewTaskRepository(client, db)
	workLogRepository := repositories.NewWorkLogRepository(db)
	projectRepository := repositories.NewProjectRepository(db)
	membersClient := clients.NewMembersClient(os.Getenv("USERS_SERVICE_URL"), &http.Client{Timeout: 5 * time.Second}, usersBreaker)

	timerService := services.NewTimerService(taskRepository)
	taskService := services.NewTaskService(taskRepository)
	progressService := services.NewProgressService(taskRepository, workLogRepository, projectRepository, membersClient)

	timerHandler := handlers.NewTimerHandler(timerService)
	taskHandler := handlers.NewTaskHandler(taskService)
	progressHandler := handlers.NewProgressHandler(progressService)

	r := mux.NewRouter()

	r.HandleFunc("/api/tasks/{taskID}/timer/start", timerHandler.StartTimer).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/timer/stop", timerHandler.StopTimer).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/timer", timerHandler.GetTimer).Methods(http.MethodGet)

	r.HandleFunc("/api/workspaces/{workspaceID}/progress-summary", progressHandler.GetWorkspaceProgressSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/workspaces/{workspaceID}/progress/employees/{userID}", progressHandler.GetEmployeeProgress).Methods(http.MethodGet)

	r.HandleFunc("/api/tasks/create", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/workspaces/{workspaceID}/tasks", taskHandler.GetTasksByWorkspace).Methods(http.MethodGet)

	r.HandleFunc("/api/task-types", handlers.GetTaskTypes).Methods(http.MethodGet)

	corsRouter := enableCORS(middleware.JWTAuthMiddleware(r))

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
