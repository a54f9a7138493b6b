package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"lawbench-project/microservices/tasks-service/clients"
	"lawbench-project/microservices/tasks-service/handlers"
	"lawbench-project/microservices/tasks-service/logging"
	"lawbench-project/microservices/tasks-service/repositories"
	"lawbench-project/microservices/tasks-service/services"
	"lawbench-project/microservices/tasks-service/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, User-ID, User-Name")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tasks Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	mongoCollectionName := os.Getenv("MONGO_COLLECTION")
	conflictsCollectionName := os.Getenv("MONGO_CONFLICTS_COLLECTION")
	if conflictsCollectionName == "" {
		conflictsCollectionName = "conflicts"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	if err := mongoClient.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	tasksCollection := mongoClient.Database(mongoDBName).Collection(mongoCollectionName)
	conflictsCollection := mongoClient.Database(mongoDBName).Collection(conflictsCollectionName)
	logging.Logger.Infof("Event ID: DB_COLLECTION_SET, Description: Using MongoDB collections: %s/%s, %s/%s",
		mongoDBName, mongoCollectionName, mongoDBName, conflictsCollectionName)

	httpClient := utils.NewHTTPClient()

	usersClient := clients.NewUsersClient(httpClient, os.Getenv("USERS_SERVICE_URL"), newBreaker("UsersServiceCB"))
	billingClient := clients.NewBillingClient(httpClient, os.Getenv("BILLING_SERVICE_URL"), newBreaker("BillingServiceCB"))
	notificationsClient := clients.NewNotificationsClient(httpClient, os.Getenv("NOTIFICATIONS_SERVICE_URL"), newBreaker("NotificationsServiceCB"))

	taskRepo := repositories.NewTaskRepository(tasksCollection)
	conflictRepo := repositories.NewConflictRepository(conflictsCollection)

	calendar := services.StandardCalendar{}
	auditService := services.NewAuditService()
	recurrenceService := services.NewRecurrenceService(calendar, auditService)
	deadlineService := services.NewDeadlineService(services.NewStaticJurisdictionTable(), calendar, auditService)
	timeTrackingService := services.NewTimeTrackingService(billingClient, auditService)
	conflictService := services.NewConflictService(conflictRepo)
	permissionService := services.NewPermissionService()

	taskService := services.NewTaskService(
		taskRepo,
		usersClient,
		notificationsClient,
		auditService,
		recurrenceService,
		deadlineService,
		timeTrackingService,
		conflictService,
		permissionService,
	)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := mux.NewRouter()

	r.HandleFunc("/api/tasks/health", taskHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/all", taskHandler.GetAllTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/create", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskID}/subtasks", taskHandler.AddSubtask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/subtasks/{subtaskID}/status", taskHandler.UpdateSubtaskStatus).Methods(http.MethodPatch)
	r.HandleFunc("/api/tasks/{taskID}/comments", taskHandler.AddComment).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/attachments", taskHandler.AddAttachment).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/time-entries", taskHandler.LogTime).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/court-deadlines", taskHandler.CalculateCourtDeadlines).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/conflict", taskHandler.CheckConflict).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/permissions/{action}", taskHandler.SetPermission).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{taskID}/schedule-next", taskHandler.ScheduleNextOccurrence).Methods(http.MethodPost)

	corsRouter := enableCORS(r)

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
