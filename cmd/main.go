package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/medtrack/biomed-maintenance/internal/auth"
	"github.com/medtrack/biomed-maintenance/internal/db"
	"github.com/medtrack/biomed-maintenance/internal/handlers"
	"github.com/medtrack/biomed-maintenance/internal/middleware"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&log.JSONFormatter{})

	client, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Info("Connected to MongoDB successfully")

	database := client.Database(db.DatabaseName())
	userCollection := &db.MongoUserCollection{Collection: database.Collection("users")}
	equipmentCollection := &db.MongoEquipmentCollection{Collection: database.Collection("equipment")}
	scheduleCollection := &db.MongoScheduleCollection{
		Collection: database.Collection("schedules"),
		Executions: database.Collection("executions"),
	}
	orderCollection := &db.MongoWorkOrderCollection{Collection: database.Collection("work_orders")}

	authService, err := auth.NewService()
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}

	authHandler := handlers.NewAuthHandler(authService, userCollection)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentCollection)
	scheduleHandler := handlers.NewScheduleHandler(scheduleCollection, equipmentCollection)
	orderHandler := handlers.NewWorkOrderHandler(orderCollection, equipmentCollection, userCollection)
	calendarHandler := handlers.NewCalendarHandler(scheduleCollection)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("/api/auth/change-password", authHandler.ChangePassword)

	mux.Handle("/api/equipment", requireByMethod(authMiddleware, "view_equipment", "create_equipment", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			equipmentHandler.List(w, r)
		case http.MethodPost:
			equipmentHandler.Create(w, r)
		case http.MethodPut:
			equipmentHandler.Update(w, r)
		case http.MethodDelete:
			equipmentHandler.Delete(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/equipment/detail", authMiddleware.RequirePermission("view_equipment")(http.HandlerFunc(equipmentHandler.Get)))

	mux.Handle("/api/schedules", requireByMethod(authMiddleware, "view_schedules", "create_schedule", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			scheduleHandler.List(w, r)
		case http.MethodPost:
			scheduleHandler.Create(w, r)
		case http.MethodPut:
			scheduleHandler.Update(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/schedules/detail", authMiddleware.RequirePermission("view_schedules")(http.HandlerFunc(scheduleHandler.Get)))
	mux.Handle("/api/schedules/retire", authMiddleware.RequirePermission("update_schedule")(http.HandlerFunc(scheduleHandler.Retire)))
	mux.Handle("/api/schedules/executions", authMiddleware.RequirePermission("record_execution")(http.HandlerFunc(scheduleHandler.RecordExecution)))
	mux.Handle("/api/schedules/upcoming", authMiddleware.RequirePermission("view_schedules")(http.HandlerFunc(scheduleHandler.Upcoming)))

	mux.Handle("/api/work-orders", requireByMethod(authMiddleware, "view_work_orders", "create_work_order", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			orderHandler.List(w, r)
		case http.MethodPost:
			orderHandler.Create(w, r)
		case http.MethodDelete:
			orderHandler.Delete(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/work-orders/detail", authMiddleware.RequirePermission("view_work_orders")(http.HandlerFunc(orderHandler.Get)))
	mux.Handle("/api/work-orders/assign", authMiddleware.RequirePermission("update_work_order")(http.HandlerFunc(orderHandler.Assign)))
	mux.Handle("/api/work-orders/status", authMiddleware.RequirePermission("update_work_order")(http.HandlerFunc(orderHandler.ChangeStatus)))

	mux.Handle("/api/calendar/month", authMiddleware.RequirePermission("view_calendar")(http.HandlerFunc(calendarHandler.Month)))
	mux.Handle("/api/calendar/suggest", authMiddleware.RequirePermission("view_calendar")(http.HandlerFunc(calendarHandler.Suggest)))

	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("HTTP server listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

// requireByMethod guards an endpoint with the view permission for reads and
// the write permission for everything else.
func requireByMethod(m *middleware.AuthMiddleware, viewAction, writeAction string, next http.Handler) http.Handler {
	viewGuard := m.RequirePermission(viewAction)(next)
	writeGuard := m.RequirePermission(writeAction)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			viewGuard.ServeHTTP(w, r)
			return
		}
		writeGuard.ServeHTTP(w, r)
	})
}
