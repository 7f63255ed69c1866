package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/familygrove/familygrove/internal/config"
	"github.com/familygrove/familygrove/internal/database"
	"github.com/familygrove/familygrove/internal/handlers"
	"github.com/familygrove/familygrove/internal/jobs"
	"github.com/familygrove/familygrove/internal/repository"
	"github.com/familygrove/familygrove/internal/scheduler"
	"github.com/familygrove/familygrove/internal/services"
	"github.com/familygrove/familygrove/pkg/logger"
	"github.com/familygrove/familygrove/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		log.Fatalf("Index creation error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	postRepo := repository.NewPostRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	eventRepo := repository.NewEventRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	populator := services.NewPopulator(userRepo)
	familyService := services.NewFamilyService(familyRepo, userRepo, populator, cfg.FamilyName)
	userService := services.NewUserService(userRepo, familyService)
	postService := services.NewPostService(postRepo, populator)
	messageService := services.NewMessageService(messageRepo, populator)
	eventService := services.NewEventService(eventRepo, populator)
	memoryService := services.NewMemoryService(memoryRepo, populator)
	notificationService := services.NewNotificationService(notificationRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService, cfg)
	familyHandler := handlers.NewFamilyHandler(familyService)
	postHandler := handlers.NewPostHandler(postService)
	messageHandler := handlers.NewMessageHandler(messageService)
	eventHandler := handlers.NewEventHandler(eventService)
	memoryHandler := handlers.NewMemoryHandler(memoryService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handlers.HealthHandler).Methods("GET")
	api.HandleFunc("/auth/register", authHandler.RegisterHandler).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.LoginHandler).Methods("POST")

	// Authenticated routes
	auth := middleware.AuthMiddleware(cfg.JWTSecret, userService)

	profileRoutes := api.PathPrefix("/auth/profile").Subrouter()
	profileRoutes.Use(auth)
	profileRoutes.Use(middleware.UpdateLastSeenMiddleware(userService))
	profileRoutes.HandleFunc("", authHandler.ProfileHandler).Methods("GET")
	profileRoutes.HandleFunc("", authHandler.UpdateProfileHandler).Methods("PUT")

	// Family routes: creating or joining a family must work before the
	// caller has one, the rest requires membership.
	familyRoutes := api.PathPrefix("/family").Subrouter()
	familyRoutes.Use(auth)
	familyRoutes.Use(middleware.UpdateLastSeenMiddleware(userService))
	familyRoutes.HandleFunc("", familyHandler.CreateFamilyHandler).Methods("POST")
	familyRoutes.HandleFunc("/join", familyHandler.JoinFamilyHandler).Methods("POST")

	familyMemberRoutes := api.PathPrefix("/family").Subrouter()
	familyMemberRoutes.Use(auth)
	familyMemberRoutes.Use(middleware.RequireFamily)
	familyMemberRoutes.Use(middleware.UpdateLastSeenMiddleware(userService))
	familyMemberRoutes.HandleFunc("", familyHandler.GetFamilyHandler).Methods("GET")
	familyMemberRoutes.HandleFunc("/leave", familyHandler.LeaveFamilyHandler).Methods("POST")

	familyAdminRoutes := api.PathPrefix("/family").Subrouter()
	familyAdminRoutes.Use(auth)
	familyAdminRoutes.Use(middleware.RequireFamily)
	familyAdminRoutes.Use(middleware.RequireAdmin)
	familyAdminRoutes.HandleFunc("", familyHandler.UpdateFamilyHandler).Methods("PUT")
	familyAdminRoutes.HandleFunc("/member/{id}", familyHandler.RemoveMemberHandler).Methods("DELETE")

	// Content routes, all family-scoped
	postRoutes := api.PathPrefix("/posts").Subrouter()
	postRoutes.Use(auth)
	postRoutes.Use(middleware.RequireFamily)
	postRoutes.Use(middleware.UpdateLastSeenMiddleware(userService))
	postRoutes.HandleFunc("", postHandler.GetPostsHandler).Methods("GET")
	postRoutes.HandleFunc("", postHandler.CreatePostHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}", postHandler.GetPostHandler).Methods("GET")
	postRoutes.HandleFunc("/{id}", postHandler.DeletePostHandler).Methods("DELETE")
	postRoutes.HandleFunc("/{id}/like", postHandler.LikePostHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}/comment", postHandler.CommentPostHandler).Methods("POST")

	messageRoutes := api.PathPrefix("/messages").Subrouter()
	messageRoutes.Use(auth)
	messageRoutes.Use(middleware.RequireFamily)
	messageRoutes.Use(middleware.UpdateLastSeenMiddleware(userService))
	messageRoutes.HandleFunc("", messageHandler.GetMessagesHandler).Methods("GET")
	messageRoutes.HandleFunc("", messageHandler.SendMessageHandler).Methods("POST")
	messageRoutes.HandleFunc("/unread-count", messageHandler.UnreadCountHandler).Methods("GET")
	messageRoutes.HandleFunc("/{id}", messageHandler.DeleteMessageHandler).Methods("DELETE")

	eventRoutes := api.PathPrefix("/events").Subrouter()
	eventRoutes.Use(auth)
	eventRoutes.Use(middleware.RequireFamily)
	eventRoutes.Use(middleware.UpdateLastSeenMiddleware(userService))
	eventRoutes.HandleFunc("", eventHandler.GetEventsHandler).Methods("GET")
	eventRoutes.HandleFunc("", eventHandler.CreateEventHandler).Methods("POST")
	eventRoutes.HandleFunc("/{id}", eventHandler.GetEventHandler).Methods("GET")
	eventRoutes.HandleFunc("/{id}", eventHandler.UpdateEventHandler).Methods("PUT")
	eventRoutes.HandleFunc("/{id}", eventHandler.DeleteEventHandler).Methods("DELETE")
	eventRoutes.HandleFunc("/{id}/rsvp", eventHandler.RSVPHandler).Methods("POST")

	memoryRoutes := api.PathPrefix("/memories").Subrouter()
	memoryRoutes.Use(auth)
	memoryRoutes.Use(middleware.RequireFamily)
	memoryRoutes.Use(middleware.UpdateLastSeenMiddleware(userService))
	memoryRoutes.HandleFunc("", memoryHandler.GetMemoriesHandler).Methods("GET")
	memoryRoutes.HandleFunc("", memoryHandler.CreateMemoryHandler).Methods("POST")
	memoryRoutes.HandleFunc("/{id}", memoryHandler.GetMemoryHandler).Methods("GET")
	memoryRoutes.HandleFunc("/{id}", memoryHandler.DeleteMemoryHandler).Methods("DELETE")
	memoryRoutes.HandleFunc("/{id}/like", memoryHandler.LikeMemoryHandler).Methods("POST")
	memoryRoutes.HandleFunc("/{id}/comment", memoryHandler.CommentMemoryHandler).Methods("POST")

	notificationRoutes := api.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(auth)
	notificationRoutes.HandleFunc("", notificationHandler.GetNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkReadHandler).Methods("POST")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Daily event reminders
	reminder := jobs.NewEventReminder(eventRepo, userRepo, notificationService)
	cronRunner := scheduler.StartReminderJobs(reminder)
	defer cronRunner.Stop()

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
