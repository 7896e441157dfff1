package main

import (
	"context"
	"fmt"
	"k12_reviser_v2/internal/api"
	"k12_reviser_v2/internal/app/service"
	"k12_reviser_v2/internal/common/security"
	"k12_reviser_v2/internal/domain/repository"
	"k12_reviser_v2/internal/platform/config"
	"k12_reviser_v2/internal/platform/database"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Repositories
	userRepo := repository.NewSQLUserRepository(database.DB)
	subjectRepo := repository.NewSQLSubjectRepository(database.DB)
	questionRepo := repository.NewSQLQuestionRepository(database.DB)
	performanceRepo := repository.NewSQLPerformanceRepository(database.DB)

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo)
	contentService := service.NewContentService(subjectRepo, questionRepo)
	performanceService := service.NewPerformanceService(performanceRepo, config.AppConfig.ProgressFilePath)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(authService, contentService, performanceService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
