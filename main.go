package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/luganzimathiasjoseph/ARPM/cmd"
	"github.com/luganzimathiasjoseph/ARPM/internal/assets"
	"github.com/luganzimathiasjoseph/ARPM/internal/audits"
	"github.com/luganzimathiasjoseph/ARPM/internal/categories"
	"github.com/luganzimathiasjoseph/ARPM/internal/confirmations"
	"github.com/luganzimathiasjoseph/ARPM/internal/database"
	"github.com/luganzimathiasjoseph/ARPM/internal/issues"
	"github.com/luganzimathiasjoseph/ARPM/internal/locations"
	"github.com/luganzimathiasjoseph/ARPM/internal/notifications"
	"github.com/luganzimathiasjoseph/ARPM/internal/rate_limiter"
	"github.com/luganzimathiasjoseph/ARPM/internal/reports"
	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
	"github.com/luganzimathiasjoseph/ARPM/internal/requests"
	"github.com/luganzimathiasjoseph/ARPM/internal/users"
	"github.com/luganzimathiasjoseph/ARPM/internal/workorders"
	"github.com/luganzimathiasjoseph/ARPM/pkg/auditlog"
	"github.com/luganzimathiasjoseph/ARPM/pkg/security"

	applog "github.com/luganzimathiasjoseph/ARPM/internal/logger"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	logger := applog.NewLogger()
	defer logger.Sync()

	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo, logger)

	assetRepository := assets.NewRepository(repo)
	categoryRepository := categories.NewCategoryRepository(repo)
	locationRepository := locations.NewLocationRepository(repo)
	issueRepository := issues.NewIssueRepository(repo)
	confirmationRepository := confirmations.NewConfirmationRepository(repo)
	requestRepository := requests.NewRequestRepository(repo)
	workOrderRepository := workorders.NewWorkOrderRepository(repo)
	userRepository := users.NewUserRepository(repo)

	usersHandler := users.NewHandler(userRepository, auditLog)

	// request bodies must match the typed request structs exactly
	gin.EnableJsonDecoderDisallowUnknownFields()

	router := gin.Default()

	api := router.Group("/api")

	// brute-force protection on the unauthenticated auth endpoints
	loginLimiter := rate_limiter.New(10, 5*time.Minute)
	usersHandler.RegisterPublicRoutes(api.Group("", rate_limiter.Throttle(loginLimiter)))

	protected := api.Group("", security.JWTMiddleware())
	usersHandler.RegisterRoutes(protected)
	assets.RegisterRoutes(protected.Group("/assets"), assetRepository, auditLog)
	categories.RegisterRoutes(protected.Group("/categories"), categoryRepository, auditLog)
	locations.RegisterRoutes(protected.Group("/locations"), locationRepository, auditLog)
	issues.RegisterRoutes(protected.Group("/issues"), issueRepository, auditLog)
	confirmations.RegisterRoutes(protected.Group("/confirmations"), confirmationRepository, auditLog)
	requests.RegisterRoutes(protected.Group("/requests"), requestRepository, auditLog)
	workorders.RegisterRoutes(protected.Group("/workorders"), workOrderRepository, auditLog)
	audits.RegisterRoutes(protected.Group("/audits"), repo)
	reports.RegisterRoutes(protected.Group("/reports"), repo)
	notifications.RegisterRoutes(protected.Group("/notifications"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
