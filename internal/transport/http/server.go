package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "github.com/rProsia8/Expense-Tracker/internal/app"
	"github.com/rProsia8/Expense-Tracker/internal/bootstrap"
	"github.com/rProsia8/Expense-Tracker/internal/cache"
	"github.com/rProsia8/Expense-Tracker/internal/platform/rabbitmq"
	"github.com/rProsia8/Expense-Tracker/internal/repository"
	"github.com/rProsia8/Expense-Tracker/internal/transport/http/handler"
	"github.com/rProsia8/Expense-Tracker/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	userRepo := repository.NewUserRepository(app.MySQL)
	expenseRepo := repository.NewExpenseRepository(app.MySQL)
	eventRepo := repository.NewEventRepository(app.MySQL)
	statsCache := cache.NewCategoryStatsCache(
		app.Redis,
		time.Duration(app.Config.Redis.StatsTTLSeconds)*time.Second,
	)

	var publisher appsvc.AsyncEventPublisher = appsvc.NoopEventPublisher{}
	if app.MQConn != nil {
		publisher = rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.EventQueue)
	}

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	expenseService := appsvc.NewExpenseService(expenseRepo, eventRepo, publisher, statsCache)

	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	healthHandler := handler.NewHealthHandler(app)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret, authService)

	router.GET("/", handler.Root)
	router.GET("/healthz", healthHandler.Check)
	router.POST("/token", authHandler.Token)

	userGroup := router.Group("/users")
	userGroup.POST("/", authHandler.CreateUser)
	userGroup.GET("/me", authRequired, authHandler.Me)

	expenseGroup := router.Group("/expenses")
	expenseGroup.Use(authRequired)
	expenseGroup.POST("/", expenseHandler.Create)
	expenseGroup.GET("/", expenseHandler.List)
	expenseGroup.GET("/stats/category", expenseHandler.CategoryStats)
	expenseGroup.GET("/stats/time", expenseHandler.TimeStats)
	expenseGroup.GET("/events", expenseHandler.Events)
	expenseGroup.GET("/:id", expenseHandler.Get)
	expenseGroup.PUT("/:id", expenseHandler.Update)
	expenseGroup.DELETE("/:id", expenseHandler.Delete)

	return router
}
