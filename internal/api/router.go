package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/blogify-api/internal/config"
	"github.com/blogify-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// userIDKey is the gin context key carrying the authenticated user id
const userIDKey = "userID"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigin))

	// Handlers
	authHandler := NewAuthHandler(services, log)
	postHandler := NewPostHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	api := router.Group("/api")
	{
		// Authentication
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authRequired(services), authHandler.Me)
		}

		// Posts. Public reads take an optional token so the liked flag
		// reflects the viewer.
		posts := api.Group("/posts")
		{
			posts.POST("", authRequired(services), postHandler.Create)
			posts.GET("", authOptional(services), postHandler.List)
			posts.GET("/mine", authRequired(services), postHandler.Mine)
			posts.GET("/:id", authOptional(services), postHandler.Get)
			posts.PUT("/:id", authRequired(services), postHandler.Update)
			posts.DELETE("/:id", authRequired(services), postHandler.Delete)
			posts.POST("/:id/like", authRequired(services), postHandler.ToggleLike)
			posts.POST("/:id/comments", authRequired(services), postHandler.AddComment)
			posts.GET("/:id/comments", postHandler.ListComments)
			posts.DELETE("/:id/comments/:commentId", authRequired(services), postHandler.DeleteComment)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "blogify-api",
	})
}

// metricsHandler returns row counts per resource
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCount, _ := services.Stats.GetCount(ctx, "users")
		postsCount, _ := services.Stats.GetCount(ctx, "posts")
		commentsCount, _ := services.Stats.GetCount(ctx, "comments")
		likesCount, _ := services.Stats.GetCount(ctx, "likes")

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"users":    usersCount,
				"posts":    postsCount,
				"comments": commentsCount,
				"likes":    likesCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authRequired rejects requests without a valid bearer token and attaches
// the resolved user id to the request context
func authRequired(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
				Message: "not authenticated",
				Code:    "unauthenticated",
			})
			return
		}

		userID, err := services.Auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
				Message: "not authenticated",
				Code:    "unauthenticated",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// authOptional attaches the user id when a valid token is present and
// lets anonymous requests through
func authOptional(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if userID, err := services.Auth.VerifyToken(token); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

// currentUserID returns the authenticated user id, empty for anonymous
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, errorBody{
					Message: "internal server error",
					Code:    "internal",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS for the configured front-end origin
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if allowedOrigin != "*" {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
