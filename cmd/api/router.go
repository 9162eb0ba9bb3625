package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"melivro-backend/internal/shared/middleware"
	"melivro-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupBookRoutes(v1, c)
		setupPersonRoutes(v1, c)
		setupCitationRoutes(v1, c)
		setupActivityRoutes(v1, c)
		setupImporterRoutes(v1, c)
	}

	return router
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.List)
		books.GET("/most-cited", c.BookHandler.MostCited)
		books.GET("/:id", c.BookHandler.GetByID)
		books.GET("/by-slug/:slug", c.BookHandler.GetBySlug)
		books.GET("/:id/citations", c.CitationHandler.ListByBook)
	}

	adminBooks := v1.Group("/books")
	adminBooks.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		adminBooks.POST("", c.BookHandler.Create)
		adminBooks.PUT("/:id", c.BookHandler.Update)
		adminBooks.DELETE("/:id", c.BookHandler.Delete)
		adminBooks.POST("/:id/refresh", c.BookHandler.Refresh)
	}
}

func setupPersonRoutes(v1 *gin.RouterGroup, c *container.Container) {
	people := v1.Group("/people")
	{
		people.GET("", c.PersonHandler.List)
		people.GET("/:id", c.PersonHandler.GetByID)
		people.GET("/by-slug/:slug", c.PersonHandler.GetBySlug)
		people.GET("/:id/citations", c.CitationHandler.ListByPerson)
	}

	adminPeople := v1.Group("/people")
	adminPeople.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		adminPeople.POST("", c.PersonHandler.Create)
		adminPeople.PUT("/:id", c.PersonHandler.Update)
		adminPeople.DELETE("/:id", c.PersonHandler.Delete)
	}
}

func setupCitationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	citations := v1.Group("/citations")
	citations.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		citations.POST("", c.CitationHandler.Create)
		citations.DELETE("/:id", c.CitationHandler.Delete)
		citations.POST("/recount", c.CitationHandler.Recount)
	}
}

func setupActivityRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/feed", c.ActivityHandler.Feed)

	activities := v1.Group("/activities")
	activities.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		activities.POST("", c.ActivityHandler.Create)
	}
}

// setupImporterRoutes exposes the content pipeline. Admin only: it
// creates books and citations in bulk.
func setupImporterRoutes(v1 *gin.RouterGroup, c *container.Container) {
	importer := v1.Group("/import/sessions")
	importer.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		importer.POST("", c.ImporterHandler.CreateSession)
		importer.GET("", c.ImporterHandler.ListSessions)
		importer.GET("/:id", c.ImporterHandler.GetSession)
		importer.DELETE("/:id", c.ImporterHandler.Abandon)
		importer.POST("/:id/extract", c.ImporterHandler.Extract)
		importer.POST("/:id/confirm/:cid", c.ImporterHandler.Confirm)
		importer.POST("/:id/confirm-all", c.ImporterHandler.ConfirmAll)
		importer.POST("/:id/assign/:eid", c.ImporterHandler.Assign)
		importer.POST("/:id/assign-all", c.ImporterHandler.AssignAll)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"error":  "database unreachable",
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
		})
	}
}
