package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeaders(cfg.EnableHSTS))

	requireAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
		requireAuth = cfg.AuthMiddleware.RequireAuth()
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	if cfg.GraphQL != nil {
		router.POST("/graphql", cfg.GraphQL)
	}

	api := router.Group("/api/v1")

	if cfg.Catalog != nil {
		authorsController := NewAuthorsController(cfg.Catalog)
		publishersController := NewPublishersController(cfg.Catalog)
		categoriesController := NewCategoriesController(cfg.Catalog)
		booksController := NewBooksController(cfg.Catalog)

		api.GET("/authors", authorsController.List)
		api.GET("/authors/search", authorsController.Search)
		api.GET("/authors/:id", authorsController.Get)
		api.POST("/authors", requireAuth, authorsController.Create)
		api.PATCH("/authors/:id", requireAuth, authorsController.Update)

		api.GET("/publishers", publishersController.List)
		api.GET("/publishers/search", publishersController.Search)
		api.GET("/publishers/:id", publishersController.Get)
		api.POST("/publishers", requireAuth, publishersController.Create)
		api.PATCH("/publishers/:id", requireAuth, publishersController.Update)

		api.GET("/categories", categoriesController.List)
		api.GET("/categories/search", categoriesController.Search)
		api.GET("/categories/:id", categoriesController.Get)
		api.POST("/categories", requireAuth, categoriesController.Create)
		api.PATCH("/categories/:id", requireAuth, categoriesController.Update)

		api.GET("/books", booksController.List)
		api.GET("/books/search", booksController.Search)
		api.GET("/books/:id", booksController.Get)
		api.POST("/books", requireAuth, booksController.Create)
		api.PATCH("/books/:id", requireAuth, booksController.Update)

		// Book associations
		api.GET("/books/:id/authors", booksController.Authors)
		api.POST("/books/:id/authors", requireAuth, booksController.AddAuthors)
		api.DELETE("/books/:id/authors", requireAuth, booksController.RemoveAuthors)
		api.GET("/books/:id/categories", booksController.Categories)
		api.POST("/books/:id/categories", requireAuth, booksController.AddCategories)
		api.DELETE("/books/:id/categories", requireAuth, booksController.RemoveCategories)
	}

	if cfg.AuthService != nil && cfg.AuthMiddleware != nil {
		authController := NewAuthController(cfg.AuthService)
		api.POST("/auth/login", authController.Login)
		api.POST("/auth/logout", authController.Logout)
		api.GET("/auth/me", authController.Me)

		if cfg.Audit != nil {
			auditController := NewAuditController(cfg.Audit)
			admin := api.Group("/audit", cfg.AuthMiddleware.RequireRole(entities.RoleAdmin))
			admin.GET("/events", auditController.ListEvents)
			admin.GET("/events/:id", auditController.GetEvent)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found", Code: CodeNotFound})
	})

	return router
}
