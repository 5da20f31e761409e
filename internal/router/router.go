package router

import (
	"github.com/gin-gonic/gin"
	"github.com/supermart/supermart-backend/config"
	"github.com/supermart/supermart-backend/internal/app/authz"
	"github.com/supermart/supermart-backend/internal/app/controller"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	userController     *controller.UserController
	categoryController *controller.CategoryController
	brandController    *controller.BrandController
	productController  *controller.ProductController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	categoryController *controller.CategoryController,
	brandController *controller.BrandController,
	productController *controller.ProductController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		userController:     userController,
		categoryController: categoryController,
		brandController:    brandController,
		productController:  productController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SuperMart API is running",
		})
	})

	authed := r.authMiddleware.Authenticate()
	staff := r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleManager)
	stockStaff := r.authMiddleware.RequirePermission(authz.ActionStockAdjust)
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/token/refresh", r.authController.Refresh)
			auth.POST("/logout", authed, r.authController.Logout)
			auth.GET("/me", authed, r.authController.Me)
			auth.PATCH("/me/update", authed, r.authController.UpdateProfile)
			auth.POST("/change-password", authed, r.authController.ChangePassword)
		}

		users := v1.Group("/users", authed)
		{
			users.GET("", staff, r.userController.List)
			users.GET("/:id", staff, r.userController.Get)

			users.POST("", adminOnly, r.userController.Create)
			users.PUT("/:id", adminOnly, r.userController.Update)
			users.POST("/:id/activate", adminOnly, r.userController.Activate)
			users.POST("/:id/deactivate", adminOnly, r.userController.Deactivate)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.List)
			categories.GET("/roots", r.categoryController.Roots)
			categories.GET("/slug/:slug", r.categoryController.GetBySlug)
			categories.GET("/:id", r.categoryController.Get)
			categories.GET("/:id/children", r.categoryController.Children)

			categories.POST("", authed, staff, r.categoryController.Create)
			categories.PUT("/:id", authed, staff, r.categoryController.Update)
			categories.DELETE("/:id", authed, staff, r.categoryController.Delete)
		}

		brands := v1.Group("/brands")
		{
			brands.GET("", r.brandController.List)
			brands.GET("/slug/:slug", r.brandController.GetBySlug)
			brands.GET("/:id", r.brandController.Get)

			brands.POST("", authed, staff, r.brandController.Create)
			brands.PUT("/:id", authed, staff, r.brandController.Update)
			brands.DELETE("/:id", authed, staff, r.brandController.Delete)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.List)
			products.GET("/featured", r.productController.Featured)
			products.GET("/new-arrivals", r.productController.NewArrivals)
			products.GET("/slug/:slug", r.productController.GetBySlug)
			products.GET("/category/:id", r.productController.ByCategory)
			products.GET("/:id", r.productController.Get)
			products.GET("/:id/variants", r.productController.ListVariants)
			products.GET("/:id/images", r.productController.ListImages)

			products.GET("/low-stock", authed,
				r.authMiddleware.RequirePermission(authz.ActionStockView),
				r.productController.LowStock)
			products.GET("/out-of-stock", authed,
				r.authMiddleware.RequirePermission(authz.ActionStockView),
				r.productController.OutOfStock)
			products.GET("/export", authed,
				r.authMiddleware.RequirePermission(authz.ActionCatalogExport),
				r.productController.Export)

			products.POST("", authed, staff, r.productController.Create)
			products.PUT("/:id", authed, staff, r.productController.Update)
			products.DELETE("/:id", authed,
				r.authMiddleware.RequirePermission(authz.ActionProductDelete),
				r.productController.Delete)
			products.POST("/:id/soft-delete", authed,
				r.authMiddleware.RequirePermission(authz.ActionProductDelete),
				r.productController.Delete)
			products.POST("/:id/adjust-stock", authed, stockStaff, r.productController.AdjustStock)

			products.POST("/:id/variants", authed, staff, r.productController.AddVariant)
			products.PUT("/:id/variants/:variantId", authed, staff, r.productController.UpdateVariant)
			products.DELETE("/:id/variants/:variantId", authed, staff, r.productController.DeleteVariant)

			products.POST("/:id/images", authed, staff, r.productController.AddImage)
			products.POST("/:id/images/:imageId/set-primary", authed, staff, r.productController.SetPrimaryImage)
			products.DELETE("/:id/images/:imageId", authed, staff, r.productController.DeleteImage)
		}

		uploads := v1.Group("/uploads", authed,
			r.authMiddleware.RequirePermission(authz.ActionMediaUpload))
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
