package router

import (
	"github.com/gin-gonic/gin"

	"github.com/forkspot/forkspot-backend/config"
	"github.com/forkspot/forkspot-backend/internal/app/controller"
	"github.com/forkspot/forkspot-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	userController       *controller.UserController
	restaurantController *controller.RestaurantController
	reviewController     *controller.ReviewController
	orderController      *controller.OrderController
	bookingController    *controller.BookingController
	uploadController     *controller.UploadController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	restaurantController *controller.RestaurantController,
	reviewController *controller.ReviewController,
	orderController *controller.OrderController,
	bookingController *controller.BookingController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		userController:       userController,
		restaurantController: restaurantController,
		reviewController:     reviewController,
		orderController:      orderController,
		bookingController:    bookingController,
		uploadController:     uploadController,
		authMiddleware:       authMiddleware,
		config:               cfg,
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
			"message": "Forkspot API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/otp", r.authController.RequestOTP)
			auth.POST("/otp/verify", r.authController.VerifyOTP)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		users := v1.Group("/users")
		users.Use(r.authMiddleware.Authenticate())
		{
			users.PUT("/me", r.userController.UpdateProfile)

			users.GET("/me/addresses", r.userController.GetAddresses)
			users.POST("/me/addresses", r.userController.AddAddress)
			users.PUT("/me/addresses/:id", r.userController.UpdateAddress)
			users.DELETE("/me/addresses/:id", r.userController.DeleteAddress)
			users.PUT("/me/addresses/:id/default", r.userController.SetDefaultAddress)

			users.GET("/me/bookmarks", r.userController.GetBookmarks)
			users.POST("/me/bookmarks/:restaurantId", r.userController.ToggleBookmark)
			users.GET("/me/recently-viewed", r.userController.GetRecentlyViewed)

			users.GET("/me/favorite-orders", r.userController.GetFavoriteOrders)
			users.POST("/me/favorite-orders/:orderId", r.userController.SaveFavoriteOrder)
			users.DELETE("/me/favorite-orders/:id", r.userController.RemoveFavoriteOrder)

			users.GET("/:id", r.userController.GetProfile)
			users.POST("/:id/follow", r.userController.Follow)
			users.DELETE("/:id/follow", r.userController.Unfollow)
			users.GET("/:id/followers", r.userController.GetFollowers)
			users.GET("/:id/following", r.userController.GetFollowing)
		}

		restaurants := v1.Group("/restaurants")
		{
			restaurants.GET("", r.restaurantController.List)
			restaurants.GET("/nearby", r.restaurantController.Nearby)
			restaurants.GET("/collections", r.restaurantController.Collections)
			restaurants.GET("/suggestions", r.restaurantController.Suggestions)
			restaurants.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.restaurantController.GetByID)
			restaurants.GET("/:id/reviews", r.reviewController.ListByRestaurant)

			restaurants.GET("/mine",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.restaurantController.MyRestaurants,
			)
			restaurants.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.restaurantController.Create,
			)
			restaurants.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.restaurantController.Update,
			)
			restaurants.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.restaurantController.Delete,
			)

			restaurants.POST("/:id/menu",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.restaurantController.AddMenuItem,
			)
			restaurants.PUT("/:id/menu/:itemId",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.restaurantController.UpdateMenuItem,
			)
			restaurants.DELETE("/:id/menu/:itemId",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.restaurantController.DeleteMenuItem,
			)

			restaurants.POST("/:id/images",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.restaurantController.AddImage,
			)
			restaurants.DELETE("/:id/images/:imageId",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.restaurantController.DeleteImage,
			)

			restaurants.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.Create,
			)
			restaurants.GET("/:id/orders",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.orderController.RestaurantOrders,
			)
			restaurants.GET("/:id/bookings",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.bookingController.RestaurantBookings,
			)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.GET("/mine", r.reviewController.MyReviews)
			reviews.PUT("/:id", r.reviewController.Update)
			reviews.DELETE("/:id", r.reviewController.Delete)
			reviews.POST("/:id/like", r.reviewController.ToggleLike)
			reviews.POST("/:id/replies", r.reviewController.Reply)
			reviews.POST("/:id/photos", r.reviewController.AddPhoto)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.MyOrders)
			orders.POST("", r.orderController.Create)
			// Registered before :id so the websocket path wins the static match.
			orders.GET("/track", r.orderController.Track)
			orders.GET("/all",
				r.authMiddleware.RequireRole("admin"),
				r.orderController.AllOrders,
			)
			orders.GET("/:id", r.orderController.GetByID)
			orders.PUT("/:id/status",
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.orderController.UpdateStatus,
			)
			orders.PUT("/:id/cancel", r.orderController.Cancel)
		}

		bookings := v1.Group("/bookings")
		bookings.Use(r.authMiddleware.Authenticate())
		{
			bookings.GET("", r.bookingController.MyBookings)
			bookings.POST("", r.bookingController.Create)
			bookings.GET("/code/:code", r.bookingController.GetByCode)
			bookings.GET("/:id", r.bookingController.GetByID)
			bookings.PUT("/:id/status",
				r.authMiddleware.RequireRole("restaurant_owner", "admin"),
				r.bookingController.UpdateStatus,
			)
			bookings.PUT("/:id/cancel", r.bookingController.Cancel)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
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
