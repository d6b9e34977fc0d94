package authRoutes

import (
	authController "stockfolio/controllers/authController"
	"stockfolio/middleware"
	"stockfolio/validators/authValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), authController.Register)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Post("/logout", middleware.JWTMiddleware, authController.Logout)
	authGroup.Get("/login/history", authValidator.LoginHistory(), middleware.JWTMiddleware, authController.LoginHistoryList)
	authGroup.Put("/change/password", authValidator.ChangePassword(), middleware.JWTMiddleware, authController.ChangeLoginPassword)
}
