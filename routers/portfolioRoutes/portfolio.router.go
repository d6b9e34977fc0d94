package portfolioRoutes

import (
	portfolioController "stockfolio/controllers/portfolioController"
	"stockfolio/middleware"
	"stockfolio/validators/tradeValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupPortfolioRoutes(app *fiber.App) {
	portfolioGroup := app.Group("/portfolio")

	portfolioGroup.Get("/", middleware.JWTMiddleware, portfolioController.GetPortfolio)
	portfolioGroup.Get("/history", tradeValidator.History(), middleware.JWTMiddleware, portfolioController.GetHistory)
}
