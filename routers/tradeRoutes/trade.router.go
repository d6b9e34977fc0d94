package tradeRoutes

import (
	tradeController "stockfolio/controllers/tradeController"
	"stockfolio/middleware"
	"stockfolio/validators/tradeValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupTradeRoutes(app *fiber.App) {
	tradeGroup := app.Group("/trade")

	tradeGroup.Post("/buy", tradeValidator.Buy(), middleware.JWTMiddleware, tradeController.Buy)
	tradeGroup.Post("/sell", tradeValidator.Sell(), middleware.JWTMiddleware, tradeController.Sell)

	app.Get("/quote/:symbol", middleware.JWTMiddleware, tradeController.GetQuote)
}
