package main

import (
	"log"
	"stockfolio/config"
	"stockfolio/database"
	authRoutes "stockfolio/routers/authRoutes"
	portfolioRoutes "stockfolio/routers/portfolioRoutes"
	tradeRoutes "stockfolio/routers/tradeRoutes"
	"stockfolio/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	utils.Quotes = utils.NewQuoteClient()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	portfolioRoutes.SetupPortfolioRoutes(app)
	tradeRoutes.SetupTradeRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
