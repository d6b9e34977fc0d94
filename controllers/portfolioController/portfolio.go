package portfolioController

import (
	"log"
	"stockfolio/database"
	"stockfolio/middleware"
	"stockfolio/models"
	"stockfolio/utils"

	"github.com/gofiber/fiber/v2"
)

// Holding is one row of the portfolio view
type Holding struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Shares int64   `json:"shares"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
}

// GetPortfolio derives the user's current holdings from the ledger and prices
// them with live quotes. Symbols whose summed share count is not positive are
// dropped. A quote failure for a held symbol fails the whole request: omitting
// the holding would misstate total equity.
func GetPortfolio(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	db := database.Database.Db

	var rows []struct {
		Symbol      string
		TotalShares int64
	}
	if err := db.Model(&models.Transaction{}).
		Select("symbol, SUM(shares) as total_shares").
		Where("user_id = ?", userId).
		Group("symbol").
		Having("SUM(shares) > 0").
		Order("symbol").
		Scan(&rows).Error; err != nil {
		log.Printf("Error aggregating holdings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch portfolio!", nil)
	}

	holdings := make([]Holding, 0, len(rows))
	var stockValue float64
	for _, row := range rows {
		quote, err := utils.Quotes.Lookup(row.Symbol)
		if err != nil {
			log.Printf("Quote lookup failed for held symbol %s: %v", row.Symbol, err)
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Quote lookup failed for "+row.Symbol+"!", nil)
		}

		value := float64(row.TotalShares) * quote.Price
		holdings = append(holdings, Holding{
			Symbol: quote.Symbol,
			Name:   quote.Name,
			Shares: row.TotalShares,
			Price:  quote.Price,
			Value:  value,
		})
		stockValue += value
	}

	var user models.User
	if err := db.First(&user, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio fetched!", fiber.Map{
		"holdings": holdings,
		"cash":     user.Cash,
		"total":    stockValue + user.Cash,
	})
}

// GetHistory returns the user's transactions, newest first, paginated.
func GetHistory(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	if err := db.Model(&models.Transaction{}).Where("user_id = ?", userId).Count(&total).Error; err != nil {
		log.Printf("Error counting transactions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	var transactions []models.Transaction
	if err := db.Where("user_id = ?", userId).
		Order("transacted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error; err != nil {
		log.Printf("Error fetching transactions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction history fetched!", fiber.Map{
		"transactions": transactions,
		"page":         page,
		"limit":        limit,
		"total":        total,
	})
}
