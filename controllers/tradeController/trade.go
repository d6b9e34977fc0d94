package tradeController

import (
	"errors"
	"log"
	"stockfolio/database"
	"stockfolio/middleware"
	"stockfolio/models"
	"stockfolio/utils"
	"stockfolio/validators/tradeValidator"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Buy executes a purchase at the current quoted price. The cash decrement is
// an update-with-check, so a concurrent buy by the same user cannot overdraw,
// and it commits in the same database transaction as the ledger insert. The
// price is the one fetched here; it is not re-fetched before the write.
func Buy(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedTrade").(*tradeValidator.TradeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quote, err := utils.Quotes.Lookup(reqData.Symbol)
	if err != nil {
		if errors.Is(err, utils.ErrSymbolNotFound) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid symbol!", nil)
		}
		log.Printf("Quote lookup failed for %s: %v", reqData.Symbol, err)
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Quote service unavailable!", nil)
	}

	cost := float64(reqData.Shares) * quote.Price

	db := database.Database.Db
	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Decrement cash only if the balance covers the cost
	result := tx.Model(&models.User{}).
		Where("id = ? AND cash >= ?", userId, cost).
		Update("cash", gorm.Expr("cash - ?", cost))
	if result.Error != nil {
		tx.Rollback()
		log.Printf("Error updating cash: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to execute trade!", nil)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient funds!", nil)
	}

	transaction := models.Transaction{
		UserID:       userId,
		Symbol:       quote.Symbol,
		Shares:       reqData.Shares,
		Price:        quote.Price,
		TransactedAt: time.Now(),
	}
	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		log.Printf("Error recording transaction: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to execute trade!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing trade: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to execute trade!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase successful!", fiber.Map{
		"transactionId": transaction.ID,
		"symbol":        quote.Symbol,
		"shares":        reqData.Shares,
		"price":         quote.Price,
		"cost":          cost,
	})
}

// Sell executes a sale at the current quoted price. The holding is recomputed
// from the ledger inside the transaction; a request for more shares than held
// writes nothing.
func Sell(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedTrade").(*tradeValidator.TradeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quote, err := utils.Quotes.Lookup(reqData.Symbol)
	if err != nil {
		if errors.Is(err, utils.ErrSymbolNotFound) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid symbol!", nil)
		}
		log.Printf("Quote lookup failed for %s: %v", reqData.Symbol, err)
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Quote service unavailable!", nil)
	}

	proceeds := float64(reqData.Shares) * quote.Price

	db := database.Database.Db
	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var holding int64
	if err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND symbol = ?", userId, quote.Symbol).
		Select("COALESCE(SUM(shares), 0)").
		Scan(&holding).Error; err != nil {
		tx.Rollback()
		log.Printf("Error computing holding: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to execute trade!", nil)
	}

	if int64(reqData.Shares) > holding {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient shares!", nil)
	}

	transaction := models.Transaction{
		UserID:       userId,
		Symbol:       quote.Symbol,
		Shares:       -reqData.Shares,
		Price:        quote.Price,
		TransactedAt: time.Now(),
	}
	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		log.Printf("Error recording transaction: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to execute trade!", nil)
	}

	result := tx.Model(&models.User{}).
		Where("id = ?", userId).
		Update("cash", gorm.Expr("cash + ?", proceeds))
	if result.Error != nil || result.RowsAffected == 0 {
		tx.Rollback()
		log.Printf("Error updating cash: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to execute trade!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing trade: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to execute trade!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sale successful!", fiber.Map{
		"transactionId": transaction.ID,
		"symbol":        quote.Symbol,
		"shares":        reqData.Shares,
		"price":         quote.Price,
		"proceeds":      proceeds,
	})
}

// GetQuote resolves a symbol to its live quote.
func GetQuote(c *fiber.Ctx) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Params("symbol")))
	if symbol == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Symbol is required!", nil)
	}

	quote, err := utils.Quotes.Lookup(symbol)
	if err != nil {
		if errors.Is(err, utils.ErrSymbolNotFound) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid symbol!", nil)
		}
		log.Printf("Quote lookup failed for %s: %v", symbol, err)
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Quote service unavailable!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quote fetched!", quote)
}
