package tradeValidator

import (
	"stockfolio/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MaxTradeShares bounds a single order. Share counts are checked as integers
// against an explicit range rather than by string shape, so leading zeros are
// fine and oversized values are rejected outright.
const MaxTradeShares = 1_000_000

// TradeRequest is the validated buy/sell payload
type TradeRequest struct {
	Symbol string `json:"symbol"`
	Shares int    `json:"shares"`
}

func tradeRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TradeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Symbol = strings.ToUpper(strings.TrimSpace(reqData.Symbol))

		errors := make(map[string]string)

		if reqData.Symbol == "" {
			errors["symbol"] = "Symbol is required!"
		}
		if reqData.Shares < 1 {
			errors["shares"] = "Shares must be a positive integer!"
		} else if reqData.Shares > MaxTradeShares {
			errors["shares"] = "Shares exceeds the maximum order size!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTrade", reqData)
		return c.Next()
	}
}

// Buy validator middleware
func Buy() fiber.Handler {
	return tradeRequest()
}

// Sell validator middleware
func Sell() fiber.Handler {
	return tradeRequest()
}

// History validator middleware for the paginated transaction listing
func History() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)

		errors := make(map[string]string)

		if page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
