package utils

import (
	"errors"
	"fmt"
	"net/http"
	"stockfolio/config"
	"time"

	"github.com/go-resty/resty/v2"
)

// Quote is a point-in-time price lookup result for a symbol.
type Quote struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// ErrSymbolNotFound is returned when the quote service does not know the symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// QuoteLookup resolves a ticker symbol to a live quote. Lookup returns
// ErrSymbolNotFound for unknown symbols and a plain error when the quote
// service itself is unreachable.
type QuoteLookup interface {
	Lookup(symbol string) (*Quote, error)
}

// Quotes is the lookup used by the controllers, set in main. Tests swap in a stub.
var Quotes QuoteLookup

// quoteResponse represents the quote endpoint payload
type quoteResponse struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	LatestPrice float64 `json:"latestPrice"`
}

// QuoteClient fetches live quotes from the configured quote API.
type QuoteClient struct {
	http   *resty.Client
	apiKey string
}

// NewQuoteClient builds a client against config.AppConfig.QuoteApiURL.
func NewQuoteClient() *QuoteClient {
	client := resty.New().
		SetBaseURL(config.AppConfig.QuoteApiURL).
		SetTimeout(10 * time.Second)

	return &QuoteClient{
		http:   client,
		apiKey: config.AppConfig.QuoteApiKey,
	}
}

// Lookup fetches the current quote for a symbol.
func (q *QuoteClient) Lookup(symbol string) (*Quote, error) {
	var result quoteResponse

	resp, err := q.http.R().
		SetPathParam("symbol", symbol).
		SetQueryParam("token", q.apiKey).
		SetResult(&result).
		Get("/stock/{symbol}/quote")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrSymbolNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("quote API error: %s", resp.Status())
	}

	if result.Symbol == "" || result.LatestPrice <= 0 {
		return nil, ErrSymbolNotFound
	}

	return &Quote{
		Symbol: result.Symbol,
		Name:   result.CompanyName,
		Price:  result.LatestPrice,
	}, nil
}
