package portfolioController_test

import (
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"stockfolio/controllers/portfolioController"
	"stockfolio/models"
	"stockfolio/testutils"
	"stockfolio/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type portfolioData struct {
	Holdings []portfolioController.Holding `json:"holdings"`
	Cash     float64   `json:"cash"`
	Total    float64   `json:"total"`
}

func decodeResponse(t *testing.T, body io.Reader) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func stubMarket() testutils.StubQuotes {
	return testutils.StubQuotes{Data: map[string]*utils.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: 100.00},
		"NFLX": {Symbol: "NFLX", Name: "Netflix Inc", Price: 250.50},
	}}
}

func recordTrade(t *testing.T, db *gorm.DB, userID uint, symbol string, shares int, price float64, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Transaction{
		UserID:       userID,
		Symbol:       symbol,
		Shares:       shares,
		Price:        price,
		TransactedAt: at,
	}).Error)
}

func getPortfolio(t *testing.T, app *fiber.App, token string) (int, portfolioData) {
	t.Helper()
	resp, err := app.Test(testutils.AuthedRequest("GET", "/portfolio/", token, nil))
	require.NoError(t, err)

	body := decodeResponse(t, resp.Body)
	var data portfolioData
	if len(body.Data) > 0 && string(body.Data) != "null" {
		require.NoError(t, json.Unmarshal(body.Data, &data))
	}
	return resp.StatusCode, data
}

func TestPortfolioEmptyIsJustCash(t *testing.T) {
	testutils.SetupTestDB(t)
	app := testutils.NewTestApp()
	testutils.UseStubQuotes(t, stubMarket())

	user := testutils.CreateUser(t, "alice", "Abcdefg1!", 10000)
	token := testutils.AuthToken(t, user.ID)

	status, data := getPortfolio(t, app, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, data.Holdings)
	assert.InDelta(t, 10000.00, data.Cash, 1e-9)
	assert.InDelta(t, 10000.00, data.Total, 1e-9)
}

func TestPortfolioAggregatesSignedShares(t *testing.T) {
	db := testutils.SetupTestDB(t)
	app := testutils.NewTestApp()
	testutils.UseStubQuotes(t, stubMarket())

	user := testutils.CreateUser(t, "alice", "Abcdefg1!", 4000)
	token := testutils.AuthToken(t, user.ID)

	now := time.Now()
	recordTrade(t, db, user.ID, "AAPL", 10, 90.00, now.Add(-3*time.Hour))
	recordTrade(t, db, user.ID, "AAPL", -4, 95.00, now.Add(-2*time.Hour))
	recordTrade(t, db, user.ID, "NFLX", 2, 240.00, now.Add(-1*time.Hour))

	status, data := getPortfolio(t, app, token)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, data.Holdings, 2)

	// Ordered by symbol
	assert.Equal(t, "AAPL", data.Holdings[0].Symbol)
	assert.EqualValues(t, 6, data.Holdings[0].Shares)
	assert.InDelta(t, 600.00, data.Holdings[0].Value, 1e-9)

	assert.Equal(t, "NFLX", data.Holdings[1].Symbol)
	assert.EqualValues(t, 2, data.Holdings[1].Shares)
	assert.InDelta(t, 501.00, data.Holdings[1].Value, 1e-9)

	// Total equity = cash + sum of market values
	assert.InDelta(t, 4000.00+600.00+501.00, data.Total, 1e-9)
}

func TestPortfolioSuppressesClosedPositions(t *testing.T) {
	db := testutils.SetupTestDB(t)
	app := testutils.NewTestApp()
	testutils.UseStubQuotes(t, stubMarket())

	user := testutils.CreateUser(t, "alice", "Abcdefg1!", 10000)
	token := testutils.AuthToken(t, user.ID)

	now := time.Now()
	recordTrade(t, db, user.ID, "AAPL", 5, 100.00, now.Add(-2*time.Hour))
	recordTrade(t, db, user.ID, "AAPL", -5, 100.00, now.Add(-1*time.Hour))

	status, data := getPortfolio(t, app, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, data.Holdings)
	assert.InDelta(t, 10000.00, data.Total, 1e-9)
}

func TestPortfolioDoesNotLeakOtherUsers(t *testing.T) {
	db := testutils.SetupTestDB(t)
	app := testutils.NewTestApp()
	testutils.UseStubQuotes(t, stubMarket())

	alice := testutils.CreateUser(t, "alice", "Abcdefg1!", 10000)
	bob := testutils.CreateUser(t, "bob", "Abcdefg1!", 10000)
	token := testutils.AuthToken(t, alice.ID)

	recordTrade(t, db, bob.ID, "AAPL", 10, 100.00, time.Now())

	status, data := getPortfolio(t, app, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, data.Holdings)
}

func TestPortfolioFailsWhenHeldSymbolUnquotable(t *testing.T) {
	db := testutils.SetupTestDB(t)
	app := testutils.NewTestApp()

	user := testutils.CreateUser(t, "alice", "Abcdefg1!", 10000)
	token := testutils.AuthToken(t, user.ID)

	recordTrade(t, db, user.ID, "GONE", 10, 50.00, time.Now())

	// The held symbol is no longer quotable; the whole view must fail rather
	// than misstate total equity.
	testutils.UseStubQuotes(t, stubMarket())
	status, _ := getPortfolio(t, app, token)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	// Same outcome when the quote service is down entirely
	testutils.UseStubQuotes(t, testutils.StubQuotes{Err: errors.New("timeout")})
	status, _ = getPortfolio(t, app, token)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestHistoryNewestFirstAndPaginated(t *testing.T) {
	db := testutils.SetupTestDB(t)
	app := testutils.NewTestApp()

	user := testutils.CreateUser(t, "alice", "Abcdefg1!", 10000)
	token := testutils.AuthToken(t, user.ID)

	now := time.Now()
	recordTrade(t, db, user.ID, "AAPL", 10, 100.00, now.Add(-3*time.Hour))
	recordTrade(t, db, user.ID, "NFLX", 2, 240.00, now.Add(-2*time.Hour))
	recordTrade(t, db, user.ID, "AAPL", -4, 110.00, now.Add(-1*time.Hour))

	resp, err := app.Test(testutils.AuthedRequest("GET", "/portfolio/history?page=1&limit=2", token, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp.Body)
	var data struct {
		Transactions []models.Transaction `json:"transactions"`
		Total        int64                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))

	assert.EqualValues(t, 3, data.Total)
	require.Len(t, data.Transactions, 2)
	assert.Equal(t, -4, data.Transactions[0].Shares)
	assert.Equal(t, "NFLX", data.Transactions[1].Symbol)
}

func TestPortfolioRequiresAuth(t *testing.T) {
	testutils.SetupTestDB(t)
	app := testutils.NewTestApp()

	req := testutils.AuthedRequest("GET", "/portfolio/", "bad-token", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
