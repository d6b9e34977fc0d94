package testutils

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockfolio/config"
	"stockfolio/database"
	"stockfolio/middleware"
	"stockfolio/models"
	authRoutes "stockfolio/routers/authRoutes"
	portfolioRoutes "stockfolio/routers/portfolioRoutes"
	tradeRoutes "stockfolio/routers/tradeRoutes"
	"stockfolio/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB points the global database instance at a fresh in-memory SQLite
// database and migrates the schema. Each test gets its own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{
			JWTKey:       "test-secret",
			SaltRound:    bcrypt.MinCost,
			StartingCash: 10000.00,
		}
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// Shared-cache memory databases vanish when the last connection closes;
	// keep the pool at one and hold it open for the test's lifetime.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Session{},
		&models.LoginTracking{},
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

// NewTestApp builds a fiber app with all routes registered.
func NewTestApp() *fiber.App {
	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	portfolioRoutes.SetupPortfolioRoutes(app)
	tradeRoutes.SetupTradeRoutes(app)
	return app
}

// CreateUser inserts a user with a bcrypt-hashed password and the given cash.
func CreateUser(t *testing.T, username, password string, cash float64) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Password: string(hash),
		Cash:     cash,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

// AuthToken issues a JWT for the user and backs it with a session row, as
// login would.
func AuthToken(t *testing.T, userID uint) string {
	t.Helper()

	token, tokenID, err := middleware.GenerateJWT(userID)
	require.NoError(t, err)

	session := models.Session{
		UserID:    userID,
		TokenID:   tokenID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, database.Database.Db.Create(&session).Error)
	return token
}

// AuthedRequest builds a request with a bearer token.
func AuthedRequest(method, target, token string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// StubQuotes is a canned QuoteLookup for tests. Unlisted symbols resolve to
// ErrSymbolNotFound; a non-nil Err fails every lookup.
type StubQuotes struct {
	Data map[string]*utils.Quote
	Err  error
}

func (s StubQuotes) Lookup(symbol string) (*utils.Quote, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if q, ok := s.Data[symbol]; ok {
		return q, nil
	}
	return nil, utils.ErrSymbolNotFound
}

// UseStubQuotes installs a stub lookup for the test and restores the previous
// one afterwards.
func UseStubQuotes(t *testing.T, stub StubQuotes) {
	t.Helper()

	prev := utils.Quotes
	utils.Quotes = stub
	t.Cleanup(func() { utils.Quotes = prev })
}
