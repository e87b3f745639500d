package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/tripmarket-io/tripmarket/internal/alerts"
	"github.com/tripmarket-io/tripmarket/internal/api"
	"github.com/tripmarket-io/tripmarket/internal/auth"
	"github.com/tripmarket-io/tripmarket/internal/exchange"
	"github.com/tripmarket-io/tripmarket/internal/history"
	"github.com/tripmarket-io/tripmarket/internal/ledger"
	"github.com/tripmarket-io/tripmarket/internal/market"
	mware "github.com/tripmarket-io/tripmarket/internal/middleware"
)

// seedAccount creates an account from env-supplied credentials and returns
// its id; roles like admin and minter cannot be self-assigned at signup.
func seedAccount(accounts *auth.Store, email, password, role string) string {
	if email == "" || password == "" {
		return ""
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("seed %s account: %v", role, err)
	}
	a, ok := accounts.Create(role, email, string(hashed), role)
	if !ok {
		log.Fatalf("seed %s account: email %s already taken", role, email)
	}
	log.Printf("seeded %s account %s", role, email)
	return a.ID
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	accounts := auth.NewStore()
	adminID := seedAccount(accounts, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"), "admin")
	minterID := seedAccount(accounts, os.Getenv("MINTER_EMAIL"), os.Getenv("MINTER_PASSWORD"), "minter")

	payments := ledger.NewMemoryPayments()
	ownership := ledger.NewMemoryOwnership()
	registry := ledger.NewMemoryRegistry()

	state, err := market.NewState(envInt64("MARKET_FEE_PCT", 1))
	if err != nil {
		log.Fatalf("invalid MARKET_FEE_PCT: %v", err)
	}

	operator := os.Getenv("MARKET_OPERATOR")
	if operator == "" {
		operator = "tripmarket-operator"
	}

	var notifier exchange.Notifier = alerts.LogNotifier{}
	if os.Getenv("REDIS_ADDR") != "" || os.Getenv("REDIS_HOST") != "" {
		alerts.Init()
		defer alerts.Close()
		notifier = alerts.QueueNotifier{}
	}

	var recorder exchange.Recorder
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		archive, err := history.Open(context.Background(), dsn)
		if err != nil {
			log.Fatalf("trade archive unavailable: %v", err)
		}
		defer archive.Close()
		recorder = archive
	}

	cfg := exchange.Config{
		Market:    state,
		Payments:  payments,
		Ownership: ownership,
		Registry:  registry,
		Minter:    ownership,
		Notifier:  notifier,
		Recorder:  recorder,
		Operator:  operator,
	}
	if adminID != "" {
		cfg.Admins = []string{adminID}
	}
	if minterID != "" {
		cfg.Minters = []string{minterID}
	}
	ex := exchange.New(cfg)

	// Expired certificates must not move: wire the engine's pre-transfer
	// predicate into the ownership ledger.
	ownership.Guard = ex.CanTransferNow

	// Periodically rewrite cached prices on dynamic listings.
	refreshEvery := time.Duration(envInt64("PRICE_REFRESH_SECS", 30)) * time.Second
	go func() {
		ticker := time.NewTicker(refreshEvery)
		defer ticker.Stop()
		for range ticker.C {
			if n := ex.RefreshPrices(time.Now().Unix()); n > 0 {
				log.Printf("price refresh updated %d listings", n)
			}
		}
	}()

	h := &api.Handler{Ex: ex, Payments: payments, Ownership: ownership, Registry: registry}
	authH := &auth.Handler{Accounts: accounts}

	e := echo.New()

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "tripmarket"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes
	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", authH.Signup)
	authGroup.POST("/login", authH.Login)

	e.GET("/market/listings", h.GetActiveListings)
	e.GET("/market/listings/:id/price", h.GetPrice)
	e.POST("/market/search", h.Search)
	e.GET("/certificates/:id", h.GetCertificate)
	e.GET("/certificates/:id/can-transfer", h.CanTransfer)
	e.GET("/market/bundles/:id", h.GetBundle)

	// Protected routes
	apiGroup := e.Group("")
	apiGroup.Use(mware.JWTMiddleware)

	apiGroup.GET("/auth/me", authH.Me)

	apiGroup.GET("/wallet/balance", h.Balance)
	apiGroup.POST("/wallet/topup", h.Topup)
	apiGroup.POST("/wallet/approve", h.Approve)
	apiGroup.POST("/wallet/approve-transfers", h.ApproveTransfers)
	apiGroup.GET("/market/stats/me", h.MyStats)
	apiGroup.POST("/points/redeem", h.RedeemPoints)

	apiGroup.POST("/certificates/mint", h.Mint, mware.RequireRoles("minter", "admin"))
	apiGroup.POST("/certificates/:id/verify", h.Verify)
	apiGroup.POST("/certificates/:id/rate", h.Rate)
	apiGroup.POST("/certificates/:id/tags", h.Tag)
	apiGroup.POST("/certificates/:id/extend", h.Extend)
	apiGroup.PATCH("/certificates/:id/royalty", h.SetRoyalty)
	apiGroup.POST("/certificates/:id/check-expiration", h.CheckExpiration)

	apiGroup.POST("/market/listings", h.CreateListing)
	apiGroup.POST("/market/listings/:id/cancel", h.CancelListing)
	apiGroup.POST("/market/listings/:id/purchase", h.Purchase)

	apiGroup.POST("/market/bundles", h.CreateBundle)
	apiGroup.POST("/market/bundles/:id/purchase", h.PurchaseBundle)
	apiGroup.POST("/market/bundles/:id/deactivate", h.DeactivateBundle)

	// Admin routes
	admin := e.Group("/admin")
	admin.Use(mware.JWTMiddleware)
	admin.Use(mware.AdminGuard)

	admin.PATCH("/fee", h.SetFee)
	admin.POST("/points/award", h.AwardPoints)
	admin.POST("/verifiers", h.AddVerifier)
	admin.POST("/minters", h.AddMinter)
	admin.POST("/providers", h.RegisterProvider)
	admin.GET("/stats/:id", h.GetStats)
	admin.POST("/refresh-prices", h.RefreshPrices)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
