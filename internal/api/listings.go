package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tripmarket-io/tripmarket/internal/exchange"
	"github.com/tripmarket-io/tripmarket/internal/listing"
)

// CreateListing lists a certificate for sale, fixed or dynamically priced.
func (h *Handler) CreateListing(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		CertID uint64 `json:"cert_id"`
		exchange.ListParams
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.CertID == 0 || req.InitialPrice <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cert_id and a valid initial_price are required"})
	}

	l, err := h.Ex.List(uid, req.CertID, req.ListParams)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"listing": l,
		"message": "listing created successfully",
	})
}

// CancelListing retires an active listing; seller or admin.
func (h *Handler) CancelListing(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	if err := h.Ex.Cancel(uid, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "listing cancelled"})
}

// GetActiveListings returns all unsold listings.
func (h *Handler) GetActiveListings(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"listings": h.Ex.ActiveListings()})
}

// GetPrice returns the live price of an active listing.
func (h *Handler) GetPrice(c echo.Context) error {
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	price, err := h.Ex.CurrentPrice(id, time.Now().Unix())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cert_id": id, "price": price})
}

// Search runs the multi-criteria listing search.
func (h *Handler) Search(c echo.Context) error {
	var f listing.Filter
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filter"})
	}
	results := h.Ex.Search(f, time.Now().Unix())
	return c.JSON(http.StatusOK, echo.Map{
		"count":    len(results),
		"listings": results,
	})
}

// Purchase buys an active listing at its current price.
func (h *Handler) Purchase(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	receipt, err := h.Ex.Purchase(uid, id, time.Now().Unix())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"receipt": receipt,
		"message": "purchase completed",
	})
}
