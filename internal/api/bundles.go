package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CreateBundle groups certificates the caller owns into one purchasable
// unit.
func (h *Handler) CreateBundle(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Name    string   `json:"name"`
		CertIDs []uint64 `json:"cert_ids"`
		Price   int64    `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.CertIDs) < 2 || req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least two cert_ids and a valid price are required"})
	}

	b, err := h.Ex.CreateBundle(uid, req.Name, req.CertIDs, req.Price)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"bundle":  b,
		"message": "bundle created successfully",
	})
}

// GetBundle returns a bundle by id.
func (h *Handler) GetBundle(c echo.Context) error {
	b, err := h.Ex.Bundle(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bundle": b})
}

// PurchaseBundle buys every component of a bundle atomically.
func (h *Handler) PurchaseBundle(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	receipt, err := h.Ex.PurchaseBundle(uid, c.Param("id"), time.Now().Unix())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"receipt": receipt,
		"message": "bundle purchase completed",
	})
}

// DeactivateBundle retires an active bundle; owner or admin.
func (h *Handler) DeactivateBundle(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Ex.DeactivateBundle(uid, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "bundle deactivated"})
}
