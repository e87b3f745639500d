package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Balance returns the authenticated identity's payment-ledger balance and
// remaining exchange allowance.
func (h *Handler) Balance(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":   uid,
		"balance":   h.Payments.Balance(uid),
		"allowance": h.Payments.Allowance(uid),
	})
}

// Topup credits the caller's balance on the in-process payment ledger.
func (h *Handler) Topup(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a positive amount is required"})
	}
	h.Payments.Credit(uid, req.Amount)
	return c.JSON(http.StatusOK, echo.Map{
		"balance": h.Payments.Balance(uid),
		"message": "topup applied",
	})
}

// Approve grants the exchange an allowance to spend the caller's funds
// during purchases.
func (h *Handler) Approve(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil || req.Amount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a non-negative amount is required"})
	}
	h.Payments.Approve(uid, req.Amount)
	return c.JSON(http.StatusOK, echo.Map{
		"allowance": h.Payments.Allowance(uid),
		"message":   "allowance set",
	})
}

// ApproveTransfers grants the exchange operator approval-for-all on the
// ownership ledger, the precondition for listing.
func (h *Handler) ApproveTransfers(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Approved bool `json:"approved"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	h.Ownership.SetApprovalForAll(uid, h.Ex.Operator(), req.Approved)
	return c.JSON(http.StatusOK, echo.Map{"message": "transfer approval updated"})
}

// MyStats returns the caller's marketplace counters.
func (h *Handler) MyStats(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": uid,
		"stats":   h.Ex.Stats(uid),
	})
}

// RedeemPoints spends the caller's activity points.
func (h *Handler) RedeemPoints(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Points int64 `json:"points"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Ex.RedeemPoints(uid, req.Points); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"stats":   h.Ex.Stats(uid),
		"message": "points redeemed",
	})
}
