package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SetFee updates the marketplace base fee percentage.
func (h *Handler) SetFee(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		FeePct int64 `json:"fee_pct"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Ex.SetFee(uid, req.FeePct); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"fee_pct": h.Ex.FeePct(), "message": "fee updated"})
}

// AwardPoints credits activity points to any identity.
func (h *Handler) AwardPoints(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Identity string `json:"identity"`
		Points   int64  `json:"points"`
	}
	if err := c.Bind(&req); err != nil || req.Identity == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identity and points are required"})
	}
	if err := h.Ex.AwardPoints(uid, req.Identity, req.Points); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "points awarded"})
}

// AddVerifier registers a verifier identity.
func (h *Handler) AddVerifier(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Identity string `json:"identity"`
	}
	if err := c.Bind(&req); err != nil || req.Identity == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identity is required"})
	}
	if err := h.Ex.AddVerifier(uid, req.Identity); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "verifier added"})
}

// AddMinter registers a minter identity.
func (h *Handler) AddMinter(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Identity string `json:"identity"`
	}
	if err := c.Bind(&req); err != nil || req.Identity == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identity is required"})
	}
	if err := h.Ex.AddMinter(uid, req.Identity); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "minter added"})
}

// RegisterProvider binds a provider id to its payout identity in the
// registry.
func (h *Handler) RegisterProvider(c echo.Context) error {
	var req struct {
		ProviderID string `json:"provider_id"`
		Identity   string `json:"identity"`
	}
	if err := c.Bind(&req); err != nil || req.ProviderID == "" || req.Identity == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provider_id and identity are required"})
	}
	h.Registry.Register(req.ProviderID, req.Identity)
	return c.JSON(http.StatusOK, echo.Map{"message": "provider registered"})
}

// GetStats returns the counters for any identity.
func (h *Handler) GetStats(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing identity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"identity": id, "stats": h.Ex.Stats(id)})
}

// RefreshPrices forces a price refresh pass over all dynamic listings.
func (h *Handler) RefreshPrices(c echo.Context) error {
	updated := h.Ex.RefreshPrices(time.Now().Unix())
	return c.JSON(http.StatusOK, echo.Map{"updated": updated})
}
