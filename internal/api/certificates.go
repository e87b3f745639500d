package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tripmarket-io/tripmarket/internal/certificate"
)

// Mint tokenizes a completed service; minter role (the request/auction
// subsystem) or admin.
func (h *Handler) Mint(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Owner string `json:"owner"`
		certificate.MintParams
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Owner == "" || req.RequestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "owner and request_id are required"})
	}

	cert, err := h.Ex.Mint(uid, req.Owner, req.MintParams)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"certificate": cert,
		"message":     "certificate minted successfully",
	})
}

// GetCertificate returns a certificate by id.
func (h *Handler) GetCertificate(c echo.Context) error {
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	cert, err := h.Ex.Certificate(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"certificate": cert})
}

// Verify sets the verified flag and quality score; verifier role only.
func (h *Handler) Verify(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	var req struct {
		Score int64 `json:"score"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Ex.Verify(uid, id, req.Score); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "certificate verified"})
}

// Rate merges a rating into the certificate's quality score.
func (h *Handler) Rate(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	var req struct {
		Score int64 `json:"score"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Ex.Rate(uid, id, req.Score); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "rating recorded"})
}

// Tag appends a free-form tag; current owner only.
func (h *Handler) Tag(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	var req struct {
		Tag string `json:"tag"`
	}
	if err := c.Bind(&req); err != nil || req.Tag == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tag is required"})
	}
	if err := h.Ex.Tag(uid, id, req.Tag); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tag added"})
}

// Extend pushes the validity deadline out; original provider or admin.
func (h *Handler) Extend(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	var req struct {
		Extension int64 `json:"extension"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Ex.ExtendValidity(uid, id, req.Extension, time.Now().Unix()); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "validity extended"})
}

// SetRoyalty updates the royalty percentage; original provider or admin.
func (h *Handler) SetRoyalty(c echo.Context) error {
	uid, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	var req struct {
		RoyaltyPct int64 `json:"royalty_pct"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.Ex.SetRoyalty(uid, id, req.RoyaltyPct); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "royalty updated"})
}

// CheckExpiration persists the expired flag when the deadline has passed.
func (h *Handler) CheckExpiration(c echo.Context) error {
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	if err := h.Ex.CheckExpiration(id, time.Now().Unix()); err != nil {
		return fail(c, err)
	}
	cert, err := h.Ex.Certificate(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"expired": cert.Expired})
}

// CanTransfer exposes the pure pre-transfer predicate.
func (h *Handler) CanTransfer(c echo.Context) error {
	id, ok := certIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid certificate id"})
	}
	if _, err := h.Ex.Certificate(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"can_transfer": h.Ex.CanTransfer(id, time.Now().Unix()),
	})
}
