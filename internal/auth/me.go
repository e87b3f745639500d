package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Me returns the currently authenticated account's profile
func (h *Handler) Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	a, ok := h.Accounts.ByID(userID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":    a.ID,
		"name":  a.Name,
		"email": a.Email,
		"role":  a.Role,
	})
}
