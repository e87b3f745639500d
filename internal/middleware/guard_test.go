package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func invoke(t *testing.T, mw echo.MiddlewareFunc, role any) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestAdminGuard(t *testing.T) {
	asMW := func(next echo.HandlerFunc) echo.HandlerFunc { return AdminGuard(next) }

	require.Equal(t, http.StatusOK, invoke(t, asMW, "admin").Code)
	require.Equal(t, http.StatusForbidden, invoke(t, asMW, "commuter").Code)
	require.Equal(t, http.StatusForbidden, invoke(t, asMW, nil).Code)
}

func TestRequireRoles(t *testing.T) {
	mw := RequireRoles("minter", "admin")

	require.Equal(t, http.StatusOK, invoke(t, mw, "minter").Code)
	require.Equal(t, http.StatusOK, invoke(t, mw, "admin").Code)
	require.Equal(t, http.StatusForbidden, invoke(t, mw, "commuter").Code)
	require.Equal(t, http.StatusForbidden, invoke(t, mw, nil).Code)
}
