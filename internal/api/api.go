// Package api exposes the exchange engine over HTTP. Handlers pull the
// verified caller identity off the request context and pass it to the
// engine explicitly; the engine itself never reads ambient state.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tripmarket-io/tripmarket/internal/exchange"
	"github.com/tripmarket-io/tripmarket/internal/fault"
	"github.com/tripmarket-io/tripmarket/internal/ledger"
)

// Handler carries the engine and the in-process ledgers the wallet and
// admin surfaces manage directly.
type Handler struct {
	Ex        *exchange.Exchange
	Payments  *ledger.MemoryPayments
	Ownership *ledger.MemoryOwnership
	Registry  *ledger.MemoryRegistry
}

// caller extracts the authenticated identity set by the JWT middleware.
func caller(c echo.Context) (string, bool) {
	uid, ok := c.Get("user_id").(string)
	return uid, ok && uid != ""
}

// certIDParam parses the :id path parameter as a certificate id.
func certIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}

// fail renders an engine error with the matching HTTP status.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fault.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, fault.ErrNotOwner),
		errors.Is(err, fault.ErrNotAuthorized),
		errors.Is(err, fault.ErrNotApproved):
		status = http.StatusForbidden
	case errors.Is(err, fault.ErrAlreadyListed),
		errors.Is(err, fault.ErrAlreadySold),
		errors.Is(err, fault.ErrAlreadyMinted),
		errors.Is(err, fault.ErrInactiveBundle),
		errors.Is(err, fault.ErrExpired),
		errors.Is(err, fault.ErrInvalidRange),
		errors.Is(err, fault.ErrInsufficientBalance):
		status = http.StatusBadRequest
	case errors.Is(err, fault.ErrPaymentFailed):
		status = http.StatusPaymentRequired
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
