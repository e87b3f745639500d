package exchange

import (
	"github.com/tripmarket-io/tripmarket/internal/fault"
	"github.com/tripmarket-io/tripmarket/internal/market"
)

// Stats returns the identity's marketplace counters.
func (e *Exchange) Stats(id string) market.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.market.StatsFor(id)
}

// FeePct returns the current base fee percentage.
func (e *Exchange) FeePct() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.market.FeePct()
}

// SetFee updates the marketplace fee percentage; admin only, range 0–10.
func (e *Exchange) SetFee(caller string, pct int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.admins[caller] {
		return fault.ErrNotAuthorized
	}
	return e.market.SetFeePct(pct)
}

// AwardPoints credits activity points to an identity; admin only.
func (e *Exchange) AwardPoints(caller, id string, points int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.admins[caller] {
		return fault.ErrNotAuthorized
	}
	return e.market.AwardPoints(id, points)
}

// RedeemPoints spends the caller's own activity points.
func (e *Exchange) RedeemPoints(caller string, points int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.market.RedeemPoints(caller, points)
}

// AddVerifier registers a verifier identity; admin only.
func (e *Exchange) AddVerifier(caller, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.admins[caller] {
		return fault.ErrNotAuthorized
	}
	e.verifiers[id] = true
	return nil
}

// AddMinter registers a minter identity; admin only.
func (e *Exchange) AddMinter(caller, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.admins[caller] {
		return fault.ErrNotAuthorized
	}
	e.minters[id] = true
	return nil
}
