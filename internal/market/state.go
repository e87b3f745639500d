// Package market holds the process-wide marketplace ledger state: the fee
// percentage and per-identity participation counters.
package market

import (
	"sync"

	"github.com/tripmarket-io/tripmarket/internal/fault"
)

// Stats are the per-identity counters the fee calculator and rewards read.
type Stats struct {
	Points    int64 `json:"points"`
	Volume    int64 `json:"volume"`
	Listings  int64 `json:"listings"`
	Purchases int64 `json:"purchases"`
}

// State is initialized once at engine start and mutated by every listing,
// purchase, award and redeem operation.
type State struct {
	mu     sync.Mutex
	feePct int64
	stats  map[string]*Stats
}

func NewState(feePct int64) (*State, error) {
	if feePct < 0 || feePct > 10 {
		return nil, fault.ErrInvalidRange
	}
	return &State{feePct: feePct, stats: make(map[string]*Stats)}, nil
}

// FeePct returns the current base fee percentage.
func (s *State) FeePct() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feePct
}

// SetFeePct updates the base fee percentage; valid range is 0–10.
func (s *State) SetFeePct(pct int64) error {
	if pct < 0 || pct > 10 {
		return fault.ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feePct = pct
	return nil
}

// StatsFor returns a copy of the identity's counters.
func (s *State) StatsFor(id string) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stats[id]; ok {
		return *st
	}
	return Stats{}
}

func (s *State) statsLocked(id string) *Stats {
	st, ok := s.stats[id]
	if !ok {
		st = &Stats{}
		s.stats[id] = st
	}
	return st
}

// AwardPoints credits activity points.
func (s *State) AwardPoints(id string, points int64) error {
	if points <= 0 {
		return fault.ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsLocked(id).Points += points
	return nil
}

// RedeemPoints debits activity points, failing when the balance is short.
func (s *State) RedeemPoints(id string, points int64) error {
	if points <= 0 {
		return fault.ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.statsLocked(id)
	if st.Points < points {
		return fault.ErrInsufficientBalance
	}
	st.Points -= points
	return nil
}

// RecordListing bumps the seller's listing counter.
func (s *State) RecordListing(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsLocked(id).Listings++
}

// RecordPurchase bumps the buyer's purchase counters. Volume counts units
// purchased, not currency.
func (s *State) RecordPurchase(id string, units int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.statsLocked(id)
	st.Purchases++
	st.Volume += units
}
