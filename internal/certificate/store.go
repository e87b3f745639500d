package certificate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tripmarket-io/tripmarket/internal/fault"
)

// Store holds minted certificates and bundles. It enforces data invariants
// (score and royalty bounds, validity arithmetic); caller authorization is
// the orchestrator's job.
type Store struct {
	mu        sync.RWMutex
	certs     map[uint64]*Certificate
	byRequest map[string]uint64
	bundles   map[string]*Bundle
	nextID    uint64
}

func NewStore() *Store {
	return &Store{
		certs:     make(map[uint64]*Certificate),
		byRequest: make(map[string]uint64),
		bundles:   make(map[string]*Bundle),
		nextID:    1,
	}
}

// Mint creates a certificate for a completed request. At most one
// certificate may exist per request id.
func (s *Store) Mint(p MintParams) (*Certificate, error) {
	if p.RoyaltyPct < 0 || p.RoyaltyPct > 25 {
		return nil, fault.ErrInvalidRange
	}
	if p.Duration < 0 || p.Price < 0 {
		return nil, fault.ErrInvalidRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byRequest[p.RequestID]; ok {
		return nil, fault.ErrAlreadyMinted
	}

	c := &Certificate{
		ID:               s.nextID,
		RequestID:        p.RequestID,
		ProviderID:       p.ProviderID,
		RouteDetails:     p.RouteDetails,
		OriginalPrice:    p.Price,
		StartTime:        p.StartTime,
		Duration:         p.Duration,
		OriginalProvider: p.OriginalProvider,
		RoyaltyPct:       p.RoyaltyPct,
		ValidUntil:       p.StartTime + p.Duration,
		Mode:             p.Mode,
		Origin:           p.Origin,
		Destination:      p.Destination,
	}
	s.nextID++
	s.certs[c.ID] = c
	s.byRequest[p.RequestID] = c.ID
	return c, nil
}

// Get returns a copy of the certificate.
func (s *Store) Get(id uint64) (Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certs[id]
	if !ok {
		return Certificate{}, fault.ErrNotFound
	}
	return *c, nil
}

// Verify marks the certificate verified with the given quality score.
func (s *Store) Verify(id uint64, score int64) error {
	if score < 0 || score > 100 {
		return fault.ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certs[id]
	if !ok {
		return fault.ErrNotFound
	}
	c.Verified = true
	c.QualityScore = score
	c.Scored = true
	return nil
}

// Rate merges a new score into the quality score: averaged with the prior
// score when one exists, set directly otherwise.
func (s *Store) Rate(id uint64, score int64) error {
	if score < 0 || score > 100 {
		return fault.ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certs[id]
	if !ok {
		return fault.ErrNotFound
	}
	if c.Scored {
		c.QualityScore = (c.QualityScore + score) / 2
	} else {
		c.QualityScore = score
	}
	c.Scored = true
	return nil
}

// AddTag appends a free-form tag.
func (s *Store) AddTag(id uint64, tag string) error {
	if tag == "" {
		return fault.ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certs[id]
	if !ok {
		return fault.ErrNotFound
	}
	c.Tags = append(c.Tags, tag)
	return nil
}

// IsExpired reports expiration without persisting anything.
func (s *Store) IsExpired(id uint64, now int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certs[id]
	if !ok {
		return false, fault.ErrNotFound
	}
	return c.Expired || now > c.ValidUntil, nil
}

// CheckExpiration persists the expired flag. It reports true only on the
// first transition, so the caller can emit a single notification.
func (s *Store) CheckExpiration(id uint64, now int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certs[id]
	if !ok {
		return false, fault.ErrNotFound
	}
	if !c.Expired && now > c.ValidUntil {
		c.Expired = true
		return true, nil
	}
	return false, nil
}

// ExtendValidity pushes validUntil forward by extension; validity is only
// ever extended, never shortened. Clears the expired flag when the new
// deadline is at or past now.
func (s *Store) ExtendValidity(id uint64, extension, now int64) error {
	if extension <= 0 {
		return fault.ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certs[id]
	if !ok {
		return fault.ErrNotFound
	}
	c.ValidUntil += extension
	if c.Expired && now <= c.ValidUntil {
		c.Expired = false
	}
	return nil
}

// SetRoyaltyPct updates the creator royalty percentage.
func (s *Store) SetRoyaltyPct(id uint64, pct int64) error {
	if pct < 0 || pct > 25 {
		return fault.ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certs[id]
	if !ok {
		return fault.ErrNotFound
	}
	c.RoyaltyPct = pct
	return nil
}

// CanTransfer is the pre-transfer hook consulted by the ownership ledger:
// expired certificates must not move.
func (s *Store) CanTransfer(id uint64, now int64) bool {
	expired, err := s.IsExpired(id, now)
	if err != nil {
		return false
	}
	return !expired
}

// CreateBundle records a bundle of at least two certificates. Ownership and
// expiration of the components are validated by the orchestrator before
// this is called.
func (s *Store) CreateBundle(name, seller string, certIDs []uint64, price int64, createdAt int64) (*Bundle, error) {
	if len(certIDs) < 2 {
		return nil, fault.ErrInvalidRange
	}
	if price < 0 {
		return nil, fault.ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range certIDs {
		if _, ok := s.certs[id]; !ok {
			return nil, fault.ErrNotFound
		}
	}
	b := &Bundle{
		ID:        uuid.New().String(),
		Name:      name,
		Seller:    seller,
		CertIDs:   append([]uint64(nil), certIDs...),
		Price:     price,
		Active:    true,
		CreatedAt: createdAt,
	}
	s.bundles[b.ID] = b
	return b, nil
}

// GetBundle returns a copy of the bundle.
func (s *Store) GetBundle(id string) (Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bundles[id]
	if !ok {
		return Bundle{}, fault.ErrNotFound
	}
	out := *b
	out.CertIDs = append([]uint64(nil), b.CertIDs...)
	return out, nil
}

// DeactivateBundle flips active to false; the transition happens exactly
// once.
func (s *Store) DeactivateBundle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bundles[id]
	if !ok {
		return fault.ErrNotFound
	}
	if !b.Active {
		return fault.ErrInactiveBundle
	}
	b.Active = false
	return nil
}

// Bundles returns copies of all bundles in map order; callers sort if they
// need determinism.
func (s *Store) Bundles() []Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Bundle, 0, len(s.bundles))
	for _, b := range s.bundles {
		cp := *b
		cp.CertIDs = append([]uint64(nil), b.CertIDs...)
		out = append(out, cp)
	}
	return out
}
