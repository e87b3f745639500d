package exchange

import (
	"github.com/google/uuid"

	"github.com/tripmarket-io/tripmarket/internal/fault"
	"github.com/tripmarket-io/tripmarket/internal/listing"
	"github.com/tripmarket-io/tripmarket/internal/pricing"
)

// ListParams are the pricing parameters for a new listing. A fixed-price
// listing sets FinalPrice == InitialPrice; the decay window is only
// meaningful when they differ.
type ListParams struct {
	InitialPrice int64 `json:"initial_price"`
	FinalPrice   int64 `json:"final_price"`
	DecayStart   int64 `json:"decay_start"`
	DecayEnd     int64 `json:"decay_end"`
}

// List creates an active listing for a certificate the caller owns.
func (e *Exchange) List(caller string, certID uint64, p ListParams) (listing.Listing, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	c, err := e.certs.Get(certID)
	if err != nil {
		return listing.Listing{}, err
	}
	if p.FinalPrice < 0 || p.InitialPrice < p.FinalPrice {
		return listing.Listing{}, fault.ErrInvalidRange
	}
	if p.InitialPrice != p.FinalPrice && p.DecayEnd <= p.DecayStart {
		return listing.Listing{}, fault.ErrInvalidRange
	}
	owner, ok := e.ownership.OwnerOf(certID)
	if !ok || owner != caller {
		return listing.Listing{}, fault.ErrNotOwner
	}
	if expired, _ := e.certs.IsExpired(certID, now); expired {
		return listing.Listing{}, fault.ErrExpired
	}
	if !e.approvedForExchange(owner, certID) {
		return listing.Listing{}, fault.ErrNotApproved
	}
	if _, err := e.listings.Get(certID); err == nil {
		return listing.Listing{}, fault.ErrAlreadyListed
	}

	l := &listing.Listing{
		ID:           uuid.New().String(),
		CertID:       certID,
		Seller:       caller,
		ListedAt:     now,
		InitialPrice: p.InitialPrice,
		FinalPrice:   p.FinalPrice,
		DecayStart:   p.DecayStart,
		DecayEnd:     p.DecayEnd,
		Departure:    c.StartTime,
		Mode:         c.Mode,
		Origin:       c.Origin,
		Destination:  c.Destination,
	}
	l.CurrentPrice = pricing.CurrentPrice(l, now)

	if err := e.listings.Add(l); err != nil {
		return listing.Listing{}, err
	}
	e.market.RecordListing(caller)
	_ = e.market.AwardPoints(caller, ListReward)
	return *l, nil
}

// approvedForExchange reports whether the exchange operator may move the
// certificate on the ownership ledger.
func (e *Exchange) approvedForExchange(owner string, certID uint64) bool {
	if e.ownership.IsApprovedForAll(owner, e.operator) {
		return true
	}
	approved, ok := e.ownership.GetApproved(certID)
	return ok && approved == e.operator
}

// Cancel retires an active listing without transferring anything; seller or
// admin only.
func (e *Exchange) Cancel(caller string, certID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := e.listings.Get(certID)
	if err != nil {
		return err
	}
	if caller != l.Seller && !e.admins[caller] {
		return fault.ErrNotAuthorized
	}
	return e.listings.Retire(certID, -1)
}

// ActiveListings returns all unsold listings in insertion order. Reads take
// the engine mutex so no caller observes a half-committed operation.
func (e *Exchange) ActiveListings() []listing.Listing {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listings.Active()
}

// Listing returns the active listing for a certificate.
func (e *Exchange) Listing(certID uint64) (listing.Listing, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listings.Get(certID)
}

// CurrentPrice evaluates the live price of an active listing at now,
// without touching the cached value.
func (e *Exchange) CurrentPrice(certID uint64, now int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, err := e.listings.Get(certID)
	if err != nil {
		return 0, err
	}
	return pricing.CurrentPrice(&l, now), nil
}

// Search runs the multi-criteria filter over active listings.
func (e *Exchange) Search(f listing.Filter, now int64) []listing.Listing {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listings.Search(f, now, certLookup{e})
}

// RefreshPrices rewrites stale cached prices on unsold dynamic listings,
// emitting one price-changed notification per update. Returns the number of
// listings updated.
func (e *Exchange) RefreshPrices(now int64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listings.Refresh(now, pricing.CurrentPrice, e.notifier.PriceChanged)
}

// certLookup adapts the certificate store and the provider registry to the
// index's search interface.
type certLookup struct{ e *Exchange }

func (cl certLookup) CertExpired(certID uint64, now int64) bool {
	expired, err := cl.e.certs.IsExpired(certID, now)
	return err == nil && expired
}

func (cl certLookup) ProviderIdentity(certID uint64) (string, bool) {
	c, err := cl.e.certs.Get(certID)
	if err != nil {
		return "", false
	}
	if cl.e.registry == nil {
		return "", false
	}
	return cl.e.registry.ResolveProviderAddress(c.ProviderID)
}
