package listing

import (
	"sync"

	"github.com/tripmarket-io/tripmarket/internal/fault"
)

// CertLookup resolves the certificate-backed parts of a search filter: the
// expiration toggle and the provider-identity match both need the
// certificate, which the index deliberately does not store.
type CertLookup interface {
	CertExpired(certID uint64, now int64) bool
	ProviderIdentity(certID uint64) (string, bool)
}

// Index maintains all listings ever created, active ones addressable by
// certificate id. Listings are never removed; sale and cancellation both
// flag them sold and drop them from the active set.
type Index struct {
	mu      sync.RWMutex
	all     []*Listing
	active  map[uint64]*Listing
	retired map[uint64]bool
}

func NewIndex() *Index {
	return &Index{
		active:  make(map[uint64]*Listing),
		retired: make(map[uint64]bool),
	}
}

// Add registers a listing. At most one active listing may exist per
// certificate.
func (ix *Index) Add(l *Listing) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.active[l.CertID]; ok {
		return fault.ErrAlreadyListed
	}
	ix.all = append(ix.all, l)
	ix.active[l.CertID] = l
	return nil
}

// Active returns copies of unsold listings in insertion order.
func (ix *Index) Active() []Listing {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]Listing, 0, len(ix.active))
	for _, l := range ix.all {
		if !l.Sold {
			out = append(out, *l)
		}
	}
	return out
}

// Get returns a copy of the active listing for a certificate. A certificate
// whose most recent listing was retired reports AlreadySold; one never
// listed reports NotFound.
func (ix *Index) Get(certID uint64) (Listing, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	l, ok := ix.active[certID]
	if !ok {
		if ix.retired[certID] {
			return Listing{}, fault.ErrAlreadySold
		}
		return Listing{}, fault.ErrNotFound
	}
	return *l, nil
}

// Retire flags the active listing for certID sold (covering both sale and
// cancellation) and removes it from the active set. finalPrice, when >= 0,
// is written back as the price the listing closed at.
func (ix *Index) Retire(certID uint64, finalPrice int64) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	l, ok := ix.active[certID]
	if !ok {
		return fault.ErrNotFound
	}
	l.Sold = true
	if finalPrice >= 0 {
		l.CurrentPrice = finalPrice
	}
	delete(ix.active, certID)
	ix.retired[certID] = true
	return nil
}

// SetCurrentPrice updates the cached price of an active listing.
func (ix *Index) SetCurrentPrice(certID uint64, price int64) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	l, ok := ix.active[certID]
	if !ok {
		return fault.ErrNotFound
	}
	l.CurrentPrice = price
	return nil
}

// Refresh recomputes the cached price of every unsold dynamic listing and
// writes it back when it changed, invoking onChange once per update. Sold
// and fixed-price listings are never touched. Returns the number of
// listings updated.
func (ix *Index) Refresh(now int64, price func(*Listing, int64) int64, onChange func(certID uint64, old, new int64)) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	updated := 0
	for _, l := range ix.all {
		if l.Sold || !l.Dynamic() {
			continue
		}
		p := price(l, now)
		if p == l.CurrentPrice {
			continue
		}
		old := l.CurrentPrice
		l.CurrentPrice = p
		updated++
		if onChange != nil {
			onChange(l.CertID, old, p)
		}
	}
	return updated
}

// Search applies the filter to every unsold listing, in insertion order.
// Filters apply in a fixed order: expiration toggle, price range, departure
// range, mode, provider identity, origin proximity, destination proximity.
// A proximity triple whose length is not exactly 3 disables that test
// entirely rather than failing — deliberate behavior that callers rely on.
func (ix *Index) Search(f Filter, now int64, look CertLookup) []Listing {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []Listing
	for _, l := range ix.all {
		if l.Sold {
			continue
		}
		if !f.IncludeExpired && look.CertExpired(l.CertID, now) {
			continue
		}
		if f.MinPrice != 0 && l.CurrentPrice < f.MinPrice {
			continue
		}
		if f.MaxPrice != 0 && l.CurrentPrice > f.MaxPrice {
			continue
		}
		if f.DepartAfter != 0 && l.Departure < f.DepartAfter {
			continue
		}
		if f.DepartBefore != 0 && l.Departure > f.DepartBefore {
			continue
		}
		if f.Mode != 0 && l.Mode != f.Mode {
			continue
		}
		if f.Provider != "" {
			identity, ok := look.ProviderIdentity(l.CertID)
			if !ok || identity != f.Provider {
				continue
			}
		}
		if len(f.NearOrigin) == 3 && !withinRadius(l.Origin[0], l.Origin[1], f.NearOrigin) {
			continue
		}
		if len(f.NearDestination) == 3 && !withinRadius(l.Destination[0], l.Destination[1], f.NearDestination) {
			continue
		}
		out = append(out, *l)
	}
	return out
}
