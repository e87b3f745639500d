package exchange

import (
	"github.com/tripmarket-io/tripmarket/internal/certificate"
	"github.com/tripmarket-io/tripmarket/internal/fault"
	"github.com/tripmarket-io/tripmarket/internal/fees"
)

// CreateBundle groups at least two certificates the caller owns, none
// expired, into a single purchasable unit.
func (e *Exchange) CreateBundle(caller, name string, certIDs []uint64, price int64) (certificate.Bundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if len(certIDs) < 2 {
		return certificate.Bundle{}, fault.ErrInvalidRange
	}
	for _, id := range certIDs {
		if _, err := e.certs.Get(id); err != nil {
			return certificate.Bundle{}, err
		}
		owner, ok := e.ownership.OwnerOf(id)
		if !ok || owner != caller {
			return certificate.Bundle{}, fault.ErrNotOwner
		}
		if expired, _ := e.certs.IsExpired(id, now); expired {
			return certificate.Bundle{}, fault.ErrExpired
		}
	}

	b, err := e.certs.CreateBundle(name, caller, certIDs, price, now)
	if err != nil {
		return certificate.Bundle{}, err
	}
	return *b, nil
}

// PurchaseBundle buys every component of an active bundle atomically.
// Ownership and non-expiration of every component are re-validated at
// purchase time: sellers may have disposed of a component since creation,
// and that must fail the whole purchase before anything moves.
func (e *Exchange) PurchaseBundle(caller, bundleID string, now int64) (Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.certs.GetBundle(bundleID)
	if err != nil {
		return Receipt{}, err
	}
	if !b.Active {
		return Receipt{}, fault.ErrInactiveBundle
	}
	if caller == b.Seller {
		return Receipt{}, fault.ErrNotAuthorized
	}
	for _, id := range b.CertIDs {
		owner, ok := e.ownership.OwnerOf(id)
		if !ok || owner != b.Seller {
			return Receipt{}, fault.ErrNotOwner
		}
		if expired, _ := e.certs.IsExpired(id, now); expired {
			return Receipt{}, fault.ErrExpired
		}
	}

	stats := e.market.StatsFor(caller)
	discount := fees.Discount(stats.Volume, stats.Purchases)
	fee := fees.Fee(b.Price, e.market.FeePct(), discount)
	sellerNet := b.Price - fee

	if !e.payments.TransferFrom(caller, b.Seller, sellerNet) {
		return Receipt{}, fault.ErrPaymentFailed
	}
	if fee > 0 {
		if !e.payments.TransferFrom(caller, e.operator, fee) {
			return Receipt{}, fault.ErrPaymentFailed
		}
	}

	for _, id := range b.CertIDs {
		if err := e.ownership.Transfer(b.Seller, caller, id); err != nil {
			return Receipt{}, err
		}
	}

	if err := e.certs.DeactivateBundle(bundleID); err != nil {
		return Receipt{}, err
	}
	e.market.RecordPurchase(caller, int64(len(b.CertIDs)))
	_ = e.market.AwardPoints(caller, PurchaseReward)
	e.everOwned[caller] = true

	e.notifier.BundleSold(bundleID, b.Seller, caller, b.Price)
	e.record(SaleRecord{
		Kind: "bundle", BundleID: bundleID,
		Seller: b.Seller, Buyer: caller,
		Price: b.Price, Fee: fee, At: now,
	})

	return Receipt{
		BundleID: bundleID, Seller: b.Seller, Buyer: caller,
		Price: b.Price, Fee: fee, SellerNet: sellerNet,
	}, nil
}

// DeactivateBundle retires an active bundle; owner or admin only.
func (e *Exchange) DeactivateBundle(caller, bundleID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.certs.GetBundle(bundleID)
	if err != nil {
		return err
	}
	if caller != b.Seller && !e.admins[caller] {
		return fault.ErrNotAuthorized
	}
	return e.certs.DeactivateBundle(bundleID)
}

// Bundle returns a bundle by id.
func (e *Exchange) Bundle(bundleID string) (certificate.Bundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.certs.GetBundle(bundleID)
}

// Bundles returns all bundles.
func (e *Exchange) Bundles() []certificate.Bundle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.certs.Bundles()
}
