package exchange

import (
	"github.com/tripmarket-io/tripmarket/internal/fault"
	"github.com/tripmarket-io/tripmarket/internal/fees"
	"github.com/tripmarket-io/tripmarket/internal/pricing"
)

// Receipt reports how a committed purchase settled.
type Receipt struct {
	CertID    uint64 `json:"cert_id,omitempty"`
	BundleID  string `json:"bundle_id,omitempty"`
	Seller    string `json:"seller"`
	Buyer     string `json:"buyer"`
	Price     int64  `json:"price"`
	Fee       int64  `json:"fee"`
	Royalty   int64  `json:"royalty"`
	SellerNet int64  `json:"seller_net"`
}

// Purchase buys an active listing at its current price. All validation
// precedes any transfer; transfers then run in the fixed order
// royalty -> seller -> fee. A failed transfer aborts with PaymentFailed and
// no engine state is mutated, but sub-transfers already completed in this
// purchase are not compensated — a known limitation inherited from the
// source settlement design.
func (e *Exchange) Purchase(caller string, certID uint64, now int64) (Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := e.listings.Get(certID)
	if err != nil {
		return Receipt{}, err
	}
	if caller == l.Seller {
		return Receipt{}, fault.ErrNotAuthorized
	}
	c, err := e.certs.Get(certID)
	if err != nil {
		return Receipt{}, err
	}
	if expired, _ := e.certs.IsExpired(certID, now); expired {
		return Receipt{}, fault.ErrExpired
	}
	owner, ok := e.ownership.OwnerOf(certID)
	if !ok || owner != l.Seller {
		return Receipt{}, fault.ErrNotOwner
	}

	price := pricing.CurrentPrice(&l, now)
	stats := e.market.StatsFor(caller)
	discount := fees.Discount(stats.Volume, stats.Purchases)
	fee := fees.Fee(price, e.market.FeePct(), discount)

	royalty := fees.Royalty(price, c.RoyaltyPct)
	beneficiary := c.OriginalProvider
	if royalty <= 0 || beneficiary == "" {
		royalty = 0
	}
	sellerNet := price - fee - royalty

	if royalty > 0 {
		if !e.payments.TransferFrom(caller, beneficiary, royalty) {
			return Receipt{}, fault.ErrPaymentFailed
		}
	}
	if !e.payments.TransferFrom(caller, l.Seller, sellerNet) {
		return Receipt{}, fault.ErrPaymentFailed
	}
	if fee > 0 {
		if !e.payments.TransferFrom(caller, e.operator, fee) {
			return Receipt{}, fault.ErrPaymentFailed
		}
	}

	if err := e.ownership.Transfer(l.Seller, caller, certID); err != nil {
		return Receipt{}, err
	}

	if err := e.listings.Retire(certID, price); err != nil {
		return Receipt{}, err
	}
	e.market.RecordPurchase(caller, 1)
	_ = e.market.AwardPoints(caller, PurchaseReward)
	e.everOwned[caller] = true

	e.notifier.ListingSold(certID, l.Seller, caller, price)
	e.record(SaleRecord{
		Kind: "listing", CertID: certID,
		Seller: l.Seller, Buyer: caller,
		Price: price, Fee: fee, Royalty: royalty, At: now,
	})

	return Receipt{
		CertID: certID, Seller: l.Seller, Buyer: caller,
		Price: price, Fee: fee, Royalty: royalty, SellerNet: sellerNet,
	}, nil
}
