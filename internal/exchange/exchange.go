// Package exchange is the orchestrator for the tokenized-service market:
// every public operation validates all of its preconditions, then mutates,
// under a single engine mutex so no caller ever observes a half-applied
// multi-step operation.
package exchange

import (
	"sync"
	"time"

	"github.com/tripmarket-io/tripmarket/internal/certificate"
	"github.com/tripmarket-io/tripmarket/internal/ledger"
	"github.com/tripmarket-io/tripmarket/internal/listing"
	"github.com/tripmarket-io/tripmarket/internal/market"
)

// Activity point rewards for marketplace participation.
const (
	ListReward     = 5
	PurchaseReward = 10
)

// Notifier receives engine events after they commit. Implementations must
// not call back into the engine.
type Notifier interface {
	PriceChanged(certID uint64, oldPrice, newPrice int64)
	CertificateExpired(certID uint64)
	ListingSold(certID uint64, seller, buyer string, price int64)
	BundleSold(bundleID, seller, buyer string, price int64)
}

type nopNotifier struct{}

func (nopNotifier) PriceChanged(uint64, int64, int64)         {}
func (nopNotifier) CertificateExpired(uint64)                 {}
func (nopNotifier) ListingSold(uint64, string, string, int64) {}
func (nopNotifier) BundleSold(string, string, string, int64)  {}

// SaleRecord is the archive row written after a committed sale.
type SaleRecord struct {
	Kind     string // "listing" or "bundle"
	CertID   uint64
	BundleID string
	Seller   string
	Buyer    string
	Price    int64
	Fee      int64
	Royalty  int64
	At       int64
}

// Recorder archives committed sales best-effort, outside the transaction
// boundary.
type Recorder interface {
	RecordSale(rec SaleRecord)
}

// Config wires the engine's collaborators. Payments and Ownership are
// required; everything else has a workable default.
type Config struct {
	Store     *certificate.Store
	Index     *listing.Index
	Market    *market.State
	Payments  ledger.PaymentLedger
	Ownership ledger.OwnershipLedger
	Registry  ledger.Registry
	Minter    ledger.TokenMinter
	Notifier  Notifier
	Recorder  Recorder

	// Operator is the marketplace identity: the fee recipient and the
	// operator the ownership ledger must have approved for transfers.
	Operator  string
	Admins    []string
	Verifiers []string
	Minters   []string

	Now func() int64
}

// Exchange coordinates the certificate store, pricing, fees, listing index
// and the external ledgers as atomic operations.
type Exchange struct {
	mu sync.Mutex

	certs     *certificate.Store
	listings  *listing.Index
	market    *market.State
	payments  ledger.PaymentLedger
	ownership ledger.OwnershipLedger
	registry  ledger.Registry
	minter    ledger.TokenMinter
	notifier  Notifier
	recorder  Recorder

	operator  string
	admins    map[string]bool
	verifiers map[string]bool
	minters   map[string]bool

	// everOwned backs the coarse rate() authorization: any identity that
	// currently owns or has ever owned a certificate.
	everOwned map[string]bool

	now func() int64
}

func New(cfg Config) *Exchange {
	e := &Exchange{
		certs:     cfg.Store,
		listings:  cfg.Index,
		market:    cfg.Market,
		payments:  cfg.Payments,
		ownership: cfg.Ownership,
		registry:  cfg.Registry,
		minter:    cfg.Minter,
		notifier:  cfg.Notifier,
		recorder:  cfg.Recorder,
		operator:  cfg.Operator,
		admins:    make(map[string]bool),
		verifiers: make(map[string]bool),
		minters:   make(map[string]bool),
		everOwned: make(map[string]bool),
		now:       cfg.Now,
	}
	if e.certs == nil {
		e.certs = certificate.NewStore()
	}
	if e.listings == nil {
		e.listings = listing.NewIndex()
	}
	if e.market == nil {
		e.market, _ = market.NewState(1)
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.now == nil {
		e.now = func() int64 { return time.Now().Unix() }
	}
	for _, id := range cfg.Admins {
		e.admins[id] = true
	}
	for _, id := range cfg.Verifiers {
		e.verifiers[id] = true
	}
	for _, id := range cfg.Minters {
		e.minters[id] = true
	}
	return e
}

// Operator returns the marketplace fee-recipient identity.
func (e *Exchange) Operator() string { return e.operator }

// IsAdmin reports whether the identity is a marketplace administrator.
func (e *Exchange) IsAdmin(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.admins[id]
}

// CanTransfer is the pure pre-transfer predicate the ownership ledger
// consults: expired certificates must not move.
func (e *Exchange) CanTransfer(certID uint64, now int64) bool {
	return e.certs.CanTransfer(certID, now)
}

// CanTransferNow is CanTransfer at the engine clock, shaped for the
// ownership ledger's guard hook. The ledger invokes it mid-purchase while
// the engine mutex is held, so it must never lock e.mu.
func (e *Exchange) CanTransferNow(certID uint64) bool {
	return e.certs.CanTransfer(certID, e.now())
}

func (e *Exchange) record(rec SaleRecord) {
	if e.recorder != nil {
		e.recorder.RecordSale(rec)
	}
}
