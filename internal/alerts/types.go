package alerts

import "time"

// Task type constants
const (
	TaskPriceChanged       = "market:price_changed"
	TaskCertificateExpired = "market:certificate_expired"
	TaskListingSold        = "market:listing_sold"
	TaskBundleSold         = "market:bundle_sold"
)

// PriceChangedPayload is emitted once per listing whose cached price moved
// during a refresh pass.
type PriceChangedPayload struct {
	CertID   uint64    `json:"cert_id"`
	OldPrice int64     `json:"old_price"`
	NewPrice int64     `json:"new_price"`
	SentAt   time.Time `json:"sent_at"`
}

// CertificateExpiredPayload is emitted on the first persisted transition to
// expired.
type CertificateExpiredPayload struct {
	CertID uint64    `json:"cert_id"`
	SentAt time.Time `json:"sent_at"`
}

// ListingSoldPayload is emitted after a single-certificate purchase commits.
type ListingSoldPayload struct {
	CertID uint64    `json:"cert_id"`
	Seller string    `json:"seller"`
	Buyer  string    `json:"buyer"`
	Price  int64     `json:"price"`
	SentAt time.Time `json:"sent_at"`
}

// BundleSoldPayload is emitted after a bundle purchase commits.
type BundleSoldPayload struct {
	BundleID string    `json:"bundle_id"`
	Seller   string    `json:"seller"`
	Buyer    string    `json:"buyer"`
	Price    int64     `json:"price"`
	SentAt   time.Time `json:"sent_at"`
}
