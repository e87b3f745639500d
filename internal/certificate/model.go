package certificate

// Certificate is the tokenized record of one completed mobility service.
// Ownership lives in the external ownership ledger; this record carries the
// service metadata and lifecycle flags only.
type Certificate struct {
	ID               uint64   `json:"id"`
	RequestID        string   `json:"request_id"`
	ProviderID       string   `json:"provider_id"`
	RouteDetails     string   `json:"route_details"`
	OriginalPrice    int64    `json:"original_price"`
	StartTime        int64    `json:"start_time"`
	Duration         int64    `json:"duration"`
	OriginalProvider string   `json:"original_provider"`
	RoyaltyPct       int64    `json:"royalty_pct"`
	Verified         bool     `json:"verified"`
	QualityScore     int64    `json:"quality_score"`
	Scored           bool     `json:"scored"`
	Tags             []string `json:"tags,omitempty"`
	ValidUntil       int64    `json:"valid_until"`
	Expired          bool     `json:"expired"`
	Mode             uint8    `json:"mode"`
	Origin           [2]int32 `json:"origin"`
	Destination      [2]int32 `json:"destination"`
}

// Bundle groups two or more certificates offered as a single purchasable
// unit at an aggregate price.
type Bundle struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Seller    string   `json:"seller"`
	CertIDs   []uint64 `json:"cert_ids"`
	Price     int64    `json:"price"`
	Active    bool     `json:"active"`
	CreatedAt int64    `json:"created_at"`
}

// MintParams carries the fields supplied by the request/auction subsystem
// when a completed service is tokenized.
type MintParams struct {
	RequestID        string   `json:"request_id"`
	ProviderID       string   `json:"provider_id"`
	RouteDetails     string   `json:"route_details"`
	Price            int64    `json:"price"`
	StartTime        int64    `json:"start_time"`
	Duration         int64    `json:"duration"`
	OriginalProvider string   `json:"original_provider"`
	RoyaltyPct       int64    `json:"royalty_pct"`
	Mode             uint8    `json:"mode"`
	Origin           [2]int32 `json:"origin"`
	Destination      [2]int32 `json:"destination"`
}
