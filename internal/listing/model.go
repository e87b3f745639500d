package listing

// Listing is an active sell offer for one certificate. Route metadata is
// denormalized from the certificate at listing time so searches never have
// to re-read the certificate for the common filters.
type Listing struct {
	ID           string   `json:"id"`
	CertID       uint64   `json:"cert_id"`
	Seller       string   `json:"seller"`
	Sold         bool     `json:"sold"`
	ListedAt     int64    `json:"listed_at"`
	InitialPrice int64    `json:"initial_price"`
	FinalPrice   int64    `json:"final_price"`
	DecayStart   int64    `json:"decay_start"`
	DecayEnd     int64    `json:"decay_end"`
	CurrentPrice int64    `json:"current_price"`

	// denormalized from the certificate
	Departure   int64    `json:"departure"`
	Mode        uint8    `json:"mode"`
	Origin      [2]int32 `json:"origin"`
	Destination [2]int32 `json:"destination"`
}

// Dynamic reports whether the listing uses decaying pricing.
func (l *Listing) Dynamic() bool {
	return l.InitialPrice != l.FinalPrice
}

// Filter is the multi-criteria search input. Zero values are wildcards:
// price and departure bounds of 0 are unbounded, mode 0 matches every mode,
// an empty provider matches every provider. NearOrigin/NearDestination are
// [x, y, radius] triples; a triple participates only when its length is
// exactly 3.
type Filter struct {
	IncludeExpired  bool    `json:"include_expired"`
	MinPrice        int64   `json:"min_price"`
	MaxPrice        int64   `json:"max_price"`
	DepartAfter     int64   `json:"depart_after"`
	DepartBefore    int64   `json:"depart_before"`
	Mode            uint8   `json:"mode"`
	Provider        string  `json:"provider"`
	NearOrigin      []int32 `json:"near_origin,omitempty"`
	NearDestination []int32 `json:"near_destination,omitempty"`
}

// withinRadius runs the circular proximity test dx²+dy² ≤ r² in int64 so
// int32 coordinates cannot overflow.
func withinRadius(x, y int32, triple []int32) bool {
	dx := int64(x) - int64(triple[0])
	dy := int64(y) - int64(triple[1])
	r := int64(triple[2])
	return dx*dx+dy*dy <= r*r
}
