// Package pricing computes the current price of a listing under fixed or
// linearly-decaying dynamic pricing.
package pricing

import "github.com/tripmarket-io/tripmarket/internal/listing"

// CurrentPrice evaluates a listing's price at now. Fixed listings and
// listings before their decay window return the initial price; past the
// window the final price; inside it a linear interpolation with truncating
// integer division. The truncation is part of the contract — downstream
// settlement math reproduces it byte for byte.
func CurrentPrice(l *listing.Listing, now int64) int64 {
	if l.InitialPrice == l.FinalPrice || now < l.DecayStart {
		return l.InitialPrice
	}
	if now > l.DecayEnd {
		return l.FinalPrice
	}
	span := l.DecayEnd - l.DecayStart
	if span <= 0 {
		return l.FinalPrice
	}
	drop := (l.InitialPrice - l.FinalPrice) * (now - l.DecayStart) / span
	return l.InitialPrice - drop
}
