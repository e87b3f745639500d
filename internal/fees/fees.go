// Package fees computes the marketplace fee (with tiered buyer discounts)
// and the creator royalty for a sale. All arithmetic truncates at each step;
// the order of truncation is load-bearing for settlement equivalence.
package fees

// Discount returns the buyer's fee discount percentage from lifetime
// purchase volume and purchase count. Tiers are additive and the total is
// capped at 50.
func Discount(volume, purchases int64) int64 {
	var d int64
	if volume > 10 {
		d += 30
	} else if volume > 5 {
		d += 15
	}
	if purchases > 10 {
		d += 10
	} else if purchases > 5 {
		d += 5
	}
	if d > 50 {
		d = 50
	}
	return d
}

// Fee computes the marketplace fee on price at baseFeePct, reduced by the
// buyer's discount. Both divisions truncate.
func Fee(price, baseFeePct, discountPct int64) int64 {
	base := price * baseFeePct / 100
	return base - base*discountPct/100
}

// Royalty computes the creator royalty on price, truncating.
func Royalty(price, royaltyPct int64) int64 {
	return price * royaltyPct / 100
}
