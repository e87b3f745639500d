package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripmarket-io/tripmarket/internal/listing"
)

func dynamicListing(initial, final, start, end int64) *listing.Listing {
	return &listing.Listing{
		CertID:       7,
		InitialPrice: initial,
		FinalPrice:   final,
		DecayStart:   start,
		DecayEnd:     end,
	}
}

func TestCurrentPriceFixed(t *testing.T) {
	l := dynamicListing(100, 100, 1000, 2000)
	require.EqualValues(t, 100, CurrentPrice(l, 0))
	require.EqualValues(t, 100, CurrentPrice(l, 1500))
	require.EqualValues(t, 100, CurrentPrice(l, 99999))
}

func TestCurrentPriceWindowBounds(t *testing.T) {
	l := dynamicListing(100, 50, 1000, 2000)

	require.EqualValues(t, 100, CurrentPrice(l, 999), "before the window")
	require.EqualValues(t, 100, CurrentPrice(l, 1000), "at decay start")
	require.EqualValues(t, 50, CurrentPrice(l, 2000), "at decay end")
	require.EqualValues(t, 50, CurrentPrice(l, 2001), "after the window")
}

func TestCurrentPriceMidWindow(t *testing.T) {
	l := dynamicListing(100, 50, 1000, 2000)
	require.EqualValues(t, 75, CurrentPrice(l, 1500))
}

func TestCurrentPriceTruncates(t *testing.T) {
	// drop = 10 * 1 / 3 truncates to 3
	l := dynamicListing(100, 90, 0, 3)
	require.EqualValues(t, 97, CurrentPrice(l, 1))
	require.EqualValues(t, 94, CurrentPrice(l, 2))
}

func TestCurrentPriceMonotonicNonIncreasing(t *testing.T) {
	l := dynamicListing(1000, 137, 500, 7919)
	prev := CurrentPrice(l, 499)
	for now := int64(500); now <= 8000; now++ {
		p := CurrentPrice(l, now)
		require.LessOrEqual(t, p, prev, "price rose at t=%d", now)
		require.GreaterOrEqual(t, p, l.FinalPrice)
		require.LessOrEqual(t, p, l.InitialPrice)
		prev = p
	}
}
