package fees

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscountTiers(t *testing.T) {
	cases := []struct {
		name              string
		volume, purchases int64
		want              int64
	}{
		{"new buyer", 0, 0, 0},
		{"volume mid tier", 6, 0, 15},
		{"volume top tier", 11, 0, 30},
		{"purchases mid tier", 0, 6, 5},
		{"purchases top tier", 0, 11, 10},
		{"both mid", 6, 6, 20},
		{"both top", 11, 11, 40},
		{"boundary volume 10", 10, 0, 15},
		{"boundary purchases 10", 0, 10, 5},
		{"boundary volume 5", 5, 0, 0},
		{"boundary purchases 5", 0, 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Discount(tc.volume, tc.purchases))
		})
	}
}

func TestDiscountCap(t *testing.T) {
	for v := int64(0); v <= 20; v++ {
		for p := int64(0); p <= 20; p++ {
			require.LessOrEqual(t, Discount(v, p), int64(50))
		}
	}
}

func TestFeeTruncationOrder(t *testing.T) {
	// base = floor(100*1/100) = 1; fee = 1 - floor(1*40/100) = 1
	require.EqualValues(t, 1, Fee(100, 1, 40))

	// base = floor(75*1/100) = 0; fee stays 0 regardless of discount
	require.EqualValues(t, 0, Fee(75, 1, 0))
	require.EqualValues(t, 0, Fee(75, 1, 50))

	// base = floor(1000*10/100) = 100; fee = 100 - floor(100*50/100) = 50
	require.EqualValues(t, 50, Fee(1000, 10, 50))
}

func TestFeeFloorAtHalf(t *testing.T) {
	// With the 50% discount cap the fee never drops below half the base,
	// within truncation.
	for price := int64(0); price <= 500; price += 7 {
		base := price * 3 / 100
		fee := Fee(price, 3, 50)
		require.GreaterOrEqual(t, fee, base/2)
	}
}

func TestRoyalty(t *testing.T) {
	require.EqualValues(t, 3, Royalty(75, 5))
	require.EqualValues(t, 0, Royalty(19, 5))
	require.EqualValues(t, 25, Royalty(100, 25))
	require.EqualValues(t, 0, Royalty(100, 0))
}
