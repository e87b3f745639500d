package market

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripmarket-io/tripmarket/internal/fault"
)

func TestNewStateValidatesFee(t *testing.T) {
	_, err := NewState(11)
	require.ErrorIs(t, err, fault.ErrInvalidRange)
	_, err = NewState(-1)
	require.ErrorIs(t, err, fault.ErrInvalidRange)

	s, err := NewState(10)
	require.NoError(t, err)
	require.EqualValues(t, 10, s.FeePct())
}

func TestSetFeePct(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)

	require.ErrorIs(t, s.SetFeePct(11), fault.ErrInvalidRange)
	require.EqualValues(t, 1, s.FeePct(), "rejected update leaves the fee alone")

	require.NoError(t, s.SetFeePct(0))
	require.EqualValues(t, 0, s.FeePct())
}

func TestPointsAwardAndRedeem(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)

	require.ErrorIs(t, s.AwardPoints("bob", 0), fault.ErrInvalidRange)
	require.NoError(t, s.AwardPoints("bob", 30))

	require.ErrorIs(t, s.RedeemPoints("bob", 31), fault.ErrInsufficientBalance)
	require.NoError(t, s.RedeemPoints("bob", 30))
	require.EqualValues(t, 0, s.StatsFor("bob").Points)

	require.ErrorIs(t, s.RedeemPoints("bob", 1), fault.ErrInsufficientBalance)
	require.ErrorIs(t, s.RedeemPoints("stranger", 1), fault.ErrInsufficientBalance)
}

func TestRecordCounters(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)

	s.RecordListing("alice")
	s.RecordListing("alice")
	s.RecordPurchase("bob", 1)
	s.RecordPurchase("bob", 3)

	require.EqualValues(t, 2, s.StatsFor("alice").Listings)

	bob := s.StatsFor("bob")
	require.EqualValues(t, 2, bob.Purchases, "each purchase counts once")
	require.EqualValues(t, 4, bob.Volume, "volume counts units")
}

func TestStatsForReturnsCopy(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)
	require.NoError(t, s.AwardPoints("bob", 5))

	st := s.StatsFor("bob")
	st.Points = 999
	require.EqualValues(t, 5, s.StatsFor("bob").Points)
}
