package certificate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripmarket-io/tripmarket/internal/fault"
)

func mintOne(t *testing.T, s *Store, requestID string) *Certificate {
	t.Helper()
	c, err := s.Mint(MintParams{
		RequestID:        requestID,
		ProviderID:       "prov-1",
		RouteDetails:     "A-B express",
		Price:            100,
		StartTime:        1000,
		Duration:         600,
		OriginalProvider: "carol",
		RoyaltyPct:       5,
	})
	require.NoError(t, err)
	return c
}

func TestMintAssignsSequentialIDs(t *testing.T) {
	s := NewStore()
	a := mintOne(t, s, "req-1")
	b := mintOne(t, s, "req-2")
	require.EqualValues(t, 1, a.ID)
	require.EqualValues(t, 2, b.ID)
	require.EqualValues(t, 1600, a.ValidUntil)
}

func TestMintRejectsDuplicateRequest(t *testing.T) {
	s := NewStore()
	mintOne(t, s, "req-1")
	_, err := s.Mint(MintParams{RequestID: "req-1"})
	require.ErrorIs(t, err, fault.ErrAlreadyMinted)
}

func TestMintBounds(t *testing.T) {
	s := NewStore()
	_, err := s.Mint(MintParams{RequestID: "r", RoyaltyPct: 26})
	require.ErrorIs(t, err, fault.ErrInvalidRange)
	_, err = s.Mint(MintParams{RequestID: "r", RoyaltyPct: -1})
	require.ErrorIs(t, err, fault.ErrInvalidRange)
	_, err = s.Mint(MintParams{RequestID: "r", Price: -5})
	require.ErrorIs(t, err, fault.ErrInvalidRange)

	// 25 is inclusive.
	_, err = s.Mint(MintParams{RequestID: "r", RoyaltyPct: 25})
	require.NoError(t, err)
}

func TestVerifySetsScore(t *testing.T) {
	s := NewStore()
	c := mintOne(t, s, "req-1")

	require.ErrorIs(t, s.Verify(c.ID, 101), fault.ErrInvalidRange)
	require.NoError(t, s.Verify(c.ID, 80))

	got, err := s.Get(c.ID)
	require.NoError(t, err)
	require.True(t, got.Verified)
	require.True(t, got.Scored)
	require.EqualValues(t, 80, got.QualityScore)
}

func TestRateAveragesAfterFirstScore(t *testing.T) {
	s := NewStore()
	c := mintOne(t, s, "req-1")

	require.NoError(t, s.Rate(c.ID, 90))
	got, _ := s.Get(c.ID)
	require.EqualValues(t, 90, got.QualityScore, "first rating replaces the zero score")

	require.NoError(t, s.Rate(c.ID, 71))
	got, _ = s.Get(c.ID)
	require.EqualValues(t, 80, got.QualityScore, "(90+71)/2 truncates to 80")

	require.ErrorIs(t, s.Rate(c.ID, -1), fault.ErrInvalidRange)
	require.ErrorIs(t, s.Rate(999, 50), fault.ErrNotFound)
}

func TestExpirationReadVersusPersist(t *testing.T) {
	s := NewStore()
	c := mintOne(t, s, "req-1") // valid until 1600

	expired, err := s.IsExpired(c.ID, 1600)
	require.NoError(t, err)
	require.False(t, expired, "validUntil itself is still valid")

	expired, err = s.IsExpired(c.ID, 1601)
	require.NoError(t, err)
	require.True(t, expired)

	// The read-only check must not have persisted anything.
	got, _ := s.Get(c.ID)
	require.False(t, got.Expired)

	flipped, err := s.CheckExpiration(c.ID, 1601)
	require.NoError(t, err)
	require.True(t, flipped, "first persisting check reports the transition")

	flipped, err = s.CheckExpiration(c.ID, 1602)
	require.NoError(t, err)
	require.False(t, flipped, "the transition is reported once")

	got, _ = s.Get(c.ID)
	require.True(t, got.Expired)
}

func TestExtendValidityClearsExpired(t *testing.T) {
	s := NewStore()
	c := mintOne(t, s, "req-1") // valid until 1600
	_, err := s.CheckExpiration(c.ID, 2000)
	require.NoError(t, err)

	require.ErrorIs(t, s.ExtendValidity(c.ID, 0, 2000), fault.ErrInvalidRange)
	require.ErrorIs(t, s.ExtendValidity(c.ID, -10, 2000), fault.ErrInvalidRange)

	// Extension to 1700 still leaves the deadline behind now=2000.
	require.NoError(t, s.ExtendValidity(c.ID, 100, 2000))
	got, _ := s.Get(c.ID)
	require.True(t, got.Expired)
	require.EqualValues(t, 1700, got.ValidUntil)

	// A long enough extension revives it.
	require.NoError(t, s.ExtendValidity(c.ID, 1000, 2000))
	got, _ = s.Get(c.ID)
	require.False(t, got.Expired)
	require.EqualValues(t, 2700, got.ValidUntil)
}

func TestCanTransfer(t *testing.T) {
	s := NewStore()
	c := mintOne(t, s, "req-1")

	require.True(t, s.CanTransfer(c.ID, 1500))
	require.False(t, s.CanTransfer(c.ID, 1601))
	require.False(t, s.CanTransfer(999, 0), "unknown certificates never move")
}

func TestSetRoyaltyPctBounds(t *testing.T) {
	s := NewStore()
	c := mintOne(t, s, "req-1")

	require.ErrorIs(t, s.SetRoyaltyPct(c.ID, 26), fault.ErrInvalidRange)
	require.NoError(t, s.SetRoyaltyPct(c.ID, 0))
	require.NoError(t, s.SetRoyaltyPct(c.ID, 25))

	got, _ := s.Get(c.ID)
	require.EqualValues(t, 25, got.RoyaltyPct)
}

func TestAddTag(t *testing.T) {
	s := NewStore()
	c := mintOne(t, s, "req-1")

	require.ErrorIs(t, s.AddTag(c.ID, ""), fault.ErrInvalidRange)
	require.NoError(t, s.AddTag(c.ID, "scenic"))
	require.NoError(t, s.AddTag(c.ID, "off-peak"))

	got, _ := s.Get(c.ID)
	require.Equal(t, []string{"scenic", "off-peak"}, got.Tags)
}

func TestBundleLifecycle(t *testing.T) {
	s := NewStore()
	a := mintOne(t, s, "req-1")
	b := mintOne(t, s, "req-2")

	_, err := s.CreateBundle("solo", "alice", []uint64{a.ID}, 100, 0)
	require.ErrorIs(t, err, fault.ErrInvalidRange, "bundles need at least two certificates")

	_, err = s.CreateBundle("ghost", "alice", []uint64{a.ID, 999}, 100, 0)
	require.ErrorIs(t, err, fault.ErrNotFound)

	bun, err := s.CreateBundle("weekend", "alice", []uint64{a.ID, b.ID}, 150, 42)
	require.NoError(t, err)
	require.True(t, bun.Active)

	got, err := s.GetBundle(bun.ID)
	require.NoError(t, err)
	require.Equal(t, []uint64{a.ID, b.ID}, got.CertIDs)
	require.EqualValues(t, 42, got.CreatedAt)

	require.NoError(t, s.DeactivateBundle(bun.ID))
	require.ErrorIs(t, s.DeactivateBundle(bun.ID), fault.ErrInactiveBundle)
	require.ErrorIs(t, s.DeactivateBundle("nope"), fault.ErrNotFound)

	require.Len(t, s.Bundles(), 1)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	c := mintOne(t, s, "req-1")

	got, err := s.Get(c.ID)
	require.NoError(t, err)
	got.QualityScore = 999

	again, _ := s.Get(c.ID)
	require.EqualValues(t, 0, again.QualityScore)
}
