package listing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripmarket-io/tripmarket/internal/fault"
)

type fakeLookup struct {
	expired  map[uint64]bool
	provider map[uint64]string
}

func (f fakeLookup) CertExpired(certID uint64, _ int64) bool { return f.expired[certID] }

func (f fakeLookup) ProviderIdentity(certID uint64) (string, bool) {
	p, ok := f.provider[certID]
	return p, ok
}

func newListing(certID uint64, price int64) *Listing {
	return &Listing{
		CertID:       certID,
		Seller:       "alice",
		InitialPrice: price,
		FinalPrice:   price,
		CurrentPrice: price,
	}
}

func TestAddRejectsSecondActiveListing(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, ix.Add(newListing(1, 100)))
	require.ErrorIs(t, ix.Add(newListing(1, 200)), fault.ErrAlreadyListed)
}

func TestRetireThenRelist(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, ix.Add(newListing(1, 100)))
	require.NoError(t, ix.Retire(1, 80))

	_, err := ix.Get(1)
	require.ErrorIs(t, err, fault.ErrAlreadySold)

	require.NoError(t, ix.Add(newListing(1, 120)))
	l, err := ix.Get(1)
	require.NoError(t, err)
	require.EqualValues(t, 120, l.CurrentPrice)
}

func TestGetUnknownCertificate(t *testing.T) {
	ix := NewIndex()
	_, err := ix.Get(42)
	require.ErrorIs(t, err, fault.ErrNotFound)
}

func TestActiveInsertionOrder(t *testing.T) {
	ix := NewIndex()
	for _, id := range []uint64{3, 1, 2} {
		require.NoError(t, ix.Add(newListing(id, 100)))
	}
	require.NoError(t, ix.Retire(1, -1))

	active := ix.Active()
	require.Len(t, active, 2)
	require.EqualValues(t, 3, active[0].CertID)
	require.EqualValues(t, 2, active[1].CertID)
}

func TestSearchFilters(t *testing.T) {
	ix := NewIndex()
	look := fakeLookup{
		expired:  map[uint64]bool{2: true},
		provider: map[uint64]string{1: "prov-a", 3: "prov-b"},
	}

	a := newListing(1, 100)
	a.Departure = 1000
	a.Mode = 2
	a.Origin = [2]int32{10, 10}
	a.Destination = [2]int32{500, 500}
	require.NoError(t, ix.Add(a))

	b := newListing(2, 300) // expired certificate
	b.Departure = 2000
	b.Mode = 2
	require.NoError(t, ix.Add(b))

	c := newListing(3, 900)
	c.Departure = 3000
	c.Mode = 5
	c.Origin = [2]int32{1000, 1000}
	require.NoError(t, ix.Add(c))

	t.Run("no filter excludes expired", func(t *testing.T) {
		got := ix.Search(Filter{}, 0, look)
		require.Len(t, got, 2)
	})

	t.Run("include expired", func(t *testing.T) {
		got := ix.Search(Filter{IncludeExpired: true}, 0, look)
		require.Len(t, got, 3)
	})

	t.Run("price range", func(t *testing.T) {
		got := ix.Search(Filter{IncludeExpired: true, MinPrice: 200, MaxPrice: 400}, 0, look)
		require.Len(t, got, 1)
		require.EqualValues(t, 2, got[0].CertID)
	})

	t.Run("departure range", func(t *testing.T) {
		got := ix.Search(Filter{IncludeExpired: true, DepartAfter: 1500, DepartBefore: 2500}, 0, look)
		require.Len(t, got, 1)
		require.EqualValues(t, 2, got[0].CertID)
	})

	t.Run("mode match", func(t *testing.T) {
		got := ix.Search(Filter{Mode: 5}, 0, look)
		require.Len(t, got, 1)
		require.EqualValues(t, 3, got[0].CertID)
	})

	t.Run("provider match", func(t *testing.T) {
		got := ix.Search(Filter{Provider: "prov-a"}, 0, look)
		require.Len(t, got, 1)
		require.EqualValues(t, 1, got[0].CertID)
	})

	t.Run("origin proximity", func(t *testing.T) {
		got := ix.Search(Filter{NearOrigin: []int32{0, 0, 20}}, 0, look)
		require.Len(t, got, 1)
		require.EqualValues(t, 1, got[0].CertID)
	})

	t.Run("destination proximity", func(t *testing.T) {
		got := ix.Search(Filter{NearDestination: []int32{500, 501, 1}}, 0, look)
		require.Len(t, got, 1)
		require.EqualValues(t, 1, got[0].CertID)
	})
}

func TestSearchProximityTripleLengthGate(t *testing.T) {
	ix := NewIndex()
	look := fakeLookup{}

	l := newListing(1, 100)
	l.Origin = [2]int32{1000000, 1000000}
	require.NoError(t, ix.Add(l))

	// A correct triple far from the origin excludes the listing.
	require.Empty(t, ix.Search(Filter{NearOrigin: []int32{0, 0, 10}}, 0, look))

	// Any other length disables the proximity test entirely.
	require.Len(t, ix.Search(Filter{NearOrigin: []int32{0, 0}}, 0, look), 1)
	require.Len(t, ix.Search(Filter{NearOrigin: []int32{0, 0, 10, 99}}, 0, look), 1)
	require.Len(t, ix.Search(Filter{NearOrigin: nil}, 0, look), 1)
}

func TestSearchProximityNoOverflow(t *testing.T) {
	ix := NewIndex()
	look := fakeLookup{}

	l := newListing(1, 100)
	l.Origin = [2]int32{2000000000, 2000000000}
	require.NoError(t, ix.Add(l))

	// Max-magnitude coordinates on both sides must not wrap around and
	// accidentally match.
	require.Empty(t, ix.Search(Filter{NearOrigin: []int32{-2000000000, -2000000000, 10}}, 0, look))
}

func TestRefreshOnlyTouchesUnsoldDynamic(t *testing.T) {
	ix := NewIndex()

	dyn := &Listing{CertID: 1, InitialPrice: 100, FinalPrice: 50, DecayStart: 0, DecayEnd: 100, CurrentPrice: 100}
	fixed := newListing(2, 200)
	soldDyn := &Listing{CertID: 3, InitialPrice: 100, FinalPrice: 50, DecayStart: 0, DecayEnd: 100, CurrentPrice: 100}
	require.NoError(t, ix.Add(dyn))
	require.NoError(t, ix.Add(fixed))
	require.NoError(t, ix.Add(soldDyn))
	require.NoError(t, ix.Retire(3, -1))

	price := func(l *Listing, now int64) int64 {
		return l.InitialPrice - (l.InitialPrice-l.FinalPrice)*now/(l.DecayEnd-l.DecayStart)
	}

	var events []uint64
	n := ix.Refresh(50, price, func(certID uint64, old, new int64) {
		events = append(events, certID)
		require.EqualValues(t, 100, old)
		require.EqualValues(t, 75, new)
	})

	require.Equal(t, 1, n)
	require.Equal(t, []uint64{1}, events)

	got, err := ix.Get(1)
	require.NoError(t, err)
	require.EqualValues(t, 75, got.CurrentPrice)

	gotFixed, err := ix.Get(2)
	require.NoError(t, err)
	require.EqualValues(t, 200, gotFixed.CurrentPrice)

	// A second pass at the same time is a no-op.
	require.Equal(t, 0, ix.Refresh(50, price, nil))
}
