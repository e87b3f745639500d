package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripmarket-io/tripmarket/internal/fault"
)

func TestTransferFromRespectsBalanceAndAllowance(t *testing.T) {
	p := NewMemoryPayments()
	p.Credit("bob", 100)

	require.False(t, p.TransferFrom("bob", "alice", 50), "no allowance yet")

	p.Approve("bob", 30)
	require.False(t, p.TransferFrom("bob", "alice", 50), "allowance too small")
	require.True(t, p.TransferFrom("bob", "alice", 30))

	require.EqualValues(t, 70, p.Balance("bob"))
	require.EqualValues(t, 30, p.Balance("alice"))
	require.EqualValues(t, 0, p.Allowance("bob"))

	p.Approve("bob", 1000)
	require.False(t, p.TransferFrom("bob", "alice", 71), "balance too small")

	require.True(t, p.TransferFrom("bob", "alice", 0), "zero moves nothing and succeeds")
	require.False(t, p.TransferFrom("bob", "alice", -1))
}

func TestOwnershipTransferAndApprovals(t *testing.T) {
	o := NewMemoryOwnership()
	require.NoError(t, o.MintToken("alice", 1))
	require.ErrorIs(t, o.MintToken("bob", 1), fault.ErrAlreadyMinted)

	require.ErrorIs(t, o.Transfer("bob", "carol", 1), fault.ErrNotOwner)
	require.ErrorIs(t, o.Transfer("alice", "carol", 2), fault.ErrNotFound)

	o.ApproveToken(1, "op")
	require.NoError(t, o.Transfer("alice", "bob", 1))

	owner, ok := o.OwnerOf(1)
	require.True(t, ok)
	require.Equal(t, "bob", owner)

	_, ok = o.GetApproved(1)
	require.False(t, ok, "transfer clears the per-token approval")

	o.SetApprovalForAll("bob", "op", true)
	require.True(t, o.IsApprovedForAll("bob", "op"))
	o.SetApprovalForAll("bob", "op", false)
	require.False(t, o.IsApprovedForAll("bob", "op"))
}

func TestOwnershipGuard(t *testing.T) {
	o := NewMemoryOwnership()
	require.NoError(t, o.MintToken("alice", 1))

	allow := false
	o.Guard = func(uint64) bool { return allow }

	require.ErrorIs(t, o.Transfer("alice", "bob", 1), fault.ErrExpired)
	owner, _ := o.OwnerOf(1)
	require.Equal(t, "alice", owner)

	allow = true
	require.NoError(t, o.Transfer("alice", "bob", 1))
}

func TestRegistry(t *testing.T) {
	r := NewMemoryRegistry()
	_, ok := r.ResolveProviderAddress("prov-1")
	require.False(t, ok)

	r.Register("prov-1", "carol")
	id, ok := r.ResolveProviderAddress("prov-1")
	require.True(t, ok)
	require.Equal(t, "carol", id)
}
