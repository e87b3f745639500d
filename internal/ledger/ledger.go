// Package ledger defines the external capabilities the exchange consumes —
// fungible payments, certificate ownership, and provider identity — plus
// in-process implementations used by the standalone server and tests.
package ledger

// PaymentLedger is the fungible-balance collaborator. TransferFrom moves
// amount from payer to payee using the allowance the payer granted the
// exchange; it reports false on any failure and must never partially apply.
type PaymentLedger interface {
	TransferFrom(payer, payee string, amount int64) bool
}

// OwnershipLedger is the certificate-ownership collaborator. Transfer must
// consult the engine's pre-transfer guard before completing.
type OwnershipLedger interface {
	OwnerOf(certID uint64) (string, bool)
	IsApprovedForAll(owner, operator string) bool
	GetApproved(certID uint64) (string, bool)
	Transfer(from, to string, certID uint64) error
}

// TokenMinter registers first ownership of a newly minted certificate.
// Separate from OwnershipLedger because only the mint path needs it.
type TokenMinter interface {
	MintToken(to string, certID uint64) error
}

// Registry resolves a provider id to its payout identity.
type Registry interface {
	ResolveProviderAddress(providerID string) (string, bool)
}
