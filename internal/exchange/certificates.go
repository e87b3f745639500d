package exchange

import (
	"fmt"

	"github.com/tripmarket-io/tripmarket/internal/certificate"
	"github.com/tripmarket-io/tripmarket/internal/fault"
)

// Mint tokenizes a completed service for its first owner. Only identities
// registered as minters (the request/auction subsystem) may call it.
func (e *Exchange) Mint(caller, owner string, p certificate.MintParams) (certificate.Certificate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.minters[caller] && !e.admins[caller] {
		return certificate.Certificate{}, fault.ErrNotAuthorized
	}
	if owner == "" {
		return certificate.Certificate{}, fault.ErrInvalidRange
	}

	c, err := e.certs.Mint(p)
	if err != nil {
		return certificate.Certificate{}, err
	}
	if e.minter != nil {
		if err := e.minter.MintToken(owner, c.ID); err != nil {
			return certificate.Certificate{}, fmt.Errorf("register ownership: %w", err)
		}
	}
	e.everOwned[owner] = true
	return *c, nil
}

// Certificate returns the certificate by id.
func (e *Exchange) Certificate(certID uint64) (certificate.Certificate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.certs.Get(certID)
}

// Verify marks a certificate verified with a quality score; verifier-only.
func (e *Exchange) Verify(caller string, certID uint64, score int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.verifiers[caller] {
		return fault.ErrNotAuthorized
	}
	return e.certs.Verify(certID, score)
}

// Rate merges a rating into a certificate's quality score. Authorization is
// deliberately coarse: any identity that owns or has ever owned a
// certificate may rate any certificate. Preserved as-is from the source
// policy. Owners the engine never saw (the ownership ledger admits direct
// transfers) are admitted via an ownership lookup on the rated certificate.
func (e *Exchange) Rate(caller string, certID uint64, score int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.everOwned[caller] {
		owner, ok := e.ownership.OwnerOf(certID)
		if !ok || owner != caller {
			return fault.ErrNotAuthorized
		}
		e.everOwned[caller] = true
	}
	return e.certs.Rate(certID, score)
}

// Tag appends a tag; current owner only.
func (e *Exchange) Tag(caller string, certID uint64, tag string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.certs.Get(certID); err != nil {
		return err
	}
	if owner, ok := e.ownership.OwnerOf(certID); !ok || owner != caller {
		return fault.ErrNotOwner
	}
	return e.certs.AddTag(certID, tag)
}

// IsExpired reports expiration without mutating anything.
func (e *Exchange) IsExpired(certID uint64, now int64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.certs.IsExpired(certID, now)
}

// CheckExpiration persists the expired flag and emits a notification on the
// first transition.
func (e *Exchange) CheckExpiration(certID uint64, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	flipped, err := e.certs.CheckExpiration(certID, now)
	if err != nil {
		return err
	}
	if flipped {
		e.notifier.CertificateExpired(certID)
	}
	return nil
}

// ExtendValidity pushes a certificate's deadline out; original provider or
// admin only.
func (e *Exchange) ExtendValidity(caller string, certID uint64, extension, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.certs.Get(certID)
	if err != nil {
		return err
	}
	if caller != c.OriginalProvider && !e.admins[caller] {
		return fault.ErrNotAuthorized
	}
	return e.certs.ExtendValidity(certID, extension, now)
}

// SetRoyalty updates the royalty percentage; original provider or admin.
func (e *Exchange) SetRoyalty(caller string, certID uint64, pct int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.certs.Get(certID)
	if err != nil {
		return err
	}
	if caller != c.OriginalProvider && !e.admins[caller] {
		return fault.ErrNotAuthorized
	}
	return e.certs.SetRoyaltyPct(certID, pct)
}
