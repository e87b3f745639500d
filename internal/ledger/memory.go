package ledger

import (
	"sync"

	"github.com/tripmarket-io/tripmarket/internal/fault"
)

// MemoryPayments is an in-process payment ledger: balances plus per-payer
// allowances granted to the exchange operator.
type MemoryPayments struct {
	mu        sync.Mutex
	balances  map[string]int64
	allowance map[string]int64
}

func NewMemoryPayments() *MemoryPayments {
	return &MemoryPayments{
		balances:  make(map[string]int64),
		allowance: make(map[string]int64),
	}
}

// Credit adds funds to an identity's balance.
func (p *MemoryPayments) Credit(id string, amount int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balances[id] += amount
}

// Approve sets the allowance the payer grants the exchange.
func (p *MemoryPayments) Approve(payer string, amount int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.allowance[payer] = amount
}

// Balance returns the identity's current balance.
func (p *MemoryPayments) Balance(id string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[id]
}

// Allowance returns the payer's remaining exchange allowance.
func (p *MemoryPayments) Allowance(payer string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allowance[payer]
}

// TransferFrom moves amount payer -> payee within balance and allowance, or
// reports false having moved nothing.
func (p *MemoryPayments) TransferFrom(payer, payee string, amount int64) bool {
	if amount < 0 {
		return false
	}
	if amount == 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.balances[payer] < amount || p.allowance[payer] < amount {
		return false
	}
	p.balances[payer] -= amount
	p.allowance[payer] -= amount
	p.balances[payee] += amount
	return true
}

// MemoryOwnership is an in-process ownership ledger with operator and
// per-token approvals. Guard, when set, is the engine's pre-transfer hook;
// a transfer it rejects fails with ErrExpired.
type MemoryOwnership struct {
	mu            sync.Mutex
	owners        map[uint64]string
	operatorOK    map[string]map[string]bool
	tokenApproved map[uint64]string

	Guard func(certID uint64) bool
}

func NewMemoryOwnership() *MemoryOwnership {
	return &MemoryOwnership{
		owners:        make(map[uint64]string),
		operatorOK:    make(map[string]map[string]bool),
		tokenApproved: make(map[uint64]string),
	}
}

// MintToken assigns first ownership of certID.
func (o *MemoryOwnership) MintToken(to string, certID uint64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.owners[certID]; ok {
		return fault.ErrAlreadyMinted
	}
	o.owners[certID] = to
	return nil
}

func (o *MemoryOwnership) OwnerOf(certID uint64) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	owner, ok := o.owners[certID]
	return owner, ok
}

// SetApprovalForAll grants or revokes operator rights over all of owner's
// certificates.
func (o *MemoryOwnership) SetApprovalForAll(owner, operator string, approved bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	m, ok := o.operatorOK[owner]
	if !ok {
		m = make(map[string]bool)
		o.operatorOK[owner] = m
	}
	m[operator] = approved
}

func (o *MemoryOwnership) IsApprovedForAll(owner, operator string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.operatorOK[owner][operator]
}

// ApproveToken grants a single-certificate approval.
func (o *MemoryOwnership) ApproveToken(certID uint64, to string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tokenApproved[certID] = to
}

func (o *MemoryOwnership) GetApproved(certID uint64) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id, ok := o.tokenApproved[certID]
	return id, ok
}

// Transfer moves certID from -> to, consulting the pre-transfer guard and
// clearing any per-token approval.
func (o *MemoryOwnership) Transfer(from, to string, certID uint64) error {
	if o.Guard != nil && !o.Guard(certID) {
		return fault.ErrExpired
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	owner, ok := o.owners[certID]
	if !ok {
		return fault.ErrNotFound
	}
	if owner != from {
		return fault.ErrNotOwner
	}
	o.owners[certID] = to
	delete(o.tokenApproved, certID)
	return nil
}

// MemoryRegistry maps provider ids to payout identities.
type MemoryRegistry struct {
	mu        sync.Mutex
	addresses map[string]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{addresses: make(map[string]string)}
}

// Register binds a provider id to its payout identity.
func (r *MemoryRegistry) Register(providerID, identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses[providerID] = identity
}

func (r *MemoryRegistry) ResolveProviderAddress(providerID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.addresses[providerID]
	return id, ok
}
