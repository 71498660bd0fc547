package ledger

import "sync"

// Bank is the ledger's port for moving funds between identities. Settlement
// treats every Transfer as instantaneous and final; a transfer that fails is
// compensated by reversing the ones that already completed.
type Bank interface {
	Transfer(from, to string, amount uint64) error
}

// TransferHook can be installed on an InMemoryBank to intercept transfers,
// typically to force a failure partway through a disbursement.
type TransferHook func(from, to string, amount uint64) error

// InMemoryBank is a Bank keeping balances in memory. It backs the flow
// simulator and the tests; a production deployment would put a payment
// gateway behind the same interface.
type InMemoryBank struct {
	mu       sync.Mutex
	balances map[string]uint64
	hook     TransferHook
}

// NewInMemoryBank creates a bank with no balances.
func NewInMemoryBank() *InMemoryBank {
	return &InMemoryBank{
		balances: make(map[string]uint64),
	}
}

// Deposit credits an account out of thin air. Simulator/test setup only.
func (b *InMemoryBank) Deposit(account string, amount uint64) {
	b.mu.Lock()
	b.balances[account] += amount
	b.mu.Unlock()
}

// Balance returns the current balance of an account.
func (b *InMemoryBank) Balance(account string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account]
}

// SetTransferHook installs a hook consulted before every transfer. A nil
// hook removes it.
func (b *InMemoryBank) SetTransferHook(hook TransferHook) {
	b.mu.Lock()
	b.hook = hook
	b.mu.Unlock()
}

// Transfer moves amount from one account to another, rejecting overdrafts.
func (b *InMemoryBank) Transfer(from, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hook != nil {
		if err := b.hook(from, to, amount); err != nil {
			return err
		}
	}

	if b.balances[from] < amount {
		return ErrInsufficientFunds
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}
