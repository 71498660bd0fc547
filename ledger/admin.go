package ledger

// The administrator is a single identity fixed at construction. All of the
// ledger's global configuration is mutated here and nowhere else.

// SetPlatformWallet changes the destination of future platform fees. Sales
// already settled are unaffected.
func (l *Ledger) SetPlatformWallet(caller, wallet string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.admin {
		return ErrNotAdmin
	}
	l.platformWallet = wallet
	l.log.Infof("platform wallet set to %s", wallet)
	return nil
}

// PlatformWallet returns the current platform fee destination.
func (l *Ledger) PlatformWallet() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.platformWallet
}

// Pause trips the circuit breaker: mint, buy and rent are rejected until
// Unpause. Read-only queries stay available.
func (l *Ledger) Pause(caller string) error {
	return l.setPaused(caller, true)
}

// Unpause re-enables mint and settlement.
func (l *Ledger) Unpause(caller string) error {
	return l.setPaused(caller, false)
}

func (l *Ledger) setPaused(caller string, paused bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.admin {
		return ErrNotAdmin
	}
	l.paused = paused
	if paused {
		l.log.Warnf("system paused by %s", caller)
	} else {
		l.log.Infof("system unpaused by %s", caller)
	}
	return nil
}

// Paused reports whether the circuit breaker is tripped.
func (l *Ledger) Paused() bool {
	return l.isPaused()
}
