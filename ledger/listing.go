package ledger

import "time"

// Listing is an owner's standing offer to sell and optionally rent an
// asset. A listing never escrows the asset; ownership is re-validated at
// settlement time. At most one listing is active per asset, superseded
// listings are simply overwritten.
type Listing struct {
	Seller    string
	SalePrice uint64
	// RentPrice is the price of one rental period. Zero means the asset
	// is not offered for rent.
	RentPrice uint64
	Active    bool
}

// Rental is a time-bounded exclusive usage grant. It does not transfer
// ownership. Rentals are cleared, never deleted; a stale expired rental is
// overwritten by the next Rent.
type Rental struct {
	Renter    string
	Duration  uint32
	ExpiresAt time.Time
	Active    bool
}

// activeAt reports whether the rental blocks sale/re-rental at the given
// time. An expired rental no longer blocks anything even if it was never
// explicitly ended.
func (r Rental) activeAt(now time.Time) bool {
	return r.Active && now.Before(r.ExpiresAt)
}

// List puts an asset up for sale (and for rent when rentPrice is non-zero).
// Only the current owner may list, and not while an unexpired rental is in
// place. A previous listing for the asset is replaced.
func (l *Ledger) List(assetID uint64, caller string, salePrice, rentPrice uint64) error {
	e, err := l.lookup(assetID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.asset.Owner {
		return ErrNotOwner
	}
	if e.rental.activeAt(l.now()) {
		return ErrActiveRental
	}

	e.listing = Listing{
		Seller:    caller,
		SalePrice: salePrice,
		RentPrice: rentPrice,
		Active:    true,
	}

	l.log.Infof("asset %d listed by %s: sale %d rent %d", assetID, caller, salePrice, rentPrice)
	l.emit(Listed{
		eventBase: l.newEventBase(assetID),
		Seller:    caller,
		SalePrice: salePrice,
		RentPrice: rentPrice,
	})
	return nil
}

// Delist withdraws the active listing. Only the current owner may delist.
func (l *Ledger) Delist(assetID uint64, caller string) error {
	e, err := l.lookup(assetID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.asset.Owner {
		return ErrNotOwner
	}
	if !e.listing.Active {
		return ErrNoActiveListing
	}

	e.listing = Listing{}

	l.log.Infof("asset %d delisted by %s", assetID, caller)
	l.emit(Delisted{
		eventBase: l.newEventBase(assetID),
		Seller:    caller,
	})
	return nil
}

// GetListing returns the active listing for an asset, if any. Available
// while paused.
func (l *Ledger) GetListing(assetID uint64) (Listing, bool) {
	e, err := l.lookup(assetID)
	if err != nil {
		return Listing{}, false
	}
	e.mu.Lock()
	listing := e.listing
	e.mu.Unlock()
	if !listing.Active {
		return Listing{}, false
	}
	return listing, true
}

// GetRental returns the rental for an asset if it is active and unexpired.
func (l *Ledger) GetRental(assetID uint64) (Rental, bool) {
	e, err := l.lookup(assetID)
	if err != nil {
		return Rental{}, false
	}
	e.mu.Lock()
	rental := e.rental
	e.mu.Unlock()
	if !rental.activeAt(l.now()) {
		return Rental{}, false
	}
	return rental, true
}
