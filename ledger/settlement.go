package ledger

import (
	"math/bits"
	"time"
)

// transferStep is one leg of a settlement disbursement.
type transferStep struct {
	from   string
	to     string
	amount uint64
}

// disburse executes the transfer plan all-or-nothing: if a leg fails, the
// completed legs are reversed in LIFO order and the original error is
// returned. Zero-value and self transfers are skipped.
func (l *Ledger) disburse(steps []transferStep) error {
	done := make([]transferStep, 0, len(steps))
	for _, s := range steps {
		if s.amount == 0 || s.from == s.to {
			continue
		}
		if err := l.bank.Transfer(s.from, s.to, s.amount); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				r := done[i]
				if rerr := l.bank.Transfer(r.to, r.from, r.amount); rerr != nil {
					// Funds are stuck at r.to until operator intervention.
					l.log.Criticalf("compensating refund of %d from %s to %s failed: %v",
						r.amount, r.to, r.from, rerr)
				}
			}
			return err
		}
		done = append(done, s)
	}
	return nil
}

// Buy settles a sale: the buyer pays exactly the listed price, the payment
// is split between platform, creator and seller, and ownership transfers to
// the buyer. Either everything commits, or no fund movement and no state
// change is observable.
//
// Payment must match the price exactly; both under- and overpayment are
// rejected. Overpayment-with-refund would be a separate, explicit feature.
func (l *Ledger) Buy(assetID uint64, buyer string, paid uint64) error {
	if l.isPaused() {
		return ErrSystemPaused
	}
	e, err := l.lookup(assetID)
	if err != nil {
		return err
	}

	l.mu.RLock()
	platformWallet := l.platformWallet
	l.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.listing.Active {
		return ErrNotListed
	}
	if e.rental.activeAt(l.now()) {
		return ErrCurrentlyRented
	}
	price := e.listing.SalePrice
	if paid != price {
		return ErrInsufficientPayment
	}

	seller := e.listing.Seller
	// The listing is not an escrow: confirm the seller still owns the
	// asset before sending funds their way.
	if seller != e.asset.Owner {
		return ErrNotOwner
	}

	platformFee := basisPointFee(price, platformFeeBasisPoints)
	royaltyFee := basisPointFee(price, e.asset.RoyaltyBasisPoints)
	sellerProceeds := price - platformFee - royaltyFee

	// When the creator is selling their own asset the royalty leg would
	// just pay them twice, so it is folded into the proceeds transfer.
	creator := e.asset.Creator
	royaltyTransfer := royaltyFee
	proceedsTransfer := sellerProceeds
	if creator == seller {
		proceedsTransfer += royaltyTransfer
		royaltyTransfer = 0
	}

	err = l.disburse([]transferStep{
		{from: buyer, to: platformWallet, amount: platformFee},
		{from: buyer, to: creator, amount: royaltyTransfer},
		{from: buyer, to: seller, amount: proceedsTransfer},
	})
	if err != nil {
		l.log.Warnf("sale of asset %d to %s aborted: %v", assetID, buyer, err)
		return err
	}

	e.asset.Owner = buyer
	e.listing = Listing{}

	l.log.Infof("asset %d sold by %s to %s for %d (platform %d, royalty %d, seller %d)",
		assetID, seller, buyer, price, platformFee, royaltyFee, sellerProceeds)
	l.emit(Sold{
		eventBase:      l.newEventBase(assetID),
		Seller:         seller,
		Buyer:          buyer,
		SalePrice:      price,
		PlatformFee:    platformFee,
		RoyaltyFee:     royaltyFee,
		SellerProceeds: sellerProceeds,
	})
	return nil
}

// Rent grants the renter exclusive usage for the given number of periods
// against exact payment of rentPrice * duration. The whole payment goes to
// the current owner: rental income is intentionally not fee-split, matching
// the deployed contract (flagged to stakeholders, do not "fix" silently).
// A stale expired rental is overwritten in place.
func (l *Ledger) Rent(assetID uint64, renter string, duration uint32, paid uint64) error {
	if l.isPaused() {
		return ErrSystemPaused
	}
	e, err := l.lookup(assetID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.listing.Active || e.listing.RentPrice == 0 {
		return ErrNotRentable
	}
	now := l.now()
	if e.rental.activeAt(now) {
		return ErrAlreadyRented
	}
	hi, total := bits.Mul64(e.listing.RentPrice, uint64(duration))
	if hi != 0 || paid != total {
		return ErrInsufficientPayment
	}

	owner := e.asset.Owner
	if err := l.disburse([]transferStep{
		{from: renter, to: owner, amount: total},
	}); err != nil {
		l.log.Warnf("rental of asset %d to %s aborted: %v", assetID, renter, err)
		return err
	}

	expiresAt := now.Add(time.Duration(duration) * l.periodLength)
	e.rental = Rental{
		Renter:    renter,
		Duration:  duration,
		ExpiresAt: expiresAt,
		Active:    true,
	}

	l.log.Infof("asset %d rented by %s for %d periods (%d paid to %s)",
		assetID, renter, duration, total, owner)
	l.emit(Rented{
		eventBase: l.newEventBase(assetID),
		Owner:     owner,
		Renter:    renter,
		Duration:  duration,
		RentPaid:  total,
		ExpiresAt: expiresAt,
	})
	return nil
}

// EndRental clears the rental. The renter may end early; anyone may clear a
// rental whose expiry has passed. The pre-rental listing state is left
// untouched either way. Ending an asset that has no active rental is also
// rejected with ErrNotExpired: there is nothing the caller is entitled to
// clear.
func (l *Ledger) EndRental(assetID uint64, caller string) error {
	e, err := l.lookup(assetID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rental.Active {
		return ErrNotExpired
	}
	if caller != e.rental.Renter && l.now().Before(e.rental.ExpiresAt) {
		return ErrNotExpired
	}

	renter := e.rental.Renter
	e.rental = Rental{}

	l.log.Infof("rental of asset %d by %s ended", assetID, renter)
	l.emit(RentalEnded{
		eventBase: l.newEventBase(assetID),
		Renter:    renter,
	})
	return nil
}
