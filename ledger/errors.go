package ledger

import "errors"

// Every mutating operation validates before it touches state, so each of
// these errors means the call had no observable effect. Callers are expected
// to match with errors.Is.
var (
	ErrInvalidRoyalty      = errors.New("royalty exceeds maximum")
	ErrUnknownAsset        = errors.New("unknown asset")
	ErrNotOwner            = errors.New("not the owner")
	ErrNoActiveListing     = errors.New("no active listing")
	ErrNotListed           = errors.New("asset not listed for sale")
	ErrActiveRental        = errors.New("asset has an active rental")
	ErrCurrentlyRented     = errors.New("asset is currently rented")
	ErrAlreadyRented       = errors.New("asset already rented")
	ErrNotRentable         = errors.New("asset not rentable")
	ErrInsufficientPayment = errors.New("payment does not match price")
	ErrSystemPaused        = errors.New("system is paused")
	ErrNotAdmin            = errors.New("caller is not the administrator")
	ErrNotExpired          = errors.New("rental not expired")

	// ErrInsufficientFunds is returned by a Bank when the paying account
	// cannot cover the transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
