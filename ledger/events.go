package ledger

import "time"

// Event is a committed ledger state change. Events are emitted after the
// mutation is final, so a subscriber never sees a change that was rolled
// back. The persistence mirror replays these into its query store; it must
// never be treated as the source of truth for ownership or funds.
type Event interface {
	// Name is a stable lowercase tag for the event kind.
	Name() string
}

// Subscriber receives committed events synchronously, in per-asset commit
// order.
type Subscriber func(Event)

type eventBase struct {
	EventID     string
	AssetID     uint64
	CommittedAt time.Time
}

// Minted is emitted for every new asset.
type Minted struct {
	eventBase
	Creator            string
	MetadataRef        string
	RoyaltyBasisPoints uint32
}

// Listed is emitted when an owner lists an asset, including when the new
// listing replaces a previous one.
type Listed struct {
	eventBase
	Seller    string
	SalePrice uint64
	RentPrice uint64
}

// Delisted is emitted when an owner withdraws a listing.
type Delisted struct {
	eventBase
	Seller string
}

// Sold is emitted for every completed sale. The fee fields carry the
// computed split; when the creator sold their own asset the royalty was
// paid to them together with the proceeds in a single transfer, but the
// split is still reported as computed.
type Sold struct {
	eventBase
	Seller         string
	Buyer          string
	SalePrice      uint64
	PlatformFee    uint64
	RoyaltyFee     uint64
	SellerProceeds uint64
}

// Rented is emitted for every new rental.
type Rented struct {
	eventBase
	Owner     string
	Renter    string
	Duration  uint32
	RentPaid  uint64
	ExpiresAt time.Time
}

// RentalEnded is emitted when a rental is explicitly ended, by the renter
// or by anyone once it has expired.
type RentalEnded struct {
	eventBase
	Renter string
}

func (Minted) Name() string      { return "minted" }
func (Listed) Name() string      { return "listed" }
func (Delisted) Name() string    { return "delisted" }
func (Sold) Name() string        { return "sold" }
func (Rented) Name() string      { return "rented" }
func (RentalEnded) Name() string { return "rental-ended" }
