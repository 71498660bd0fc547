package ledger

import "math/bits"

// Asset is one unique item tracked by the ledger. Creator, metadata
// reference and royalty rate are fixed at mint; only Owner changes, and only
// through a completed sale.
type Asset struct {
	ID                 uint64
	Creator            string
	Owner              string
	MetadataRef        string
	RoyaltyBasisPoints uint32
}

// Mint creates a new asset owned by its creator and returns the assigned id.
// Ids are sequential from 1 and never reused; a rejected mint does not
// advance the counter. The metadata reference is stored opaquely, the ledger
// never interprets it.
func (l *Ledger) Mint(creator, metadataRef string, royaltyBasisPoints uint32) (uint64, error) {
	if royaltyBasisPoints > maxRoyaltyBasisPoints {
		return 0, ErrInvalidRoyalty
	}

	l.mu.Lock()
	if l.paused {
		l.mu.Unlock()
		return 0, ErrSystemPaused
	}
	l.nextID++
	id := l.nextID
	l.assets[id] = &entry{
		asset: Asset{
			ID:                 id,
			Creator:            creator,
			Owner:              creator,
			MetadataRef:        metadataRef,
			RoyaltyBasisPoints: royaltyBasisPoints,
		},
	}
	l.mu.Unlock()

	l.log.Infof("minted asset %d by %s", id, creator)
	l.emit(Minted{
		eventBase:          l.newEventBase(id),
		Creator:            creator,
		MetadataRef:        metadataRef,
		RoyaltyBasisPoints: royaltyBasisPoints,
	})
	return id, nil
}

// OwnerOf returns the current holder of an asset. Available while paused.
func (l *Ledger) OwnerOf(assetID uint64) (string, error) {
	e, err := l.lookup(assetID)
	if err != nil {
		return "", err
	}
	e.mu.Lock()
	owner := e.asset.Owner
	e.mu.Unlock()
	return owner, nil
}

// GetAsset returns a copy of the asset record.
func (l *Ledger) GetAsset(assetID uint64) (Asset, error) {
	e, err := l.lookup(assetID)
	if err != nil {
		return Asset{}, err
	}
	e.mu.Lock()
	a := e.asset
	e.mu.Unlock()
	return a, nil
}

// RoyaltyInfo reports who receives the creator royalty for a sale at the
// given price and how much, using the same truncating basis-point division
// as settlement.
func (l *Ledger) RoyaltyInfo(assetID uint64, salePrice uint64) (string, uint64, error) {
	e, err := l.lookup(assetID)
	if err != nil {
		return "", 0, err
	}
	e.mu.Lock()
	receiver := e.asset.Creator
	bps := e.asset.RoyaltyBasisPoints
	e.mu.Unlock()
	return receiver, basisPointFee(salePrice, bps), nil
}

// basisPointFee computes amount * bps / 10000 with truncation toward zero.
// The multiplication runs through a 128-bit intermediate so wei-scale prices
// cannot overflow.
func basisPointFee(amount uint64, bps uint32) uint64 {
	hi, lo := bits.Mul64(amount, uint64(bps))
	fee, _ := bits.Div64(hi, lo, feeDenominator)
	return fee
}
