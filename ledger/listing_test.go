package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListAndGetListing(t *testing.T) {
	l, _, _ := newTestLedger(t)

	id, err := l.Mint(testCreator, testMetadataRef, 500)
	require.NoError(t, err)

	_, ok := l.GetListing(id)
	require.False(t, ok)

	require.NoError(t, l.List(id, testCreator, 1_000_000, 10_000))

	listing, ok := l.GetListing(id)
	require.True(t, ok)
	require.Equal(t, testCreator, listing.Seller)
	require.Equal(t, uint64(1_000_000), listing.SalePrice)
	require.Equal(t, uint64(10_000), listing.RentPrice)
	require.True(t, listing.Active)
}

func TestListNotOwner(t *testing.T) {
	l, _, _ := newTestLedger(t)

	id, err := l.Mint(testCreator, testMetadataRef, 500)
	require.NoError(t, err)

	err = l.List(id, testStranger, 1_000_000, 0)
	require.ErrorIs(t, err, ErrNotOwner)

	// Ownership and listing state are untouched by the rejection.
	owner, err := l.OwnerOf(id)
	require.NoError(t, err)
	require.Equal(t, testCreator, owner)
	_, ok := l.GetListing(id)
	require.False(t, ok)
}

func TestListReplacesPreviousListing(t *testing.T) {
	l, _, _ := newTestLedger(t)

	id, err := l.Mint(testCreator, testMetadataRef, 500)
	require.NoError(t, err)

	require.NoError(t, l.List(id, testCreator, 1_000_000, 0))
	require.NoError(t, l.List(id, testCreator, 2_000_000, 5_000))

	listing, ok := l.GetListing(id)
	require.True(t, ok)
	require.Equal(t, uint64(2_000_000), listing.SalePrice)
	require.Equal(t, uint64(5_000), listing.RentPrice)
}

func TestListUnknownAsset(t *testing.T) {
	l, _, _ := newTestLedger(t)
	require.ErrorIs(t, l.List(7, testCreator, 100, 0), ErrUnknownAsset)
}

func TestListWhileRented(t *testing.T) {
	l, bank, clock := newTestLedger(t)

	id, err := l.Mint(testCreator, testMetadataRef, 500)
	require.NoError(t, err)
	require.NoError(t, l.List(id, testCreator, 1_000_000, 10_000))

	bank.Deposit(testRenter, 300_000)
	require.NoError(t, l.Rent(id, testRenter, 30, 300_000))

	err = l.List(id, testCreator, 2_000_000, 0)
	require.ErrorIs(t, err, ErrActiveRental)

	// Once the rental expires the owner may list again.
	clock.Advance(31 * testPeriod)
	require.NoError(t, l.List(id, testCreator, 2_000_000, 0))
}

func TestDelist(t *testing.T) {
	l, _, _ := newTestLedger(t)

	id, err := l.Mint(testCreator, testMetadataRef, 500)
	require.NoError(t, err)

	require.ErrorIs(t, l.Delist(id, testCreator), ErrNoActiveListing)

	require.NoError(t, l.List(id, testCreator, 1_000_000, 0))
	require.ErrorIs(t, l.Delist(id, testStranger), ErrNotOwner)

	require.NoError(t, l.Delist(id, testCreator))
	_, ok := l.GetListing(id)
	require.False(t, ok)

	require.ErrorIs(t, l.Delist(id, testCreator), ErrNoActiveListing)
}

func TestListingEvents(t *testing.T) {
	l, _, _ := newTestLedger(t)

	id, err := l.Mint(testCreator, testMetadataRef, 500)
	require.NoError(t, err)

	events := collectEvents(l)
	require.NoError(t, l.List(id, testCreator, 1_000_000, 10_000))
	require.NoError(t, l.Delist(id, testCreator))

	require.Len(t, *events, 2)

	listed, ok := (*events)[0].(Listed)
	require.True(t, ok)
	require.Equal(t, id, listed.AssetID)
	require.Equal(t, uint64(1_000_000), listed.SalePrice)
	require.Equal(t, uint64(10_000), listed.RentPrice)

	delisted, ok := (*events)[1].(Delisted)
	require.True(t, ok)
	require.Equal(t, testCreator, delisted.Seller)
}
