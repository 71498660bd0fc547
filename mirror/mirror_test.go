package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/require"

	"github.com/ownpicture/marketplace/ledger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "mirror-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	err = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "test.log",
		Size:      1048576,
		Count:     10,
		Levels:    map[string]string{"DEFAULT": "critical"},
	})
	if err != nil {
		panic(err)
	}
	defer logger.Finalise()

	os.Exit(m.Run())
}

const (
	admin    = "0xad01"
	platform = "0xfee1"
	creator  = "0xc1"
	buyer    = "0xb1"
	renter   = "0xe1"
)

func newMirroredLedger(t *testing.T) (*ledger.Ledger, *ledger.InMemoryBank, *Mirror) {
	t.Helper()

	m, err := Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, m.Close())
	})

	bank := ledger.NewInMemoryBank()
	l := ledger.New(ledger.Options{
		Admin:          admin,
		PlatformWallet: platform,
		Bank:           bank,
	})
	l.Subscribe(m.HandleEvent)
	return l, bank, m
}

func TestMirrorReplaysLifecycle(t *testing.T) {
	l, bank, m := newMirroredLedger(t)

	id, err := l.Mint(creator, "ipfs://QmTest", 500)
	require.NoError(t, err)

	token, err := m.Token(id)
	require.NoError(t, err)
	require.Equal(t, creator, token.Creator)
	require.Equal(t, creator, token.Owner)
	require.Equal(t, "ipfs://QmTest", token.MetadataRef)
	require.False(t, token.Listed)

	require.NoError(t, l.List(id, creator, 1_000_000, 10_000))
	token, err = m.Token(id)
	require.NoError(t, err)
	require.True(t, token.Listed)
	require.Equal(t, uint64(1_000_000), token.SalePrice)
	require.Equal(t, uint64(10_000), token.RentPrice)
	require.NotEmpty(t, token.DisplaySalePrice)

	listed, err := m.ListedTokens()
	require.NoError(t, err)
	require.Len(t, listed, 1)

	bank.Deposit(buyer, 1_000_000)
	require.NoError(t, l.Buy(id, buyer, 1_000_000))

	token, err = m.Token(id)
	require.NoError(t, err)
	require.Equal(t, buyer, token.Owner)
	require.False(t, token.Listed)

	trades, err := m.TradesForToken(id)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.Equal(t, "sale", trades[0].Kind)
	require.Equal(t, creator, trades[0].Seller)
	require.Equal(t, buyer, trades[0].Buyer)
	require.Equal(t, uint64(25_000), trades[0].PlatformFee)
	require.Equal(t, uint64(50_000), trades[0].RoyaltyFee)
	require.Equal(t, uint64(925_000), trades[0].SellerProceeds)

	owned, err := m.TokensOwnedBy(buyer)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, id, owned[0].AssetID)
}

func TestMirrorReplaysRental(t *testing.T) {
	l, bank, m := newMirroredLedger(t)

	id, err := l.Mint(creator, "ipfs://QmTest", 0)
	require.NoError(t, err)
	require.NoError(t, l.List(id, creator, 1_000_000, 10_000))

	bank.Deposit(renter, 300_000)
	require.NoError(t, l.Rent(id, renter, 30, 300_000))

	token, err := m.Token(id)
	require.NoError(t, err)
	require.True(t, token.Rented)
	require.Equal(t, renter, token.Renter)
	require.NotNil(t, token.RentalExpiresAt)

	rentals, err := m.TradeCount("rental")
	require.NoError(t, err)
	require.Equal(t, int64(1), rentals)

	require.NoError(t, l.EndRental(id, renter))
	token, err = m.Token(id)
	require.NoError(t, err)
	require.False(t, token.Rented)
	require.Empty(t, token.Renter)
}

func TestMirrorDelist(t *testing.T) {
	l, _, m := newMirroredLedger(t)

	id, err := l.Mint(creator, "ipfs://QmTest", 0)
	require.NoError(t, err)
	require.NoError(t, l.List(id, creator, 1_000_000, 0))
	require.NoError(t, l.Delist(id, creator))

	token, err := m.Token(id)
	require.NoError(t, err)
	require.False(t, token.Listed)
	require.Equal(t, uint64(0), token.SalePrice)

	listed, err := m.ListedTokens()
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestDisplayAmount(t *testing.T) {
	require.Equal(t, "1", displayAmount(1_000_000_000_000_000_000))
	require.Equal(t, "0.025", displayAmount(25_000_000_000_000_000))
	require.Equal(t, "0", displayAmount(0))
}
