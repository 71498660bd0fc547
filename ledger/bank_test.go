package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryBankTransfer(t *testing.T) {
	b := NewInMemoryBank()
	b.Deposit("alice", 100)

	require.NoError(t, b.Transfer("alice", "bob", 60))
	require.Equal(t, uint64(40), b.Balance("alice"))
	require.Equal(t, uint64(60), b.Balance("bob"))

	require.ErrorIs(t, b.Transfer("alice", "bob", 41), ErrInsufficientFunds)
	require.Equal(t, uint64(40), b.Balance("alice"))
}

func TestInMemoryBankTransferHook(t *testing.T) {
	b := NewInMemoryBank()
	b.Deposit("alice", 100)

	boom := errors.New("boom")
	b.SetTransferHook(func(from, to string, amount uint64) error {
		return boom
	})
	require.ErrorIs(t, b.Transfer("alice", "bob", 10), boom)
	require.Equal(t, uint64(100), b.Balance("alice"))

	b.SetTransferHook(nil)
	require.NoError(t, b.Transfer("alice", "bob", 10))
}
