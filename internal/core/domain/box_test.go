package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxId(t *testing.T) {
	tests := []struct {
		chain   ChainId
		counter uint64
	}{
		{ChainSepolia, 1},
		{ChainHolesky, 1},
		{ChainHolesky, 42},
		{1, 1<<48 - 1},
	}

	for _, tt := range tests {
		id := NewBoxId(tt.chain, tt.counter)
		require.Equal(t, tt.chain, id.MintChain())
		require.Equal(t, tt.counter, id.Counter())

		parsed, err := ParseBoxId(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	}

	require.NotEqual(t, NewBoxId(ChainSepolia, 1), NewBoxId(ChainHolesky, 1))

	_, err := ParseBoxId("not-a-number")
	require.Error(t, err)
}

func TestBoxLock(t *testing.T) {
	box := NewBox(NewBoxId(ChainHolesky, 1), "alice", ChainHolesky)
	require.True(t, box.IsOriginal)
	require.False(t, box.Locked)
	require.Zero(t, box.Sequence)

	seq, err := box.Lock()
	require.NoError(t, err)
	require.Equal(t, uint64(1), seq)
	require.True(t, box.Locked)

	_, err = box.Lock()
	require.Error(t, err)
	require.Equal(t, uint64(1), box.Sequence)

	box.Unlock()
	seq, err = box.Lock()
	require.NoError(t, err)
	require.Equal(t, uint64(2), seq)
}

func TestShadowBox(t *testing.T) {
	id := NewBoxId(ChainHolesky, 7)
	box := NewShadowBox(id, "bob", ChainHolesky)
	require.False(t, box.IsOriginal)
	require.Equal(t, ChainHolesky, box.OriginChainId)
	require.True(t, box.IsOwnedBy("bob"))
	require.False(t, box.IsOwnedBy("alice"))

	box.TransferTo("alice")
	require.True(t, box.IsOwnedBy("alice"))
}

func TestChainAndPeer(t *testing.T) {
	t.Run("chain id", func(t *testing.T) {
		id, err := ParseChainId("sepolia")
		require.NoError(t, err)
		require.Equal(t, ChainSepolia, id)

		id, err = ParseChainId("10004")
		require.NoError(t, err)
		require.Equal(t, ChainHolesky, id)

		_, err = ParseChainId("0")
		require.Error(t, err)
		_, err = ParseChainId("70000")
		require.Error(t, err)
	})

	t.Run("peer id", func(t *testing.T) {
		require.True(t, ZeroPeer.IsZero())

		peer, err := ParsePeerId("0x5FbDB2315678afecb367f032d93F642f64180aa3")
		require.NoError(t, err)
		require.False(t, peer.IsZero())
		require.Equal(
			t,
			"0000000000000000000000005fbdb2315678afecb367f032d93f642f64180aa3",
			peer.String(),
		)

		roundtrip, err := ParsePeerId(peer.String())
		require.NoError(t, err)
		require.Equal(t, peer, roundtrip)

		_, err = ParsePeerId("zz")
		require.Error(t, err)
		_, err = ParsePeerId(peer.String() + "00")
		require.Error(t, err)
	})
}
